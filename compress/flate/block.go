// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package flate

import (
	"bytes"
	"errors"
	"io"
)

// ErrShortBuffer is returned by CompressBlock when dst is too small to hold
// the compressed output. Callers should size dst with a worst-case bound
// (see the dispatch codec's MaxCompressedLen) rather than retrying.
var ErrShortBuffer = errors.New("flate: destination buffer too small")

// CompressBlock compresses all of src into dst in one call and returns the
// number of bytes written. It exists because Writer/Reader are streaming
// APIs; the accelerator job model this package's callers route around
// operates on one whole buffer per call (flags FIRST|LAST), and this is
// the software-path equivalent of that contract. When the coded stream comes
// out larger than src, src is re-encoded as stored blocks and the shorter of
// the two streams is returned.
func CompressBlock(dst, src []byte, level int) (int, error) {
	var buf bytes.Buffer
	buf.Grow(len(dst))
	w, err := NewWriter(&buf, level)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(src); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	out := buf.Bytes()
	if len(src) > 0 && len(out) > len(src) {
		// Incompressible input: stored blocks stay within the worst-case
		// bound where a Huffman-coded stream can exceed it.
		var stored bytes.Buffer
		if sw, err := NewWriter(&stored, NoCompression); err == nil {
			if _, err := sw.Write(src); err == nil && sw.Close() == nil && stored.Len() < len(out) {
				out = stored.Bytes()
			}
		}
	}
	if len(out) > len(dst) {
		return 0, ErrShortBuffer
	}
	n := copy(dst, out)
	return n, nil
}

// DecompressBlock decompresses src into dst in one call, stopping when
// len(dst) bytes have been written or the stream ends, and returns the
// number of bytes written. Like
// CompressBlock, this is the buffer-at-once counterpart to the streaming
// Reader.
func DecompressBlock(dst, src []byte) (int, error) {
	r := NewReader(bytes.NewReader(src))
	defer r.Close()
	n := 0
	for n < len(dst) {
		m, err := r.Read(dst[n:])
		n += m
		if err != nil {
			if err == io.EOF {
				break
			}
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}
