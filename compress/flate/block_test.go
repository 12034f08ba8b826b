// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package flate

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCompressBlockDecompressBlockRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":  {},
		"single": []byte("A"),
		"text":   []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly"),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			dst := make([]byte, len(src)+256)
			n, err := CompressBlock(dst, src, DefaultCompression)
			if err != nil {
				t.Fatalf("CompressBlock: %v", err)
			}
			out := make([]byte, len(src))
			m, err := DecompressBlock(out, dst[:n])
			if err != nil {
				t.Fatalf("DecompressBlock: %v", err)
			}
			if m != len(src) || !bytes.Equal(out[:m], src) {
				t.Fatalf("round trip mismatch: got %q want %q", out[:m], src)
			}
		})
	}
}

func TestCompressBlockZeros(t *testing.T) {
	src := make([]byte, 64*1024)
	dst := make([]byte, len(src)+256)
	n, err := CompressBlock(dst, src, DefaultCompression)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if n > 256 {
		t.Fatalf("expected highly repetitive input to compress small, got %d bytes", n)
	}
	out := make([]byte, len(src))
	m, err := DecompressBlock(out, dst[:n])
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatal("zeros round trip mismatch")
	}
}

func TestCompressBlockRandom(t *testing.T) {
	src := make([]byte, 64*1024)
	rand.Read(src)
	dst := make([]byte, len(src)+256)
	n, err := CompressBlock(dst, src, DefaultCompression)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	bound := len(src) + len(src)/4096 + len(src)/16384 + len(src)/33554432 + 13
	if n > bound {
		t.Fatalf("compressed size %d exceeds worst-case bound %d", n, bound)
	}
	out := make([]byte, len(src))
	m, err := DecompressBlock(out, dst[:n])
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatal("random round trip mismatch")
	}
}

func TestCompressBlockShortBuffer(t *testing.T) {
	src := make([]byte, 64*1024)
	rand.Read(src)
	dst := make([]byte, 4)
	if _, err := CompressBlock(dst, src, DefaultCompression); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
