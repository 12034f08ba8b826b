// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

//go:build !amd64 || !fastgoasm
// +build !amd64 !fastgoasm

package flate

// decodeHuffman is the portable fallback used whenever the assembly-accelerated
// arch-level decoder (built with -tags fastgoasm on amd64) is not compiled in.
func decodeHuffman(state *inflate, output []byte, written int) (w int, err error) {
	return decodeHuffmanLargeLoop(state, output, written)
}
