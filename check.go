// Package iaadeflate provides a DEFLATE codec that offloads work to a
// fixed-capacity pool of accelerator job slots and falls back to a
// pure-Go software path when the accelerator is unavailable, exhausted,
// or fails. Both paths produce standard, bit-compatible DEFLATE.
package iaadeflate

import "github.com/intel/iaa-deflate/internal/cpu"

// SIMDOptimized reports whether the software DEFLATE path is running with
// Intel-specific SIMD optimizations (built with -tags fastgoasm on amd64).
// It has no bearing on whether the hardware accelerator path is available;
// see Codec.Ready for that.
func SIMDOptimized() bool {
	return cpu.ArchLevel > 0
}
