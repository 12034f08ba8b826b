// Package ferrors defines the typed failures the software codec raises
// when the last line of defense itself fails. Hardware-path failures never
// reach this type — they are recovered by falling back to software, per
// the dispatch codec's policy.
package ferrors

import (
	"errors"
	"fmt"
)

// Kind identifies which software operation failed.
type Kind int

const (
	// CannotCompress means the software compressor's driver job reported a
	// non-OK status.
	CannotCompress Kind = iota
	// CannotDecompress means the software decompressor's driver job
	// reported a non-OK status.
	CannotDecompress
)

func (k Kind) String() string {
	switch k {
	case CannotCompress:
		return "CANNOT_COMPRESS"
	case CannotDecompress:
		return "CANNOT_DECOMPRESS"
	default:
		return "UNKNOWN"
	}
}

// Error is the typed, unrecoverable failure of the software codec. It
// carries the underlying driver status code so callers (and logs) can
// report what the accelerator library actually said.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: status=%d: %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: status=%d", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a *Error of the given kind, driver status, and wrapped cause.
func New(kind Kind, status int, err error) *Error {
	return &Error{Kind: kind, Status: status, Err: err}
}

// Is reports whether err, or any error it wraps, is a *Error of kind k.
func Is(err error, k Kind) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == k
}
