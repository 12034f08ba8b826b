// Package accel defines the minimal abstraction this module requires from
// an accelerator library: allocate/init/finalize a job, submit, poll, and
// execute-synchronously. The pool and the hardware/software codecs are
// written against this interface only — nothing in this module links
// against a real accelerator driver. A production build supplies one
// (for example, a cgo binding shaped like Intel's QATzip Go bindings) by
// implementing Driver and passing it to jobpool.GetWithConfig or
// iaadeflate.WithDriver.
package accel

// Path selects which execution engine a job runs on. The pool always asks
// for Hardware; the software codec always asks for Software. The driver is
// free to implement both paths however it likes — the pool is oblivious to
// what a Job actually does.
type Path int

const (
	Hardware Path = iota
	Software
)

func (p Path) String() string {
	if p == Software {
		return "software"
	}
	return "hardware"
}

// Op is the operation a Job is configured to perform.
type Op int

const (
	OpCompress Op = iota
	OpDecompress
)

// Flag mirrors the QPL_FLAG_* bits from the original accelerator: whole
// buffer in one call (FIRST|LAST), dynamic Huffman tables for compression,
// and skipping the accelerator's own output-verification pass (the caller
// verifies correctness by round-tripping in tests, not on every call).
type Flag uint32

const (
	FlagFirst Flag = 1 << iota
	FlagLast
	FlagDynamicHuffman
	FlagOmitVerify
)

// CompressFlags and DecompressFlags are the exact flag sets spec.md §6
// requires for whole-buffer-at-once operation.
const (
	CompressFlags   = FlagFirst | FlagLast | FlagDynamicHuffman | FlagOmitVerify
	DecompressFlags = FlagFirst | FlagLast
)

// Status is the terminal (or in-progress) outcome of a Job.
type Status int

const (
	// OK means the job completed successfully; TotalOut is valid.
	OK Status = iota
	// BeingProcessed is returned by Poll while an asynchronous job is
	// still running. It is never returned by Execute, which blocks.
	BeingProcessed
	// Error means the job failed; Code carries the driver-specific reason.
	Error
)

// Job is one configured unit of work bound to a driver-allocated slot. The
// pool acquires a Job (by asking the driver for one through the slot
// array), configures it once per call, and releases it — the same Job
// value is reused across many operations for the lifetime of the pool.
type Job interface {
	// Configure sets up the job for one compress or decompress call. It
	// must be called before every Execute or Submit.
	Configure(op Op, in, out []byte, flags Flag, level int)
	// Execute runs the configured operation to completion, blocking.
	Execute() (Status, int)
	// Submit starts the configured operation asynchronously and returns
	// immediately.
	Submit() Status
	// Poll returns BeingProcessed while a submitted job is still running,
	// otherwise a terminal Status.
	Poll() Status
	// TotalOut returns the number of bytes written to the output buffer
	// after a terminal Status has been observed via Execute or Poll.
	TotalOut() int
	// Finalize releases any driver-side resources held by this job. It is
	// called once, when the slot is permanently retired (pool teardown or
	// software codec disposal) — never between operations.
	Finalize()
}

// Driver allocates and initializes Jobs for a given Path. A Driver must be
// safe for concurrent use by multiple goroutines calling NewJob.
type Driver interface {
	// NewJob allocates and initializes one job bound to path. It returns an
	// error if the accelerator cannot be prepared for that path — the pool
	// treats an Init failure on any slot as permanent unavailability for
	// the Hardware path; the software codec propagates it as a typed
	// failure since there is no further fallback.
	NewJob(path Path) (Job, error)
}
