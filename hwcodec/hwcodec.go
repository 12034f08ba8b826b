// Package hwcodec implements the hardware-path half of the dispatch codec:
// synchronous compress and asynchronous submit-then-drain decompress,
// built on top of jobpool. It is grounded on ClickHouse's
// HardwareCodecDeflateQpl.
package hwcodec

import (
	"sync"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/internal/obslog"
	"github.com/intel/iaa-deflate/jobpool"
)

// ErrRefused is returned by Compress and SubmitDecompress whenever the
// hardware path could not take the job — pool not ready, pool exhausted, or
// the accelerator itself reported a non-OK status. Every case is a refusal
// the dispatch codec is expected to recover from by falling back to
// software; its Reason is descriptive only, because none of its causes
// call for different caller behavior.
type ErrRefused struct {
	Reason string
}

func (e *ErrRefused) Error() string { return "hwcodec: refused: " + e.Reason }

var errExhausted = &ErrRefused{Reason: "pool not ready or exhausted"}

// Codec is one hardware-codec instance. It is not safe for concurrent
// method calls by design parity with the original ("not thread-safe across
// methods on the same instance"); unlike the original, its in-flight map is
// internally mutex-guarded (see DESIGN.md's open-question resolution),
// so concurrent Submit/Drain calls on the same instance cannot corrupt the
// map, even though the dispatch layer is still expected to serialize calls
// for a coherent view of in-flight work.
type Codec struct {
	pool *jobpool.Pool

	mu       sync.Mutex
	inflight map[uint32]accel.Job // external job id -> held slot's job
}

// New returns a Codec bound to the process-wide job pool.
func New() *Codec {
	return &Codec{
		pool:     jobpool.Get(),
		inflight: make(map[uint32]accel.Job),
	}
}

// NewWithPool is like New but binds to an explicit Pool — used by tests
// that construct an isolated pool rather than the process-wide singleton.
func NewWithPool(p *jobpool.Pool) *Codec {
	return &Codec{
		pool:     p,
		inflight: make(map[uint32]accel.Job),
	}
}

// Ready reports whether the underlying pool initialized successfully.
func (c *Codec) Ready() bool {
	return c.pool.Ready()
}

// Compress runs one synchronous hardware compression. dst must be sized to
// hold the worst case (see the dispatch codec's MaxCompressedLen) since the
// accelerator, like real DEFLATE hardware, does not grow its own output
// buffer. It returns ErrRefused — never a typed failure — on any problem;
// the caller falls back to software.
func (c *Codec) Compress(src, dst []byte, level int) (int, error) {
	id, job := c.pool.Acquire()
	if job == nil {
		obslog.Get().Warn("hardware compress refused: pool exhausted or not ready")
		return 0, errExhausted
	}
	defer c.pool.Release(id)

	job.Configure(accel.OpCompress, src, dst, accel.CompressFlags, level)
	status, n := job.Execute()
	if status != accel.OK {
		obslog.Get().Warn("hardware compress failed", "status", status)
		return 0, &ErrRefused{Reason: "accelerator execute failed"}
	}
	return n, nil
}

// SubmitDecompress starts one asynchronous hardware decompression and
// returns an external job id the caller later passes to Drain. Like
// Compress, any failure to admit or start the job is reported as
// ErrRefused so the dispatch codec can fall back to software.
func (c *Codec) SubmitDecompress(src, dst []byte) (uint32, error) {
	id, job := c.pool.Acquire()
	if job == nil {
		obslog.Get().Warn("hardware decompress refused: pool exhausted or not ready")
		return 0, errExhausted
	}

	job.Configure(accel.OpDecompress, src, dst, accel.DecompressFlags, 0)
	if status := job.Submit(); status != accel.OK {
		c.pool.Release(id)
		obslog.Get().Warn("hardware decompress submit failed", "status", status)
		return 0, &ErrRefused{Reason: "accelerator submit failed"}
	}

	c.mu.Lock()
	c.inflight[id] = job
	c.mu.Unlock()
	return id, nil
}

// Drain polls every in-flight decompression to completion and releases its
// slot. It returns once the in-flight map is empty; it never blocks
// indefinitely on one slot while others are ready, per spec.md §4.C.
func (c *Codec) Drain() {
	pass := 0
	for {
		c.mu.Lock()
		if len(c.inflight) == 0 {
			c.mu.Unlock()
			return
		}
		progressed := false
		for id, job := range c.inflight {
			status := job.Poll()
			if status == accel.BeingProcessed {
				continue
			}
			if status != accel.OK {
				obslog.Get().Warn("hardware decompress failed during drain", "job", id, "status", status)
			}
			c.pool.Release(id)
			delete(c.inflight, id)
			progressed = true
		}
		empty := len(c.inflight) == 0
		c.mu.Unlock()
		if empty {
			return
		}
		if progressed {
			pass = 0
		} else {
			pass++
			jobpool.IdlePause(pass)
		}
	}
}

// InflightCount reports how many decompressions are currently submitted but
// not yet drained. It exists for tests asserting drain completeness (P4).
func (c *Codec) InflightCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// Close asserts, in debug builds, that every in-flight job has already been
// drained (invariant I4); in release builds it logs and best-effort
// releases every outstanding slot without waiting for completion, mirroring
// the original's (possibly intentional, possibly not — see DESIGN.md)
// release-build destructor behavior.
func (c *Codec) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inflight) == 0 {
		return
	}
	assertDrained(len(c.inflight))
	obslog.Get().Warn("hardware codec closed with jobs still in-flight; releasing without waiting for completion", "count", len(c.inflight))
	for id := range c.inflight {
		c.pool.Release(id)
	}
	c.inflight = make(map[uint32]accel.Job)
}
