// Package refdriver is a reference accel.Driver used where this module has
// no real accelerator to bind against: in tests (to exercise the pool's
// submit/poll/drain machinery without physical hardware) and as the engine
// behind the software codec. It is built entirely on this repository's own
// compress/flate package — the same bit-compatible DEFLATE engine a real
// driver would wrap in C or assembly.
//
// A production deployment replaces this with a real binding (for example,
// one shaped like Intel's QATzip Go bindings) passed to jobpool.GetWithConfig
// or iaadeflate.WithDriver; refdriver's Hardware path is a simulation, not a
// substitute for one.
package refdriver

import (
	"sync"
	"sync/atomic"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/compress/flate"
)

// InitFailure, if non-nil, is consulted once per NewJob call and lets tests
// simulate an accelerator that refuses to initialize for a given path (for
// example, to drive jobpool's P6 init-failure-degradation scenario).
type Driver struct {
	InitFailure func(path accel.Path) bool
}

// New returns a Driver whose jobs run against this package's own DEFLATE
// engine. initFailure may be nil, meaning every path initializes
// successfully.
func New(initFailure func(path accel.Path) bool) *Driver {
	return &Driver{InitFailure: initFailure}
}

func (d *Driver) NewJob(path accel.Path) (accel.Job, error) {
	if d.InitFailure != nil && d.InitFailure(path) {
		return nil, errInitFailed
	}
	return &job{path: path}, nil
}

var errInitFailed = jobInitError{}

type jobInitError struct{}

func (jobInitError) Error() string { return "refdriver: simulated job init failure" }

// job implements accel.Job. Both paths run the same compress/decompress
// logic: Execute runs it inline, and Submit runs it on a goroutine that Poll
// observes, so the slot pool has genuinely concurrent, genuinely
// asynchronous work to drain.
type job struct {
	path accel.Path

	op    accel.Op
	in    []byte
	out   []byte
	flags accel.Flag
	level int

	totalOut atomic.Int64

	mu   sync.Mutex
	done chan struct{}
	err  error
}

func (j *job) Configure(op accel.Op, in, out []byte, flags accel.Flag, level int) {
	j.op = op
	j.in = in
	j.out = out
	j.flags = flags
	j.level = level
	j.totalOut.Store(0)
	j.err = nil
}

func (j *job) run() (accel.Status, int) {
	switch j.op {
	case accel.OpCompress:
		n, err := flate.CompressBlock(j.out, j.in, j.level)
		if err != nil {
			return accel.Error, 0
		}
		return accel.OK, n
	case accel.OpDecompress:
		n, err := flate.DecompressBlock(j.out, j.in)
		if err != nil {
			return accel.Error, 0
		}
		return accel.OK, n
	default:
		return accel.Error, 0
	}
}

func (j *job) Execute() (accel.Status, int) {
	status, n := j.run()
	j.totalOut.Store(int64(n))
	return status, n
}

func (j *job) Submit() accel.Status {
	j.mu.Lock()
	j.done = make(chan struct{})
	done := j.done
	j.mu.Unlock()

	go func() {
		status, n := j.run()
		j.totalOut.Store(int64(n))
		j.mu.Lock()
		if status == accel.Error {
			j.err = errJobFailed
		}
		j.mu.Unlock()
		close(done)
	}()
	return accel.OK
}

var errJobFailed = jobRunError{}

type jobRunError struct{}

func (jobRunError) Error() string { return "refdriver: job execution failed" }

func (j *job) Poll() accel.Status {
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()

	if done == nil {
		return accel.Error
	}
	select {
	case <-done:
		// j.err is only written before close(done), so this read happens
		// after that write in the goroutine's program order — re-checking
		// it here, rather than snapshotting it before the select, avoids
		// observing done closed while err has not been set yet.
		j.mu.Lock()
		failed := j.err != nil
		j.mu.Unlock()
		if failed {
			return accel.Error
		}
		return accel.OK
	default:
		return accel.BeingProcessed
	}
}

func (j *job) TotalOut() int {
	return int(j.totalOut.Load())
}

func (j *job) Finalize() {}
