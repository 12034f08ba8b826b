// Package swcodec implements the software fallback path: a single,
// lazily-allocated job per codec instance, executed synchronously. It is
// the last line of defense — a failure here has no further fallback, so
// unlike hwcodec it returns a typed *ferrors.Error rather than a sentinel
// refusal. Grounded on ClickHouse's SoftwareCodecDeflateQpl.
package swcodec

import (
	"sync"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/accel/refdriver"
	"github.com/intel/iaa-deflate/ferrors"
)

// Codec is one software-codec instance. It is not pooled — software has no
// concurrency amplifier to justify pooling its single job — but it is safe
// for concurrent use: callers sharing a Codec across goroutines simply
// serialize behind its internal lock rather than each allocating their own
// job.
type Codec struct {
	driver accel.Driver

	mu  sync.Mutex
	job accel.Job
}

// New returns a Codec using the default reference driver.
func New() *Codec {
	return &Codec{driver: refdriver.New(nil)}
}

// NewWithDriver is like New but binds to an explicit accel.Driver — used by
// tests and by any deployment plugging in a real software DEFLATE binding
// distinct from the hardware one.
func NewWithDriver(d accel.Driver) *Codec {
	return &Codec{driver: d}
}

func (c *Codec) getJob() (accel.Job, error) {
	if c.job == nil {
		j, err := c.driver.NewJob(accel.Software)
		if err != nil {
			return nil, err
		}
		c.job = j
	}
	return c.job, nil
}

// Compress runs one synchronous software compression. dst must be sized to
// hold the worst case; see the dispatch codec's MaxCompressedLen.
func (c *Codec) Compress(src, dst []byte, level int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, err := c.getJob()
	if err != nil {
		return 0, ferrors.New(ferrors.CannotCompress, -1, err)
	}
	job.Configure(accel.OpCompress, src, dst, accel.CompressFlags, level)
	status, n := job.Execute()
	if status != accel.OK {
		return 0, ferrors.New(ferrors.CannotCompress, int(status), nil)
	}
	return n, nil
}

// Decompress runs one synchronous software decompression.
func (c *Codec) Decompress(src, dst []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, err := c.getJob()
	if err != nil {
		return 0, ferrors.New(ferrors.CannotDecompress, -1, err)
	}
	job.Configure(accel.OpDecompress, src, dst, accel.DecompressFlags, 0)

	status, n := job.Execute()
	if status != accel.OK {
		return 0, ferrors.New(ferrors.CannotDecompress, int(status), nil)
	}
	return n, nil
}

// Close finalizes the lazily-allocated job, if one was ever created.
func (c *Codec) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.job != nil {
		c.job.Finalize()
		c.job = nil
	}
}
