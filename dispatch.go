package iaadeflate

import (
	"sync/atomic"

	"github.com/intel/iaa-deflate/accel/refdriver"
	"github.com/intel/iaa-deflate/compress/flate"
	"github.com/intel/iaa-deflate/hwcodec"
	"github.com/intel/iaa-deflate/jobpool"
	"github.com/intel/iaa-deflate/swcodec"
)

// MethodByte identifies this codec's wire format to an external framing
// layer. The payload itself is standard DEFLATE; any conformant inflater
// can decompress it without knowing this byte exists. Out of scope: the
// registry that would map this byte to a codec factory (spec.md §1).
const MethodByte byte = 0xC7

// MaxCompressedLen returns the zlib worst-case bound from spec.md §6:
// n + n/4096 + n/16384 + n/33554432 + 13. Callers size compression
// destination buffers with this.
func MaxCompressedLen(n int) int {
	return n + n/4096 + n/16384 + n/33554432 + 13
}

// Codec is the public dispatch codec: it chooses, per call, between the
// hardware and software paths and orchestrates fallback. Grounded on
// ClickHouse's CompressionCodecDeflateQpl.
type Codec struct {
	hw *hwcodec.Codec
	sw *swcodec.Codec

	mode atomic.Int32
}

// New constructs a Codec. The first Codec constructed in the process also
// lazily builds the process-wide job pool; WithSlotCount/WithDriver only
// affect the pool on that first construction. WithDriver also sets the
// driver of this Codec's software codec.
func New(opts ...Option) *Codec {
	cfg := config{mode: Synchronous}
	for _, opt := range opts {
		opt(&cfg)
	}

	var pool *jobpool.Pool
	if cfg.slotCount > 0 || cfg.driver != nil {
		pc := jobpool.Config{SlotCount: cfg.slotCount}
		if cfg.driver != nil {
			pc.Driver = cfg.driver
		}
		pool = jobpool.GetWithConfig(pc)
	} else {
		pool = jobpool.Get()
	}

	var sw *swcodec.Codec
	if cfg.driver != nil {
		sw = swcodec.NewWithDriver(cfg.driver)
	} else {
		sw = swcodec.NewWithDriver(refdriver.New(nil))
	}

	c := &Codec{
		hw: hwcodec.NewWithPool(pool),
		sw: sw,
	}
	c.mode.Store(int32(cfg.mode))
	return c
}

// Ready reports whether the hardware path is available for this Codec's
// pool. A false result is permanent for the process (invariant I1).
func (c *Codec) Ready() bool {
	return c.hw.Ready()
}

// Mode returns the codec's current decompression dispatch mode.
func (c *Codec) Mode() Mode {
	return Mode(c.mode.Load())
}

// SetMode changes the decompression dispatch mode used by subsequent
// Decompress calls.
func (c *Codec) SetMode(m Mode) {
	c.mode.Store(int32(m))
}

// Compress writes the DEFLATE compression of src into dst and returns the
// number of bytes written. dst must be at least MaxCompressedLen(len(src))
// bytes. Hardware is tried first when the pool is ready; any refusal falls
// back to software, whose failure (if any) is returned as a typed
// *ferrors.Error — there is no further fallback past software.
func (c *Codec) Compress(src, dst []byte) (int, error) {
	if c.hw.Ready() {
		if n, err := c.hw.Compress(src, dst, flate.DefaultCompression); err == nil {
			return n, nil
		}
	}
	return c.sw.Compress(src, dst, flate.DefaultCompression)
}

// Decompress writes the decompression of src into dst (whose length is the
// expected uncompressed size), per the current Mode. The software path
// returns the number of bytes written; a hardware path returns len(dst),
// and a hardware job failure observed while draining is logged, not
// returned:
//
//   - Synchronous submits to hardware and immediately drains, falling back
//     to software if submit itself is refused.
//   - Asynchronous submits and returns without draining; the caller must
//     call Drain before reading dst. A software fallback on submit refusal
//     is already complete by the time Decompress returns.
//   - SoftwareFallback never touches hardware.
func (c *Codec) Decompress(src, dst []byte) (int, error) {
	switch c.Mode() {
	case SoftwareFallback:
		return c.sw.Decompress(src, dst)

	case Asynchronous:
		if c.hw.Ready() {
			if _, err := c.hw.SubmitDecompress(src, dst); err == nil {
				return len(dst), nil
			}
		}
		return c.sw.Decompress(src, dst)

	default: // Synchronous
		if c.hw.Ready() {
			if _, err := c.hw.SubmitDecompress(src, dst); err == nil {
				c.hw.Drain()
				return len(dst), nil
			}
		}
		return c.sw.Decompress(src, dst)
	}
}

// Drain polls every outstanding asynchronous decompression on this Codec to
// completion and resets Mode to Synchronous — a checkpoint after which the
// instance behaves synchronously until its owner opts back into
// Asynchronous mode.
func (c *Codec) Drain() {
	if c.hw.Ready() {
		c.hw.Drain()
	}
	c.SetMode(Synchronous)
}

// Close releases this Codec's resources. It does not tear down the
// process-wide job pool, which may be shared by other Codec instances.
func (c *Codec) Close() {
	c.hw.Close()
	c.sw.Close()
}
