package iaadeflate

import "github.com/intel/iaa-deflate/accel"

// Mode is the per-decompression dispatch policy a Codec instance uses,
// matching spec.md §3's CodecMode enumeration exactly.
type Mode int

const (
	// Synchronous submits asynchronously and immediately drains, so the
	// caller observes the same behavior as a blocking hardware call while
	// the codec internally reuses the Asynchronous code path. This is the
	// default.
	Synchronous Mode = iota
	// Asynchronous submits and returns; the caller must invoke Drain
	// before reading the output buffer.
	Asynchronous
	// SoftwareFallback never attempts hardware for decompression.
	SoftwareFallback
)

func (m Mode) String() string {
	switch m {
	case Asynchronous:
		return "asynchronous"
	case SoftwareFallback:
		return "software-fallback"
	default:
		return "synchronous"
	}
}

// Option configures a Codec at construction time, following the
// functional-options pattern used throughout this codebase's domain stack.
type Option func(*config)

type config struct {
	mode      Mode
	slotCount int
	driver    accel.Driver
}

// WithMode sets the initial decompression dispatch mode. Default
// Synchronous.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithSlotCount overrides the process-wide job pool's slot count. It only
// has an effect the first time any Codec in the process is constructed —
// the pool is a lazily-initialized singleton, matching spec.md §9's
// "global pool as process-wide state".
func WithSlotCount(n int) Option {
	return func(c *config) { c.slotCount = n }
}

// WithDriver overrides the accel.Driver backing both the hardware job pool
// and the software codec's job. Like WithSlotCount, its effect on the job
// pool only applies to the first Codec constructed in the process; the
// software codec of every Codec built with it uses d. Production code plugs a
// real accelerator binding in here; tests plug in a failure-injecting
// refdriver.Driver.
func WithDriver(d accel.Driver) Option {
	return func(c *config) { c.driver = d }
}
