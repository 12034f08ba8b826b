// Package jobpool implements the process-wide pool of accelerator job
// slots: a fixed-size array of driver-allocated jobs guarded by per-slot
// atomic locks, admitting callers via randomized CAS probing rather than a
// queue. It is grounded on ClickHouse's DeflateQplJobHWPool: same
// construction algorithm, same random-probe acquire, same id encoding
// (N - index), same spin-wait teardown.
package jobpool

import (
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/accel/refdriver"
	"github.com/intel/iaa-deflate/internal/obslog"
)

// DefaultSlotCount is N from spec.md §3: chosen to exceed the number of
// concurrent submitters a single host is expected to support.
const DefaultSlotCount = 1024

// Config selects the slot count and the driver a Pool is built against.
// The zero Config is valid and resolves to DefaultSlotCount and a
// refdriver.Driver — production code overriding Driver only needs to do so
// once, before the first call to Get.
type Config struct {
	SlotCount int
	Driver    accel.Driver
}

func (c Config) withDefaults() Config {
	if c.SlotCount <= 0 {
		c.SlotCount = DefaultSlotCount
	}
	if c.Driver == nil {
		c.Driver = refdriver.New(nil)
	}
	return c
}

// Pool is the process-wide job-slot pool described in spec.md §3-4.B. There
// is exactly one live Pool per Config in practice — see Get/GetWithConfig —
// but the type itself holds no hidden global state, so tests are free to
// construct additional Pools directly via New for isolation.
type Pool struct {
	n      int
	driver accel.Driver

	slots []accel.Job
	locks []atomic.Bool

	ready atomic.Bool
}

// New constructs a Pool eagerly: it allocates and initializes every slot
// immediately rather than lazily on first access. Most callers should use
// Get/GetWithConfig for the lazy, process-wide singleton instead; New is for
// tests that want several independent pools in one process.
func New(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	p := &Pool{
		n:      cfg.SlotCount,
		driver: cfg.Driver,
		slots:  make([]accel.Job, cfg.SlotCount),
		locks:  make([]atomic.Bool, cfg.SlotCount),
	}

	for i := 0; i < p.n; i++ {
		job, err := p.driver.NewJob(accel.Hardware)
		if err != nil {
			obslog.Get().Warn("accelerator job pool initialization failed, falling back to software path",
				"slot", i, "error", err)
			p.ready.Store(false)
			return p
		}
		p.slots[i] = job
	}
	p.ready.Store(true)
	obslog.Get().Debug("accelerator job pool ready", "slots", p.n)
	return p
}

var (
	singletonOnce sync.Once
	singleton     *Pool
)

// Get returns the process-wide Pool, lazily constructing it on first call
// with DefaultSlotCount and the reference driver. Safe for concurrent use.
func Get() *Pool {
	singletonOnce.Do(func() {
		singleton = New(Config{})
	})
	return singleton
}

// GetWithConfig is like Get but, on the very first call anywhere in the
// process, builds the singleton with cfg instead of the defaults. Calls
// after the singleton already exists ignore cfg and return the existing
// Pool — configuration is one-shot, matching the original's static
// construction. Production code never needs this; it exists so tests can
// wire a pool to a limited slot count or a failure-injecting driver.
func GetWithConfig(cfg Config) *Pool {
	singletonOnce.Do(func() {
		singleton = New(cfg)
	})
	return singleton
}

// resetSingletonForTest tears down and forgets the process-wide pool so the
// next Get/GetWithConfig call builds a fresh one. It is only reachable from
// this package's own tests.
func resetSingletonForTest() {
	if singleton != nil {
		singleton.Close()
	}
	singleton = nil
	singletonOnce = sync.Once{}
}

// Ready reports whether every slot initialized successfully. Once false, it
// never becomes true for the lifetime of this Pool (invariant I1).
func (p *Pool) Ready() bool {
	return p.ready.Load()
}

// SlotCount returns N, the number of slots this Pool was built with.
func (p *Pool) SlotCount() int {
	return p.n
}

// Acquire attempts to admit the caller to a free slot via randomized CAS
// probing, exactly as spec.md §4.B describes. It returns a zero id and a
// nil job if the pool is not ready or exhausted after N probes — both are
// ordinary, expected outcomes the caller is meant to treat as "fall back to
// software", not as errors.
func (p *Pool) Acquire() (id uint32, j accel.Job) {
	if !p.ready.Load() {
		return 0, nil
	}
	for attempt := 0; attempt < p.n; attempt++ {
		i := rand.IntN(p.n)
		if p.locks[i].CompareAndSwap(false, true) {
			return uint32(p.n - i), p.slots[i]
		}
	}
	return 0, nil
}

// Release returns the slot identified by id to the pool. id must have come
// from a successful Acquire on this Pool and must not have already been
// released — the caller is the sole owner of the lock until it calls
// Release (invariant I3), so no CAS is needed here.
func (p *Pool) Release(id uint32) {
	i := p.n - int(id)
	p.locks[i].Store(false)
}

// Close tears the pool down: every slot is spin-acquired, finalized via the
// driver, and released, after which Ready permanently reports false. Close
// is optional — nothing in this module calls it automatically, since Go has
// no guaranteed static-destruction order to rely on the way the original's
// C++ singleton did; callers that manage process lifecycle (most commonly a
// test's TestMain) call it explicitly.
func (p *Pool) Close() {
	for i := 0; i < p.n; i++ {
		for !p.locks[i].CompareAndSwap(false, true) {
			runtime.Gosched()
		}
		if p.slots[i] != nil {
			p.slots[i].Finalize()
			p.slots[i] = nil
		}
		p.locks[i].Store(false)
	}
	p.ready.Store(false)
}

// IdlePause is the bounded, low-power wait drain loops use between
// unproductive passes. The original spins on a CPU pause intrinsic
// (_tpause + __rdtsc); runtime.Gosched is the portable substitute spec.md
// §9 invites, escalating to a short sleep after enough fruitless passes
// that a hardware job is plausibly still genuinely running rather than the
// goroutine merely losing the scheduler race.
func IdlePause(pass int) {
	if pass < 64 {
		runtime.Gosched()
		return
	}
	time.Sleep(50 * time.Microsecond)
}
