package jobpool

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/accel/refdriver"
)

func TestNewReadyWithDefaults(t *testing.T) {
	p := New(Config{SlotCount: 8})
	defer p.Close()

	if !p.Ready() {
		t.Fatal("expected pool to be ready with a working driver")
	}
	if p.SlotCount() != 8 {
		t.Fatalf("SlotCount() = %d, want 8", p.SlotCount())
	}
}

func TestNewInitFailureIsPermanent(t *testing.T) {
	p := New(Config{
		SlotCount: 4,
		Driver:    refdriver.New(func(accel.Path) bool { return true }),
	})
	if p.Ready() {
		t.Fatal("expected pool to be unready after driver init failure")
	}
	id, job := p.Acquire()
	if job != nil || id != 0 {
		t.Fatal("expected Acquire on an unready pool to return zero id and nil job")
	}
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := New(Config{SlotCount: 4})
	defer p.Close()

	id, job := p.Acquire()
	if job == nil {
		t.Fatal("expected Acquire to succeed on a fresh pool")
	}
	if id == 0 {
		t.Fatal("expected a nonzero external id (0 is reserved)")
	}
	p.Release(id)

	id2, job2 := p.Acquire()
	if job2 == nil {
		t.Fatal("expected Acquire to succeed again after Release")
	}
	p.Release(id2)
}

func TestAcquireExhaustion(t *testing.T) {
	p := New(Config{SlotCount: 4})
	defer p.Close()

	var ids []uint32
	for i := 0; i < p.SlotCount(); i++ {
		id, job := p.Acquire()
		// Acquire gives up after SlotCount random probes even while a slot
		// is still free, so filling the pool can take more than one call.
		for tries := 0; job == nil && tries < 1000; tries++ {
			id, job = p.Acquire()
		}
		if job == nil {
			t.Fatalf("expected slot %d to be acquirable", i)
		}
		ids = append(ids, id)
	}

	if _, job := p.Acquire(); job != nil {
		t.Fatal("expected Acquire to fail once every slot is held")
	}

	for _, id := range ids {
		p.Release(id)
	}
	if _, job := p.Acquire(); job == nil {
		t.Fatal("expected Acquire to succeed again after releasing all slots")
	}
}

func TestAcquireIdsAreDistinctWhileHeld(t *testing.T) {
	p := New(Config{SlotCount: 16})
	defer p.Close()

	seen := make(map[uint32]bool)
	for i := 0; i < p.SlotCount(); i++ {
		id, job := p.Acquire()
		// Acquire gives up after SlotCount random probes even while a slot
		// is still free, so filling the pool can take more than one call.
		for tries := 0; job == nil && tries < 1000; tries++ {
			id, job = p.Acquire()
		}
		if job == nil {
			t.Fatalf("expected slot %d to be acquirable", i)
		}
		if seen[id] {
			t.Fatalf("id %d acquired twice while still held", id)
		}
		seen[id] = true
	}
}

func TestClosePreventsFurtherAcquire(t *testing.T) {
	p := New(Config{SlotCount: 4})
	p.Close()

	if p.Ready() {
		t.Fatal("expected Ready() to be false after Close")
	}
	if _, job := p.Acquire(); job != nil {
		t.Fatal("expected Acquire to fail after Close")
	}
}

func TestSingletonGetIsSharedAndLazy(t *testing.T) {
	resetSingletonForTest()
	defer resetSingletonForTest()

	p1 := Get()
	p2 := Get()
	if p1 != p2 {
		t.Fatal("expected Get to return the same Pool instance")
	}
}

func TestSingletonGetWithConfigOnlyAppliesOnce(t *testing.T) {
	resetSingletonForTest()
	defer resetSingletonForTest()

	p1 := GetWithConfig(Config{SlotCount: 7})
	if p1.SlotCount() != 7 {
		t.Fatalf("SlotCount() = %d, want 7", p1.SlotCount())
	}
	p2 := GetWithConfig(Config{SlotCount: 99})
	if p2.SlotCount() != 7 {
		t.Fatal("expected second GetWithConfig call to be ignored")
	}
	if p1 != p2 {
		t.Fatal("expected GetWithConfig to return the existing singleton")
	}
}

// TestConcurrentAcquireReleaseLiveness exercises P3: under sustained
// concurrent pressure well past the slot count, every goroutine eventually
// makes progress — no goroutine starves forever waiting on a slot that
// never frees, since holders always release promptly.
func TestConcurrentAcquireReleaseLiveness(t *testing.T) {
	p := New(Config{SlotCount: 8})
	defer p.Close()

	const workers = 64
	const roundsPerWorker = 200

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for r := 0; r < roundsPerWorker; r++ {
				var id uint32
				var job accel.Job
				for job == nil {
					id, job = p.Acquire()
				}
				p.Release(id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConcurrentAcquireReleaseWithContext(t *testing.T) {
	p := New(Config{SlotCount: 8})
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < 16; w++ {
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				var id uint32
				var job accel.Job
				for job == nil {
					id, job = p.Acquire()
				}
				p.Release(id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
