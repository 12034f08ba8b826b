package hwcodec

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/accel/refdriver"
	"github.com/intel/iaa-deflate/compress/flate"
	"github.com/intel/iaa-deflate/jobpool"
)

func newReadyCodec(t *testing.T, slots int) *Codec {
	t.Helper()
	p := jobpool.New(jobpool.Config{SlotCount: slots})
	t.Cleanup(p.Close)
	return NewWithPool(p)
}

func TestCompressSynchronous(t *testing.T) {
	c := newReadyCodec(t, 4)
	src := []byte("synchronous hardware compression round trips through the same engine as software")
	dst := make([]byte, len(src)+256)

	n, err := c.Compress(src, dst, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	out := make([]byte, len(src))
	m, err := flate.DecompressBlock(out, dst[:n])
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressRefusedWhenNotReady(t *testing.T) {
	p := jobpool.New(jobpool.Config{
		SlotCount: 4,
		Driver:    refdriver.New(func(accel.Path) bool { return true }),
	})
	defer p.Close()
	c := NewWithPool(p)

	if c.Ready() {
		t.Fatal("expected codec to report not-ready when pool init failed")
	}
	_, err := c.Compress([]byte("x"), make([]byte, 256), flate.DefaultCompression)
	if err == nil {
		t.Fatal("expected ErrRefused")
	}
	if _, ok := err.(*ErrRefused); !ok {
		t.Fatalf("expected *ErrRefused, got %T", err)
	}
}

func TestSubmitDecompressAndDrain(t *testing.T) {
	c := newReadyCodec(t, 4)
	src := make([]byte, 32*1024)
	rand.Read(src)
	cdst := make([]byte, len(src)+256)
	n, err := c.Compress(src, cdst, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	out := make([]byte, len(src))
	id, err := c.SubmitDecompress(cdst[:n], out)
	if err != nil {
		t.Fatalf("SubmitDecompress: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a nonzero job id")
	}
	if c.InflightCount() != 1 {
		t.Fatalf("InflightCount() = %d, want 1", c.InflightCount())
	}

	c.Drain()
	if c.InflightCount() != 0 {
		t.Fatalf("InflightCount() after Drain = %d, want 0", c.InflightCount())
	}
	if !bytes.Equal(out, src) {
		t.Fatal("decompressed output mismatch after drain")
	}
}

func TestDrainManyConcurrentSubmissions(t *testing.T) {
	const batches = 16
	// Every SubmitDecompress below holds its slot until the single Drain
	// at the end, so the pool needs room for all of them plus the one
	// Compress momentarily borrows each iteration.
	c := newReadyCodec(t, 2*batches)

	srcs := make([][]byte, batches)
	outs := make([][]byte, batches)
	for i := range srcs {
		srcs[i] = bytes.Repeat([]byte{byte(i)}, 4096)
		cdst := make([]byte, len(srcs[i])+256)
		n, err := c.Compress(srcs[i], cdst, flate.DefaultCompression)
		if err != nil {
			t.Fatalf("Compress batch %d: %v", i, err)
		}
		outs[i] = make([]byte, len(srcs[i]))
		if _, err := c.SubmitDecompress(cdst[:n], outs[i]); err != nil {
			t.Fatalf("SubmitDecompress batch %d: %v", i, err)
		}
	}

	c.Drain()

	for i := range srcs {
		if !bytes.Equal(outs[i], srcs[i]) {
			t.Fatalf("batch %d mismatch", i)
		}
	}
}

func TestCloseWithEmptyInflightIsQuiet(t *testing.T) {
	c := newReadyCodec(t, 2)
	c.Close() // must not panic in either build configuration
}

func TestCloseReleasesOutstandingSlotsInReleaseBuild(t *testing.T) {
	c := newReadyCodec(t, 2)
	src := []byte("outstanding job at close time")
	cdst := make([]byte, len(src)+256)
	n, err := c.Compress(src, cdst, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out := make([]byte, len(src))
	if _, err := c.SubmitDecompress(cdst[:n], out); err != nil {
		t.Fatalf("SubmitDecompress: %v", err)
	}

	// In the default (release) build, Close must not hang or panic even
	// though a job is still in-flight; see assert_release.go. Under
	// -tags iaadebug this call would panic instead (assert_debug.go) —
	// that path is exercised by assert_debug_test.go.
	c.Close()
	if c.InflightCount() != 0 {
		t.Fatal("expected Close to clear the in-flight map")
	}
}
