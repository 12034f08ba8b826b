package swcodec

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/accel/refdriver"
	"github.com/intel/iaa-deflate/compress/flate"
	"github.com/intel/iaa-deflate/ferrors"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	c := New()
	defer c.Close()

	src := []byte("software is the last line of defense, so its failures carry a typed reason")
	dst := make([]byte, len(src)+256)

	n, err := c.Compress(src, dst, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	out := make([]byte, len(src))
	m, err := c.Decompress(dst[:n], out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressRandomLargeInput(t *testing.T) {
	c := New()
	defer c.Close()

	src := make([]byte, 256*1024)
	rand.Read(src)
	dst := make([]byte, len(src)+len(src)/4096+len(src)/16384+13)

	n, err := c.Compress(src, dst, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out := make([]byte, len(src))
	m, err := c.Decompress(dst[:n], out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatal("round trip mismatch on random data")
	}
}

func TestJobIsLazilyAllocatedOnce(t *testing.T) {
	c := New()
	defer c.Close()

	if c.job != nil {
		t.Fatal("expected no job allocated before first use")
	}
	if _, err := c.Compress([]byte("a"), make([]byte, 256), flate.DefaultCompression); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	first := c.job
	if first == nil {
		t.Fatal("expected job to be allocated after first Compress")
	}
	if _, err := c.Compress([]byte("b"), make([]byte, 256), flate.DefaultCompression); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if c.job != first {
		t.Fatal("expected the same job to be reused across calls")
	}
}

func TestCompressTypedErrorOnInitFailure(t *testing.T) {
	c := NewWithDriver(refdriver.New(func(accel.Path) bool { return true }))
	_, err := c.Compress([]byte("x"), make([]byte, 256), flate.DefaultCompression)
	if err == nil {
		t.Fatal("expected an error")
	}
	ferr, ok := err.(*ferrors.Error)
	if !ok {
		t.Fatalf("expected *ferrors.Error, got %T", err)
	}
	if ferr.Kind != ferrors.CannotCompress {
		t.Fatalf("Kind = %v, want CannotCompress", ferr.Kind)
	}
}

func TestDecompressTypedErrorOnInitFailure(t *testing.T) {
	c := NewWithDriver(refdriver.New(func(accel.Path) bool { return true }))
	_, err := c.Decompress([]byte("x"), make([]byte, 256))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !ferrors.Is(err, ferrors.CannotDecompress) {
		t.Fatal("expected ferrors.Is to recognize CannotDecompress")
	}
}

func TestCloseFinalizesJobAndAllowsReuse(t *testing.T) {
	c := New()
	if _, err := c.Compress([]byte("a"), make([]byte, 256), flate.DefaultCompression); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	c.Close()
	if c.job != nil {
		t.Fatal("expected Close to clear the lazily-allocated job")
	}
	// A Codec is reusable after Close: the next call lazily allocates again.
	if _, err := c.Compress([]byte("b"), make([]byte, 256), flate.DefaultCompression); err != nil {
		t.Fatalf("Compress after Close: %v", err)
	}
}
