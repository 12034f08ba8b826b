package refdriver

import (
	"bytes"
	"testing"

	"github.com/intel/iaa-deflate/accel"
	"github.com/intel/iaa-deflate/compress/flate"
)

func TestSyncCompressDecompressRoundTrip(t *testing.T) {
	d := New(nil)
	src := []byte("hardware job slots, simulated or not, still need real DEFLATE bytes")

	job, err := d.NewJob(accel.Hardware)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	dst := make([]byte, flate.DefaultCompression+len(src)+256)
	job.Configure(accel.OpCompress, src, dst, accel.CompressFlags, flate.DefaultCompression)
	status, n := job.Execute()
	if status != accel.OK {
		t.Fatalf("compress execute status=%v", status)
	}

	out := make([]byte, len(src))
	job.Configure(accel.OpDecompress, dst[:n], out, accel.DecompressFlags, 0)
	status, m := job.Execute()
	if status != accel.OK {
		t.Fatalf("decompress execute status=%v", status)
	}
	if m != len(src) || !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch: got %q want %q", out[:m], src)
	}
}

func TestAsyncSubmitPoll(t *testing.T) {
	d := New(nil)
	src := []byte("asynchronous decompression must observe output only after a terminal poll")

	cjob, _ := d.NewJob(accel.Hardware)
	dst := make([]byte, len(src)+256)
	cjob.Configure(accel.OpCompress, src, dst, accel.CompressFlags, flate.DefaultCompression)
	_, n := cjob.Execute()

	job, err := d.NewJob(accel.Hardware)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	out := make([]byte, len(src))
	job.Configure(accel.OpDecompress, dst[:n], out, accel.DecompressFlags, 0)
	if status := job.Submit(); status != accel.OK {
		t.Fatalf("submit status=%v", status)
	}

	deadline := 0
	for job.Poll() == accel.BeingProcessed {
		deadline++
		if deadline > 10_000_000 {
			t.Fatal("poll never reached a terminal status")
		}
	}
	if job.Poll() != accel.OK {
		t.Fatalf("expected OK after terminal poll, got %v", job.Poll())
	}
	if job.TotalOut() != len(src) || !bytes.Equal(out[:job.TotalOut()], src) {
		t.Fatalf("async round trip mismatch: got %q want %q", out[:job.TotalOut()], src)
	}
}

func TestInitFailure(t *testing.T) {
	d := New(func(path accel.Path) bool { return path == accel.Hardware })
	if _, err := d.NewJob(accel.Hardware); err == nil {
		t.Fatal("expected hardware init to fail")
	}
	if _, err := d.NewJob(accel.Software); err != nil {
		t.Fatalf("software init should succeed, got %v", err)
	}
}
