//go:build iaadebug
// +build iaadebug

package hwcodec

import (
	"testing"

	"github.com/intel/iaa-deflate/compress/flate"
)

// TestCloseWithInflightPanicsInDebugBuild exercises invariant I4 under
// -tags iaadebug: closing a codec with outstanding decompressions aborts
// instead of silently releasing them. See assert_debug.go and
// hwcodec_test.go's TestCloseReleasesOutstandingSlotsInReleaseBuild for the
// default build's behavior.
func TestCloseWithInflightPanicsInDebugBuild(t *testing.T) {
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

	defer func() {
		if recover() == nil {
			t.Fatal("expected Close to panic with a non-empty in-flight map")
		}
	}()
	c.Close()
}
