//go:build iaadebug
// +build iaadebug

package hwcodec

// assertDrained enforces invariant I4 in debug builds: a hardware codec
// must never be closed with jobs still in-flight. Release builds instead
// log and release best-effort — see assert_release.go and DESIGN.md.
func assertDrained(inflight int) {
	if inflight != 0 {
		panic("hwcodec: Close called with non-empty in-flight map")
	}
}
