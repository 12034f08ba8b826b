// Package obslog holds the process-wide logger shared by the job pool and
// hardware codec. It is deliberately tiny: one package-level logger and a
// setter, so every package that needs to log a WARNING imports this instead
// of each constructing its own.
package obslog

import "log/slog"

// log is the logger used by this module unless overridden by SetLogger.
var log = slog.Default()

// SetLogger replaces the module-wide logger. Call it once, before
// constructing a jobpool.Pool or iaadeflate.Codec, to route this module's
// output through an application's own slog handler.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	log = l
}

// Get returns the current module-wide logger.
func Get() *slog.Logger {
	return log
}
