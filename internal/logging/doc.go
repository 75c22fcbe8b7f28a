// Package logging provides structured logging for phonelink.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout discovery and connection handling. Progress
// lines are the primary user-visible output of the tool, so info level is
// the default rather than silence.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: per-probe results, raw adb output, neighbor table dumps
//   - Info: phase transitions, candidates tried, connection results
//   - Warn: non-fatal issues (identity mismatch, cache load failure)
//   - Error: terminal failures (discovery exhausted, adb missing)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Connected",
//	    zap.String("ip", "192.168.1.50"),
//	    zap.Int("port", 37777),
//	    zap.String("model", "Redmi 10"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The PHONELINK_LOG_LEVEL environment variable overrides the default when
// no explicit level is given; "silent" disables output entirely.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
