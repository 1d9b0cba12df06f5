// Package logging provides structured logging for tapo-chatter.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the discovery engine and the hub monitor.
//
// # Log Levels
//
//   - Debug: per-probe outcomes, classification failures, raw payload fields
//   - Info: scan start/finish, monitor ticks
//   - Warn: hub unreachable, failed monitor ticks
//   - Error: fatal scan errors
//
// # Configuration
//
// Logging is silent by default so the curated table output stays clean.
// Enable it with the --log-level flag or the TAPO_LOG_LEVEL environment
// variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Log lines are written to stderr in console format so that `discover --json`
// output on stdout remains machine readable.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The discovery worker pool
// logs from many goroutines at once.
package logging
