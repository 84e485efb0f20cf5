// Package logging provides structured logging for the LDDC configuration tools.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used by the configuration store. It provides both general logging
// functions and specialized functions for store events.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (every set/delete, reconcile decisions)
//   - Info: Normal operations (store loaded, preset applied)
//   - Warn: Non-fatal issues (config file unreadable or unwritable)
//   - Error: Subscriber callbacks that failed
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Config store loaded",
//	    zap.String("path", "/tmp/LDDC/config/config.json"),
//	    zap.Int("keys", 35),
//	)
//
// # Specialized Logging
//
//	logging.LogStoreEvent("set", "langs_order", path)
//	logging.LogPersistFailure(path, err)
//	logging.LogLoadFailure(path, err)
//	logging.LogCallbackFailure("lyrics", "langs_order", err)
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
// When neither a level nor LDDC_LOG_LEVEL is given the logger is a no-op,
// so CLI output stays clean. Log output goes to stderr.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
