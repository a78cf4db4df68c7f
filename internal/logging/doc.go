// Package logging centralizes slog construction for Stylus.
//
// Two output formats are supported: a single-line console format for
// interactive use (timestamp, level, component prefix, message, key=value
// tail with batch/track correlation keys first) and standard JSON for log
// shipping. Loggers write to stdout plus a stylus.log file under the
// configured log directory.
//
// The package also provides slog.Attr helper aliases, component loggers, a
// no-op logger for tests, and WithContext, which copies the batch, track,
// phase, and request correlation identifiers stamped by internal/services
// into logger fields.
package logging
