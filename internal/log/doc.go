// Package log builds the structured loggers used by pipeline runs.
//
// Each run gets an explicit *slog.Logger handle writing to both the
// per-date log file (logs/<date>.log, append) and stderr. The handle is
// passed into stages rather than installed as process-global state, and
// the returned close function guarantees the file sink is flushed and
// closed on every exit path.
package log
