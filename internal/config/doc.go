// Package config holds all runtime configuration for dailynote.
//
// Configuration flows from three sources, in increasing precedence:
// built-in defaults (NewConfig), an optional .dailynote YAML file found
// via FindConfigFile, and CLI flags bound by the cmd package. The search
// API credential is never stored in a file; it comes from the
// BRAVE_API_KEY environment variable only.
//
// Design decision: a single flat Config struct is passed through the
// application by dependency injection rather than read from global state.
// Validation happens once, after flag parsing, and returns sentinel
// errors so callers can match on the exact problem.
package config
