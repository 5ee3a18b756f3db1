// Package database stores the stage run history.
//
// Every stage execution is recorded in a SQLite database under the XDG
// data directory, so the history subcommand can answer "what ran, when,
// and how did it end" without touching the published repository.
package database
