// Package pipeline orchestrates the daily note stages.
//
// A Stage declares the artifacts it consumes and produces; the Runner
// enforces those declarations around the stage's work so that every stage
// can be run in isolation from the CLI, resuming after the last completed
// one. The Pipeline sequences Collect, Draft, Illustrate, and Publish for
// a single date and halts on the first failure.
package pipeline
