// Package report renders the pipeline status for humans.
//
// The status subcommand loads the aggregate state and the head of the
// note index and hands them to a writer: plain text for terminals,
// GitHub-Flavored Markdown for sharing.
package report
