// Package main provides the entry point for the dailynote CLI.
//
// dailynote automates a daily content pipeline: it collects source
// material from a search API, drafts a note, generates an illustrative
// image, and publishes the result to a git-backed site.
//
// Usage:
//
//	dailynote run
//	dailynote collect --date 2024-03-05
//
// See --help for all available options.
package main

// main is the entry point for dailynote.
func main() {
	Execute()
}
