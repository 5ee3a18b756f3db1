// Package store persists the pipeline's date-keyed artifacts and global
// indexes as plain files under a base directory.
//
// Artifact kinds map to fixed path templates:
//
//	materials  -> materials/<date>.json
//	draft      -> drafts/<date>.json
//	image      -> docs/images/<date>.webp
//	note-index -> docs/notes.json   (global singleton)
//	state      -> state.json        (global singleton)
//
// Writes are atomic with respect to crashes: content is staged to a
// temporary file in the destination directory and renamed into place, so a
// reader never observes a truncated artifact. Directory creation is
// implicit and idempotent. Reading a missing artifact returns
// ErrArtifactNotFound; callers decide whether that is fatal.
package store
