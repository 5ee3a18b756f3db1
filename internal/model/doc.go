// Package model defines the core data structures used throughout dailynote.
//
// This package contains the following main types:
//   - MaterialEntry: A single search result collected for a date
//   - DraftNote: The note produced by the Draft stage
//   - PublishedNote: A DraftNote enriched with its image path
//   - PipelineState: The aggregate record updated on every publish
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (search, pipeline, publish, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for artifact storage and
// the published note index.
package model
