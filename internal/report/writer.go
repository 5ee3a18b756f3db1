package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// Status is the rendered view of the pipeline: the aggregate state plus
// the most recent published notes.
type Status struct {
	// State is the aggregate publish record. Never nil; a site that has
	// never published carries a fresh empty state.
	State *model.PipelineState

	// Recent holds the newest published notes, index order preserved.
	Recent []model.PublishedNote
}

// Writer defines the interface for status output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. Writing to a terminal, a file, or a CI summary uses
// the same API.
type Writer interface {
	// WriteStatus outputs the status to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteStatus(status *Status) (int, error)
}

// Load assembles the status from the artifact store. Missing index or
// state files are treated as an empty site, not an error. recentLimit
// caps the notes included; <= 0 means all.
func Load(st *store.Store, recentLimit int) (*Status, error) {
	status := &Status{State: model.NewPipelineState()}

	if data, err := st.Read(store.KindState, ""); err == nil {
		var state model.PipelineState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("failed to decode pipeline state: %w", err)
		}
		status.State = &state
	} else if !errors.Is(err, store.ErrArtifactNotFound) {
		return nil, err
	}

	if data, err := st.Read(store.KindNoteIndex, ""); err == nil {
		var index []model.PublishedNote
		if err := json.Unmarshal(data, &index); err != nil {
			return nil, fmt.Errorf("failed to decode note index: %w", err)
		}
		if recentLimit > 0 && len(index) > recentLimit {
			index = index[:recentLimit]
		}
		status.Recent = index
	} else if !errors.Is(err, store.ErrArtifactNotFound) {
		return nil, err
	}

	return status, nil
}

// baseWriter provides common functionality for status writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// titleCaser renders tag headings, e.g. "#tech-radar" as "Tech Radar".
var titleCaser = cases.Title(language.English)

// TagHeading converts a tag into a human heading.
func TagHeading(tag model.Tag) string {
	cleaned := strings.TrimPrefix(string(tag), "#")
	cleaned = strings.ReplaceAll(cleaned, "-", " ")
	return titleCaser.String(cleaned)
}
