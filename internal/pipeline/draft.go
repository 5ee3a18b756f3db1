package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/morinote/dailynote/internal/author"
	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// promptMaterials is how many of the day's materials feed the prompt.
const promptMaterials = 3

// DraftStage turns the day's materials into a draft note.
//
// The authoring collaborator is a chain: the first available agent is
// invoked under a deadline; when it is unavailable, fails, or misses the
// deadline the stage degrades to the deterministic fallback writer rather
// than failing. A draft failing validation is the only fatal outcome.
type DraftStage struct {
	// store reads materials and persists the draft.
	store *store.Store

	// date is the pipeline date in YYYY-MM-DD form.
	date string

	// agents are the preferred authoring agents, probed in order.
	agents []author.Agent

	// fallback is the always-available degraded writer.
	fallback author.Agent

	// timeout bounds the preferred agent's call.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// DraftOption configures a DraftStage.
type DraftOption func(*DraftStage)

// WithDraftLogger sets a custom logger for the draft stage.
func WithDraftLogger(logger *slog.Logger) DraftOption {
	return func(s *DraftStage) {
		s.logger = logger
	}
}

// NewDraftStage creates the draft stage for one date. The fallback agent
// is invoked directly (no deadline) when the preferred chain cannot
// deliver; pass author.NewFallbackWriter unless a test needs otherwise.
func NewDraftStage(st *store.Store, date string, agents []author.Agent, fallback author.Agent, timeout time.Duration, opts ...DraftOption) *DraftStage {
	s := &DraftStage{
		store:    st,
		date:     date,
		agents:   agents,
		fallback: fallback,
		timeout:  timeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the stage name.
func (s *DraftStage) Name() string {
	return "draft"
}

// Preconditions requires the date's material set.
func (s *DraftStage) Preconditions() []store.ArtifactRef {
	return []store.ArtifactRef{{Kind: store.KindMaterials, Date: s.date}}
}

// Postconditions requires the date's draft to exist.
func (s *DraftStage) Postconditions() []store.ArtifactRef {
	return []store.ArtifactRef{{Kind: store.KindDraft, Date: s.date}}
}

// Do executes the draft stage.
func (s *DraftStage) Do(ctx context.Context) error {
	data, err := s.store.Read(store.KindMaterials, s.date)
	if err != nil {
		return err
	}

	var materials []model.MaterialEntry
	if err := json.Unmarshal(data, &materials); err != nil {
		return fmt.Errorf("failed to decode material set: %w", err)
	}

	req := buildRequest(materials)
	note := s.write(ctx, req)

	draft := model.DraftNote{
		Date:    s.date,
		Tag:     model.Tag(note.Tag),
		Title:   note.Title,
		Content: note.Content,
		Sources: note.Sources,
	}
	if note.Tag == "" {
		draft.Tag = model.ClassifyTag(note.Content)
	}
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("unpublishable draft: %w", err)
	}

	encoded, err := json.MarshalIndent(&draft, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.store.Write(store.KindDraft, s.date, encoded); err != nil {
		return err
	}

	s.logger.Info("draft written",
		"date", s.date,
		"title", draft.Title,
		"tag", draft.Tag,
	)
	return nil
}

// write runs the preferred agent under the deadline and degrades to the
// fallback writer on any failure. The fallback is deterministic and local,
// so its own error (nil in practice) is the stage's error.
func (s *DraftStage) write(ctx context.Context, req author.Request) *author.Note {
	agent, err := author.Select(s.agents...)
	if err == nil {
		note, werr := author.WriteWithDeadline(ctx, agent, req, s.timeout)
		if werr == nil {
			return note
		}
		s.logger.Warn("authoring agent failed, degrading to fallback",
			"agent", agent.Name(),
			"error", werr,
		)
	} else {
		s.logger.Warn("no authoring agent available, degrading to fallback")
	}

	// The fallback writer cannot fail; it writes a fixed note from the
	// prompt head.
	note, err := s.fallback.Write(ctx, req)
	if err != nil {
		// Unreachable with the stock fallback writer, but a custom one
		// could misbehave. An empty note fails draft validation below.
		s.logger.Error("fallback writer failed", "error", err)
		return &author.Note{}
	}
	return note
}

// buildRequest assembles the authoring request from the day's top
// materials, one "<title> - <url>" line per entry.
func buildRequest(materials []model.MaterialEntry) author.Request {
	top := materials
	if len(top) > promptMaterials {
		top = top[:promptMaterials]
	}

	lines := make([]string, 0, len(top))
	sources := make([]string, 0, len(top))
	for _, m := range top {
		lines = append(lines, m.Title+" - "+m.URL)
		sources = append(sources, m.URL)
	}

	return author.Request{
		Prompt:  strings.Join(lines, "\n"),
		Sources: sources,
	}
}
