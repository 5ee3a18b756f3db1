package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/search"
	"github.com/morinote/dailynote/internal/store"
)

// Searcher is the search collaborator the collect stage queries.
// *search.Client satisfies it; tests substitute a fake.
type Searcher interface {
	// Search returns results for one keyword scoped to the given date.
	Search(ctx context.Context, keyword, date string) ([]model.MaterialEntry, error)
}

// CollectStage gathers material from the search collaborator.
// It runs one query per keyword sequentially with a fixed delay between
// queries, deduplicates results by canonical URL, and overwrites the
// date's material set. Re-running the stage replaces the set entirely.
type CollectStage struct {
	// searcher is the search collaborator.
	searcher Searcher

	// store persists the collected material set.
	store *store.Store

	// date is the pipeline date in YYYY-MM-DD form.
	date string

	// keywords are the collection queries, run in order.
	keywords []string

	// delay is the pause between consecutive keyword queries.
	delay time.Duration

	// sleep is time.Sleep unless replaced for tests.
	sleep func(time.Duration)

	// logger for structured logging.
	logger *slog.Logger
}

// CollectOption configures a CollectStage.
type CollectOption func(*CollectStage)

// WithCollectDelay sets the pause between keyword queries.
func WithCollectDelay(delay time.Duration) CollectOption {
	return func(s *CollectStage) {
		s.delay = delay
	}
}

// WithCollectSleep replaces the sleep function. Tests use this to assert
// the inter-query delay without waiting for it.
func WithCollectSleep(sleep func(time.Duration)) CollectOption {
	return func(s *CollectStage) {
		s.sleep = sleep
	}
}

// WithCollectLogger sets a custom logger for the collect stage.
func WithCollectLogger(logger *slog.Logger) CollectOption {
	return func(s *CollectStage) {
		s.logger = logger
	}
}

// NewCollectStage creates the collect stage for one date.
func NewCollectStage(searcher Searcher, st *store.Store, date string, keywords []string, opts ...CollectOption) *CollectStage {
	s := &CollectStage{
		searcher: searcher,
		store:    st,
		date:     date,
		keywords: keywords,
		sleep:    time.Sleep,
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
func (s *CollectStage) Name() string {
	return "collect"
}

// Preconditions returns nil; collect is the first stage.
func (s *CollectStage) Preconditions() []store.ArtifactRef {
	return nil
}

// Postconditions requires the date's material set to exist.
func (s *CollectStage) Postconditions() []store.ArtifactRef {
	return []store.ArtifactRef{{Kind: store.KindMaterials, Date: s.date}}
}

// Do executes the collect stage. A failed query fails the whole stage;
// partial material sets are never written.
func (s *CollectStage) Do(ctx context.Context) error {
	dedup := search.NewDeduplicator()
	materials := make([]model.MaterialEntry, 0)

	for i, keyword := range s.keywords {
		if i > 0 && s.delay > 0 {
			s.sleep(s.delay)
		}

		results, err := s.searcher.Search(ctx, keyword, s.date)
		if err != nil {
			return fmt.Errorf("search for %q failed: %w", keyword, err)
		}

		admitted := 0
		for _, entry := range results {
			if dedup.Admit(entry.URL) {
				materials = append(materials, entry)
				admitted++
			}
		}

		s.logger.Debug("keyword collected",
			"keyword", keyword,
			"results", len(results),
			"admitted", admitted,
		)
	}

	data, err := json.MarshalIndent(materials, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode material set: %w", err)
	}
	if err := s.store.Write(store.KindMaterials, s.date, data); err != nil {
		return err
	}

	s.logger.Info("material set written",
		"date", s.date,
		"materials", len(materials),
	)
	return nil
}
