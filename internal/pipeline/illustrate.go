package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/morinote/dailynote/internal/imagegen"
	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// promptSentences is how many leading content sentences feed the image
// prompt, after the title.
const promptSentences = 3

// ImageGenerator is the image collaborator the illustrate stage drives.
// *imagegen.Chain satisfies it; tests substitute a fake.
type ImageGenerator interface {
	// Generate renders the requested image to req.OutputPath.
	Generate(ctx context.Context, req imagegen.Request) error
}

// IllustrateStage generates the date's image from the draft.
//
// The whole generation attempt is retried a fixed number of times with a
// fixed delay. Generator-internal fallbacks (library, external command,
// placeholder) happen inside the chain; the stage-level retry exists for
// transient failures that affect the whole chain.
type IllustrateStage struct {
	// store reads the draft; the image path comes from the store too.
	store *store.Store

	// generator renders the image.
	generator ImageGenerator

	// date is the pipeline date in YYYY-MM-DD form.
	date string

	// retries is the total attempt budget.
	retries int

	// retryDelay is the fixed pause between attempts.
	retryDelay time.Duration

	// sleep is time.Sleep unless replaced for tests.
	sleep func(time.Duration)

	// logger for structured logging.
	logger *slog.Logger
}

// IllustrateOption configures an IllustrateStage.
type IllustrateOption func(*IllustrateStage)

// WithIllustrateRetries sets the attempt budget and the delay between
// attempts.
func WithIllustrateRetries(retries int, delay time.Duration) IllustrateOption {
	return func(s *IllustrateStage) {
		if retries > 0 {
			s.retries = retries
		}
		s.retryDelay = delay
	}
}

// WithIllustrateSleep replaces the sleep function for tests.
func WithIllustrateSleep(sleep func(time.Duration)) IllustrateOption {
	return func(s *IllustrateStage) {
		s.sleep = sleep
	}
}

// WithIllustrateLogger sets a custom logger for the illustrate stage.
func WithIllustrateLogger(logger *slog.Logger) IllustrateOption {
	return func(s *IllustrateStage) {
		s.logger = logger
	}
}

// NewIllustrateStage creates the illustrate stage for one date.
func NewIllustrateStage(st *store.Store, generator ImageGenerator, date string, opts ...IllustrateOption) *IllustrateStage {
	s := &IllustrateStage{
		store:      st,
		generator:  generator,
		date:       date,
		retries:    3,
		retryDelay: 5 * time.Second,
		sleep:      time.Sleep,
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
func (s *IllustrateStage) Name() string {
	return "illustrate"
}

// Preconditions requires the date's draft.
func (s *IllustrateStage) Preconditions() []store.ArtifactRef {
	return []store.ArtifactRef{{Kind: store.KindDraft, Date: s.date}}
}

// Postconditions requires the date's image to exist.
func (s *IllustrateStage) Postconditions() []store.ArtifactRef {
	return []store.ArtifactRef{{Kind: store.KindImage, Date: s.date}}
}

// Do executes the illustrate stage.
func (s *IllustrateStage) Do(ctx context.Context) error {
	data, err := s.store.Read(store.KindDraft, s.date)
	if err != nil {
		return err
	}

	var draft model.DraftNote
	if err := json.Unmarshal(data, &draft); err != nil {
		return fmt.Errorf("failed to decode draft: %w", err)
	}

	req := imagegen.Request{
		Prompt:     imagePrompt(draft),
		OutputPath: s.store.Path(store.KindImage, s.date),
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if err := s.generator.Generate(ctx, req); err != nil {
			lastErr = err
			s.logger.Warn("image generation attempt failed",
				"date", s.date,
				"attempt", attempt,
				"error", err,
			)
			if attempt < s.retries {
				s.sleep(s.retryDelay)
			}
			continue
		}

		s.logger.Info("image written",
			"date", s.date,
			"path", req.OutputPath,
		)
		return nil
	}

	return fmt.Errorf("image generation failed after %d attempts: %w", s.retries, lastErr)
}

// imagePrompt builds the generation prompt from the draft: the title
// followed by the first few sentences of the content.
func imagePrompt(draft model.DraftNote) string {
	sentences := leadingSentences(draft.Content, promptSentences)
	if sentences == "" {
		return draft.Title
	}
	return draft.Title + "\n" + sentences
}

// leadingSentences returns up to n leading sentences of text. Sentence
// boundaries are ASCII and CJK terminal punctuation; text without any
// terminator counts as a single sentence.
func leadingSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 {
		return ""
	}

	count := 0
	for i, r := range text {
		switch r {
		case '.', '!', '?', '。', '！', '？':
			count++
			if count == n {
				return strings.TrimSpace(text[:i+len(string(r))])
			}
		}
	}
	return text
}
