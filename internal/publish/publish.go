package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// lockRetryInterval is how often an already-held publish lock is retried.
const lockRetryInterval = 100 * time.Millisecond

// Publisher applies one date's draft to the note index and state record,
// then hands off to the committer. The mutate-then-commit sequence runs
// under a file lock so two publishes can never interleave their read,
// modify, and write of the shared index.
type Publisher struct {
	// store reads the draft and reads/writes the index and state.
	store *store.Store

	// committer runs the git transaction.
	committer Committer

	// lockPath is the lock file guarding the critical section.
	lockPath string

	// logger for structured logging.
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLockPath overrides the lock file location.
func WithLockPath(path string) PublisherOption {
	return func(p *Publisher) {
		p.lockPath = path
	}
}

// WithPublisherLogger sets a custom logger for the publisher.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a Publisher over the given store and committer.
func NewPublisher(st *store.Store, committer Committer, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:     st,
		committer: committer,
		lockPath:  filepath.Join(st.BaseDir(), ".dailynote.lock"),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Publish publishes the given date's draft: prepend to the index, fold
// into the state, write both atomically, then commit and push. On a
// failed commit the index and state are restored from pre-mutation
// snapshots and the commit error is returned.
func (p *Publisher) Publish(ctx context.Context, date string) error {
	lock := flock.New(p.lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire publish lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("publish lock at %s is held elsewhere", p.lockPath)
	}
	defer lock.Unlock() //nolint:errcheck // Lock release failure is not actionable

	draft, err := p.loadDraft(date)
	if err != nil {
		return err
	}

	index, indexSnapshot, err := p.loadIndex()
	if err != nil {
		return err
	}
	state, stateSnapshot, err := p.loadState()
	if err != nil {
		return err
	}

	// Re-publishing a date double-counts in the state. Known gap; warn
	// loudly instead of silently deduplicating.
	for _, note := range index {
		if note.Date == date {
			p.logger.Warn("date already in the note index, publishing again will double-count",
				"date", date,
			)
			break
		}
	}

	published := model.NewPublishedNote(*draft)
	index = append([]model.PublishedNote{published}, index...)
	state.RecordPublish(date, draft.Tag)

	if err := p.writeIndex(index); err != nil {
		return err
	}
	if err := p.writeState(state); err != nil {
		p.restore(store.KindNoteIndex, indexSnapshot)
		return err
	}

	req := CommitRequest{
		Date:      date,
		Title:     draft.Title,
		ImagePath: filepath.ToSlash(filepath.Join("docs", "images", date+".webp")),
	}
	if err := p.committer.Commit(ctx, req); err != nil {
		p.logger.Error("git transaction failed, restoring index and state",
			"date", date,
			"error", err,
		)
		p.restore(store.KindNoteIndex, indexSnapshot)
		p.restore(store.KindState, stateSnapshot)
		return err
	}

	p.logger.Info("note published",
		"date", date,
		"title", draft.Title,
		"total_notes", state.TotalNotes,
	)
	return nil
}

// loadDraft reads and validates the date's draft.
func (p *Publisher) loadDraft(date string) (*model.DraftNote, error) {
	data, err := p.store.Read(store.KindDraft, date)
	if err != nil {
		return nil, err
	}

	var draft model.DraftNote
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("unpublishable draft: %w", err)
	}
	return &draft, nil
}

// loadIndex returns the decoded note index plus its raw bytes as a
// rollback snapshot. A missing index decodes to empty with a nil snapshot.
func (p *Publisher) loadIndex() ([]model.PublishedNote, []byte, error) {
	data, err := p.store.Read(store.KindNoteIndex, "")
	if err != nil {
		if errors.Is(err, store.ErrArtifactNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var index []model.PublishedNote
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, nil, fmt.Errorf("failed to decode note index: %w", err)
	}
	return index, data, nil
}

// loadState returns the decoded state plus its raw bytes as a rollback
// snapshot. A missing state decodes to a fresh one with a nil snapshot.
func (p *Publisher) loadState() (*model.PipelineState, []byte, error) {
	data, err := p.store.Read(store.KindState, "")
	if err != nil {
		if errors.Is(err, store.ErrArtifactNotFound) {
			return model.NewPipelineState(), nil, nil
		}
		return nil, nil, err
	}

	var state model.PipelineState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil, fmt.Errorf("failed to decode pipeline state: %w", err)
	}
	return &state, data, nil
}

// writeIndex atomically replaces the note index.
func (p *Publisher) writeIndex(index []model.PublishedNote) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode note index: %w", err)
	}
	return p.store.Write(store.KindNoteIndex, "", data)
}

// writeState atomically replaces the state record.
func (p *Publisher) writeState(state *model.PipelineState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode pipeline state: %w", err)
	}
	return p.store.Write(store.KindState, "", data)
}

// restore puts an artifact back to its pre-mutation content. A nil
// snapshot means the artifact did not exist before; it is removed.
// Restore failures are logged, not returned: the commit error that
// triggered the rollback is the one the caller must see.
func (p *Publisher) restore(kind store.Kind, snapshot []byte) {
	if snapshot == nil {
		if err := os.Remove(p.store.Path(kind, "")); err != nil && !os.IsNotExist(err) {
			p.logger.Error("failed to remove artifact during rollback",
				"kind", string(kind),
				"error", err,
			)
		}
		return
	}
	if err := p.store.Write(kind, "", snapshot); err != nil {
		p.logger.Error("failed to restore artifact during rollback",
			"kind", string(kind),
			"error", err,
		)
	}
}
