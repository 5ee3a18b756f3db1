package pipeline

import (
	"context"

	"github.com/morinote/dailynote/internal/store"
)

// Publisher runs the publish transaction: index and state mutation under a
// lock followed by the version-control commit, with rollback on failure.
// *publish.Publisher satisfies it; tests substitute a fake.
type Publisher interface {
	// Publish publishes the given date's draft and image.
	Publish(ctx context.Context, date string) error
}

// PublishStage is a thin adapter binding the publisher into the stage
// contract. The transactional logic lives in the publish package; the
// stage only contributes the artifact pre/postconditions.
type PublishStage struct {
	// publisher performs the transaction.
	publisher Publisher

	// date is the pipeline date in YYYY-MM-DD form.
	date string
}

// NewPublishStage creates the publish stage for one date.
func NewPublishStage(publisher Publisher, date string) *PublishStage {
	return &PublishStage{publisher: publisher, date: date}
}

// Name returns the stage name.
func (s *PublishStage) Name() string {
	return "publish"
}

// Preconditions requires both the draft and the image.
func (s *PublishStage) Preconditions() []store.ArtifactRef {
	return []store.ArtifactRef{
		{Kind: store.KindDraft, Date: s.date},
		{Kind: store.KindImage, Date: s.date},
	}
}

// Postconditions requires the note index and the state record.
func (s *PublishStage) Postconditions() []store.ArtifactRef {
	return []store.ArtifactRef{
		{Kind: store.KindNoteIndex, Date: s.date},
		{Kind: store.KindState, Date: s.date},
	}
}

// Do executes the publish stage.
func (s *PublishStage) Do(ctx context.Context) error {
	return s.publisher.Publish(ctx, s.date)
}
