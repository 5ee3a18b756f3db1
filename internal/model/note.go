package model

import (
	"errors"
	"strings"
)

// Tag classifies a note into one of the fixed editorial categories.
// The leading '#' is part of the value so that tags serialize exactly
// as they appear in the published index.
type Tag string

// Valid note tags.
const (
	// TagTechRadar marks notes about trends and newly observed technology.
	TagTechRadar Tag = "#tech-radar"

	// TagTIL marks "today I learned" notes.
	TagTIL Tag = "#til"

	// TagOpinion marks opinion pieces. This is the classification fallback
	// when no other heuristic matches.
	TagOpinion Tag = "#opinion"

	// TagBugStory marks notes describing a bug hunt or incident.
	TagBugStory Tag = "#bug-story"

	// TagMonthly marks monthly summary notes.
	TagMonthly Tag = "#monthly"
)

// ValidTags lists every accepted tag in display order.
var ValidTags = []Tag{TagTechRadar, TagTIL, TagOpinion, TagBugStory, TagMonthly}

// IsValid reports whether t is one of the known tags.
func (t Tag) IsValid() bool {
	for _, v := range ValidTags {
		if t == v {
			return true
		}
	}
	return false
}

// ClassifyTag picks a tag for the given note content using a keyword
// heuristic. It is used when the authoring collaborator does not supply
// a tag itself.
//
// The heuristic intentionally checks trend keywords before learning
// keywords: a note about a trending library one just learned about reads
// better as #tech-radar than as #til.
func ClassifyTag(content string) Tag {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "trend"):
		return TagTechRadar
	case strings.Contains(lower, "learn"), strings.Contains(lower, "til"):
		return TagTIL
	case strings.Contains(lower, "bug"), strings.Contains(lower, "error"), strings.Contains(lower, "issue"):
		return TagBugStory
	default:
		return TagOpinion
	}
}

// MaterialEntry is a single search result collected for a date.
// Entries are immutable once written; identity for deduplication is the
// canonical form of URL (see the search package), not the raw URL stored here.
type MaterialEntry struct {
	// Title is the result title as returned by the search collaborator.
	Title string `json:"title"`

	// URL is the original (non-canonicalized) result URL.
	URL string `json:"url"`

	// Summary is the result description or snippet. May be empty.
	Summary string `json:"summary"`
}

// DraftNote is the artifact produced by the Draft stage and consumed
// read-only by the Illustrate and Publish stages.
type DraftNote struct {
	// Date is the pipeline date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Tag is the editorial category. Defaults via ClassifyTag when the
	// authoring collaborator does not supply one.
	Tag Tag `json:"tag"`

	// Title is the note title. Must be non-empty.
	Title string `json:"title"`

	// Content is the note body. Must be non-empty.
	Content string `json:"content"`

	// Sources lists the URLs the note cites.
	Sources []string `json:"sources"`
}

// Validation errors returned by DraftNote.Validate.
var (
	// ErrEmptyTitle is returned when a draft has no title.
	ErrEmptyTitle = errors.New("draft note has empty title")

	// ErrEmptyContent is returned when a draft has no content.
	ErrEmptyContent = errors.New("draft note has empty content")

	// ErrInvalidTag is returned when a draft carries an unknown tag.
	ErrInvalidTag = errors.New("draft note has invalid tag")
)

// Validate checks that the draft is publishable: non-empty title and
// content, and a known tag. It returns the first problem found.
func (n *DraftNote) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if !n.Tag.IsValid() {
		return ErrInvalidTag
	}
	return nil
}

// PublishedNote is a DraftNote plus the relative path of its image,
// as stored in the note index. New entries are always inserted at the
// head of the index, most-recent-first.
type PublishedNote struct {
	DraftNote

	// Image is the image path relative to the published site root,
	// e.g. "images/2024-03-05.webp".
	Image string `json:"image"`
}

// NewPublishedNote builds the index entry for a draft, deriving the
// conventional relative image path from the note date.
func NewPublishedNote(draft DraftNote) PublishedNote {
	return PublishedNote{
		DraftNote: draft,
		Image:     "images/" + draft.Date + ".webp",
	}
}
