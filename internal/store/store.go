package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrArtifactNotFound is returned by Read when the requested artifact
// does not exist. Callers use errors.Is to distinguish "not yet produced"
// from real I/O failures.
var ErrArtifactNotFound = errors.New("artifact not found")

// Kind identifies one category of persisted artifact.
type Kind string

// Artifact kinds.
const (
	// KindMaterials is the per-date MaterialSet JSON.
	KindMaterials Kind = "materials"

	// KindDraft is the per-date DraftNote JSON.
	KindDraft Kind = "draft"

	// KindImage is the per-date generated image.
	KindImage Kind = "image"

	// KindNoteIndex is the global published-note index, most-recent-first.
	KindNoteIndex Kind = "note-index"

	// KindState is the global aggregate pipeline state record.
	KindState Kind = "state"
)

// dateKeyed reports whether the kind is keyed by date. The index and state
// are global singletons; their date argument is ignored.
func (k Kind) dateKeyed() bool {
	return k == KindMaterials || k == KindDraft || k == KindImage
}

// ArtifactRef names one artifact: a kind plus the date it is keyed by.
// For the global kinds the date is carried but unused.
type ArtifactRef struct {
	// Kind is the artifact category.
	Kind Kind

	// Date is the pipeline date in YYYY-MM-DD form.
	Date string
}

// String returns a human-readable reference for logs and errors.
func (r ArtifactRef) String() string {
	if r.Kind.dateKeyed() {
		return string(r.Kind) + "/" + r.Date
	}
	return string(r.Kind)
}

// Store reads and writes artifacts under a base directory.
//
// Design decision: the store knows every path template so that no stage
// builds file paths itself. This keeps the file layout in one place and
// makes the pre/postcondition checks of the stage runner possible.
type Store struct {
	// baseDir is the repository root all paths are relative to.
	baseDir string
}

// New creates a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the repository root the store operates on.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Path returns the absolute path for the given artifact.
func (s *Store) Path(kind Kind, date string) string {
	switch kind {
	case KindMaterials:
		return filepath.Join(s.baseDir, "materials", date+".json")
	case KindDraft:
		return filepath.Join(s.baseDir, "drafts", date+".json")
	case KindImage:
		return filepath.Join(s.baseDir, "docs", "images", date+".webp")
	case KindNoteIndex:
		return filepath.Join(s.baseDir, "docs", "notes.json")
	case KindState:
		return filepath.Join(s.baseDir, "state.json")
	default:
		// Unknown kinds are a programming error; fail loudly at the
		// filesystem layer rather than silently writing elsewhere.
		return filepath.Join(s.baseDir, "unknown", string(kind))
	}
}

// Exists reports whether the artifact is present on disk.
func (s *Store) Exists(kind Kind, date string) bool {
	_, err := os.Stat(s.Path(kind, date))
	return err == nil
}

// Read returns the artifact's content, or ErrArtifactNotFound when it does
// not exist.
func (s *Store) Read(kind Kind, date string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(kind, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, ArtifactRef{Kind: kind, Date: date})
		}
		return nil, err
	}
	return data, nil
}

// Write atomically replaces the artifact's content. The data is staged to a
// temporary file in the destination directory and renamed into place;
// os.Rename within one directory is atomic on POSIX filesystems, so a
// crashed or concurrent reader sees either the old content or the new,
// never a truncated file. Parent directories are created as needed.
func (s *Store) Write(kind Kind, date string, data []byte) error {
	path := s.Path(kind, date)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()       //nolint:errcheck // Write error takes precedence
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to close staged artifact: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	return nil
}
