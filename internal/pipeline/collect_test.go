package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// fakeSearcher returns canned results per keyword.
type fakeSearcher struct {
	results map[string][]model.MaterialEntry
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, keyword, _ string) ([]model.MaterialEntry, error) {
	f.queries = append(f.queries, keyword)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[keyword], nil
}

func readMaterials(t *testing.T, st *store.Store, date string) []model.MaterialEntry {
	t.Helper()

	data, err := st.Read(store.KindMaterials, date)
	if err != nil {
		t.Fatalf("failed to read materials: %v", err)
	}
	var materials []model.MaterialEntry
	if err := json.Unmarshal(data, &materials); err != nil {
		t.Fatalf("failed to decode materials: %v", err)
	}
	return materials
}

// TestCollectStageDeduplicatesAcrossKeywords verifies that the same URL
// returned by two keywords is stored once, first occurrence wins.
func TestCollectStageDeduplicatesAcrossKeywords(t *testing.T) {
	t.Parallel()

	st := store.New(t.TempDir())
	searcher := &fakeSearcher{results: map[string][]model.MaterialEntry{
		"AI agents": {
			{Title: "shared", URL: "https://example.com/post"},
			{Title: "only a", URL: "https://example.com/a"},
		},
		"MCP": {
			{Title: "shared again", URL: "https://example.com/post/"},
			{Title: "only b", URL: "https://example.com/b"},
		},
	}}

	stage := NewCollectStage(searcher, st, "2024-03-05",
		[]string{"AI agents", "MCP"},
		WithCollectSleep(func(time.Duration) {}),
	)
	if err := stage.Do(context.Background()); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	materials := readMaterials(t, st, "2024-03-05")
	if len(materials) != 3 {
		t.Fatalf("expected 3 materials, got %d: %+v", len(materials), materials)
	}
	if materials[0].Title != "shared" {
		t.Errorf("first occurrence must win, got %q", materials[0].Title)
	}
}

// TestCollectStageInterQueryDelay verifies the fixed pause runs between
// queries but not before the first.
func TestCollectStageInterQueryDelay(t *testing.T) {
	t.Parallel()

	st := store.New(t.TempDir())
	searcher := &fakeSearcher{results: map[string][]model.MaterialEntry{}}

	var slept []time.Duration
	stage := NewCollectStage(searcher, st, "2024-03-05",
		[]string{"a", "b", "c"},
		WithCollectDelay(time.Second),
		WithCollectSleep(func(d time.Duration) { slept = append(slept, d) }),
	)
	if err := stage.Do(context.Background()); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if len(slept) != 2 {
		t.Fatalf("expected 2 sleeps for 3 keywords, got %d", len(slept))
	}
	for _, d := range slept {
		if d != time.Second {
			t.Errorf("expected 1s delay, got %v", d)
		}
	}
	if len(searcher.queries) != 3 {
		t.Errorf("expected 3 queries, got %v", searcher.queries)
	}
}

// TestCollectStageOverwrites verifies a re-run replaces the material set
// instead of appending to it.
func TestCollectStageOverwrites(t *testing.T) {
	t.Parallel()

	st := store.New(t.TempDir())

	first := &fakeSearcher{results: map[string][]model.MaterialEntry{
		"a": {{Title: "old", URL: "https://example.com/old"}},
	}}
	stage := NewCollectStage(first, st, "2024-03-05", []string{"a"})
	if err := stage.Do(context.Background()); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	second := &fakeSearcher{results: map[string][]model.MaterialEntry{
		"a": {{Title: "new", URL: "https://example.com/new"}},
	}}
	stage = NewCollectStage(second, st, "2024-03-05", []string{"a"})
	if err := stage.Do(context.Background()); err != nil {
		t.Fatalf("collect rerun failed: %v", err)
	}

	materials := readMaterials(t, st, "2024-03-05")
	if len(materials) != 1 || materials[0].Title != "new" {
		t.Errorf("expected rerun to overwrite, got %+v", materials)
	}
}

// TestCollectStageQueryFailure verifies a failing query fails the stage
// without writing a partial set.
func TestCollectStageQueryFailure(t *testing.T) {
	t.Parallel()

	st := store.New(t.TempDir())
	boom := errors.New("boom")
	searcher := &fakeSearcher{err: boom}

	stage := NewCollectStage(searcher, st, "2024-03-05", []string{"a"})
	if err := stage.Do(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if st.Exists(store.KindMaterials, "2024-03-05") {
		t.Error("partial material set must not be written")
	}
}

// TestCollectStageContract verifies the declared artifact contract.
func TestCollectStageContract(t *testing.T) {
	t.Parallel()

	stage := NewCollectStage(&fakeSearcher{}, store.New(t.TempDir()), "2024-03-05", []string{"a"})
	if stage.Name() != "collect" {
		t.Errorf("unexpected name %q", stage.Name())
	}
	if len(stage.Preconditions()) != 0 {
		t.Error("collect has no preconditions")
	}
	post := stage.Postconditions()
	if len(post) != 1 || post[0].Kind != store.KindMaterials || post[0].Date != "2024-03-05" {
		t.Errorf("unexpected postconditions: %v", post)
	}
}
