package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

// concurrentSearcher is a goroutine-safe single-result searcher.
type concurrentSearcher struct {
	mu      sync.Mutex
	queries int
	failOn  string
}

func (s *concurrentSearcher) Search(_ context.Context, _, date string) ([]model.MaterialEntry, error) {
	s.mu.Lock()
	s.queries++
	s.mu.Unlock()

	if date == s.failOn {
		return nil, errors.New("quota exceeded")
	}
	return []model.MaterialEntry{
		{Title: "result for " + date, URL: "https://example.com/" + date},
	}, nil
}

// TestBatchCollector verifies that every date gets its own material set
// and per-date failures do not abort the batch.
func TestBatchCollector(t *testing.T) {
	t.Parallel()

	st := store.New(t.TempDir())
	runner := NewRunner(st)
	searcher := &concurrentSearcher{failOn: "2024-03-02"}

	batch := NewBatchCollector(runner, func(date string) Stage {
		return NewCollectStage(searcher, st, date, []string{"AI agents"})
	}, WithBatchConcurrency(2))

	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	results, err := batch.Collect(context.Background(), dates)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, date := range dates {
		if results[i].Date != date {
			t.Errorf("result %d: expected date %s, got %s", i, date, results[i].Date)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected failures: %v %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("expected 2024-03-02 to fail")
	}

	if !st.Exists(store.KindMaterials, "2024-03-01") || !st.Exists(store.KindMaterials, "2024-03-03") {
		t.Error("successful dates must have material sets")
	}
	if st.Exists(store.KindMaterials, "2024-03-02") {
		t.Error("failed date must not have a material set")
	}
}

// TestDateRange verifies inclusive expansion and input validation.
func TestDateRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    string
		to      string
		want    []string
		wantErr bool
	}{
		{
			name: "multi day",
			from: "2024-02-28", to: "2024-03-01",
			want: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
		{
			name: "single day",
			from: "2024-03-05", to: "2024-03-05",
			want: []string{"2024-03-05"},
		},
		{
			name: "reversed", from: "2024-03-06", to: "2024-03-05", wantErr: true,
		},
		{
			name: "malformed", from: "03/05/2024", to: "2024-03-05", wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DateRange(tt.from, tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}
