package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/morinote/dailynote/internal/model"
	"github.com/morinote/dailynote/internal/store"
)

func sampleStatus() *Status {
	state := model.NewPipelineState()
	state.RecordPublish("2024-03-05", model.TagTIL)
	state.RecordPublish("2024-04-01", model.TagTechRadar)

	return &Status{
		State: state,
		Recent: []model.PublishedNote{
			{
				DraftNote: model.DraftNote{Date: "2024-04-01", Tag: model.TagTechRadar, Title: "newest", Content: "c"},
				Image:     "images/2024-04-01.webp",
			},
			{
				DraftNote: model.DraftNote{Date: "2024-03-05", Tag: model.TagTIL, Title: "older", Content: "c"},
				Image:     "images/2024-03-05.webp",
			},
		},
	}
}

// TestTagHeading verifies tag to heading conversion.
func TestTagHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  model.Tag
		want string
	}{
		{tag: model.TagTechRadar, want: "Tech Radar"},
		{tag: model.TagTIL, want: "Til"},
		{tag: model.TagBugStory, want: "Bug Story"},
		{tag: model.TagOpinion, want: "Opinion"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			t.Parallel()

			if got := TagHeading(tt.tag); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestSimpleWriter verifies the plain text rendering.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.WriteStatus(sampleStatus())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n == 0 {
		t.Error("expected bytes written")
	}

	out := buf.String()
	for _, want := range []string{
		"Last publish:  2024-04-01",
		"Total notes:   2",
		"#til",
		"2024-04",
		"newest",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Newest month first.
	if strings.Index(out, "2024-04") > strings.Index(out, "2024-03") {
		t.Error("expected newest month first")
	}
}

// TestSimpleWriterEmpty verifies rendering of a site with no publishes.
func TestSimpleWriterEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	if _, err := w.WriteStatus(&Status{State: model.NewPipelineState()}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(never)") {
		t.Errorf("expected never-published marker:\n%s", buf.String())
	}
}

// TestMarkdownWriter verifies the markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.WriteStatus(sampleStatus()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Daily Note Status",
		"## Notes per Month",
		"## Recent Notes",
		"Tech Radar",
		"2024-04-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestLoad verifies status assembly from the artifact store.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty site", func(t *testing.T) {
		t.Parallel()

		status, err := Load(store.New(t.TempDir()), 5)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if status.State.TotalNotes != 0 || len(status.Recent) != 0 {
			t.Errorf("expected empty status, got %+v", status)
		}
	})

	t.Run("populated site with limit", func(t *testing.T) {
		t.Parallel()

		st := store.New(t.TempDir())

		state := model.NewPipelineState()
		state.RecordPublish("2024-03-05", model.TagTIL)
		stateJSON, err := json.Marshal(state)
		if err != nil {
			t.Fatalf("failed to encode state: %v", err)
		}
		if err := st.Write(store.KindState, "", stateJSON); err != nil {
			t.Fatalf("failed to write state: %v", err)
		}

		index := []model.PublishedNote{
			{DraftNote: model.DraftNote{Date: "2024-03-07", Tag: model.TagTIL, Title: "a", Content: "c"}},
			{DraftNote: model.DraftNote{Date: "2024-03-06", Tag: model.TagTIL, Title: "b", Content: "c"}},
			{DraftNote: model.DraftNote{Date: "2024-03-05", Tag: model.TagTIL, Title: "c", Content: "c"}},
		}
		indexJSON, err := json.Marshal(index)
		if err != nil {
			t.Fatalf("failed to encode index: %v", err)
		}
		if err := st.Write(store.KindNoteIndex, "", indexJSON); err != nil {
			t.Fatalf("failed to write index: %v", err)
		}

		status, err := Load(st, 2)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if status.State.TotalNotes != 1 {
			t.Errorf("unexpected state: %+v", status.State)
		}
		if len(status.Recent) != 2 || status.Recent[0].Date != "2024-03-07" {
			t.Errorf("unexpected recent notes: %+v", status.Recent)
		}
	})

	t.Run("malformed state", func(t *testing.T) {
		t.Parallel()

		st := store.New(t.TempDir())
		if err := st.Write(store.KindState, "", []byte("{broken")); err != nil {
			t.Fatalf("failed to write state: %v", err)
		}
		if _, err := Load(st, 0); err == nil {
			t.Error("expected decode error")
		}
	})
}
