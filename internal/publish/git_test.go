package publish

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

// TestCommitMessage verifies the fixed commit message format.
func TestCommitMessage(t *testing.T) {
	t.Parallel()

	got := CommitMessage("觀察：AI agents", "2024-03-05")
	want := "📝 Daily note: 觀察：AI agents (2024-03-05)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestGitCommitterSteps verifies the argv sequence of a full publish
// commit.
func TestGitCommitterSteps(t *testing.T) {
	t.Parallel()

	t.Run("with push", func(t *testing.T) {
		t.Parallel()

		var steps [][]string
		g := NewGitCommitter("/repo", WithGitRunCommand(func(cmd *exec.Cmd) ([]byte, error) {
			steps = append(steps, cmd.Args)
			if cmd.Dir != "/repo" {
				t.Errorf("expected working dir /repo, got %s", cmd.Dir)
			}
			return nil, nil
		}))

		req := CommitRequest{
			Date:      "2024-03-05",
			Title:     "a note",
			ImagePath: "docs/images/2024-03-05.webp",
		}
		if err := g.Commit(context.Background(), req); err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		want := [][]string{
			{"git", "add", "docs/notes.json"},
			{"git", "add", "state.json"},
			{"git", "add", "docs/images/2024-03-05.webp"},
			{"git", "commit", "-m", "📝 Daily note: a note (2024-03-05)"},
			{"git", "push"},
		}
		if len(steps) != len(want) {
			t.Fatalf("expected %d steps, got %d: %v", len(want), len(steps), steps)
		}
		for i := range want {
			if strings.Join(steps[i], "\x00") != strings.Join(want[i], "\x00") {
				t.Errorf("step %d: expected %v, got %v", i, want[i], steps[i])
			}
		}
	})

	t.Run("without push", func(t *testing.T) {
		t.Parallel()

		var steps [][]string
		g := NewGitCommitter("/repo",
			WithGitPush(false),
			WithGitRunCommand(func(cmd *exec.Cmd) ([]byte, error) {
				steps = append(steps, cmd.Args)
				return nil, nil
			}),
		)

		if err := g.Commit(context.Background(), CommitRequest{Date: "2024-03-05", Title: "x", ImagePath: "docs/images/2024-03-05.webp"}); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		for _, step := range steps {
			if step[1] == "push" {
				t.Error("push step must be skipped")
			}
		}
		if len(steps) != 4 {
			t.Errorf("expected 4 steps, got %d", len(steps))
		}
	})
}

// TestGitCommitterFailure verifies the first failing step aborts with a
// *GitError carrying the step name and captured output.
func TestGitCommitterFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	g := NewGitCommitter("/repo", WithGitRunCommand(func(cmd *exec.Cmd) ([]byte, error) {
		calls++
		if cmd.Args[1] == "commit" {
			return []byte("nothing to commit, working tree clean\n"), errors.New("exit status 1")
		}
		return nil, nil
	}))

	err := g.Commit(context.Background(), CommitRequest{Date: "2024-03-05", Title: "x", ImagePath: "docs/images/2024-03-05.webp"})
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		t.Fatalf("expected *GitError, got %v", err)
	}
	if gitErr.Step != "git commit" {
		t.Errorf("expected step 'git commit', got %q", gitErr.Step)
	}
	if !strings.Contains(gitErr.Output, "nothing to commit") {
		t.Errorf("expected captured output, got %q", gitErr.Output)
	}
	if calls != 4 {
		t.Errorf("expected the push step to be skipped after failure, got %d calls", calls)
	}
}
