package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// GitError reports a failed git step together with the command's captured
// output, so the operator sees exactly what git said.
type GitError struct {
	// Step is the failing command, e.g. "git push".
	Step string

	// Output is the command's combined stdout and stderr.
	Output string

	// Err is the underlying execution error.
	Err error
}

// Error implements the error interface.
func (e *GitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Step, e.Err, e.Output)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// CommitRequest names what one publish commit stages and says.
type CommitRequest struct {
	// Date is the published date in YYYY-MM-DD form.
	Date string

	// Title is the note title used in the commit message.
	Title string

	// ImagePath is the image path to stage, relative to the repository
	// root, e.g. "docs/images/2024-03-05.webp".
	ImagePath string
}

// Committer runs the version-control side of a publish.
type Committer interface {
	// Commit stages the publish files, commits, and pushes.
	Commit(ctx context.Context, req CommitRequest) error
}

// GitCommitter runs git as a sequence of argument-vector process
// invocations.
//
// Design decision: Each git step is an explicit argv, never a shell
// string. Titles contain arbitrary text from the authoring collaborator
// and must reach git as a single argument, not as shell input.
type GitCommitter struct {
	// dir is the repository working directory.
	dir string

	// push controls whether the final push step runs.
	push bool

	// runCommand executes a prepared command, returning combined output.
	// Replaceable for tests.
	runCommand func(cmd *exec.Cmd) ([]byte, error)

	// logger for structured logging.
	logger *slog.Logger
}

// GitOption configures a GitCommitter.
type GitOption func(*GitCommitter)

// WithGitPush enables or disables the push step. Publishing without a
// remote (local-only repositories, tests) disables it.
func WithGitPush(push bool) GitOption {
	return func(g *GitCommitter) {
		g.push = push
	}
}

// WithGitRunCommand replaces the command executor for tests.
func WithGitRunCommand(run func(cmd *exec.Cmd) ([]byte, error)) GitOption {
	return func(g *GitCommitter) {
		g.runCommand = run
	}
}

// WithGitLogger sets a custom logger for the committer.
func WithGitLogger(logger *slog.Logger) GitOption {
	return func(g *GitCommitter) {
		g.logger = logger
	}
}

// NewGitCommitter creates a committer operating in the given repository
// directory. Push is enabled by default.
func NewGitCommitter(dir string, opts ...GitOption) *GitCommitter {
	g := &GitCommitter{
		dir:  dir,
		push: true,
		runCommand: func(cmd *exec.Cmd) ([]byte, error) {
			return cmd.CombinedOutput()
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// CommitMessage returns the publish commit message for a note.
func CommitMessage(title, date string) string {
	return fmt.Sprintf("📝 Daily note: %s (%s)", title, date)
}

// Commit implements Committer. Steps run in order and the first non-zero
// exit aborts with a *GitError naming the step.
func (g *GitCommitter) Commit(ctx context.Context, req CommitRequest) error {
	steps := [][]string{
		{"git", "add", "docs/notes.json"},
		{"git", "add", "state.json"},
		{"git", "add", req.ImagePath},
		{"git", "commit", "-m", CommitMessage(req.Title, req.Date)},
	}
	if g.push {
		steps = append(steps, []string{"git", "push"})
	}

	for _, argv := range steps {
		if err := g.run(ctx, argv); err != nil {
			return err
		}
	}

	g.logger.Info("publish committed",
		"date", req.Date,
		"pushed", g.push,
	)
	return nil
}

// run executes one git step in the repository directory.
func (g *GitCommitter) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Fixed git argv, title passed as one argument
	cmd.Dir = g.dir

	g.logger.Debug("running git step", "step", strings.Join(argv, " "))

	out, err := g.runCommand(cmd)
	if err != nil {
		return &GitError{
			Step:   strings.Join(argv[:2], " "),
			Output: string(bytes.TrimSpace(out)),
			Err:    err,
		}
	}
	return nil
}
