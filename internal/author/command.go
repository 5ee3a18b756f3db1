package author

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandAgent invokes an external authoring binary. The system prompt is
// passed as an argument vector flag, the user prompt on stdin, and the
// agent answers with a single JSON object {title, content, sources, tag}
// on stdout.
//
// Design decision: argument-vector invocation with stdin for the prompt
// avoids both shell interpretation and argv length limits for long
// prompts.
type CommandAgent struct {
	// command is the agent binary name or path.
	command string

	// lookPath resolves the binary. Injectable for tests.
	lookPath func(string) (string, error)

	// runCommand executes the prepared command. Injectable for tests.
	runCommand func(*exec.Cmd) ([]byte, error)
}

// CommandAgentOption configures a CommandAgent.
type CommandAgentOption func(*CommandAgent)

// WithLookPath replaces the binary resolution function.
func WithLookPath(lookPath func(string) (string, error)) CommandAgentOption {
	return func(a *CommandAgent) {
		a.lookPath = lookPath
	}
}

// WithRunCommand replaces the command execution function.
func WithRunCommand(run func(*exec.Cmd) ([]byte, error)) CommandAgentOption {
	return func(a *CommandAgent) {
		a.runCommand = run
	}
}

// NewCommandAgent creates an agent for the given binary. An empty command
// yields an agent that is never available.
func NewCommandAgent(command string, opts ...CommandAgentOption) *CommandAgent {
	a := &CommandAgent{
		command:    command,
		lookPath:   exec.LookPath,
		runCommand: func(cmd *exec.Cmd) ([]byte, error) { return cmd.Output() },
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Name implements Agent.
func (a *CommandAgent) Name() string {
	return "command:" + a.command
}

// Available reports whether the agent binary resolves on PATH.
func (a *CommandAgent) Available() bool {
	if a.command == "" {
		return false
	}
	_, err := a.lookPath(a.command)
	return err == nil
}

// Write runs the agent binary and parses its JSON answer.
func (a *CommandAgent) Write(ctx context.Context, req Request) (*Note, error) {
	cmd := exec.CommandContext(ctx, a.command, "--system", SystemPrompt) //nolint:gosec // Command comes from operator config
	cmd.Stdin = strings.NewReader(req.Prompt)

	out, err := a.runCommand(cmd)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("authoring agent failed: %w: %s", err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, fmt.Errorf("authoring agent failed: %w", err)
	}

	var note Note
	if err := json.Unmarshal(out, &note); err != nil {
		return nil, fmt.Errorf("authoring agent returned invalid JSON: %w", err)
	}
	if len(note.Sources) == 0 {
		note.Sources = req.Sources
	}
	return &note, nil
}
