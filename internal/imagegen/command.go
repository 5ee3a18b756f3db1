package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// CommandGenerator invokes an external image-generation binary with
// explicit argument-vector flags, equivalent to the in-process form:
//
//	<command> generate --prompt <p> --width 1024 --height 1024 \
//	    --format webp --output <path>
type CommandGenerator struct {
	// command is the generator binary name or path.
	command string

	// lookPath resolves the binary. Injectable for tests.
	lookPath func(string) (string, error)

	// runCommand executes the prepared command, returning combined
	// output for diagnosis. Injectable for tests.
	runCommand func(*exec.Cmd) ([]byte, error)
}

// CommandGeneratorOption configures a CommandGenerator.
type CommandGeneratorOption func(*CommandGenerator)

// WithGeneratorLookPath replaces the binary resolution function.
func WithGeneratorLookPath(lookPath func(string) (string, error)) CommandGeneratorOption {
	return func(g *CommandGenerator) {
		g.lookPath = lookPath
	}
}

// WithGeneratorRunCommand replaces the command execution function.
func WithGeneratorRunCommand(run func(*exec.Cmd) ([]byte, error)) CommandGeneratorOption {
	return func(g *CommandGenerator) {
		g.runCommand = run
	}
}

// NewCommandGenerator creates a generator for the given binary. An empty
// command yields a generator that is never available.
func NewCommandGenerator(command string, opts ...CommandGeneratorOption) *CommandGenerator {
	g := &CommandGenerator{
		command:    command,
		lookPath:   exec.LookPath,
		runCommand: func(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() },
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Name implements Generator.
func (g *CommandGenerator) Name() string {
	return "command:" + g.command
}

// Available reports whether the generator binary resolves on PATH.
func (g *CommandGenerator) Available() bool {
	if g.command == "" {
		return false
	}
	_, err := g.lookPath(g.command)
	return err == nil
}

// Generate runs the generator binary. Output directories are created
// first; a non-zero exit surfaces the tool's combined output for operator
// diagnosis.
func (g *CommandGenerator) Generate(ctx context.Context, req Request) error {
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0750); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, g.command, //nolint:gosec // Command comes from operator config
		"generate",
		"--prompt", req.Prompt,
		"--width", strconv.Itoa(req.Width),
		"--height", strconv.Itoa(req.Height),
		"--format", req.Format,
		"--output", req.OutputPath,
	)

	out, err := g.runCommand(cmd)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("image command failed with code %d: %s",
				exitErr.ExitCode(), bytes.TrimSpace(out))
		}
		return fmt.Errorf("image command failed: %w", err)
	}
	return nil
}
