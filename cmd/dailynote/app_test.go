package main

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/config"
)

// newTestCmd builds a bare command carrying the shared pipeline flags,
// parsed with the given arguments.
func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	addPipelineFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd
}

// TestBuildConfigDefaults tests config resolution with no flags set.
// Not parallel because t.Chdir isolates the working directory from any
// real .dailynote file.
func TestBuildConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := buildConfig(newTestCmd(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`).MatchString(cfg.Date) {
		t.Errorf("expected resolved date in YYYY-MM-DD form, got %q", cfg.Date)
	}
	if cfg.BaseDir != "." {
		t.Errorf("expected default base dir '.', got %q", cfg.BaseDir)
	}
	if !cfg.SaveHistory {
		t.Error("expected history recording enabled by default")
	}
	if len(cfg.Keywords) == 0 {
		t.Error("expected default keywords")
	}
}

// TestBuildConfigFlags tests that flags override defaults.
func TestBuildConfigFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newTestCmd(t, "--date", "2024-03-05", "--base-dir", "/tmp/notes", "--no-history")
	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Date != "2024-03-05" {
		t.Errorf("expected date 2024-03-05, got %q", cfg.Date)
	}
	if cfg.BaseDir != "/tmp/notes" {
		t.Errorf("expected base dir /tmp/notes, got %q", cfg.BaseDir)
	}
	if cfg.SaveHistory {
		t.Error("expected --no-history to disable history recording")
	}
}

// TestBuildConfigFile tests config file loading and flag precedence.
func TestBuildConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_dir: /from/file\nkeywords:\n  - golang\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Run("file values applied", func(t *testing.T) {
		cfg, err := buildConfig(newTestCmd(t, "--config", configPath))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseDir != "/from/file" {
			t.Errorf("expected base dir from file, got %q", cfg.BaseDir)
		}
		if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "golang" {
			t.Errorf("expected keywords from file, got %v", cfg.Keywords)
		}
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := buildConfig(newTestCmd(t, "--config", configPath, "--base-dir", "/from/flag"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseDir != "/from/flag" {
			t.Errorf("expected flag to win over file, got %q", cfg.BaseDir)
		}
	})

	t.Run("explicit missing file errors", func(t *testing.T) {
		_, err := buildConfig(newTestCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}

// TestBuildConfigTimeout tests the authoring deadline flag and its
// precedence over the config file.
func TestBuildConfigTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("author_timeout_seconds: 60\n"), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		addPipelineFlags(cmd)
		addTimeoutFlag(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		return cmd
	}

	t.Run("flag overrides default", func(t *testing.T) {
		cfg, err := buildConfig(newCmd("--timeout", "120"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.AuthorTimeout != 120*time.Second {
			t.Errorf("expected 120s author timeout, got %v", cfg.AuthorTimeout)
		}
	})

	t.Run("flag overrides file", func(t *testing.T) {
		cfg, err := buildConfig(newCmd("--config", configPath, "--timeout", "5"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.AuthorTimeout != 5*time.Second {
			t.Errorf("expected 5s author timeout, got %v", cfg.AuthorTimeout)
		}
	})

	t.Run("unset flag keeps file value", func(t *testing.T) {
		cfg, err := buildConfig(newCmd("--config", configPath))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.AuthorTimeout != 60*time.Second {
			t.Errorf("expected 60s author timeout from file, got %v", cfg.AuthorTimeout)
		}
	})

	t.Run("zero is rejected", func(t *testing.T) {
		_, err := buildConfig(newCmd("--timeout", "0"))
		if !errors.Is(err, config.ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})
}

// TestBuildConfigInvalidDate tests date validation.
func TestBuildConfigInvalidDate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := buildConfig(newTestCmd(t, "--date", "03/05/2024"))
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if !errors.Is(err, config.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

// TestStatusCmdEmptyRepository tests the status command against a
// repository with no published notes.
func TestStatusCmdEmptyRepository(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	outputPath := filepath.Join(t.TempDir(), "status.txt")

	cmd := NewStatusCmd()
	cmd.SetArgs([]string{"-b", t.TempDir(), "-o", outputPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read status output: %v", err)
	}
	if !strings.Contains(string(content), "Total notes:   0") {
		t.Errorf("expected empty summary to report zero notes, got %q", string(content))
	}
	if !strings.Contains(string(content), "(never)") {
		t.Errorf("expected empty summary to report no publish yet, got %q", string(content))
	}
}
