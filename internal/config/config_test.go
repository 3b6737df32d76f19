package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pacer/gobasic/internal/basic/testutil"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to be valid, got %v", err)
	}

	if cfg.Parser.MaxDepth != 256 {
		t.Errorf("Expected default max depth 256, got %d", cfg.Parser.MaxDepth)
	}

	if cfg.Repl.Prompt != "] " {
		t.Errorf("Expected default prompt %q, got %q", "] ", cfg.Repl.Prompt)
	}

	if !slices.Equal(cfg.Lsp.FileExtensions, []string{"bas", "basic"}) {
		t.Errorf("Unexpected default extensions %v", cfg.Lsp.FileExtensions)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name:    "empty document keeps defaults",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "info" || cfg.Parser.MaxDepth != 256 {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:    "partial override",
			content: "parser:\n  max_depth: 32\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Parser.MaxDepth != 32 {
					t.Errorf("Expected max depth 32, got %d", cfg.Parser.MaxDepth)
				}
				if cfg.Log.Format != "json" {
					t.Errorf("Expected untouched keys to keep defaults, got format %q", cfg.Log.Format)
				}
			},
		},
		{
			name:    "extensions replaced",
			content: "lsp:\n  file_extensions: [bas]\n",
			check: func(t *testing.T, cfg *Config) {
				if !slices.Equal(cfg.Lsp.FileExtensions, []string{"bas"}) {
					t.Errorf("Expected [bas], got %v", cfg.Lsp.FileExtensions)
				}
			},
		},
		{
			name:    "unknown key",
			content: "parser:\n  depth: 3\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "log: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.content))

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"
	cfg.Parser.MaxDepth = 0
	cfg.Lsp.FileExtensions = []string{"bas", " "}

	err := cfg.Validate()

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}

	if len(validation.Issues) != 4 {
		t.Errorf("Expected 4 issues, got %d: %v", len(validation.Issues), validation.Issues)
	}

	if !strings.Contains(err.Error(), "parser.max_depth") {
		t.Errorf("Expected message to mention max_depth, got %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"valid.yml":   "log:\n  level: debug\n  format: text\n",
		"invalid.yml": "log:\n  level: loud\n",
	})

	cfg, err := Load(filepath.Join(dir, "valid.yml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.SlogLevel())
	}

	if cfg.Path != filepath.Join(dir, "valid.yml") {
		t.Errorf("Expected path to be recorded, got %q", cfg.Path)
	}

	if _, err := Load(filepath.Join(dir, "invalid.yml")); err == nil {
		t.Error("Expected validation to fail")
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}

	if _, err := Load(""); err == nil {
		t.Error("Expected an error for an empty path")
	}
}

func TestDiscoverAndResolve(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		FileName:         "repl:\n  prompt: \"> \"\n",
		"src/deep/a.bas": "1\n",
	})

	deep := filepath.Join(dir, "src", "deep")

	path, err := Discover(deep)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if path != filepath.Join(dir, FileName) {
		t.Errorf("Expected %s, got %s", filepath.Join(dir, FileName), path)
	}

	cfg, err := Resolve("", deep)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Repl.Prompt != "> " {
		t.Errorf("Expected prompt from discovered file, got %q", cfg.Repl.Prompt)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}

	for name, want := range tests {
		cfg := Default()
		cfg.Log.Level = name

		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.Repl.HistoryFile = "/tmp/custom_history"

	if got := cfg.HistoryPath(); got != "/tmp/custom_history" {
		t.Errorf("Expected configured history file, got %q", got)
	}

	cfg.Repl.HistoryFile = ""
	if got := cfg.HistoryPath(); !strings.HasSuffix(got, ".gobasic_history") {
		t.Errorf("Expected default history file, got %q", got)
	}
}
