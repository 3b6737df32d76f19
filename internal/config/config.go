// Package config loads the .gobasic.yml file shared by the command line
// tools and the language server.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up from the working directory towards the file system root.
const FileName = ".gobasic.yml"

type Config struct {
	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`

	Log    LogConfig    `yaml:"log"`
	Parser ParserConfig `yaml:"parser"`
	Repl   ReplConfig   `yaml:"repl"`
	Lsp    LspConfig    `yaml:"lsp"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File is the log destination; empty selects the cache directory, "-" is stderr.
	File string `yaml:"file"`
}

type ParserConfig struct {
	MaxDepth         int  `yaml:"max_depth"`
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

type ReplConfig struct {
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

type LspConfig struct {
	FileExtensions []string `yaml:"file_extensions"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Parser: ParserConfig{
			MaxDepth: 256,
		},
		Repl: ReplConfig{
			Prompt: "] ",
		},
		Lsp: LspConfig{
			FileExtensions: []string{"bas", "basic"},
		},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}

	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}

	return b.String()
}

// Load reads path on top of the defaults. Keys absent from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg.Path = absPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded", slog.String("path", absPath))

	return cfg, nil
}

// Decode reads a YAML document over the defaults. An empty document yields
// the defaults unchanged.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return cfg, nil
}

// Discover walks up from dir looking for FileName. It returns an empty
// string when no file is found before the root.
func Discover(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(current, FileName)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}

		current = parent
	}
}

// Resolve loads explicitPath when set, otherwise the first FileName found
// above dir, otherwise the defaults.
func Resolve(explicitPath, dir string) (*Config, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

func (c *Config) Validate() error {
	var errs ValidationError

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}

	if c.Parser.MaxDepth < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("parser.max_depth must be at least 1, got %d", c.Parser.MaxDepth))
	}

	for i, ext := range c.Lsp.FileExtensions {
		if strings.TrimSpace(ext) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("lsp.file_extensions[%d] must be a non-empty string", i))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}

	return nil
}

// SlogLevel maps Log.Level onto slog; unknown names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// HistoryPath returns the REPL history file, defaulting to ~/.gobasic_history.
func (c *Config) HistoryPath() string {
	if c.Repl.HistoryFile != "" {
		return c.Repl.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".gobasic_history")
	}

	return filepath.Join(home, ".gobasic_history")
}
