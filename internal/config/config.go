// Package config provides configuration types and defaults for diffscope.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/diffscope/internal/log"
)

// Config holds all configuration options for diffscope.
type Config struct {
	// Ref is the git ref to diff against. Empty means the working
	// directory diff (staged + unstaged + untracked).
	Ref string `mapstructure:"ref"`

	// AutoRefresh reloads the diff when the repository changes.
	AutoRefresh bool `mapstructure:"auto_refresh"`

	// AutoRefreshDebounceMs is the settle time before a refresh fires.
	AutoRefreshDebounceMs int `mapstructure:"auto_refresh_debounce_ms"`

	// Editor overrides $EDITOR for "open in editor".
	Editor string `mapstructure:"editor"`

	// PersistReviews stores viewed state in SQLite so review progress
	// survives restarts. Off by default: viewed state is per-run.
	PersistReviews bool `mapstructure:"persist_reviews"`

	// ReviewsDBPath overrides the SQLite location when persistence is
	// enabled.
	ReviewsDBPath string `mapstructure:"reviews_db_path"`

	UI      UIConfig      `mapstructure:"ui"`
	Diff    DiffConfig    `mapstructure:"diff"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	ShowScrollbar bool   `mapstructure:"show_scrollbar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light", or "auto"
	WordDiff      bool   `mapstructure:"word_diff"`      // intraline highlighting on changed line pairs
}

// DiffConfig tunes the virtualized card layout.
type DiffConfig struct {
	// CollapsedHeight is the row height of a collapsed file card.
	CollapsedHeight int `mapstructure:"collapsed_height"`

	// MaxExpandedHeight caps an expanded card's estimated height.
	MaxExpandedHeight int `mapstructure:"max_expanded_height"`

	// ExpandBatchSize bounds how many cards expand-all flips per tick.
	ExpandBatchSize int `mapstructure:"expand_batch_size"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/diffscope/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh:           true,
		AutoRefreshDebounceMs: 500,
		PersistReviews:        false,
		UI: UIConfig{
			ShowStatusBar: true,
			ShowScrollbar: true,
			MarkdownStyle: "dark",
			WordDiff:      true,
		},
		Diff: DiffConfig{
			CollapsedHeight:   3,
			MaxExpandedHeight: 80,
			ExpandBatchSize:   50,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "diffscope", "traces", "traces.jsonl")
}

// DefaultReviewsDBPath returns the default SQLite path for persisted
// viewed state. Returns empty string if the home dir is unavailable.
func DefaultReviewsDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "diffscope", "reviews.db")
}

// Validate checks the configuration for errors. Empty values use
// defaults and are always valid.
func (c Config) Validate() error {
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateDiff(c.Diff); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light", "auto":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\", or \"auto\", got %q", ui.MarkdownStyle)
	}
}

// ValidateDiff checks layout configuration for errors.
func ValidateDiff(d DiffConfig) error {
	if d.CollapsedHeight < 0 {
		return fmt.Errorf("diff.collapsed_height must be >= 0, got %d", d.CollapsedHeight)
	}
	if d.MaxExpandedHeight < 0 {
		return fmt.Errorf("diff.max_expanded_height must be >= 0, got %d", d.MaxExpandedHeight)
	}
	if d.ExpandBatchSize < 0 {
		return fmt.Errorf("diff.expand_batch_size must be >= 0, got %d", d.ExpandBatchSize)
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
		return nil
	default:
		return fmt.Errorf("theme.mode must be \"light\" or \"dark\", got %q", t.Mode)
	}
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Diffscope Configuration

# Git ref to diff against. Leave unset for the working directory diff
# (staged + unstaged + untracked files).
# ref: main

# Reload the diff automatically when the repository changes
auto_refresh: true
# auto_refresh_debounce_ms: 500

# Editor for "open in editor" (falls back to $EDITOR, then vi)
# editor: nvim

# Persist viewed state across restarts (stored in SQLite)
persist_reviews: false
# reviews_db_path: ~/.config/diffscope/reviews.db

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  show_scrollbar: true    # Show scroll position indicator
  word_diff: true         # Highlight changed words within modified lines
  # markdown_style: dark  # Summary rendering style: "dark" (default), "light", or "auto"

# Theme configuration
theme:
  # Force light or dark mode; leave unset for terminal detection
  # mode: dark

# Diff card layout
diff:
  collapsed_height: 3      # Rows per collapsed file card
  max_expanded_height: 80  # Cap on an expanded card's estimated height
  expand_batch_size: 50    # Cards flipped per tick by expand/collapse all

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/diffscope/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
