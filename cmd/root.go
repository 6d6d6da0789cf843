package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/diffscope/internal/config"
	"github.com/zjrosen/diffscope/internal/git"
	"github.com/zjrosen/diffscope/internal/log"
	"github.com/zjrosen/diffscope/internal/opener"
	"github.com/zjrosen/diffscope/internal/review"
	"github.com/zjrosen/diffscope/internal/review/sqlite"
	"github.com/zjrosen/diffscope/internal/source"
	"github.com/zjrosen/diffscope/internal/tracing"
	"github.com/zjrosen/diffscope/internal/ui/reviewer"
	"github.com/zjrosen/diffscope/internal/ui/styles"
	"github.com/zjrosen/diffscope/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "diffscope [ref]",
	Short:   "A terminal ui for reviewing git diffs file by file",
	Long: `Diffscope shows the current diff as a scrollable list of file cards
with per-file viewed tracking, so large change sets can be reviewed
incrementally. With no argument it shows the working directory diff
(staged, unstaged, and untracked files); pass a ref to diff against it.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/diffscope/config.yaml)")
	rootCmd.Flags().String("ref", "",
		"git ref to diff against (same as the positional argument)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic refresh when the repository changes")
	rootCmd.Flags().Bool("persist", false,
		"persist viewed state across runs")
	rootCmd.Flags().String("debug", "",
		"write a debug log to the given file")

	_ = viper.BindPFlag("ref", rootCmd.Flags().Lookup("ref"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("auto_refresh_debounce_ms", defaults.AutoRefreshDebounceMs)
	viper.SetDefault("persist_reviews", defaults.PersistReviews)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_scrollbar", defaults.UI.ShowScrollbar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.word_diff", defaults.UI.WordDiff)
	viper.SetDefault("diff.collapsed_height", defaults.Diff.CollapsedHeight)
	viper.SetDefault("diff.max_expanded_height", defaults.Diff.MaxExpandedHeight)
	viper.SetDefault("diff.expand_batch_size", defaults.Diff.ExpandBatchSize)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .diffscope/config.yaml (current directory)
		// 2. ~/.config/diffscope/config.yaml (user config)
		if _, err := os.Stat(".diffscope/config.yaml"); err == nil {
			viper.SetConfigFile(".diffscope/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "diffscope"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a commented default
		// in the user config dir so settings are discoverable.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "diffscope", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults.
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if debugPath, _ := cmd.Flags().GetString("debug"); debugPath != "" {
		cleanup, err := log.Init(debugPath)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	} else if envPath := os.Getenv("DIFFSCOPE_DEBUG"); envPath != "" {
		if cleanup, err := log.Init(envPath); err == nil {
			defer cleanup()
		}
	}

	if len(args) == 1 {
		cfg.Ref = args[0]
	}
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}
	if persist, _ := cmd.Flags().GetBool("persist"); persist {
		cfg.PersistReviews = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	styles.ForceMode(cfg.Theme.Mode)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	exec := git.NewRealExecutor(cwd)
	if !exec.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s", cwd)
	}
	repoRoot, err := exec.GetRepoRoot()
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}

	provider, err := newTracingProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	sessionID := repoRoot + "|" + cfg.Ref
	trackers := review.NewStore()
	defer trackers.Dispose(sessionID)

	src := source.NewGitSource(exec, cfg.Ref)
	opts := reviewer.Options{
		Config:    cfg,
		Source:    src,
		Contents:  src,
		Opener:    &opener.SystemOpener{Editor: cfg.Editor},
		Tracker:   trackers.Get(sessionID),
		SessionID: sessionID,
	}

	var closers []func() error

	if cfg.PersistReviews {
		dbPath := cfg.ReviewsDBPath
		if dbPath == "" {
			dbPath = config.DefaultReviewsDBPath()
		}
		db, dbErr := sqlite.NewDB(dbPath)
		if dbErr != nil {
			return fmt.Errorf("opening reviews database: %w", dbErr)
		}
		closers = append(closers, db.Close)

		repo := db.Repository()
		if states, loadErr := repo.Load(opts.SessionID); loadErr == nil {
			opts.Tracker.Restore(states)
		} else {
			log.ErrorErr(log.CatStorage, "Failed to load persisted reviews", loadErr)
		}
		opts.Persister = repo
	}

	if cfg.AutoRefresh {
		wcfg := watcher.DefaultConfig(repoRoot)
		if cfg.AutoRefreshDebounceMs > 0 {
			wcfg.DebounceDur = time.Duration(cfg.AutoRefreshDebounceMs) * time.Millisecond
		}
		w, wErr := watcher.New(wcfg)
		if wErr != nil {
			log.ErrorErr(log.CatWatcher, "Watcher unavailable, auto refresh disabled", wErr)
		} else if events, startErr := w.Start(); startErr != nil {
			log.ErrorErr(log.CatWatcher, "Watcher failed to start, auto refresh disabled", startErr)
		} else {
			opts.RepoEvents = events
			closers = append(closers, w.Stop)
		}
	}

	p := tea.NewProgram(
		reviewer.NewApp(opts),
		tea.WithAltScreen(),
	)
	_, err = p.Run()

	for _, closeFn := range closers {
		if closeErr := closeFn(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newTracingProvider maps the config section onto the tracing
// subsystem, filling in the default trace file path.
func newTracingProvider(cfg config.Config) (*tracing.Provider, error) {
	filePath := cfg.Tracing.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
