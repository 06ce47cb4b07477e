// Package main provides the CLI entrypoint for typequest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typequest/internal/config"
	"github.com/verte-zerg/typequest/internal/generator"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/service"
	"github.com/verte-zerg/typequest/internal/store"
	"github.com/verte-zerg/typequest/internal/tui"
	"github.com/verte-zerg/typequest/internal/wordlist"
)

const (
	defaultMode       = string(model.ModeRaceSprint)
	defaultCategory   = string(generator.Beginner)
	defaultDifficulty = string(generator.Easy)
	defaultTimezone   = "UTC"
)

var (
	practiceProfile    string
	practiceMode       string
	practiceCategory   string
	practiceDifficulty string
	practiceTimeLimit  int
	practicePrompts    string
	practiceDB         string
	practiceTimezone   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typequest",
		Short:         "Typing adventures for kids",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	addPlayFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play a typing game",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	}
	addPlayFlags(playCmd)

	rootCmd.PersistentFlags().StringVar(&practiceDB, "db", "", "SQLite database path (default: XDG data home)")
	rootCmd.PersistentFlags().StringVar(&practiceTimezone, "timezone", defaultTimezone, "IANA timezone for practice days")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBadgesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceProfile, "profile", "", "profile ID to save progress to")
	cmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "game: race_sprint, alien_defense, home_row_builder, word_dash")
	cmd.Flags().StringVar(&practiceCategory, "category", defaultCategory, "race sprint prompt category")
	cmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "arcade difficulty: easy, medium, hard")
	cmd.Flags().IntVar(&practiceTimeLimit, "time-limit", 0, "round length in seconds (0: untimed sprint, 60s arcade)")
	cmd.Flags().StringVar(&practicePrompts, "prompts", "", "custom prompt file, one prompt per line")
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg.Practice)

	cfg := model.PracticeConfig{
		ProfileID:  practiceProfile,
		Mode:       model.GameMode(practiceMode),
		Category:   practiceCategory,
		Difficulty: practiceDifficulty,
		TimeLimit:  time.Duration(practiceTimeLimit) * time.Second,
		Prompts:    practicePrompts,
		DBPath:     practiceDB,
		Timezone:   practiceTimezone,
	}
	if err := validatePracticeConfig(cfg, practiceTimeLimit); err != nil {
		return err
	}

	gen := generator.New()
	if err := loadCustomPrompts(gen, cfg); err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}
	st, err := openLocalStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeStore(st)

	svc := service.New(st, service.Options{Location: loc})
	var profile model.Profile
	if cfg.ProfileID != "" {
		profile, err = svc.GetProfile(context.Background(), cfg.ProfileID)
		if err != nil {
			return fmt.Errorf("failed to load profile %q: %w", cfg.ProfileID, err)
		}
	} else {
		logErrln("no --profile given; playing as guest (create one with: typequest profile create --nickname NAME)")
	}

	m := tui.NewModel(tui.Options{
		Mode:       cfg.Mode,
		Category:   generator.Category(cfg.Category),
		Difficulty: generator.Difficulty(cfg.Difficulty),
		TimeLimit:  cfg.TimeLimit,
		Profile:    profile,
	}, svc, gen)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	for _, serr := range m.SaveErrors() {
		logErrf("failed to save session: %v\n", serr)
	}
	return nil
}

// loadCustomPrompts installs a prompt file when one is configured. The
// default prompt file is optional; an explicit one must exist.
func loadCustomPrompts(gen *generator.Generator, cfg model.PracticeConfig) error {
	path := cfg.Prompts
	explicit := path != ""
	if !explicit {
		path = config.DefaultPromptsPath()
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	prompts, err := wordlist.LoadPrompts(path)
	if err != nil {
		if explicit {
			return fmt.Errorf("failed to load prompts: %w", err)
		}
		logErrf("ignoring prompt file %s: %v\n", path, err)
		return nil
	}
	prompts = wordlist.Apply(prompts, wordlist.FilterForCategory(cfg.Category))
	if len(prompts) == 0 {
		logErrf("no prompts in %s fit category %q; using built-in prompts\n", path, cfg.Category)
		return nil
	}
	gen.UseCustom(prompts)
	return nil
}

func openLocalStore(path string) (*store.Store, error) {
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st store.Repository) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyPracticeConfig(cmd *cobra.Command, p config.PracticeConfig) {
	applyStringConfig(cmd, "profile", &practiceProfile, p.Profile)
	applyStringConfig(cmd, "mode", &practiceMode, p.Mode)
	applyStringConfig(cmd, "category", &practiceCategory, p.Category)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, p.Difficulty)
	applyIntConfig(cmd, "time-limit", &practiceTimeLimit, p.TimeLimit)
	applyStringConfig(cmd, "prompts", &practicePrompts, p.Prompts)
	applyStringConfig(cmd, "db", &practiceDB, p.DB)
	applyStringConfig(cmd, "timezone", &practiceTimezone, p.Timezone)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typequest configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# profile = ""            # Profile ID to save progress to
# mode = %q      # race_sprint, alien_defense, home_row_builder, word_dash
# category = %q     # home_row, beginner, intermediate, advanced, punctuation, numbers
# difficulty = %q       # easy, medium, hard
# time-limit = 0          # Round length in seconds
# prompts = ""            # Custom prompt file
# db = ""                 # SQLite database path
# timezone = %q          # IANA timezone for practice days

[server]
# addr = %q
# driver = %q         # sqlite or postgres
# dsn = ""                # SQLite path or PostgreSQL URL
# redis-addr = ""         # Redis for multi-instance profile locks
# redis-password = ""
# timezone = %q
# log-level = %q
# rate-limit-rps = %d
# rate-limit-burst = %d
# cors-origins = ["*"]
# Server values can also be set with TYPEQUEST_* environment variables.
`,
		defaultMode,
		defaultCategory,
		defaultDifficulty,
		defaultTimezone,
		defaultAddr,
		store.DriverSQLite,
		defaultTimezone,
		defaultLogLevel,
		defaultRateLimitRPS,
		defaultRateLimitBurst,
	)
}

func validatePracticeConfig(cfg model.PracticeConfig, timeLimitSec int) error {
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be one of: race_sprint, alien_defense, home_row_builder, word_dash")
	}
	if _, err := generator.ParseCategory(cfg.Category); err != nil {
		return fmt.Errorf("--category: %w", err)
	}
	switch generator.Difficulty(cfg.Difficulty) {
	case generator.Easy, generator.Medium, generator.Hard:
	default:
		return fmt.Errorf("--difficulty must be easy, medium or hard")
	}
	if timeLimitSec < 0 {
		return fmt.Errorf("--time-limit must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
