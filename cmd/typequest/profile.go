package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/progression"
	"github.com/verte-zerg/typequest/internal/service"
	"github.com/verte-zerg/typequest/internal/stats"
)

const defaultCurveWindow = 5

var (
	profileNickname string
	profileAvatar   string
	profileTheme    string

	statsProfile     string
	statsRange       string
	statsCurveWindow int

	badgesProfile string
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage player profiles",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCreateCmd,
	}
	createCmd.Flags().StringVar(&profileNickname, "nickname", "", "player nickname (1-24 characters)")
	createCmd.Flags().StringVar(&profileAvatar, "avatar", "", "avatar: "+strings.Join(model.Avatars, ", "))
	createCmd.Flags().StringVar(&profileTheme, "theme", "", "theme: "+strings.Join(model.Themes, ", "))

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileShowCmd,
	}

	cmd.AddCommand(createCmd, showCmd)
	return cmd
}

// withService opens the local store for the duration of fn.
func withService(fn func(ctx context.Context, svc *service.Service) error) error {
	loc, err := time.LoadLocation(practiceTimezone)
	if err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}
	st, err := openLocalStore(practiceDB)
	if err != nil {
		return err
	}
	defer closeStore(st)
	return fn(context.Background(), service.New(st, service.Options{Location: loc}))
}

func runProfileCreateCmd(cmd *cobra.Command, _ []string) error {
	return withService(func(ctx context.Context, svc *service.Service) error {
		p, err := svc.CreateProfile(ctx, service.CreateProfileInput{
			Nickname: profileNickname,
			Avatar:   profileAvatar,
			Theme:    profileTheme,
		})
		if err != nil {
			return flagError(err)
		}
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "Created profile %s for %s\n", p.ID, p.Nickname); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Play with: typequest play --profile %s\n", p.ID)
		return err
	})
}

func runProfileShowCmd(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *service.Service) error {
		p, err := svc.GetProfile(ctx, args[0])
		if err != nil {
			return err
		}
		return renderProfile(cmd.OutOrStdout(), p)
	})
}

func renderProfile(w io.Writer, p model.Profile) error {
	earned, needed := progression.LevelProgress(p.XP)
	last := p.LastPracticeDate
	if last == "" {
		last = "never"
	}
	lines := []string{
		fmt.Sprintf("%s (%s, %s theme)", p.Nickname, p.Avatar, p.Theme),
		fmt.Sprintf("ID: %s", p.ID),
		fmt.Sprintf("Level %d  %d/%d XP to next level  (%d XP total)", p.Level, earned, needed, p.XP),
		fmt.Sprintf("Streak: %d day(s), best %d", p.CurrentStreak, p.LongestStreak),
		fmt.Sprintf("Last practice: %s", last),
		fmt.Sprintf("Streak saves: %d", p.StreakSavesRemaining),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsProfile, "profile", "", "profile ID")
	cmd.Flags().StringVar(&statsRange, "range", "", "only sessions from the last N days, e.g. 7d or 30d")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window for the WPM trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsProfile == "" {
		return fmt.Errorf("--profile is required")
	}
	days, err := parseDays(statsRange)
	if err != nil {
		return err
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	st, err := openLocalStore(practiceDB)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	svc := service.New(st, service.Options{})
	if _, err := svc.GetProfile(ctx, statsProfile); err != nil {
		return err
	}
	var since *time.Time
	if days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		since = &t
	}
	report, err := stats.BuildReport(ctx, st, statsProfile, since)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report, statsCurveWindow, terminalWidth()-len("WPM trend: ")); err != nil {
		return err
	}
	return stats.RenderSessions(out, report.Sessions)
}

func newBadgesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "List earned badges",
		Args:  cobra.NoArgs,
		RunE:  runBadgesCmd,
	}
	cmd.Flags().StringVar(&badgesProfile, "profile", "", "profile ID")
	return cmd
}

func runBadgesCmd(cmd *cobra.Command, _ []string) error {
	if badgesProfile == "" {
		return fmt.Errorf("--profile is required")
	}
	return withService(func(ctx context.Context, svc *service.Service) error {
		badges, err := svc.ListBadges(ctx, badgesProfile)
		if err != nil {
			return err
		}
		return stats.RenderBadges(cmd.OutOrStdout(), badges)
	})
}

// parseDays reads "7d" or "7" as a number of days. Empty means no range.
func parseDays(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(raw), "d"))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("--range must look like 7d or 30d")
	}
	return days, nil
}

// flagError rewrites validation failures in terms of CLI flags.
func flagError(err error) error {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msgs := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		msgs = append(msgs, "--"+f.Message)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
