package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typequest.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	profile := model.Profile{Nickname: "Kid", Avatar: "star", Theme: "ocean"}
	if err := st.CreateProfile(ctx, &profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	modes := []model.GameMode{model.ModeWordDash, model.ModeRaceSprint, model.ModeRaceSprint}
	for i, mode := range modes {
		s := model.Session{
			ProfileID:   profile.ID,
			GameMode:    mode,
			WPM:         float64(10 * (i + 1)),
			Accuracy:    90,
			DurationSec: 60,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.CreateSession(ctx, &s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, profile.ID, nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(report.Sessions))
	}
	if report.Summary.TotalSessions != 3 || report.Summary.AvgWPM != 20 || report.Summary.TotalMinutes != 3 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.TopModes) != 2 || report.TopModes[0] != model.ModeRaceSprint {
		t.Fatalf("unexpected top modes: %v", report.TopModes)
	}

	since := base.Add(90 * time.Minute)
	recent, err := BuildReport(ctx, st, profile.ID, &since)
	if err != nil {
		t.Fatalf("build recent report: %v", err)
	}
	if len(recent.Sessions) != 1 || recent.Summary.AvgWPM != 30 {
		t.Fatalf("unexpected recent report: %+v", recent)
	}
}
