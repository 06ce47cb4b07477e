package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typequest/internal/model"
)

func TestComputeFormula(t *testing.T) {
	m := Compute(50, 0, 30*time.Second)
	if m.WPM != 20 || m.RawWPM != 20 {
		t.Fatalf("expected 20 wpm, got %+v", m)
	}
	if m.Accuracy != 100 || m.TotalChars != 50 {
		t.Fatalf("unexpected accuracy/total: %+v", m)
	}

	m = Compute(45, 5, time.Minute)
	if m.WPM != 9 || m.RawWPM != 10 {
		t.Fatalf("unexpected wpm: %+v", m)
	}
	if m.Accuracy != 90 {
		t.Fatalf("expected 90%% accuracy, got %d", m.Accuracy)
	}
}

func TestComputeEdgeCases(t *testing.T) {
	m := Compute(10, 2, 0)
	if m.WPM != 0 || m.RawWPM != 0 {
		t.Fatalf("zero duration must yield 0 wpm, got %+v", m)
	}
	m = Compute(0, 0, 10*time.Second)
	if m.Accuracy != 100 {
		t.Fatalf("no keystrokes must yield 100 accuracy, got %d", m.Accuracy)
	}
	if m.TotalChars != 0 || m.WPM != 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 2 of 3 correct is 66.67%.
	if got := Compute(2, 1, time.Minute).Accuracy; got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	// 1 of 8 correct is 12.5%.
	if got := Compute(1, 7, time.Minute).Accuracy; got != 13 {
		t.Fatalf("expected 13, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	sessions := []model.Session{
		{WPM: 20, Accuracy: 90, DurationSec: 45},
		{WPM: 25, Accuracy: 95, DurationSec: 60},
		{WPM: 31, Accuracy: 100, DurationSec: 75},
	}
	got := Summarize(sessions)
	want := model.ProfileStats{TotalSessions: 3, AvgWPM: 25, AvgAccuracy: 95, TotalMinutes: 3}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if empty := Summarize(nil); empty != (model.ProfileStats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	report := Report{
		Sessions: []model.Session{{WPM: 30}, {WPM: 20}},
		Summary:  model.ProfileStats{TotalSessions: 2, AvgWPM: 25, AvgAccuracy: 93, TotalMinutes: 2},
		TopModes: []model.GameMode{model.ModeRaceSprint},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, report, 1, 0); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Avg WPM: 25", "Avg Accuracy: 93%", "Favorite game: race_sprint", "WPM trend:  @"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
