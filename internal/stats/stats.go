// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typequest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the standardized word length used for WPM.
const charsPerWord = 5.0

// Metrics holds the rounded speed and accuracy figures for a typing attempt.
type Metrics struct {
	WPM          int     `json:"wpm"`
	RawWPM       int     `json:"rawWpm"`
	Accuracy     int     `json:"accuracy"`
	CorrectChars int     `json:"correctChars"`
	Incorrect    int     `json:"incorrectChars"`
	TotalChars   int     `json:"totalChars"`
	ElapsedSec   float64 `json:"elapsedTime"`
}

// Compute applies the WPM/accuracy formula shared by every game.
// Zero elapsed time yields 0 WPM and zero typed characters yield 100% accuracy.
func Compute(correct, incorrect int, elapsed time.Duration) Metrics {
	m := Metrics{
		CorrectChars: correct,
		Incorrect:    incorrect,
		TotalChars:   correct + incorrect,
		ElapsedSec:   elapsed.Seconds(),
		Accuracy:     100,
	}
	minutes := elapsed.Seconds() / 60
	if minutes > 0 {
		m.WPM = int(math.Round((float64(correct) / charsPerWord) / minutes))
		m.RawWPM = int(math.Round((float64(m.TotalChars) / charsPerWord) / minutes))
	}
	if m.TotalChars > 0 {
		m.Accuracy = int(math.Round(100 * float64(correct) / float64(m.TotalChars)))
	}
	return m
}

// Summarize aggregates sessions into rounded averages.
func Summarize(sessions []model.Session) model.ProfileStats {
	if len(sessions) == 0 {
		return model.ProfileStats{}
	}
	var wpmSum, accSum float64
	var seconds int
	for _, s := range sessions {
		wpmSum += s.WPM
		accSum += s.Accuracy
		seconds += s.DurationSec
	}
	count := float64(len(sessions))
	return model.ProfileStats{
		TotalSessions: len(sessions),
		AvgWPM:        int(math.Round(wpmSum / count)),
		AvgAccuracy:   int(math.Round(accSum / count)),
		TotalMinutes:  int(math.Round(float64(seconds) / 60)),
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the aggregate stats and a WPM trend line.
// Sessions are expected newest first; the trend is drawn oldest to newest
// and trimmed to width when width > 0.
func RenderSummary(w io.Writer, report Report, window, width int) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := report.Summary
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.TotalSessions),
		fmt.Sprintf("Avg WPM: %d", s.AvgWPM),
		fmt.Sprintf("Avg Accuracy: %d%%", s.AvgAccuracy),
		fmt.Sprintf("Minutes practiced: %d", s.TotalMinutes),
	}
	if len(report.TopModes) > 0 {
		lines = append(lines, fmt.Sprintf("Favorite game: %s", report.TopModes[0]))
	}

	wpms := make([]float64, 0, len(report.Sessions))
	for i := len(report.Sessions) - 1; i >= 0; i-- {
		wpms = append(wpms, report.Sessions[i].WPM)
	}
	wpms = MovingAverage(wpms, window)
	if width > 0 && len(wpms) > width {
		wpms = wpms[len(wpms)-width:]
	}
	lines = append(lines, fmt.Sprintf("WPM trend: %s", Sparkline(wpms)), "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints a table of sessions.
func RenderSessions(w io.Writer, sessions []model.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Completed", "Game", "WPM", "Accuracy", "Seconds", "XP"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.CompletedAt.Local().Format("2006-01-02 15:04"),
			string(s.GameMode),
			fmt.Sprintf("%.0f", s.WPM),
			fmt.Sprintf("%.0f%%", s.Accuracy),
			fmt.Sprintf("%d", s.DurationSec),
			fmt.Sprintf("+%d", s.XPEarned),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
