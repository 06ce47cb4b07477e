package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typequest/internal/engine"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/progression"
)

const (
	fieldRows   = 12
	fieldWidth  = 60
	heartFull   = "♥"
	heartBroken = "♡"
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.screen == screenRecap {
		body = m.renderRecap()
	} else {
		body = m.renderPlay()
	}
	header := titleStyle.Render(m.renderHeader())
	content := lipgloss.JoinVertical(lipgloss.Center, header, "", body)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	main := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return main + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	title := modeTitle(m.opts.Mode)
	if m.profile.Nickname == "" {
		return title
	}
	return fmt.Sprintf("%s  ·  %s  ·  Level %d", title, m.profile.Nickname, max(m.profile.Level, 1))
}

func (m *Model) renderPlay() string {
	switch g := m.game.(type) {
	case *engine.WordDash:
		return m.renderWordDash(g)
	case *engine.AlienDefense:
		return m.renderAliens(g)
	case *engine.Engine:
		return m.renderPrompt(g)
	default:
		return ""
	}
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderPrompt(e *engine.Engine) string {
	var lines []string
	if m.opts.Mode == model.ModeHomeRowBuilder {
		l := m.lesson()
		lines = append(lines, fmt.Sprintf("%s: %s", l.Name, l.Description), "")
	}
	wrapped := wrapStyledRunes(buildStyledRunes(e.Chars()), m.contentWidth())
	if w := m.contentWidth(); w > 0 {
		wrapped = lipgloss.NewStyle().Width(w).Render(wrapped)
	}
	lines = append(lines, wrapped, "", m.bar.ViewAs(e.Progress()))
	if m.opts.Mode == model.ModeHomeRowBuilder {
		next, ok := nextRune(e.Chars())
		lines = append(lines, "", renderKeyboard(next, ok))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderWordDash(w *engine.WordDash) string {
	now := m.opts.Now()
	word := renderStyledRunes(buildStyledRunes(w.Chars()))
	streak := fmt.Sprintf("Streak %d  x%.1f", w.Streak(), engine.StreakMultiplier(w.Streak()+1))
	lines := []string{
		word,
		pendingStyle.Render("> " + w.Input()),
		"",
		fmt.Sprintf("Score %d  ·  %s  ·  %s left", w.Score(), streak, formatSeconds(w.Remaining(now))),
	}
	if w.Phase() == engine.Idle {
		lines = append(lines, "", footerStyle.Render("Start typing the word to begin"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderAliens(d *engine.AlienDefense) string {
	now := m.opts.Now()
	width := fieldWidth
	if cw := m.contentWidth(); cw > 0 {
		width = min(cw, fieldWidth)
	}
	grid := make([][]rune, fieldRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, a := range d.Aliens() {
		target := []rune(a.Target)
		row := min(int(a.Y*fieldRows), fieldRows-1)
		col := int(a.X * float64(max(width-len(target), 1)))
		for i, r := range target {
			if col+i < width {
				grid[row][col+i] = r
			}
		}
	}
	rows := make([]string, 0, fieldRows+1)
	for _, line := range grid {
		rows = append(rows, alienStyle.Render(string(line)))
	}
	rows = append(rows, pendingStyle.Render(strings.Repeat("─", width)))

	hearts := strings.Repeat(heartFull, d.Lives()) + strings.Repeat(heartBroken, max(engine.DefaultLives-d.Lives(), 0))
	status := fmt.Sprintf("%s  ·  Score %d  ·  Combo %d  ·  %s left", hearts, d.Score(), d.Combo(), formatSeconds(d.Remaining(now)))
	rows = append(rows, "> "+d.Input(), status)
	if d.Phase() == engine.Idle {
		rows = append(rows, "", footerStyle.Render("Press any key to launch the defense"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderRecap() string {
	if m.final == nil {
		return ""
	}
	st := *m.final
	perf := progression.PerformanceLevel(float64(st.WPM), float64(st.Accuracy))
	lines := []string{
		titleStyle.Render(perf.Title()),
		"",
		fmt.Sprintf("WPM %d  ·  Raw %d  ·  Accuracy %d%%", st.WPM, st.RawWPM, st.Accuracy),
		fmt.Sprintf("Errors %d  ·  Backspaces %d  ·  Time %s", st.Errors, st.Backspaces, formatSeconds(time.Duration(st.ElapsedSec*float64(time.Second)))),
	}
	if m.score > 0 {
		lines = append(lines, fmt.Sprintf("Score %d", m.score))
	}
	lines = append(lines, fmt.Sprintf("+%d XP", m.xpEarned()))

	switch {
	case m.submitting:
		lines = append(lines, footerStyle.Render("Saving..."))
	case m.submitErr != nil:
		lines = append(lines, errorStyle.Render("Could not save this round: "+m.submitErr.Error()))
	case m.saved:
		earned, needed := progression.LevelProgress(m.profile.XP)
		lines = append(lines,
			fmt.Sprintf("Level %d (%d/%d XP)  ·  Streak %d day(s)", m.profile.Level, earned, needed, m.profile.CurrentStreak),
		)
		for _, b := range m.result.NewBadges {
			info := progression.Info(b.BadgeType)
			lines = append(lines, badgeStyle.Render(fmt.Sprintf("New badge: %s! %s", info.Name, info.Description)))
		}
	case st.TotalChars == 0:
		lines = append(lines, footerStyle.Render("Nothing typed, nothing saved."))
	case m.profile.ID == "":
		lines = append(lines, footerStyle.Render("Playing as guest. Create a profile to save progress."))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.screen == screenPlay {
		st := m.game.Stats(m.opts.Now())
		if e, ok := m.game.(*engine.Engine); ok {
			segments = append(segments, fmt.Sprintf("Progress %d%%", int(e.Progress()*100)))
		}
		segments = append(segments, fmt.Sprintf("%d WPM · %d%%", st.WPM, st.Accuracy))
		segments = append(segments, m.help.View(playHelp{keys: m.keys}))
	} else {
		segments = append(segments, m.help.View(recapHelp{keys: m.keys}))
	}
	if m.profile.ID != "" {
		segments = append(segments, fmt.Sprintf("%d XP", m.profile.XP))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int(math.Ceil(d.Seconds())))
}
