package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typequest/internal/engine"
)

var keyboardRows = []string{
	"qwertyuiop",
	"asdfghjkl;",
	"zxcvbnm,./",
}

var fingers = map[rune]string{}

func init() {
	assign := func(finger, keys string) {
		for _, r := range keys {
			fingers[r] = finger
		}
	}
	assign("left pinky finger", "qaz")
	assign("left ring finger", "wsx")
	assign("left middle finger", "edc")
	assign("left index finger", "rfvtgb")
	assign("right index finger", "yhnujm")
	assign("right middle finger", "ik,")
	assign("right ring finger", "ol.")
	assign("right pinky finger", "p;/")
	assign("thumb", " ")
}

var (
	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	homeKeyStyle    = keyStyle.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	nextKeyStyle    = keyStyle.Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#C89A3A")).Bold(true)
	fingerHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	homeRowKeys     = "asdfjkl;"
)

// fingerFor names the finger that types r on a QWERTY keyboard, or "" for
// keys outside the letter block.
func fingerFor(r rune) string {
	return fingers[unicode.ToLower(r)]
}

// renderKeyboard draws the letter block with next highlighted and the home
// row keys emphasized, followed by a finger hint.
func renderKeyboard(next rune, ok bool) string {
	next = unicode.ToLower(next)
	lines := make([]string, 0, len(keyboardRows)+3)
	for i, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, r := range row {
			label := strings.ToUpper(string(r))
			switch {
			case ok && r == next:
				keys = append(keys, nextKeyStyle.Render(label))
			case strings.ContainsRune(homeRowKeys, r):
				keys = append(keys, homeKeyStyle.Render(label))
			default:
				keys = append(keys, keyStyle.Render(label))
			}
		}
		lines = append(lines, strings.Repeat(" ", i*2)+strings.Join(keys, ""))
	}
	space := keyStyle.Render(strings.Repeat(" ", 8) + "SPACE" + strings.Repeat(" ", 8))
	if ok && next == ' ' {
		space = nextKeyStyle.Render(strings.Repeat(" ", 8) + "SPACE" + strings.Repeat(" ", 8))
	}
	lines = append(lines, space, "")
	if finger := fingerFor(next); ok && finger != "" {
		lines = append(lines, fingerHintStyle.Render(fmt.Sprintf("Next key: %s  ·  %s", keyLabel(next), finger)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// nextRune returns the character under the cursor, if any.
func nextRune(chars []engine.CharState) (rune, bool) {
	i := cursorOf(chars)
	if i < 0 {
		return 0, false
	}
	return chars[i].Char, true
}

func keyLabel(r rune) string {
	if r == ' ' {
		return "SPACE"
	}
	return strings.ToUpper(string(r))
}
