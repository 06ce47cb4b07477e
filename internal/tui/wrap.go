// Package tui provides the Bubble Tea play client.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typequest/internal/engine"
)

// missedSpace stands in for a space that was typed over with something else.
const missedSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(chars []engine.CharState) []styledRune {
	words := findWords(chars)
	currentWord := wordForCursor(words, cursorOf(chars))

	out := make([]styledRune, 0, len(chars))
	for i, c := range chars {
		displayed := c.Char
		style := pendingStyle
		switch c.State {
		case engine.Correct:
			style = correctStyle
		case engine.Incorrect:
			style = incorrectStyle
			if c.Char == ' ' {
				displayed = missedSpace
			}
		case engine.Current:
			style = cursorStyle
		default:
			if c.Char != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: c.Char == ' ',
		})
	}
	return out
}

func cursorOf(chars []engine.CharState) int {
	for i, c := range chars {
		if c.State == engine.Current {
			return i
		}
	}
	return -1
}

type wordRange struct {
	start int
	end   int
}

func findWords(chars []engine.CharState) []wordRange {
	words := []wordRange{}
	start := -1
	for i, c := range chars {
		if c.Char == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(chars)})
	}
	return words
}

// wordForCursor returns the word holding the cursor, or the next word when
// the cursor sits on a space. A negative cursor means nothing is current.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
