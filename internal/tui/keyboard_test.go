package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typequest/internal/engine"
	"github.com/verte-zerg/typequest/internal/generator"
	"github.com/verte-zerg/typequest/internal/model"
)

func TestFingerFor(t *testing.T) {
	cases := map[rune]string{
		'a': "left pinky finger",
		'F': "left index finger",
		'j': "right index finger",
		';': "right pinky finger",
		' ': "thumb",
		'7': "",
	}
	for r, want := range cases {
		if got := fingerFor(r); got != want {
			t.Fatalf("fingerFor(%q) = %q, want %q", r, got, want)
		}
	}
}

func TestRenderKeyboardHint(t *testing.T) {
	out := renderKeyboard('k', true)
	if !containsAll(out, []string{"Q", "A", "Z", "SPACE", "Next key: K", "right middle finger"}) {
		t.Fatalf("unexpected keyboard: %s", out)
	}
	if strings.Contains(renderKeyboard(0, false), "Next key") {
		t.Fatalf("expected no hint without a next key")
	}
	if !strings.Contains(renderKeyboard(' ', true), "Next key: SPACE  ·  thumb") {
		t.Fatalf("expected space hint")
	}
}

func TestHomeRowBuilderShowsNextKey(t *testing.T) {
	m := NewModel(Options{Mode: model.ModeHomeRowBuilder, Now: func() time.Time { return t0 }}, nil, generator.NewWithSeed(1))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	e := m.game.(*engine.Engine)
	first := []rune(e.Text())[0]
	if !strings.Contains(m.View(), "Next key: "+keyLabel(first)) {
		t.Fatalf("expected hint for %q in view", first)
	}
	pressAll(m, string(first))
	second := []rune(e.Text())[1]
	if !strings.Contains(m.View(), "Next key: "+keyLabel(second)) {
		t.Fatalf("expected hint to follow the cursor to %q", second)
	}
}

func TestRaceSprintHasNoKeyboard(t *testing.T) {
	m := NewModel(Options{Mode: model.ModeRaceSprint, Now: func() time.Time { return t0 }}, nil, generator.NewWithSeed(1))
	if strings.Contains(m.View(), "Next key") {
		t.Fatalf("keyboard guide is only for the home-row builder")
	}
}
