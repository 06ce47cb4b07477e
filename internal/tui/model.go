package tui

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typequest/internal/engine"
	"github.com/verte-zerg/typequest/internal/generator"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/progression"
	"github.com/verte-zerg/typequest/internal/service"
)

const (
	tickInterval  = 100 * time.Millisecond
	submitTimeout = 10 * time.Second
	lessonRepeats = 3
)

// Submitter records finished rounds.
type Submitter interface {
	SubmitSession(ctx context.Context, input service.SubmitSessionInput) (service.SubmitResult, error)
}

// Options configures a play session.
type Options struct {
	Mode       model.GameMode
	Category   generator.Category
	Difficulty generator.Difficulty
	// TimeLimit bounds race sprint and home-row rounds; zero means untimed.
	// Arcade games default to a 60 second round.
	TimeLimit time.Duration
	// Profile is the player; rounds are not saved when its ID is empty.
	Profile model.Profile
	// Now defaults to time.Now.
	Now func() time.Time
}

// game is the part of the engines the client drives.
type game interface {
	Handle(ev engine.KeyEvent, at time.Time)
	Tick(at time.Time)
	Stats(at time.Time) engine.Stats
	Finish(at time.Time)
}

type screen int

const (
	screenPlay screen = iota
	screenRecap
)

type tickMsg time.Time

type submittedMsg struct {
	result service.SubmitResult
	err    error
}

// Model implements the Bubble Tea play client.
type Model struct {
	opts      Options
	submitter Submitter
	gen       *generator.Generator
	keys      keyMap
	help      help.Model
	bar       progress.Model

	width  int
	height int

	screen  screen
	round   int
	game    game
	final   *engine.Stats
	score   int
	profile model.Profile

	submitting bool
	saved      bool
	submitErr  error
	saveErrs   []error
	result     service.SubmitResult
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C5CFF"))
	alienStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs the play client. submitter may be nil to play without
// saving.
func NewModel(opts Options, submitter Submitter, gen *generator.Generator) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = model.ModeRaceSprint
	}
	if opts.Difficulty == "" {
		opts.Difficulty = generator.Medium
	}
	if gen == nil {
		gen = generator.New()
	}
	m := &Model{
		opts:      opts,
		submitter: submitter,
		gen:       gen,
		keys:      defaultKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		profile:   opts.Profile,
	}
	m.newRound()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(min(msg.Width/2, 60), 10)
		return m, nil
	case tickMsg:
		if m.screen == screenPlay {
			m.game.Tick(m.opts.Now())
		}
		return m, tea.Batch(m.afterInput(), tick())
	case submittedMsg:
		m.submitting = false
		m.submitErr = msg.err
		if msg.err == nil {
			m.saved = true
			m.result = msg.result
			m.profile = msg.result.Profile
		} else {
			m.saveErrs = append(m.saveErrs, msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenRecap {
			return m.updateRecap(msg)
		}
		now := m.opts.Now()
		if key.Matches(msg, m.keys.Finish) {
			m.game.Finish(now)
			return m, m.afterInput()
		}
		for _, ev := range keyEvents(msg) {
			m.game.Handle(ev, now)
		}
		return m, m.afterInput()
	default:
		return m, nil
	}
}

func (m *Model) updateRecap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.submitting:
		return m, nil
	case key.Matches(msg, m.keys.Again):
		m.newRound()
		return m, nil
	case key.Matches(msg, m.keys.Leave):
		return m, tea.Quit
	default:
		return m, nil
	}
}

// keyEvents translates a terminal key into engine events.
func keyEvents(msg tea.KeyMsg) []engine.KeyEvent {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		return []engine.KeyEvent{{Kind: engine.KeyBackspace}}
	case tea.KeySpace:
		return []engine.KeyEvent{{Kind: engine.KeyRune, Rune: ' '}}
	case tea.KeyRunes:
		events := make([]engine.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, engine.KeyEvent{Kind: engine.KeyRune, Rune: r})
		}
		return events
	default:
		return []engine.KeyEvent{{Kind: engine.KeyOther}}
	}
}

// afterInput moves to the recap once the round has completed.
func (m *Model) afterInput() tea.Cmd {
	if m.screen != screenPlay || m.final == nil {
		return nil
	}
	m.screen = screenRecap
	m.score = scoreOf(m.game)
	input, ok := m.submission(*m.final)
	if !ok {
		return nil
	}
	m.submitting = true
	return m.submitCmd(input)
}

func (m *Model) submission(st engine.Stats) (service.SubmitSessionInput, bool) {
	if m.submitter == nil || m.profile.ID == "" || st.TotalChars == 0 {
		return service.SubmitSessionInput{}, false
	}
	return service.SubmitSessionInput{
		ProfileID:    m.profile.ID,
		GameMode:     string(m.opts.Mode),
		WPM:          float64(st.WPM),
		Accuracy:     float64(st.Accuracy),
		DurationSec:  int(math.Round(st.ElapsedSec)),
		CorrectChars: st.CorrectChars,
		TotalChars:   st.TotalChars,
		Errors:       st.Errors,
	}, true
}

func (m *Model) submitCmd(input service.SubmitSessionInput) tea.Cmd {
	submitter := m.submitter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		res, err := submitter.SubmitSession(ctx, input)
		return submittedMsg{result: res, err: err}
	}
}

func (m *Model) newRound() {
	m.round++
	m.screen = screenPlay
	m.final = nil
	m.score = 0
	m.saved = false
	m.submitErr = nil
	m.result = service.SubmitResult{}

	onComplete := func(st engine.Stats) { m.final = &st }
	arcade := engine.ArcadeOptions{TimeLimit: m.opts.TimeLimit, OnComplete: onComplete}

	switch m.opts.Mode {
	case model.ModeWordDash:
		arcade.Next = func() string { return m.gen.Word(m.opts.Difficulty) }
		m.game = engine.NewWordDash(arcade)
	case model.ModeAlienDefense:
		arcade.Next = func() string { return m.gen.Target(m.opts.Difficulty) }
		m.game = engine.NewAlienDefense(engine.AlienOptions{ArcadeOptions: arcade, Rand: m.gen.Rand()})
	case model.ModeHomeRowBuilder:
		m.game = engine.New(m.lessonText(), engine.Options{TimeLimit: m.opts.TimeLimit, OnComplete: onComplete})
	default:
		m.game = engine.New(m.gen.Prompt(m.opts.Category), engine.Options{TimeLimit: m.opts.TimeLimit, OnComplete: onComplete})
	}
}

// lesson returns the home-row lesson for the current round.
func (m *Model) lesson() generator.Lesson {
	lessons := generator.Lessons()
	return lessons[(m.round-1)%len(lessons)]
}

func (m *Model) lessonText() string {
	keys := m.lesson().Keys
	parts := make([]string, lessonRepeats)
	for i := range parts {
		parts[i] = keys
	}
	return strings.Join(parts, " ")
}

func scoreOf(g game) int {
	if s, ok := g.(interface{ Score() int }); ok {
		return s.Score()
	}
	return 0
}

// modeTitle is the display name of a game mode.
func modeTitle(mode model.GameMode) string {
	switch mode {
	case model.ModeAlienDefense:
		return "Alien Defense"
	case model.ModeHomeRowBuilder:
		return "Home Row Builder"
	case model.ModeWordDash:
		return "Word Dash"
	default:
		return "Race Sprint"
	}
}

// xpEarned is the XP shown on the recap: the stored value once saved, the
// local estimate otherwise.
func (m *Model) xpEarned() int {
	if m.saved {
		return m.result.Session.XPEarned
	}
	if m.final == nil {
		return 0
	}
	return progression.XPForSession(float64(m.final.WPM), float64(m.final.Accuracy), m.final.CorrectChars)
}

// SaveErrors returns the submission failures of every round played, for
// reporting once the program has released the terminal.
func (m *Model) SaveErrors() []error {
	return m.saveErrs
}
