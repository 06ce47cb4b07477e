// Package engine turns key events for a fixed prompt into per-character
// correctness and typing statistics.
package engine

import (
	"time"
	"unicode"

	"github.com/verte-zerg/typequest/internal/stats"
)

// State is the correctness state of one prompt character.
type State int

// Character states.
const (
	Pending State = iota
	Current
	Correct
	Incorrect
)

func (s State) String() string {
	switch s {
	case Current:
		return "current"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// CharState is one prompt character and its state.
type CharState struct {
	Char  rune
	State State
}

// Phase is the lifecycle stage of an attempt.
type Phase int

// Attempt phases.
const (
	Idle Phase = iota
	Running
	Completed
)

// KeyKind classifies a key event.
type KeyKind int

// Key kinds understood by Handle.
const (
	KeyRune KeyKind = iota
	KeyBackspace
	KeyOther
)

// KeyEvent is a single key press delivered by the UI.
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// Stats is a snapshot of an attempt's statistics.
type Stats struct {
	stats.Metrics
	Errors     int `json:"errors"`
	Backspaces int `json:"backspaces"`
}

// Options configures an Engine.
type Options struct {
	// TimeLimit completes the attempt once elapsed; zero disables it.
	TimeLimit time.Duration
	// OnComplete is called once with the final stats.
	OnComplete func(Stats)
}

// Engine tracks a single typing attempt. It is not safe for concurrent use.
type Engine struct {
	text  []rune
	opts  Options
	chars []CharState

	cursor     int
	correct    int
	incorrect  int
	errors     int
	backspaces int

	phase     Phase
	startedAt time.Time
	endedAt   time.Time
	final     Stats
}

// New builds an engine for text.
func New(text string, opts Options) *Engine {
	e := &Engine{text: []rune(text), opts: opts}
	e.Reset()
	return e
}

// Reset discards progress and rebuilds the prompt.
func (e *Engine) Reset() {
	e.chars = make([]CharState, len(e.text))
	for i, r := range e.text {
		e.chars[i] = CharState{Char: r, State: Pending}
	}
	if len(e.chars) > 0 {
		e.chars[0].State = Current
	}
	e.cursor = 0
	e.correct = 0
	e.incorrect = 0
	e.errors = 0
	e.backspaces = 0
	e.phase = Idle
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.final = Stats{}
}

// Handle dispatches a key event.
func (e *Engine) Handle(ev KeyEvent, at time.Time) {
	switch ev.Kind {
	case KeyRune:
		e.Press(ev.Rune, at)
	case KeyBackspace:
		e.Backspace(at)
	}
}

// Press records a typed character. Non-printable runes are ignored.
func (e *Engine) Press(r rune, at time.Time) {
	if e.phase == Completed || !unicode.IsPrint(r) {
		return
	}
	if e.phase == Idle {
		e.phase = Running
		e.startedAt = at
	}
	if e.cursor >= len(e.chars) {
		e.complete(at)
		return
	}

	cell := &e.chars[e.cursor]
	if r == cell.Char {
		cell.State = Correct
		e.correct++
	} else {
		cell.State = Incorrect
		e.incorrect++
		e.errors++
	}
	e.cursor++
	if e.cursor < len(e.chars) {
		e.chars[e.cursor].State = Current
		return
	}
	e.complete(at)
}

// Backspace moves the cursor back one character and undoes its counter.
func (e *Engine) Backspace(at time.Time) {
	if e.phase == Completed {
		return
	}
	e.backspaces++
	if e.cursor == 0 {
		return
	}
	if e.cursor < len(e.chars) {
		e.chars[e.cursor].State = Pending
	}
	e.cursor--
	cell := &e.chars[e.cursor]
	switch cell.State {
	case Incorrect:
		e.incorrect--
	case Correct:
		e.correct--
	}
	cell.State = Current
}

// Tick refreshes the clock and enforces the time limit.
func (e *Engine) Tick(at time.Time) {
	if e.phase != Running || e.opts.TimeLimit <= 0 {
		return
	}
	if at.Sub(e.startedAt) >= e.opts.TimeLimit {
		e.complete(at)
	}
}

// Finish completes a running attempt early, e.g. when a game timer expires.
// An idle attempt completes with zero elapsed time.
func (e *Engine) Finish(at time.Time) {
	if e.phase == Completed {
		return
	}
	if e.phase == Idle {
		e.startedAt = at
	}
	e.complete(at)
}

// Stats returns live stats, or the final snapshot once completed.
func (e *Engine) Stats(at time.Time) Stats {
	if e.phase == Completed {
		return e.final
	}
	return e.snapshot(e.elapsed(at))
}

// Chars returns a copy of the character states.
func (e *Engine) Chars() []CharState {
	return append([]CharState(nil), e.chars...)
}

// Cursor returns the index of the next expected character.
func (e *Engine) Cursor() int { return e.cursor }

// Phase returns the attempt phase.
func (e *Engine) Phase() Phase { return e.phase }

// Done reports whether the attempt has completed.
func (e *Engine) Done() bool { return e.phase == Completed }

// Text returns the prompt.
func (e *Engine) Text() string { return string(e.text) }

// Progress returns the fraction of the prompt consumed, in [0, 1].
func (e *Engine) Progress() float64 {
	if len(e.chars) == 0 {
		if e.phase == Completed {
			return 1
		}
		return 0
	}
	return float64(e.cursor) / float64(len(e.chars))
}

func (e *Engine) elapsed(at time.Time) time.Duration {
	switch e.phase {
	case Idle:
		return 0
	case Completed:
		return e.endedAt.Sub(e.startedAt)
	default:
		if at.Before(e.startedAt) {
			return 0
		}
		return at.Sub(e.startedAt)
	}
}

func (e *Engine) snapshot(elapsed time.Duration) Stats {
	return Stats{
		Metrics:    stats.Compute(e.correct, e.incorrect, elapsed),
		Errors:     e.errors,
		Backspaces: e.backspaces,
	}
}

func (e *Engine) complete(at time.Time) {
	if e.phase == Completed {
		return
	}
	e.endedAt = at
	if e.endedAt.Before(e.startedAt) {
		e.endedAt = e.startedAt
	}
	e.final = e.snapshot(e.endedAt.Sub(e.startedAt))
	e.phase = Completed
	if e.opts.OnComplete != nil {
		e.opts.OnComplete(e.final)
	}
}
