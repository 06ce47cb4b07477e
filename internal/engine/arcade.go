package engine

import (
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typequest/internal/stats"
)

// DefaultArcadeTime is the round length of the timed arcade games.
const DefaultArcadeTime = 60 * time.Second

// arcade holds the clock and counters shared by the token games. Every
// accepted keystroke counts as typed; correct counts are credited per game.
type arcade struct {
	timeLimit  time.Duration
	onComplete func(Stats)

	correct    int
	typed      int
	backspaces int
	score      int

	phase     Phase
	startedAt time.Time
	endedAt   time.Time
	final     Stats
}

func (a *arcade) start(at time.Time) {
	if a.phase == Idle {
		a.phase = Running
		a.startedAt = at
	}
}

func (a *arcade) snapshot(elapsed time.Duration) Stats {
	incorrect := max(a.typed-a.correct, 0)
	return Stats{
		Metrics:    stats.Compute(a.correct, incorrect, elapsed),
		Errors:     incorrect,
		Backspaces: a.backspaces,
	}
}

func (a *arcade) expired(at time.Time) bool {
	return a.phase == Running && a.timeLimit > 0 && at.Sub(a.startedAt) >= a.timeLimit
}

func (a *arcade) complete(at time.Time) {
	if a.phase == Completed {
		return
	}
	if a.phase == Idle {
		a.startedAt = at
	}
	a.endedAt = at
	if a.endedAt.Before(a.startedAt) {
		a.endedAt = a.startedAt
	}
	a.final = a.snapshot(a.endedAt.Sub(a.startedAt))
	a.phase = Completed
	if a.onComplete != nil {
		a.onComplete(a.final)
	}
}

// Stats returns live stats, or the final snapshot once completed.
func (a *arcade) Stats(at time.Time) Stats {
	switch a.phase {
	case Completed:
		return a.final
	case Idle:
		return a.snapshot(0)
	default:
		return a.snapshot(max(at.Sub(a.startedAt), 0))
	}
}

// Score returns the points earned so far.
func (a *arcade) Score() int { return a.score }

// Phase returns the round phase.
func (a *arcade) Phase() Phase { return a.phase }

// Done reports whether the round has ended.
func (a *arcade) Done() bool { return a.phase == Completed }

// Remaining returns the time left in the round.
func (a *arcade) Remaining(at time.Time) time.Duration {
	switch a.phase {
	case Idle:
		return a.timeLimit
	case Completed:
		return 0
	}
	return max(a.timeLimit-at.Sub(a.startedAt), 0)
}

// Finish ends the round.
func (a *arcade) Finish(at time.Time) { a.complete(at) }

// ArcadeOptions configures the timed token games.
type ArcadeOptions struct {
	// TimeLimit is the round length; zero means DefaultArcadeTime.
	TimeLimit time.Duration
	// Next supplies target tokens.
	Next func() string
	// OnComplete is called once with the final stats.
	OnComplete func(Stats)
}

func (o ArcadeOptions) limit() time.Duration {
	if o.TimeLimit <= 0 {
		return DefaultArcadeTime
	}
	return o.TimeLimit
}

// WordDash scores one active word at a time with a streak multiplier.
type WordDash struct {
	arcade
	next      func() string
	word      string
	input     []rune
	streak    int
	maxStreak int
	completed int
}

// NewWordDash starts a word dash round in the idle phase.
func NewWordDash(opts ArcadeOptions) *WordDash {
	return &WordDash{
		arcade: arcade{timeLimit: opts.limit(), onComplete: opts.OnComplete},
		next:   opts.Next,
		word:   opts.Next(),
	}
}

// StreakMultiplier is the point multiplier for a word completed at streak.
func StreakMultiplier(streak int) float64 {
	return math.Min(1+float64(streak/3)*0.5, 3)
}

// Handle dispatches a key event.
func (w *WordDash) Handle(ev KeyEvent, at time.Time) {
	switch ev.Kind {
	case KeyRune:
		w.Press(ev.Rune, at)
	case KeyBackspace:
		w.Backspace(at)
	}
}

// Press appends a character to the input. Completing the word credits its
// length, advances the streak and draws the next word; breaking the word
// prefix resets the streak.
func (w *WordDash) Press(r rune, at time.Time) {
	if w.phase == Completed || !unicode.IsPrint(r) {
		return
	}
	w.start(at)
	if w.expired(at) {
		w.complete(at)
		return
	}
	w.typed++
	w.input = append(w.input, unicode.ToLower(r))
	typed := string(w.input)
	target := strings.ToLower(w.word)
	switch {
	case typed == target:
		w.correct += len([]rune(w.word))
		w.completed++
		w.streak++
		w.maxStreak = max(w.maxStreak, w.streak)
		w.score += int(math.Round(float64(len([]rune(w.word))) * 10 * StreakMultiplier(w.streak)))
		w.word = w.next()
		w.input = w.input[:0]
	case !strings.HasPrefix(target, typed):
		w.streak = 0
	}
}

// Backspace removes the last input character.
func (w *WordDash) Backspace(at time.Time) {
	if w.phase != Running {
		return
	}
	w.backspaces++
	if len(w.input) > 0 {
		w.input = w.input[:len(w.input)-1]
	}
}

// Tick ends the round once the time limit passes.
func (w *WordDash) Tick(at time.Time) {
	if w.expired(at) {
		w.complete(at)
	}
}

// Word returns the active word.
func (w *WordDash) Word() string { return w.word }

// Input returns the pending input.
func (w *WordDash) Input() string { return string(w.input) }

// Streak returns the current word streak.
func (w *WordDash) Streak() int { return w.streak }

// MaxStreak returns the best streak of the round.
func (w *WordDash) MaxStreak() int { return w.maxStreak }

// Completed returns how many words were finished.
func (w *WordDash) Completed() int { return w.completed }

// Chars returns the active word as character states against the input.
func (w *WordDash) Chars() []CharState {
	word := []rune(w.word)
	out := make([]CharState, len(word))
	for i, r := range word {
		state := Pending
		switch {
		case i < len(w.input) && unicode.ToLower(r) == w.input[i]:
			state = Correct
		case i < len(w.input):
			state = Incorrect
		case i == len(w.input):
			state = Current
		}
		out[i] = CharState{Char: r, State: state}
	}
	return out
}

// Alien is a falling target in alien defense.
type Alien struct {
	ID     int
	Target string
	// X is the horizontal position in [0, 1).
	X float64
	// Y is the fall progress; the alien escapes at 1.
	Y float64
}

// AlienOptions configures alien defense.
type AlienOptions struct {
	ArcadeOptions
	// Lives defaults to DefaultLives.
	Lives int
	// SpawnEvery defaults to 2.5s.
	SpawnEvery time.Duration
	// FallTime is how long an alien takes to land; defaults to 8s.
	FallTime time.Duration
	// MaxAliens defaults to 8.
	MaxAliens int
	// Rand places aliens horizontally.
	Rand *rand.Rand
}

// DefaultLives is the number of escapes alien defense tolerates.
const DefaultLives = 3

// AlienDefense scores keystrokes against several falling targets.
type AlienDefense struct {
	arcade
	opts     AlienOptions
	aliens   []Alien
	input    []rune
	lives    int
	combo    int
	maxCombo int
	zapped   int
	nextID   int

	lastTick  time.Time
	lastSpawn time.Time
}

// NewAlienDefense prepares an idle round. Call Start to release aliens.
func NewAlienDefense(opts AlienOptions) *AlienDefense {
	if opts.Lives <= 0 {
		opts.Lives = DefaultLives
	}
	if opts.SpawnEvery <= 0 {
		opts.SpawnEvery = 2500 * time.Millisecond
	}
	if opts.FallTime <= 0 {
		opts.FallTime = 8 * time.Second
	}
	if opts.MaxAliens <= 0 {
		opts.MaxAliens = 8
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AlienDefense{
		arcade: arcade{timeLimit: opts.limit(), onComplete: opts.OnComplete},
		opts:   opts,
		lives:  opts.Lives,
	}
}

// Start begins the round and spawns the first alien.
func (d *AlienDefense) Start(at time.Time) {
	if d.phase != Idle {
		return
	}
	d.start(at)
	d.lastTick = at
	d.spawn(at)
}

// Handle dispatches a key event.
func (d *AlienDefense) Handle(ev KeyEvent, at time.Time) {
	switch ev.Kind {
	case KeyRune:
		d.Press(ev.Rune, at)
	case KeyBackspace:
		d.Backspace(at)
	}
}

// Press extends the input. A keystroke that keeps the input a prefix of some
// target is correct; completing that target zaps it. Anything else clears the
// input and the combo.
func (d *AlienDefense) Press(r rune, at time.Time) {
	if d.phase == Completed || !unicode.IsPrint(r) {
		return
	}
	if d.phase == Idle {
		d.Start(at)
	}
	d.Tick(at)
	if d.phase == Completed {
		return
	}
	d.typed++
	candidate := string(append(append([]rune(nil), d.input...), unicode.ToLower(r)))
	idx := d.match(candidate)
	if idx < 0 {
		d.combo = 0
		d.input = d.input[:0]
		return
	}
	d.correct++
	alien := d.aliens[idx]
	if strings.ToLower(alien.Target) != candidate {
		d.input = []rune(candidate)
		return
	}
	d.score += (1 + d.combo/5) * len([]rune(alien.Target)) * 10
	d.combo++
	d.maxCombo = max(d.maxCombo, d.combo)
	d.zapped++
	d.aliens = append(d.aliens[:idx], d.aliens[idx+1:]...)
	d.input = d.input[:0]
}

// Backspace removes the last input character.
func (d *AlienDefense) Backspace(at time.Time) {
	if d.phase != Running {
		return
	}
	d.backspaces++
	if len(d.input) > 0 {
		d.input = d.input[:len(d.input)-1]
	}
}

// Tick moves aliens, spawns new ones and applies escapes and the time limit.
func (d *AlienDefense) Tick(at time.Time) {
	if d.phase != Running {
		return
	}
	if d.expired(at) {
		d.complete(at)
		return
	}
	dt := at.Sub(d.lastTick)
	if dt <= 0 {
		return
	}
	d.lastTick = at

	fall := float64(dt) / float64(d.opts.FallTime)
	survivors := d.aliens[:0]
	for _, a := range d.aliens {
		a.Y += fall
		if a.Y >= 1 {
			d.lives--
			d.combo = 0
			continue
		}
		survivors = append(survivors, a)
	}
	d.aliens = survivors
	if d.lives <= 0 {
		d.lives = 0
		d.complete(at)
		return
	}
	if at.Sub(d.lastSpawn) >= d.opts.SpawnEvery {
		d.spawn(at)
	}
}

func (d *AlienDefense) spawn(at time.Time) {
	d.lastSpawn = at
	if len(d.aliens) >= d.opts.MaxAliens {
		return
	}
	d.nextID++
	d.aliens = append(d.aliens, Alien{
		ID:     d.nextID,
		Target: d.opts.Next(),
		X:      d.opts.Rand.Float64(),
	})
}

func (d *AlienDefense) match(candidate string) int {
	for i, a := range d.aliens {
		if strings.HasPrefix(strings.ToLower(a.Target), candidate) {
			return i
		}
	}
	return -1
}

// Aliens returns a copy of the active aliens, oldest first.
func (d *AlienDefense) Aliens() []Alien {
	return append([]Alien(nil), d.aliens...)
}

// Input returns the pending input.
func (d *AlienDefense) Input() string { return string(d.input) }

// Lives returns the remaining lives.
func (d *AlienDefense) Lives() int { return d.lives }

// Combo returns the current zap combo.
func (d *AlienDefense) Combo() int { return d.combo }

// MaxCombo returns the best combo of the round.
func (d *AlienDefense) MaxCombo() int { return d.maxCombo }

// Zapped returns how many aliens were destroyed.
func (d *AlienDefense) Zapped() int { return d.zapped }
