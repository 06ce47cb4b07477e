// Package progression computes XP, levels, practice streaks and badge awards.
//
// Everything here is a pure function over model values; persisting the
// results is the caller's job.
package progression

import (
	"math"
	"time"

	"github.com/verte-zerg/typequest/internal/model"
)

// XPPerLevel is the XP needed to advance one level.
const XPPerLevel = 100

// XPForSession blends speed, accuracy and volume into the XP a session earns.
func XPForSession(wpm, accuracy float64, correctChars int) int {
	return int(math.Round(wpm*2 + accuracy*0.5 + float64(correctChars)*0.1))
}

// LevelForXP returns the level for a total XP amount.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelProgress reports how much XP has been earned inside the current level
// and how much the level requires in total.
func LevelProgress(xp int) (earned, needed int) {
	level := LevelForXP(xp)
	return xp - (level-1)*XPPerLevel, XPPerLevel
}

// Today returns the calendar date of t in loc.
func Today(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(model.DateLayout)
}

// Apply returns the profile after session was completed on the calendar
// date today (model.DateLayout). The session's XPEarned is added as is.
func Apply(p model.Profile, session model.Session, today string) model.Profile {
	p.XP += session.XPEarned
	p.Level = LevelForXP(p.XP)

	p.CurrentStreak = NextStreak(p.CurrentStreak, p.LastPracticeDate, today)
	p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)
	p.LastPracticeDate = today
	return p
}

// NextStreak computes the streak after practicing on today given the last
// practice date. Same day keeps the streak, the following day extends it and
// any larger gap (or no prior practice) restarts it at 1.
func NextStreak(current int, lastPracticeDate, today string) int {
	if lastPracticeDate == today {
		return current
	}
	if lastPracticeDate != "" && lastPracticeDate == yesterday(today) {
		return current + 1
	}
	return 1
}

func yesterday(today string) string {
	day, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, -1).Format(model.DateLayout)
}

// Performance buckets a finished attempt for the recap screen.
type Performance string

// Performance levels, best first.
const (
	PerformanceAmazing        Performance = "amazing"
	PerformanceGreat          Performance = "great"
	PerformanceGood           Performance = "good"
	PerformanceKeepPracticing Performance = "keep_practicing"
)

// PerformanceLevel rates an attempt by speed and accuracy together.
func PerformanceLevel(wpm, accuracy float64) Performance {
	switch {
	case wpm >= 30 && accuracy >= 95:
		return PerformanceAmazing
	case wpm >= 20 && accuracy >= 90:
		return PerformanceGreat
	case wpm >= 10 && accuracy >= 80:
		return PerformanceGood
	default:
		return PerformanceKeepPracticing
	}
}

// Title returns the headline shown for a performance level.
func (p Performance) Title() string {
	switch p {
	case PerformanceAmazing:
		return "Amazing! You're a typing superstar!"
	case PerformanceGreat:
		return "Great Job! Keep up the awesome work!"
	case PerformanceGood:
		return "Nice Work! You're making progress!"
	default:
		return "Good Try! Practice makes perfect!"
	}
}
