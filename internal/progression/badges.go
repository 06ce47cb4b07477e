package progression

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/typequest/internal/model"
)

// BadgeInput is everything a badge predicate may look at.
type BadgeInput struct {
	// Session is the just-submitted session.
	Session model.Session
	// Streak is the current streak after the session was applied.
	Streak int
	// History is the profile's stored sessions, including Session.
	History []model.Session
	// Held is the set of badge types the profile already owns.
	Held map[model.BadgeType]bool
}

// Rule pairs a badge type with the predicate that unlocks it.
type Rule struct {
	Type      model.BadgeType
	Predicate func(BadgeInput) bool
}

// BadgeInfo is the display metadata for a badge type.
type BadgeInfo struct {
	Type        model.BadgeType `json:"badgeType"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

const modeMilestone = 10

var rules = []Rule{
	{model.BadgeFirstSession, func(in BadgeInput) bool { return len(in.History) == 1 }},
	{model.BadgeSpeedDemon20, minWPM(20)},
	{model.BadgeSpeedDemon30, minWPM(30)},
	{model.BadgeAccuracyStar90, minAccuracy(90)},
	{model.BadgeAccuracyStar95, minAccuracy(95)},
	{model.BadgeStreak3, minStreak(3)},
	{model.BadgeStreak7, minStreak(7)},
	{model.BadgeStreak14, minStreak(14)},
	{model.BadgeHomeRowHero, func(in BadgeInput) bool {
		return in.Session.GameMode == model.ModeHomeRowBuilder && in.Session.Accuracy >= 95
	}},
	{model.BadgeRaceChampion, modeCount(model.ModeRaceSprint, modeMilestone)},
	{model.BadgeAlienSlayer, modeCount(model.ModeAlienDefense, modeMilestone)},
	{model.BadgePracticePro, func(in BadgeInput) bool { return len(in.History) >= 20 }},
}

var catalog = []BadgeInfo{
	{model.BadgeFirstSession, "First Steps", "Completed first session"},
	{model.BadgeSpeedDemon20, "Speed Demon", "Reached 20 WPM"},
	{model.BadgeSpeedDemon30, "Lightning Fast", "Reached 30 WPM"},
	{model.BadgeAccuracyStar90, "Accuracy Star", "Achieved 90% accuracy"},
	{model.BadgeAccuracyStar95, "Precision Master", "Achieved 95% accuracy"},
	{model.BadgeStreak3, "On Fire", "3 day practice streak"},
	{model.BadgeStreak7, "Week Warrior", "7 day practice streak"},
	{model.BadgeStreak14, "Unstoppable", "14 day practice streak"},
	{model.BadgeHomeRowHero, "Home Row Hero", "Mastered the home row keys"},
	{model.BadgeRaceChampion, "Race Champion", "Finished 10 race sprints"},
	{model.BadgeAlienSlayer, "Alien Slayer", "Played 10 alien defense rounds"},
	{model.BadgePracticePro, "Practice Pro", "Completed 20 sessions"},
}

// Rules returns the badge rules in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Catalog returns display metadata for every badge, in rule order.
func Catalog() []BadgeInfo {
	return append([]BadgeInfo(nil), catalog...)
}

// Info returns display metadata for a badge type. Unknown types echo the raw
// type as their name.
func Info(t model.BadgeType) BadgeInfo {
	info, ok := lo.Find(catalog, func(b BadgeInfo) bool { return b.Type == t })
	if !ok {
		return BadgeInfo{Type: t, Name: string(t)}
	}
	return info
}

// Evaluate returns the badge types newly earned, in rule order. Badges in
// in.Held are never returned again.
func Evaluate(in BadgeInput) []model.BadgeType {
	var earned []model.BadgeType
	for _, r := range rules {
		if in.Held[r.Type] {
			continue
		}
		if r.Predicate(in) {
			earned = append(earned, r.Type)
		}
	}
	return earned
}

// HeldSet indexes badges by type.
func HeldSet(badges []model.Badge) map[model.BadgeType]bool {
	return lo.SliceToMap(badges, func(b model.Badge) (model.BadgeType, bool) {
		return b.BadgeType, true
	})
}

func minWPM(threshold float64) func(BadgeInput) bool {
	return func(in BadgeInput) bool { return in.Session.WPM >= threshold }
}

func minAccuracy(threshold float64) func(BadgeInput) bool {
	return func(in BadgeInput) bool { return in.Session.Accuracy >= threshold }
}

func minStreak(threshold int) func(BadgeInput) bool {
	return func(in BadgeInput) bool { return in.Streak >= threshold }
}

func modeCount(mode model.GameMode, threshold int) func(BadgeInput) bool {
	return func(in BadgeInput) bool {
		if in.Session.GameMode != mode {
			return false
		}
		played := lo.CountBy(in.History, func(s model.Session) bool { return s.GameMode == mode })
		return played >= threshold
	}
}
