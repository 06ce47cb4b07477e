// Package model defines shared data structures.
package model

import "time"

// GameMode identifies a mini-game.
type GameMode string

// Game modes.
const (
	ModeRaceSprint     GameMode = "race_sprint"
	ModeAlienDefense   GameMode = "alien_defense"
	ModeHomeRowBuilder GameMode = "home_row_builder"
	ModeWordDash       GameMode = "word_dash"
)

// GameModes lists every playable mode in menu order.
var GameModes = []GameMode{ModeRaceSprint, ModeAlienDefense, ModeHomeRowBuilder, ModeWordDash}

// Valid reports whether m is a known game mode.
func (m GameMode) Valid() bool {
	for _, known := range GameModes {
		if m == known {
			return true
		}
	}
	return false
}

// BadgeType identifies a one-time achievement.
type BadgeType string

// Badge types.
const (
	BadgeFirstSession   BadgeType = "first_session"
	BadgeSpeedDemon20   BadgeType = "speed_demon_20"
	BadgeSpeedDemon30   BadgeType = "speed_demon_30"
	BadgeAccuracyStar90 BadgeType = "accuracy_star_90"
	BadgeAccuracyStar95 BadgeType = "accuracy_star_95"
	BadgeStreak3        BadgeType = "streak_3"
	BadgeStreak7        BadgeType = "streak_7"
	BadgeStreak14       BadgeType = "streak_14"
	BadgeHomeRowHero    BadgeType = "home_row_hero"
	BadgeRaceChampion   BadgeType = "race_champion"
	BadgeAlienSlayer    BadgeType = "alien_slayer"
	BadgePracticePro    BadgeType = "practice_pro"
)

// Avatars available to a profile. The first entry is the default.
var Avatars = []string{"rocket", "star", "robot", "alien", "astronaut", "planet"}

// Themes available to a profile. The first entry is the default.
var Themes = []string{"space", "ocean", "forest", "candy"}

// DateLayout is the calendar date format used for practice dates.
const DateLayout = "2006-01-02"

// Profile is the mutable player state.
type Profile struct {
	ID                   string    `json:"id"`
	Nickname             string    `json:"nickname"`
	Avatar               string    `json:"avatar"`
	Theme                string    `json:"theme"`
	Level                int       `json:"level"`
	XP                   int       `json:"xp"`
	CurrentStreak        int       `json:"currentStreak"`
	LongestStreak        int       `json:"longestStreak"`
	LastPracticeDate     string    `json:"lastPracticeDate,omitempty"`
	StreakSavesRemaining int       `json:"streakSavesRemaining"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Session is the immutable record of one completed game attempt.
type Session struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profileId"`
	GameMode     GameMode  `json:"gameMode"`
	WPM          float64   `json:"wpm"`
	Accuracy     float64   `json:"accuracy"`
	DurationSec  int       `json:"durationSec"`
	CorrectChars int       `json:"correctChars"`
	TotalChars   int       `json:"totalChars"`
	Errors       int       `json:"errors"`
	XPEarned     int       `json:"xpEarned"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Badge is an earned achievement.
type Badge struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	BadgeType BadgeType `json:"badgeType"`
	EarnedAt  time.Time `json:"earnedAt"`
}

// ProfileStats aggregates stored sessions for a profile.
type ProfileStats struct {
	TotalSessions int `json:"totalSessions"`
	AvgWPM        int `json:"avgWpm"`
	AvgAccuracy   int `json:"avgAccuracy"`
	TotalMinutes  int `json:"totalMinutes"`
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	ProfileID string
	Since     *time.Time
	GameMode  GameMode
	Limit     int
}

// PracticeConfig defines play client settings.
type PracticeConfig struct {
	ProfileID  string
	Mode       GameMode
	Category   string
	Difficulty string
	TimeLimit  time.Duration
	Prompts    string
	DBPath     string
	Timezone   string
}

// ServerConfig defines API server settings.
type ServerConfig struct {
	Addr           string
	Driver         string
	DSN            string
	RedisAddr      string
	RedisPassword  string
	Timezone       string
	LogLevel       string
	RateLimitRPS   int
	RateLimitBurst int
	CORSOrigins    []string
}
