// Package store handles persistence of profiles, sessions and badges.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/typequest/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access.
type Store struct {
	db *sql.DB
}

var _ Repository = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS profiles (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			nickname TEXT NOT NULL,
			avatar TEXT NOT NULL,
			theme TEXT NOT NULL,
			level INTEGER NOT NULL,
			xp INTEGER NOT NULL,
			current_streak INTEGER NOT NULL,
			longest_streak INTEGER NOT NULL,
			last_practice_date TEXT NOT NULL DEFAULT '',
			streak_saves_remaining INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			game_mode TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			duration_sec INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			xp_earned INTEGER NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS badges (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			badge_type TEXT NOT NULL,
			earned_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_profile_completed ON sessions(profile_id, completed_at);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_badges_profile_type ON badges(profile_id, badge_type);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateProfile inserts a profile, filling its ID and creation time.
func (s *Store) CreateProfile(ctx context.Context, p *model.Profile) error {
	prepareProfile(p)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, nickname, avatar, theme, level, xp, current_streak, longest_streak, last_practice_date, streak_saves_remaining, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Nickname,
		p.Avatar,
		p.Theme,
		p.Level,
		p.XP,
		p.CurrentStreak,
		p.LongestStreak,
		p.LastPracticeDate,
		p.StreakSavesRemaining,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetProfile loads a profile by ID.
func (s *Store) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nickname, avatar, theme, level, xp, current_streak, longest_streak, last_practice_date, streak_saves_remaining, created_at
		 FROM profiles WHERE id = ?`, id).Scan(
		&p.ID,
		&p.Nickname,
		&p.Avatar,
		&p.Theme,
		&p.Level,
		&p.XP,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastPracticeDate,
		&p.StreakSavesRemaining,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// UpdateProfile writes the mutable progression fields of a profile.
func (s *Store) UpdateProfile(ctx context.Context, p model.Profile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles
		 SET nickname = ?, avatar = ?, theme = ?, level = ?, xp = ?, current_streak = ?, longest_streak = ?,
		     last_practice_date = ?, streak_saves_remaining = ?
		 WHERE id = ?`,
		p.Nickname,
		p.Avatar,
		p.Theme,
		p.Level,
		p.XP,
		p.CurrentStreak,
		p.LongestStreak,
		p.LastPracticeDate,
		p.StreakSavesRemaining,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSession stores a completed session.
func (s *Store) CreateSession(ctx context.Context, sess *model.Session) error {
	prepareSession(sess)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, profile_id, game_mode, wpm, accuracy, duration_sec, correct_chars, total_chars, errors, xp_earned, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.ProfileID,
		string(sess.GameMode),
		sess.WPM,
		sess.Accuracy,
		sess.DurationSec,
		sess.CorrectChars,
		sess.TotalChars,
		sess.Errors,
		sess.XPEarned,
		formatTime(sess.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListSessions returns sessions matching the filter, newest first.
func (s *Store) ListSessions(ctx context.Context, filter model.SessionFilter) ([]model.Session, error) {
	clauses := []string{"profile_id = ?"}
	args := []any{filter.ProfileID}
	if filter.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	if filter.GameMode != "" {
		clauses = append(clauses, "game_mode = ?")
		args = append(args, string(filter.GameMode))
	}
	query := fmt.Sprintf(`SELECT id, profile_id, game_mode, wpm, accuracy, duration_sec, correct_chars, total_chars, errors, xp_earned, completed_at
		FROM sessions
		WHERE %s
		ORDER BY completed_at DESC, seq DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		var mode, completedAt string
		if err := rows.Scan(&sess.ID, &sess.ProfileID, &mode, &sess.WPM, &sess.Accuracy, &sess.DurationSec,
			&sess.CorrectChars, &sess.TotalChars, &sess.Errors, &sess.XPEarned, &completedAt); err != nil {
			return nil, err
		}
		sess.GameMode = model.GameMode(mode)
		parsed, err := parseTime(completedAt)
		if err != nil {
			return nil, err
		}
		sess.CompletedAt = parsed
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListBadges returns a profile's badges, newest first.
func (s *Store) ListBadges(ctx context.Context, profileID string) ([]model.Badge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile_id, badge_type, earned_at FROM badges
		 WHERE profile_id = ?
		 ORDER BY earned_at DESC, seq DESC`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var badges []model.Badge
	for rows.Next() {
		var b model.Badge
		var badgeType, earnedAt string
		if err := rows.Scan(&b.ID, &b.ProfileID, &badgeType, &earnedAt); err != nil {
			return nil, err
		}
		b.BadgeType = model.BadgeType(badgeType)
		parsed, err := parseTime(earnedAt)
		if err != nil {
			return nil, err
		}
		b.EarnedAt = parsed
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return badges, nil
}

// AwardBadge records a badge. It returns ErrBadgeExists when the profile
// already holds the badge type.
func (s *Store) AwardBadge(ctx context.Context, b *model.Badge) error {
	prepareBadge(b)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO badges (id, profile_id, badge_type, earned_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (profile_id, badge_type) DO NOTHING`,
		b.ID, b.ProfileID, string(b.BadgeType), formatTime(b.EarnedAt))
	if err != nil {
		return fmt.Errorf("insert badge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBadgeExists
	}
	return nil
}
