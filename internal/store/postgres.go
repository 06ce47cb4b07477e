package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verte-zerg/typequest/internal/model"
)

// PostgresStore implements Repository using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresStore)(nil)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// OpenPostgres connects to PostgreSQL and applies the schema.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return store, nil
}

// Ping checks database connectivity.
func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			seq BIGSERIAL PRIMARY KEY,
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
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			game_mode TEXT NOT NULL,
			wpm DOUBLE PRECISION NOT NULL,
			accuracy DOUBLE PRECISION NOT NULL,
			duration_sec INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			xp_earned INTEGER NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			profile_id TEXT NOT NULL REFERENCES profiles(id),
			badge_type TEXT NOT NULL,
			earned_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_profile_completed ON sessions(profile_id, completed_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_badges_profile_type ON badges(profile_id, badge_type)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateProfile inserts a profile, filling its ID and creation time.
func (r *PostgresStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	prepareProfile(p)
	query := `
		INSERT INTO profiles (id, nickname, avatar, theme, level, xp, current_streak, longest_streak, last_practice_date, streak_saves_remaining, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
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
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile loads a profile by ID.
func (r *PostgresStore) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	query := `
		SELECT id, nickname, avatar, theme, level, xp, current_streak, longest_streak, last_practice_date, streak_saves_remaining, created_at
		FROM profiles
		WHERE id = $1
	`
	var p model.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
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
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// UpdateProfile writes the mutable progression fields of a profile.
func (r *PostgresStore) UpdateProfile(ctx context.Context, p model.Profile) error {
	query := `
		UPDATE profiles
		SET nickname = $2, avatar = $3, theme = $4, level = $5, xp = $6, current_streak = $7,
		    longest_streak = $8, last_practice_date = $9, streak_saves_remaining = $10
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
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
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSession stores a completed session.
func (r *PostgresStore) CreateSession(ctx context.Context, s *model.Session) error {
	prepareSession(s)
	query := `
		INSERT INTO sessions (id, profile_id, game_mode, wpm, accuracy, duration_sec, correct_chars, total_chars, errors, xp_earned, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.ProfileID,
		string(s.GameMode),
		s.WPM,
		s.Accuracy,
		s.DurationSec,
		s.CorrectChars,
		s.TotalChars,
		s.Errors,
		s.XPEarned,
		s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ListSessions returns sessions matching the filter, newest first.
func (r *PostgresStore) ListSessions(ctx context.Context, filter model.SessionFilter) ([]model.Session, error) {
	clauses := []string{"profile_id = $1"}
	args := []any{filter.ProfileID}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		clauses = append(clauses, fmt.Sprintf("completed_at >= $%d", len(args)))
	}
	if filter.GameMode != "" {
		args = append(args, string(filter.GameMode))
		clauses = append(clauses, fmt.Sprintf("game_mode = $%d", len(args)))
	}
	query := fmt.Sprintf(`
		SELECT id, profile_id, game_mode, wpm, accuracy, duration_sec, correct_chars, total_chars, errors, xp_earned, completed_at
		FROM sessions
		WHERE %s
		ORDER BY completed_at DESC, seq DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		var mode string
		if err := rows.Scan(&s.ID, &s.ProfileID, &mode, &s.WPM, &s.Accuracy, &s.DurationSec,
			&s.CorrectChars, &s.TotalChars, &s.Errors, &s.XPEarned, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.GameMode = model.GameMode(mode)
		s.CompletedAt = s.CompletedAt.UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListBadges returns a profile's badges, newest first.
func (r *PostgresStore) ListBadges(ctx context.Context, profileID string) ([]model.Badge, error) {
	query := `
		SELECT id, profile_id, badge_type, earned_at
		FROM badges
		WHERE profile_id = $1
		ORDER BY earned_at DESC, seq DESC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []model.Badge
	for rows.Next() {
		var b model.Badge
		var badgeType string
		if err := rows.Scan(&b.ID, &b.ProfileID, &badgeType, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		b.BadgeType = model.BadgeType(badgeType)
		b.EarnedAt = b.EarnedAt.UTC()
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// AwardBadge records a badge. It returns ErrBadgeExists when the profile
// already holds the badge type.
func (r *PostgresStore) AwardBadge(ctx context.Context, b *model.Badge) error {
	prepareBadge(b)
	query := `
		INSERT INTO badges (id, profile_id, badge_type, earned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_id, badge_type) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, b.ID, b.ProfileID, string(b.BadgeType), b.EarnedAt)
	if err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBadgeExists
	}
	return nil
}
