package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typequest/internal/model"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBadgeExists is returned when a profile already holds a badge type.
	ErrBadgeExists = errors.New("badge already awarded")
)

// Repository persists profiles, sessions and badges.
type Repository interface {
	// Profiles
	CreateProfile(ctx context.Context, p *model.Profile) error
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error

	// Sessions, newest first
	CreateSession(ctx context.Context, s *model.Session) error
	ListSessions(ctx context.Context, filter model.SessionFilter) ([]model.Session, error)

	// Badges, newest first
	ListBadges(ctx context.Context, profileID string) ([]model.Badge, error)
	AwardBadge(ctx context.Context, b *model.Badge) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func prepareProfile(p *model.Profile) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	if p.Level == 0 {
		p.Level = 1
	}
}

func prepareSession(s *model.Session) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CompletedAt.IsZero() {
		s.CompletedAt = now()
	}
}

func prepareBadge(b *model.Badge) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.EarnedAt.IsZero() {
		b.EarnedAt = now()
	}
}
