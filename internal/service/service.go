// Package service implements profile, session and badge operations on top of
// a store.Repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/verte-zerg/typequest/internal/lock"
	"github.com/verte-zerg/typequest/internal/metrics"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/progression"
	"github.com/verte-zerg/typequest/internal/stats"
	"github.com/verte-zerg/typequest/internal/store"
)

// ErrProfileNotFound is returned when an operation names an unknown profile.
var ErrProfileNotFound = errors.New("profile not found")

// DefaultSessionListLimit caps session listings without a time range.
const DefaultSessionListLimit = 50

const lockTimeout = 5 * time.Second

// Options configures a Service.
type Options struct {
	Locker   lock.Locker
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time
}

// Service coordinates persistence and progression.
type Service struct {
	repo      store.Repository
	locker    lock.Locker
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
	validator *validator.Validate
}

// New builds a Service. Missing options fall back to an in-process lock, a
// no-op logger, UTC and time.Now.
func New(repo store.Repository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		locker:    opts.Locker,
		logger:    opts.Logger,
		loc:       opts.Location,
		now:       opts.Now,
		validator: newValidator(),
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateProfileInput is the payload for a new profile.
type CreateProfileInput struct {
	Nickname string `json:"nickname" validate:"required,min=1,max=24"`
	Avatar   string `json:"avatar" validate:"omitempty,oneof=rocket star robot alien astronaut planet"`
	Theme    string `json:"theme" validate:"omitempty,oneof=space ocean forest candy"`
}

// SubmitSessionInput is the payload of a finished game. XPEarned is computed
// from the stats when omitted.
type SubmitSessionInput struct {
	ProfileID    string  `json:"profileId" validate:"required"`
	GameMode     string  `json:"gameMode" validate:"required,oneof=race_sprint alien_defense home_row_builder word_dash"`
	WPM          float64 `json:"wpm" validate:"gte=0"`
	Accuracy     float64 `json:"accuracy" validate:"gte=0,lte=100"`
	DurationSec  int     `json:"durationSec" validate:"gte=0"`
	CorrectChars int     `json:"correctChars" validate:"gte=0,ltefield=TotalChars"`
	TotalChars   int     `json:"totalChars" validate:"gte=0"`
	Errors       int     `json:"errors" validate:"gte=0"`
	XPEarned     *int    `json:"xpEarned,omitempty" validate:"omitempty,gte=0"`
}

// SubmitResult is the post-update state returned after a submission.
type SubmitResult struct {
	Session   model.Session `json:"session"`
	Profile   model.Profile `json:"profile"`
	Badges    []model.Badge `json:"badges"`
	NewBadges []model.Badge `json:"newBadges"`
}

// CreateProfile validates input and stores a fresh profile.
func (s *Service) CreateProfile(ctx context.Context, input CreateProfileInput) (model.Profile, error) {
	if err := s.validate(input); err != nil {
		return model.Profile{}, err
	}
	p := model.Profile{
		Nickname:             input.Nickname,
		Avatar:               lo.Ternary(input.Avatar == "", model.Avatars[0], input.Avatar),
		Theme:                lo.Ternary(input.Theme == "", model.Themes[0], input.Theme),
		Level:                1,
		StreakSavesRemaining: 1,
		CreatedAt:            s.now().UTC(),
	}
	if err := s.repo.CreateProfile(ctx, &p); err != nil {
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.logger.Info("profile created", zap.String("profile_id", p.ID))
	return p, nil
}

// GetProfile loads a profile.
func (s *Service) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ProfileStats aggregates the most recent sessions of a profile.
func (s *Service) ProfileStats(ctx context.Context, id string) (model.ProfileStats, error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return model.ProfileStats{}, err
	}
	report, err := stats.BuildReport(ctx, s.repo, id, nil)
	if err != nil {
		return model.ProfileStats{}, fmt.Errorf("profile stats: %w", err)
	}
	return report.Summary, nil
}

// ListSessions returns sessions newer than rangeDays days, or the most recent
// DefaultSessionListLimit sessions when rangeDays is zero.
func (s *Service) ListSessions(ctx context.Context, id string, rangeDays int) ([]model.Session, error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return nil, err
	}
	filter := model.SessionFilter{ProfileID: id, Limit: DefaultSessionListLimit}
	if rangeDays > 0 {
		since := s.now().AddDate(0, 0, -rangeDays)
		filter.Since = &since
		filter.Limit = 0
	}
	sessions, err := s.repo.ListSessions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return nonNil(sessions), nil
}

// ListBadges returns a profile's badges, newest first.
func (s *Service) ListBadges(ctx context.Context, id string) ([]model.Badge, error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return nil, err
	}
	badges, err := s.repo.ListBadges(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return nonNil(badges), nil
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// SubmitSession records a finished game, then applies XP, streak and badge
// updates. The profile lock is held from the session insert through badge
// evaluation so each submission sees the history it belongs to. Progression
// updates after the insert are best effort and logged on failure.
func (s *Service) SubmitSession(ctx context.Context, input SubmitSessionInput) (SubmitResult, error) {
	if err := s.validate(input); err != nil {
		return SubmitResult{}, err
	}
	profile, err := s.GetProfile(ctx, input.ProfileID)
	if err != nil {
		return SubmitResult{}, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	release, lockErr := s.locker.Lock(lockCtx, input.ProfileID)
	if lockErr == nil {
		defer release()
	}

	xp := progression.XPForSession(input.WPM, input.Accuracy, input.CorrectChars)
	if input.XPEarned != nil {
		xp = *input.XPEarned
	}
	completedAt := s.now()
	session := model.Session{
		ProfileID:    input.ProfileID,
		GameMode:     model.GameMode(input.GameMode),
		WPM:          input.WPM,
		Accuracy:     input.Accuracy,
		DurationSec:  input.DurationSec,
		CorrectChars: input.CorrectChars,
		TotalChars:   input.TotalChars,
		Errors:       input.Errors,
		XPEarned:     xp,
		CompletedAt:  completedAt.UTC(),
	}
	if err := s.repo.CreateSession(ctx, &session); err != nil {
		return SubmitResult{}, fmt.Errorf("create session: %w", err)
	}
	metrics.SessionSubmitted(input.GameMode)

	log := s.logger.With(zap.String("profile_id", input.ProfileID), zap.String("session_id", session.ID))
	result := SubmitResult{Session: session, Profile: profile}
	if lockErr != nil {
		log.Warn("progression skipped: profile lock unavailable", zap.Error(lockErr))
		return s.finish(ctx, log, result), nil
	}

	updated, newBadges, err := s.progress(ctx, log, session, progression.Today(completedAt, s.loc))
	if err != nil {
		log.Warn("progression skipped", zap.Error(err))
		return s.finish(ctx, log, result), nil
	}
	result.Profile = updated
	result.NewBadges = newBadges
	return s.finish(ctx, log, result), nil
}

// progress applies XP and streak to the stored profile and awards badges.
// The caller holds the profile lock.
func (s *Service) progress(ctx context.Context, log *zap.Logger, session model.Session, today string) (model.Profile, []model.Badge, error) {
	current, err := s.repo.GetProfile(ctx, session.ProfileID)
	if err != nil {
		return model.Profile{}, nil, fmt.Errorf("reload profile: %w", err)
	}
	updated := progression.Apply(current, session, today)
	if err := s.repo.UpdateProfile(ctx, updated); err != nil {
		return model.Profile{}, nil, fmt.Errorf("update profile: %w", err)
	}
	metrics.LevelUp(updated.Level - current.Level)
	if updated.Level > current.Level {
		log.Info("level up", zap.Int("level", updated.Level))
	}

	held, err := s.repo.ListBadges(ctx, session.ProfileID)
	if err != nil {
		log.Warn("badge evaluation skipped: list badges", zap.Error(err))
		return updated, nil, nil
	}
	history, err := s.repo.ListSessions(ctx, model.SessionFilter{ProfileID: session.ProfileID, Limit: stats.HistoryLimit})
	if err != nil {
		log.Warn("badge evaluation skipped: list sessions", zap.Error(err))
		return updated, nil, nil
	}

	earned := progression.Evaluate(progression.BadgeInput{
		Session: session,
		Streak:  updated.CurrentStreak,
		History: history,
		Held:    progression.HeldSet(held),
	})
	awarded := make([]model.Badge, 0, len(earned))
	for _, badgeType := range earned {
		badge := model.Badge{ProfileID: session.ProfileID, BadgeType: badgeType, EarnedAt: session.CompletedAt}
		if err := s.repo.AwardBadge(ctx, &badge); err != nil {
			if !errors.Is(err, store.ErrBadgeExists) {
				log.Warn("award badge failed", zap.String("badge_type", string(badgeType)), zap.Error(err))
			}
			continue
		}
		metrics.BadgeAwarded(string(badgeType))
		awarded = append(awarded, badge)
	}
	if len(awarded) > 0 {
		log.Info("badges awarded", zap.Strings("badge_types", lo.Map(awarded, func(b model.Badge, _ int) string {
			return string(b.BadgeType)
		})))
	}
	return updated, awarded, nil
}

func (s *Service) finish(ctx context.Context, log *zap.Logger, result SubmitResult) SubmitResult {
	badges, err := s.repo.ListBadges(ctx, result.Session.ProfileID)
	if err != nil {
		log.Warn("list badges after submit", zap.Error(err))
	}
	result.Badges = nonNil(badges)
	result.NewBadges = nonNil(result.NewBadges)
	return result
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
