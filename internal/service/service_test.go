package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/typequest/internal/lock"
	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/store"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestService(t *testing.T) (*Service, *store.Store, *clock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typequest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	c := &clock{t: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)}
	return New(st, Options{Now: c.Now}), st, c
}

func newProfile(t *testing.T, svc *Service) model.Profile {
	t.Helper()
	p, err := svc.CreateProfile(context.Background(), CreateProfileInput{Nickname: "Ada"})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func submission(profileID string, mode model.GameMode, wpm, acc float64) SubmitSessionInput {
	return SubmitSessionInput{
		ProfileID:    profileID,
		GameMode:     string(mode),
		WPM:          wpm,
		Accuracy:     acc,
		DurationSec:  60,
		CorrectChars: 50,
		TotalChars:   52,
		Errors:       2,
	}
}

func badgeTypes(badges []model.Badge) []model.BadgeType {
	out := make([]model.BadgeType, len(badges))
	for i, b := range badges {
		out[i] = b.BadgeType
	}
	return out
}

func TestCreateProfileDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := newProfile(t, svc)
	if p.Level != 1 || p.XP != 0 || p.CurrentStreak != 0 || p.StreakSavesRemaining != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.Avatar != "rocket" || p.Theme != "space" || p.ID == "" {
		t.Fatalf("unexpected avatar/theme/id: %+v", p)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreateProfile(context.Background(), CreateProfileInput{Avatar: "dragon"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 || verr.Fields[0].Field != "nickname" || verr.Fields[1].Rule != "oneof" {
		t.Fatalf("unexpected field errors: %+v", verr.Fields)
	}
}

func TestSubmitSessionFirstSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)

	res, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeRaceSprint, 35, 96))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// round(70 + 48 + 5)
	if res.Session.XPEarned != 123 || res.Profile.XP != 123 || res.Profile.Level != 2 {
		t.Fatalf("unexpected xp/level: session=%d profile=%+v", res.Session.XPEarned, res.Profile)
	}
	if res.Profile.CurrentStreak != 1 || res.Profile.LastPracticeDate != "2026-03-10" {
		t.Fatalf("unexpected streak: %+v", res.Profile)
	}
	want := []model.BadgeType{
		model.BadgeFirstSession,
		model.BadgeSpeedDemon20,
		model.BadgeSpeedDemon30,
		model.BadgeAccuracyStar90,
		model.BadgeAccuracyStar95,
	}
	got := badgeTypes(res.NewBadges)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(res.Badges) != 5 {
		t.Fatalf("expected 5 badges overall, got %d", len(res.Badges))
	}

	again, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeRaceSprint, 35, 96))
	if err != nil {
		t.Fatalf("submit again: %v", err)
	}
	if len(again.NewBadges) != 0 || len(again.Badges) != 5 {
		t.Fatalf("badges must not repeat: new=%v all=%d", badgeTypes(again.NewBadges), len(again.Badges))
	}
	if again.Profile.CurrentStreak != 1 {
		t.Fatalf("same-day submission must keep the streak, got %d", again.Profile.CurrentStreak)
	}
}

func TestSubmitSessionExplicitXP(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := newProfile(t, svc)
	in := submission(p.ID, model.ModeWordDash, 5, 50)
	xp := 7
	in.XPEarned = &xp
	res, err := svc.SubmitSession(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Session.XPEarned != 7 || res.Profile.XP != 7 {
		t.Fatalf("expected caller xp to be kept: %+v", res)
	}
}

func TestSubmitSessionStreakAcrossDays(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)

	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	var res SubmitResult
	for i := 0; i < 3; i++ {
		c.Set(day.AddDate(0, 0, i))
		var err error
		res, err = svc.SubmitSession(ctx, submission(p.ID, model.ModeWordDash, 5, 50))
		if err != nil {
			t.Fatalf("submit day %d: %v", i, err)
		}
	}
	if res.Profile.CurrentStreak != 3 || res.Profile.LongestStreak != 3 {
		t.Fatalf("expected 3 day streak, got %+v", res.Profile)
	}
	if got := badgeTypes(res.NewBadges); len(got) != 1 || got[0] != model.BadgeStreak3 {
		t.Fatalf("expected streak_3, got %v", got)
	}

	c.Set(day.AddDate(0, 0, 5))
	res, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeWordDash, 5, 50))
	if err != nil {
		t.Fatalf("submit after gap: %v", err)
	}
	if res.Profile.CurrentStreak != 1 || res.Profile.LongestStreak != 3 {
		t.Fatalf("expected reset streak, got %+v", res.Profile)
	}
}

func TestSubmitSessionUsesConfiguredTimezone(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typequest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	at := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	svc := New(st, Options{Now: func() time.Time { return at }, Location: time.FixedZone("UTC+2", 2*60*60)})
	p := newProfile(t, svc)
	res, err := svc.SubmitSession(context.Background(), submission(p.ID, model.ModeWordDash, 5, 50))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Profile.LastPracticeDate != "2026-03-11" {
		t.Fatalf("expected local date, got %q", res.Profile.LastPracticeDate)
	}
}

func TestRaceChampionOnTenthSprint(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)
	for i := 1; i <= 11; i++ {
		res, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeRaceSprint, 5, 50))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		gotChampion := false
		for _, b := range res.NewBadges {
			if b.BadgeType == model.BadgeRaceChampion {
				gotChampion = true
			}
		}
		if gotChampion != (i == 10) {
			t.Fatalf("session %d: race champion awarded=%v", i, gotChampion)
		}
	}
}

func TestSubmitSessionValidationWritesNothing(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)

	in := submission(p.ID, "tetris", 5, 150)
	in.CorrectChars = 80
	_, err := svc.SubmitSession(ctx, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Rule
	}
	if fields["gameMode"] != "oneof" || fields["accuracy"] != "lte" || fields["correctChars"] != "ltefield" {
		t.Fatalf("unexpected field errors: %+v", verr.Fields)
	}
	sessions, err := st.ListSessions(ctx, model.SessionFilter{ProfileID: p.ID})
	if err != nil || len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %v %v", sessions, err)
	}
}

func TestSubmitSessionUnknownProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SubmitSession(context.Background(), submission("missing", model.ModeWordDash, 5, 50))
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileStatsAndListing(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)

	start := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	c.Set(start)
	if _, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeWordDash, 10, 80)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	c.Set(start.AddDate(0, 0, 25))
	if _, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeRaceSprint, 21, 95)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	st, err := svc.ProfileStats(ctx, p.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalSessions != 2 || st.AvgWPM != 16 || st.AvgAccuracy != 88 || st.TotalMinutes != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	week, err := svc.ListSessions(ctx, p.ID, 7)
	if err != nil {
		t.Fatalf("list 7d: %v", err)
	}
	if len(week) != 1 || week[0].GameMode != model.ModeRaceSprint {
		t.Fatalf("unexpected 7d sessions: %+v", week)
	}
	all, err := svc.ListSessions(ctx, p.ID, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected sessions: %v %v", all, err)
	}

	if _, err := svc.ProfileStats(ctx, "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	badges, err := svc.ListBadges(ctx, p.ID)
	if err != nil || len(badges) == 0 {
		t.Fatalf("expected badges, got %v %v", badges, err)
	}
}

func TestConcurrentSubmissionsKeepAllXP(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := newProfile(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := submission(p.ID, model.ModeWordDash, 5, 50)
			xp := 10
			in.XPEarned = &xp
			if _, err := svc.SubmitSession(ctx, in); err != nil {
				t.Errorf("submit: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := svc.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.XP != 50 {
		t.Fatalf("expected 50 xp, got %d", got.XP)
	}
}

// barrierLocker holds every caller until n of them are waiting, then hands
// out an in-process lock.
type barrierLocker struct {
	arrived sync.WaitGroup
	inner   *lock.Local
}

func newBarrierLocker(n int) *barrierLocker {
	b := &barrierLocker{inner: lock.NewLocal()}
	b.arrived.Add(n)
	return b
}

func (b *barrierLocker) Lock(ctx context.Context, key string) (func(), error) {
	b.arrived.Done()
	b.arrived.Wait()
	return b.inner.Lock(ctx, key)
}

func TestConcurrentFirstSubmissionsAwardFirstSessionOnce(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typequest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := New(st, Options{
		Locker: newBarrierLocker(2),
		Now:    func() time.Time { return now },
	})
	ctx := context.Background()
	p := newProfile(t, svc)

	results := make([]SubmitResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.SubmitSession(ctx, submission(p.ID, model.ModeWordDash, 5, 50))
			if err != nil {
				t.Errorf("submit: %v", err)
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	awarded := 0
	for _, res := range results {
		for _, b := range res.NewBadges {
			if b.BadgeType == model.BadgeFirstSession {
				awarded++
			}
		}
	}
	if awarded != 1 {
		t.Fatalf("expected first_session in exactly one result, got %d", awarded)
	}
	badges, err := svc.ListBadges(ctx, p.ID)
	if err != nil {
		t.Fatalf("list badges: %v", err)
	}
	if got := badgeTypes(badges); len(got) != 1 || got[0] != model.BadgeFirstSession {
		t.Fatalf("expected only first_session, got %v", got)
	}
}
