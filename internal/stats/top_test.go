package stats

import (
	"testing"

	"github.com/verte-zerg/typequest/internal/model"
)

func TestTopModesByCount(t *testing.T) {
	sessions := []model.Session{
		{GameMode: model.ModeWordDash},
		{GameMode: model.ModeRaceSprint},
		{GameMode: model.ModeRaceSprint},
		{GameMode: model.ModeAlienDefense},
		{GameMode: model.ModeWordDash},
	}
	top := TopModesByCount(sessions, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(top))
	}
	if top[0] != model.ModeRaceSprint || top[1] != model.ModeWordDash {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopModesByCount(nil, 3); got != nil {
		t.Fatalf("expected nil for no sessions, got %v", got)
	}
}
