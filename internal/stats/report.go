// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/typequest/internal/model"
	"github.com/verte-zerg/typequest/internal/store"
)

// HistoryLimit caps how many sessions feed aggregate stats and badge history.
const HistoryLimit = 1000

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.Session
	Summary  model.ProfileStats
	TopModes []model.GameMode
}

// BuildReport loads and prepares data for stats rendering.
// A nil since means all sessions up to HistoryLimit.
func BuildReport(ctx context.Context, repo store.Repository, profileID string, since *time.Time) (Report, error) {
	sessions, err := repo.ListSessions(ctx, model.SessionFilter{
		ProfileID: profileID,
		Since:     since,
		Limit:     HistoryLimit,
	})
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		TopModes: TopModesByCount(sessions, len(model.GameModes)),
	}, nil
}
