// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/typequest/internal/model"
)

// TopModesByCount returns the n most played game modes.
func TopModesByCount(sessions []model.Session, n int) []model.GameMode {
	if n <= 0 || len(sessions) == 0 {
		return nil
	}
	counts := lo.CountValuesBy(sessions, func(s model.Session) model.GameMode {
		return s.GameMode
	})
	modes := lo.Keys(counts)
	sort.Slice(modes, func(i, j int) bool {
		if counts[modes[i]] == counts[modes[j]] {
			return modes[i] < modes[j]
		}
		return counts[modes[i]] > counts[modes[j]]
	})
	if n > len(modes) {
		n = len(modes)
	}
	return modes[:n]
}
