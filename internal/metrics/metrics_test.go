package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(sessionsSubmitted.WithLabelValues("word_dash"))
	SessionSubmitted("word_dash")
	assert.Equal(t, before+1, testutil.ToFloat64(sessionsSubmitted.WithLabelValues("word_dash")))

	beforeBadges := testutil.ToFloat64(badgesAwarded.WithLabelValues("streak_3"))
	BadgeAwarded("streak_3")
	assert.Equal(t, beforeBadges+1, testutil.ToFloat64(badgesAwarded.WithLabelValues("streak_3")))

	beforeLevels := testutil.ToFloat64(levelUps)
	LevelUp(0)
	LevelUp(2)
	assert.Equal(t, beforeLevels+2, testutil.ToFloat64(levelUps))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/profiles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequests.WithLabelValues(http.MethodGet, "/api/profiles/{id}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandlerServesMetrics(t *testing.T) {
	SessionSubmitted("race_sprint")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "typequest_sessions_submitted_total")
}
