package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scoring/internal/scoring"
)

func TestRecorderObserveLeaderboard(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, nil)

	r.ObserveLeaderboard(scoring.FormatStableford, 4, false, 2*time.Millisecond)
	r.ObserveLeaderboard(scoring.FormatStableford, 4, false, time.Millisecond)
	r.ObserveLeaderboard(scoring.FormatWolfGross, 1, true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.leaderboards.WithLabelValues("stableford", "ranked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.leaderboards.WithLabelValues("wolf-gross", "waiting")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorderCountsEntries(t *testing.T) {
	r := New(prometheus.NewRegistry(), nil)
	r.ScoreRecorded()
	r.ScoreRecorded()
	r.WolfRecorded()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.scores.WithLabelValues("score")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scores.WithLabelValues("wolf")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveLeaderboard(scoring.FormatStableford, 1, false, time.Millisecond)
		r.ScoreRecorded()
		r.WolfRecorded()
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	viewers := 3
	r := New(reg, func() int { return viewers })
	r.ScoreRecorded()

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `golfscore_scores_recorded_total{kind="score"} 1`), text)
	assert.Contains(t, text, "golfscore_live_viewers 3")
}
