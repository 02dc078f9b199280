// Package metrics exposes Prometheus metrics for the scoring engine and the live feed.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trentd187/golf-scoring/internal/scoring"
)

const namespace = "golfscore"

// Recorder implements scoring.Observer and counts score entries.
type Recorder struct {
	leaderboards *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rows         *prometheus.HistogramVec
	scores       *prometheus.CounterVec
}

var _ scoring.Observer = (*Recorder)(nil)

// New registers the metrics on reg. viewers, when not nil, reports the number of open
// live leaderboard connections.
func New(reg prometheus.Registerer, viewers func() int) *Recorder {
	r := &Recorder{
		leaderboards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboards_total",
			Help:      "Leaderboards computed, by format and result (ranked or waiting).",
		}, []string{"format", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leaderboard_duration_seconds",
			Help:      "Time spent computing one leaderboard.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}, []string{"format"}),
		rows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leaderboard_rows",
			Help:      "Rows per computed leaderboard.",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		}, []string{"format"}),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_recorded_total",
			Help:      "Hole scores saved through the API, by kind (score or wolf).",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.leaderboards, r.duration, r.rows, r.scores)

	if viewers != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_viewers",
			Help:      "Open live leaderboard websocket connections.",
		}, func() float64 { return float64(viewers()) }))
	}
	return r
}

// ObserveLeaderboard records one leaderboard computation.
func (r *Recorder) ObserveLeaderboard(code scoring.FormatCode, rows int, sentinel bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := "ranked"
	if sentinel {
		result = "waiting"
	}
	format := string(code)
	r.leaderboards.WithLabelValues(format, result).Inc()
	r.duration.WithLabelValues(format).Observe(elapsed.Seconds())
	r.rows.WithLabelValues(format).Observe(float64(rows))
}

// ScoreRecorded counts a saved hole score. A nil Recorder (metrics disabled) is a no-op.
func (r *Recorder) ScoreRecorded() { r.count("score") }

// WolfRecorded counts a saved Wolf decision.
func (r *Recorder) WolfRecorded() { r.count("wolf") }

func (r *Recorder) count(kind string) {
	if r != nil {
		r.scores.WithLabelValues(kind).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
