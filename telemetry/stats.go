package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated match statistics for a window of simulation time.
type WindowStats struct {
	WindowStartSec float64 `csv:"-"`
	WindowEndSec   float64 `csv:"window_end"`
	Frames         int     `csv:"frames"`

	// Cumulative score at window end
	PlayerScore uint `csv:"player_score"`
	AIScore     uint `csv:"ai_score"`

	// Points during window
	PlayerPoints int     `csv:"player_points"`
	AIPoints     int     `csv:"ai_points"`
	AIPointShare float64 `csv:"ai_point_share"`

	// Contacts
	PlayerHits  int `csv:"player_hits"`
	AIHits      int `csv:"ai_hits"`
	WallBounces int `csv:"wall_bounces"`

	// AI behaviour
	Retargets      int `csv:"retargets"`
	MissesInjected int `csv:"misses_injected"`
	PassThroughs   int `csv:"pass_throughs"`

	// Rally length distribution (paddle hits per finished rally)
	Rallies   int     `csv:"rallies"`
	RallyMean float64 `csv:"rally_mean"`
	RallyStd  float64 `csv:"rally_std"`
	RallyP50  float64 `csv:"rally_p50"`
	RallyP90  float64 `csv:"rally_p90"`

	// Ball speed after paddle contact
	HitSpeedMean float64 `csv:"hit_speed_mean"`
	PeakSpeed    float64 `csv:"peak_speed"`
}

// Distribution returns mean, sample standard deviation and the empirical
// 50th and 90th percentiles of values. Returns zeros for an empty slice.
func Distribution(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStartSec),
		slog.Float64("window_end", s.WindowEndSec),
		slog.Int("frames", s.Frames),
		slog.Uint64("player_score", uint64(s.PlayerScore)),
		slog.Uint64("ai_score", uint64(s.AIScore)),
		slog.Int("player_points", s.PlayerPoints),
		slog.Int("ai_points", s.AIPoints),
		slog.Float64("ai_point_share", s.AIPointShare),
		slog.Int("player_hits", s.PlayerHits),
		slog.Int("ai_hits", s.AIHits),
		slog.Int("wall_bounces", s.WallBounces),
		slog.Int("retargets", s.Retargets),
		slog.Int("misses_injected", s.MissesInjected),
		slog.Int("pass_throughs", s.PassThroughs),
		slog.Int("rallies", s.Rallies),
		slog.Float64("rally_mean", s.RallyMean),
		slog.Float64("rally_std", s.RallyStd),
		slog.Float64("rally_p50", s.RallyP50),
		slog.Float64("rally_p90", s.RallyP90),
		slog.Float64("hit_speed_mean", s.HitSpeedMean),
		slog.Float64("peak_speed", s.PeakSpeed),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
