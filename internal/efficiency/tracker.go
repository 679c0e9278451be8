package efficiency

import "time"

const (
	DefaultRatedWatts    = 300.0
	DefaultAverageWindow = 30 * 24 * time.Hour
	DefaultMinSamples    = 30
)

// Tracker keeps the time-ordered efficiency history of a panel and
// computes rolling averages over it. History is keyed by timestamp,
// so recording twice at the same instant overwrites the earlier
// sample. The history is never pruned.
type Tracker struct {
	ratedWatts float64
	window     time.Duration
	minSamples int
	history    map[int64]float64 // unix seconds -> efficiency ratio
}

type TrackerConfig struct {
	RatedWatts    float64
	AverageWindow time.Duration
	MinSamples    int
}

func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.RatedWatts <= 0 {
		cfg.RatedWatts = DefaultRatedWatts
	}
	if cfg.AverageWindow <= 0 {
		cfg.AverageWindow = DefaultAverageWindow
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = DefaultMinSamples
	}
	return &Tracker{
		ratedWatts: cfg.RatedWatts,
		window:     cfg.AverageWindow,
		minSamples: cfg.MinSamples,
		history:    make(map[int64]float64),
	}
}

// ExpectedPower is the rated output scaled by irradiance relative to
// the 1000 W/m² standard test condition.
func (t *Tracker) ExpectedPower(irradiance float64) float64 {
	return irradiance / 1000.0 * t.ratedWatts
}

// Efficiency is produced power over expected power. Zero or negative
// irradiance yields exactly 0.0, which also masks genuine production
// issues in darkness; callers accept that.
func (t *Tracker) Efficiency(irradiance, produced float64) float64 {
	if irradiance <= 0 {
		return 0.0
	}
	return produced / t.ExpectedPower(irradiance)
}

func (t *Tracker) Record(ts time.Time, eff float64) {
	t.history[ts.Unix()] = eff
}

func (t *Tracker) Len() int {
	return len(t.history)
}

// RollingAverage returns the mean efficiency over [ref-window, ref].
// The second return is false when the total sample count is below the
// minimum or the window holds no samples; callers must skip
// degradation evaluation in that case.
func (t *Tracker) RollingAverage(ref time.Time) (float64, bool) {
	if len(t.history) < t.minSamples {
		return 0, false
	}

	start := ref.Add(-t.window).Unix()
	end := ref.Unix()

	sum := 0.0
	count := 0
	for ts, eff := range t.history {
		if ts >= start && ts <= end {
			sum += eff
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
