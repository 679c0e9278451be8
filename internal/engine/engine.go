package engine

import (
	"fmt"
	"time"

	"solarwatch/internal/efficiency"
	"solarwatch/internal/telemetry"
)

const (
	DefaultDegradationThreshold = 0.05
	DefaultTemperatureThreshold = 70.0
	DefaultAlertRetention       = 7 * 24 * time.Hour
)

// Engine evaluates maintenance rules against each incoming reading
// and owns the active alert list. Alert lifecycle is absent -> active
// -> expired; an expired alert is removed and never reactivated, a new
// firing of the same rule produces a fresh alert. Repeated firings
// across readings accumulate until pruned.
//
// The caller passes an explicit now into Evaluate so tests stay
// deterministic and the engine carries no hidden wall-clock coupling.
type Engine struct {
	tracker              *efficiency.Tracker
	degradationThreshold float64
	temperatureThreshold float64
	retention            time.Duration

	active []Alert
}

type Config struct {
	Tracker              *efficiency.Tracker
	DegradationThreshold float64
	TemperatureThreshold float64
	AlertRetention       time.Duration
}

func New(cfg Config) *Engine {
	if cfg.Tracker == nil {
		cfg.Tracker = efficiency.NewTracker(efficiency.TrackerConfig{})
	}
	if cfg.DegradationThreshold <= 0 {
		cfg.DegradationThreshold = DefaultDegradationThreshold
	}
	if cfg.TemperatureThreshold <= 0 {
		cfg.TemperatureThreshold = DefaultTemperatureThreshold
	}
	if cfg.AlertRetention <= 0 {
		cfg.AlertRetention = DefaultAlertRetention
	}
	return &Engine{
		tracker:              cfg.Tracker,
		degradationThreshold: cfg.DegradationThreshold,
		temperatureThreshold: cfg.TemperatureThreshold,
		retention:            cfg.AlertRetention,
	}
}

// Evaluate runs one maintenance pass for the reading: prune expired
// alerts, then each rule in order. Returns the alerts fired by this
// pass. Rules never return errors; malformed inputs flow through the
// arithmetic as-is beyond the zero-irradiance guard.
func (e *Engine) Evaluate(reading telemetry.Reading, now time.Time) []Alert {
	e.prune(now)

	var fired []Alert
	for _, rule := range []func(telemetry.Reading, time.Time) *Alert{
		e.checkPanelDegradation,
		e.checkTemperature,
		e.checkLowEfficiency,
		e.checkInverterIssue,
		e.checkBatteryDegradation,
	} {
		if alert := rule(reading, now); alert != nil {
			e.active = append(e.active, *alert)
			fired = append(fired, *alert)
		}
	}
	return fired
}

// prune drops active alerts older than the retention window.
func (e *Engine) prune(now time.Time) {
	cutoff := now.Add(-e.retention)
	kept := e.active[:0]
	for _, alert := range e.active {
		if !alert.Timestamp.Before(cutoff) {
			kept = append(kept, alert)
		}
	}
	e.active = kept
}

func (e *Engine) checkPanelDegradation(reading telemetry.Reading, now time.Time) *Alert {
	current := e.tracker.Efficiency(reading.Irradiance, reading.PowerProduced)
	e.tracker.Record(reading.Timestamp, current)

	avg, ok := e.tracker.RollingAverage(reading.Timestamp)
	if !ok {
		return nil
	}

	degradation := 1.0 - current/avg
	if degradation <= e.degradationThreshold {
		return nil
	}

	return &Alert{
		Type:      AlertPanelDegradation,
		Message:   fmt.Sprintf("Panel degradation detected: %d%% performance loss", int(degradation*100)),
		Timestamp: now,
		Severity:  degradation / e.degradationThreshold,
	}
}

func (e *Engine) checkTemperature(reading telemetry.Reading, now time.Time) *Alert {
	if reading.Temperature <= e.temperatureThreshold {
		return nil
	}

	severity := (reading.Temperature - e.temperatureThreshold) / 10.0
	if severity > 1.0 {
		severity = 1.0
	}

	return &Alert{
		Type:      AlertHighTemperature,
		Message:   fmt.Sprintf("High panel temperature: %d°C", int(reading.Temperature)),
		Timestamp: now,
		Severity:  severity,
	}
}

// The remaining rule slots are part of the alert taxonomy but carry
// no detection logic yet; they never fire.

func (e *Engine) checkLowEfficiency(telemetry.Reading, time.Time) *Alert { return nil }

func (e *Engine) checkInverterIssue(telemetry.Reading, time.Time) *Alert { return nil }

func (e *Engine) checkBatteryDegradation(telemetry.Reading, time.Time) *Alert { return nil }

// Active returns a copy of the currently active alerts in insertion
// order.
func (e *Engine) Active() []Alert {
	out := make([]Alert, len(e.active))
	copy(out, e.active)
	return out
}

// AverageEfficiency exposes the tracker's rolling average at now.
func (e *Engine) AverageEfficiency(now time.Time) (float64, bool) {
	return e.tracker.RollingAverage(now)
}
