package monitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"solarwatch/internal/engine"
	"solarwatch/internal/impact"
	"solarwatch/internal/mqtt"
	"solarwatch/internal/report"
	"solarwatch/internal/storage"
	"solarwatch/internal/telemetry"
)

// Monitor is the ingest pipeline: each reading is stored, accumulated
// into the impact totals, then evaluated by the alert engine. The
// mutex exists for the serve mode, where API handlers read state
// while ingestion is in flight; batch ingestion is single-actor.
type Monitor struct {
	mu              sync.Mutex
	store           storage.Store
	engine          *engine.Engine
	impact          *impact.Accumulator
	publisher       *mqtt.Publisher
	hoursPerReading float64
	now             func() time.Time
}

type Config struct {
	Store           storage.Store
	Engine          *engine.Engine
	Impact          *impact.Accumulator
	Publisher       *mqtt.Publisher
	HoursPerReading float64
	Now             func() time.Time
}

func New(cfg Config) *Monitor {
	if cfg.HoursPerReading <= 0 {
		cfg.HoursPerReading = 1.0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Monitor{
		store:           cfg.Store,
		engine:          cfg.Engine,
		impact:          cfg.Impact,
		publisher:       cfg.Publisher,
		hoursPerReading: cfg.HoursPerReading,
		now:             cfg.Now,
	}
}

// Ingest processes one reading through the full pipeline and returns
// the alerts it fired. A reading without a timestamp gets stamped
// with the current time.
func (m *Monitor) Ingest(reading telemetry.Reading) ([]engine.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if reading.Timestamp.IsZero() {
		reading.Timestamp = now
	}

	if err := m.store.Save(reading); err != nil {
		return nil, fmt.Errorf("store reading: %w", err)
	}

	m.impact.AddEnergy(reading.PowerProduced, m.hoursPerReading)

	fired := m.engine.Evaluate(reading, now)

	if m.publisher != nil {
		if err := m.publisher.PublishReading(reading); err != nil {
			log.Printf("Error publishing reading: %v", err)
		}
		for _, alert := range fired {
			if err := m.publisher.PublishAlert(alert); err != nil {
				log.Printf("Error publishing alert: %v", err)
			}
		}
	}

	return fired, nil
}

// ActiveAlerts returns the currently active alerts in insertion order.
func (m *Monitor) ActiveAlerts() []engine.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Active()
}

// Impact returns the current environmental impact summary.
func (m *Monitor) Impact() report.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return report.Summary{
		TotalEnergyKWh:  m.impact.TotalEnergyKWh(),
		CO2AvoidedKg:    m.impact.CO2Avoided(),
		TreeEquivalents: m.impact.TreeEquivalents(),
	}
}

// AverageEfficiency returns the rolling average efficiency at the
// current time; ok is false while samples are insufficient.
func (m *Monitor) AverageEfficiency() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.AverageEfficiency(m.now())
}

// Readings queries the underlying store.
func (m *Monitor) Readings(from, to time.Time) ([]telemetry.Reading, error) {
	return m.store.Range(from, to)
}
