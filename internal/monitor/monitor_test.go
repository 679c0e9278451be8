package monitor

import (
	"math"
	"testing"
	"time"

	"solarwatch/internal/efficiency"
	"solarwatch/internal/engine"
	"solarwatch/internal/impact"
	"solarwatch/internal/storage"
	"solarwatch/internal/telemetry"
)

func newTestMonitor(now time.Time) (*Monitor, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	m := New(Config{
		Store: store,
		Engine: engine.New(engine.Config{
			Tracker: efficiency.NewTracker(efficiency.TrackerConfig{}),
		}),
		Impact: impact.NewAccumulator(0, 0),
		Now:    func() time.Time { return now },
	})
	return m, store
}

func TestIngestPipeline(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m, store := newTestMonitor(now)

	fired, err := m.Ingest(telemetry.Reading{
		Timestamp:     now,
		PowerProduced: 300,
		Irradiance:    1000,
		Temperature:   85,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// Stored.
	if store.Len() != 1 {
		t.Errorf("store holds %d readings, want 1", store.Len())
	}

	// Accumulated at one hour per reading.
	summary := m.Impact()
	if math.Abs(summary.TotalEnergyKWh-0.3) > 1e-9 {
		t.Errorf("TotalEnergyKWh = %v, want 0.3", summary.TotalEnergyKWh)
	}

	// Evaluated: the hot reading fires a temperature alert.
	if len(fired) != 1 || fired[0].Type != engine.AlertHighTemperature {
		t.Fatalf("fired = %+v, want one high_temperature alert", fired)
	}
	if len(m.ActiveAlerts()) != 1 {
		t.Errorf("active alerts = %d, want 1", len(m.ActiveAlerts()))
	}
}

func TestIngestStampsMissingTimestamp(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m, store := newTestMonitor(now)

	if _, err := m.Ingest(telemetry.Reading{PowerProduced: 100, Irradiance: 500}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	readings, err := store.Range(now, now)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected the reading stamped with the injected now, store returned %d", len(readings))
	}
}

func TestReadingsDelegatesToStore(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m, _ := newTestMonitor(now)

	for i := 0; i < 3; i++ {
		m.Ingest(telemetry.Reading{
			Timestamp:     now.Add(time.Duration(i) * time.Hour),
			PowerProduced: float64(i),
		})
	}

	readings, err := m.Readings(now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Readings: %v", err)
	}
	if len(readings) != 2 {
		t.Errorf("Readings returned %d, want 2", len(readings))
	}
}

func TestAverageEfficiencyUndefinedWhenSparse(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m, _ := newTestMonitor(now)

	m.Ingest(telemetry.Reading{Timestamp: now, PowerProduced: 210, Irradiance: 1000})

	if _, ok := m.AverageEfficiency(); ok {
		t.Error("average efficiency should be undefined with one sample")
	}
}
