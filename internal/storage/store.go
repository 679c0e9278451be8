package storage

import (
	"time"

	"solarwatch/internal/telemetry"
)

// Store is the persistence capability for telemetry readings. The
// in-memory and sqlite implementations are drop-in substitutes.
type Store interface {
	Save(reading telemetry.Reading) error
	Range(from, to time.Time) ([]telemetry.Reading, error)
}
