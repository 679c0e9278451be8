package storage

import (
	"sync"
	"time"

	"solarwatch/internal/telemetry"
)

// MemoryStore is an append-only in-memory reading log. It accepts
// every reading as-is: no deduplication, no plausibility checks.
// Range results come back in insertion order, which is only
// timestamp-sorted when readings arrive in order.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []telemetry.Reading
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(reading telemetry.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, reading)
	return nil
}

// Range returns all readings with from <= timestamp <= to.
func (s *MemoryStore) Range(from, to time.Time) ([]telemetry.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []telemetry.Reading
	for _, r := range s.readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}
