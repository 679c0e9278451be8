package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Source produces readings one at a time. Implementations return
// io.EOF when no more readings are available.
type Source interface {
	Next() (Reading, error)
}

// SliceSource serves readings from a fixed slice. Used by tests and
// the demo data generator.
type SliceSource struct {
	readings []Reading
	pos      int
}

func NewSliceSource(readings []Reading) *SliceSource {
	return &SliceSource{readings: readings}
}

func (s *SliceSource) Next() (Reading, error) {
	if s.pos >= len(s.readings) {
		return Reading{}, io.EOF
	}
	r := s.readings[s.pos]
	s.pos++
	return r, nil
}

// CSVSource reads telemetry rows from CSV input. Each row carries
// either 7 numeric fields (produced, consumed, soc, irradiance,
// temperature, voltage, current) or 8 fields with an RFC3339
// timestamp first. A non-numeric first row is treated as a header.
// Malformed rows abort the run with a validation error.
type CSVSource struct {
	reader *csv.Reader
	line   int
}

func NewCSVSource(r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return &CSVSource{reader: reader}
}

func (s *CSVSource) Next() (Reading, error) {
	record, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return Reading{}, io.EOF
		}
		return Reading{}, fmt.Errorf("read telemetry row: %w", err)
	}
	s.line++

	// Header detection: only the first row may be non-numeric.
	if s.line == 1 && len(record) > 0 {
		if _, err := strconv.ParseFloat(record[0], 64); err != nil {
			if _, err := time.Parse(time.RFC3339, record[0]); err != nil {
				return s.Next()
			}
		}
	}

	return s.parse(record)
}

func (s *CSVSource) parse(record []string) (Reading, error) {
	var (
		reading Reading
		fields  []string
	)

	switch len(record) {
	case 7:
		reading.Timestamp = time.Now()
		fields = record
	case 8:
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return Reading{}, fmt.Errorf("row %d: invalid timestamp %q: %w", s.line, record[0], err)
		}
		reading.Timestamp = ts
		fields = record[1:]
	default:
		return Reading{}, fmt.Errorf("row %d: expected 7 or 8 fields, got %d", s.line, len(record))
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Reading{}, fmt.Errorf("row %d: invalid numeric field %q: %w", s.line, field, err)
		}
		values[i] = v
	}

	reading.PowerProduced = values[0]
	reading.PowerConsumed = values[1]
	reading.BatterySOC = values[2]
	reading.Irradiance = values[3]
	reading.Temperature = values[4]
	reading.PanelVoltage = values[5]
	reading.PanelCurrent = values[6]
	return reading, nil
}
