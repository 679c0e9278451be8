package telemetry

import "time"

// Reading is a single solar array telemetry sample. Readings are
// immutable once created; the timestamp is assigned at capture time.
type Reading struct {
	Timestamp     time.Time `json:"timestamp"`
	PowerProduced float64   `json:"power_produced_w"`
	PowerConsumed float64   `json:"power_consumed_w"`
	BatterySOC    float64   `json:"battery_soc_pct"`
	Irradiance    float64   `json:"irradiance_wm2"`
	Temperature   float64   `json:"temperature_c"`
	PanelVoltage  float64   `json:"panel_voltage_v"`
	PanelCurrent  float64   `json:"panel_current_a"`
}

// NewReading builds a reading stamped with the current wall-clock time.
func NewReading(produced, consumed, soc, irradiance, temperature, voltage, current float64) Reading {
	return Reading{
		Timestamp:     time.Now(),
		PowerProduced: produced,
		PowerConsumed: consumed,
		BatterySOC:    soc,
		Irradiance:    irradiance,
		Temperature:   temperature,
		PanelVoltage:  voltage,
		PanelCurrent:  current,
	}
}
