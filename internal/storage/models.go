package storage

import (
	"time"

	"gorm.io/gorm"
)

type StoredReading struct {
	gorm.Model
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	PowerProduced float64 `json:"power_produced_w"`
	PowerConsumed float64 `json:"power_consumed_w"`
	BatterySOC    float64 `json:"battery_soc_pct"`
	Irradiance    float64 `json:"irradiance_wm2"`
	Temperature   float64 `json:"temperature_c"`
	PanelVoltage  float64 `json:"panel_voltage_v"`
	PanelCurrent  float64 `json:"panel_current_a"`
}
