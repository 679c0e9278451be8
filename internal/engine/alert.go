package engine

import "time"

type AlertType string

const (
	AlertPanelDegradation   AlertType = "panel_degradation"
	AlertHighTemperature    AlertType = "high_temperature"
	AlertLowEfficiency      AlertType = "low_efficiency"
	AlertInverterIssue      AlertType = "inverter_issue"
	AlertBatteryDegradation AlertType = "battery_degradation"
)

// Alert is a maintenance alert produced by a rule firing. Severity is
// nominally on a 0-1 scale; the degradation rule can exceed 1.0.
type Alert struct {
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  float64   `json:"severity"`
}
