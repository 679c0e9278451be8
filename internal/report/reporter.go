package report

import (
	"fmt"
	"io"

	"solarwatch/internal/engine"
)

const timestampLayout = "2006-01-02 15:04:05"

// Summary carries the three environmental-impact figures.
type Summary struct {
	TotalEnergyKWh  float64 `json:"total_energy_kwh"`
	CO2AvoidedKg    float64 `json:"co2_avoided_kg"`
	TreeEquivalents float64 `json:"tree_equivalents"`
}

// Reporter renders alerts and the impact summary to a text stream.
// It holds no state of its own.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// WriteAlerts prints the active alerts in insertion order, severity
// as a percentage with a human-readable timestamp.
func (r *Reporter) WriteAlerts(alerts []engine.Alert) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(r.out, "No active maintenance alerts")
		return err
	}

	if _, err := fmt.Fprintln(r.out, "\n=== MAINTENANCE ALERTS ==="); err != nil {
		return err
	}
	for _, alert := range alerts {
		_, err := fmt.Fprintf(r.out, "[ALERT] %s | Severity: %.0f%% | Time: %s\n",
			alert.Message,
			alert.Severity*100,
			alert.Timestamp.Format(timestampLayout),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteImpact prints the environmental impact summary.
func (r *Reporter) WriteImpact(summary Summary) error {
	_, err := fmt.Fprintf(r.out,
		"\n=== ENVIRONMENTAL IMPACT REPORT ===\n"+
			"Total solar energy produced: %g kWh\n"+
			"CO2 emissions avoided: %g kg\n"+
			"Equivalent to planting %g trees\n",
		summary.TotalEnergyKWh,
		summary.CO2AvoidedKg,
		summary.TreeEquivalents,
	)
	return err
}
