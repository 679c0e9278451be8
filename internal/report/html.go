package report

import (
	"fmt"
	"html/template"
	"os"
)

// The visualization embeds two chart.js definitions: a pie chart of
// produced vs displaced grid energy (displaced assumed at 90% of
// produced) and a bar chart of CO2 avoided.
var impactTemplate = template.Must(template.New("impact").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Solar Energy Environmental Impact</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        .dashboard { display: flex; flex-wrap: wrap; gap: 20px; }
        .chart-container { width: 45%; min-width: 300px; }
    </style>
</head>
<body>
    <h1>Solar Energy Environmental Impact</h1>
    <div class="dashboard">
        <div class="chart-container">
            <canvas id="energyChart"></canvas>
        </div>
        <div class="chart-container">
            <canvas id="co2Chart"></canvas>
        </div>
    </div>
    <script>
        const energyData = {
            labels: ['Solar Energy Produced', 'Grid Energy Displaced'],
            datasets: [{
                data: [{{.Produced}}, {{.Displaced}}],
                backgroundColor: ['#FFA500', '#DDDDDD']
            }]
        };

        const co2Data = {
            labels: ['CO2 Emissions Avoided'],
            datasets: [{
                data: [{{.CO2Avoided}}],
                backgroundColor: ['#4BC0C0']
            }]
        };

        new Chart(document.getElementById('energyChart'), {
            type: 'pie',
            data: energyData,
            options: { responsive: true, plugins: { title: { display: true, text: 'Energy Production (kWh)' } } }
        });

        new Chart(document.getElementById('co2Chart'), {
            type: 'bar',
            data: co2Data,
            options: { responsive: true, plugins: { title: { display: true, text: 'CO2 Savings (kg)' } } }
        });
    </script>
</body>
</html>
`))

type impactChartData struct {
	Produced   float64
	Displaced  float64
	CO2Avoided float64
}

// WriteHTML writes the self-contained visualization document to path.
// Write failures are returned to the caller, not swallowed.
func WriteHTML(path string, summary Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create visualization file: %w", err)
	}
	data := impactChartData{
		Produced:   summary.TotalEnergyKWh,
		Displaced:  summary.TotalEnergyKWh * 0.9,
		CO2Avoided: summary.CO2AvoidedKg,
	}
	if err := impactTemplate.Execute(file, data); err != nil {
		file.Close()
		return fmt.Errorf("render visualization: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write visualization file: %w", err)
	}
	return nil
}
