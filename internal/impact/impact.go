package impact

const (
	DefaultCO2PerKWh   = 0.4  // kg CO2 avoided per kWh produced
	DefaultTreesPerKWh = 0.01 // tree-equivalents per kWh produced
)

// Accumulator keeps the running total of produced energy. The derived
// figures (CO2 avoided, tree-equivalents) are pure functions of the
// total, not stored separately.
type Accumulator struct {
	totalKWh    float64
	co2PerKWh   float64
	treesPerKWh float64
}

func NewAccumulator(co2PerKWh, treesPerKWh float64) *Accumulator {
	if co2PerKWh <= 0 {
		co2PerKWh = DefaultCO2PerKWh
	}
	if treesPerKWh <= 0 {
		treesPerKWh = DefaultTreesPerKWh
	}
	return &Accumulator{
		co2PerKWh:   co2PerKWh,
		treesPerKWh: treesPerKWh,
	}
}

// AddEnergy accumulates watts over the given duration in hours. The
// caller decides the duration; the ingest pipeline assumes one hour
// per reading regardless of actual sampling cadence.
func (a *Accumulator) AddEnergy(watts, hours float64) {
	a.totalKWh += watts * hours / 1000.0
}

func (a *Accumulator) TotalEnergyKWh() float64 {
	return a.totalKWh
}

func (a *Accumulator) CO2Avoided() float64 {
	return a.totalKWh * a.co2PerKWh
}

func (a *Accumulator) TreeEquivalents() float64 {
	return a.totalKWh * a.treesPerKWh
}
