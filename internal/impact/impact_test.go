package impact

import (
	"math"
	"testing"
)

func TestAddEnergyAccumulates(t *testing.T) {
	acc := NewAccumulator(0, 0)

	// Two readings of 300 W over one hour each.
	acc.AddEnergy(300, 1)
	acc.AddEnergy(300, 1)

	if got := acc.TotalEnergyKWh(); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("TotalEnergyKWh = %v, want 0.6", got)
	}
	if got := acc.CO2Avoided(); math.Abs(got-0.24) > 1e-9 {
		t.Errorf("CO2Avoided = %v, want 0.24", got)
	}
	if got := acc.TreeEquivalents(); math.Abs(got-0.006) > 1e-9 {
		t.Errorf("TreeEquivalents = %v, want 0.006", got)
	}
}

func TestDerivedFiguresAreLinear(t *testing.T) {
	a := NewAccumulator(0, 0)
	b := NewAccumulator(0, 0)

	a.AddEnergy(1500, 2)
	b.AddEnergy(1500, 2)
	b.AddEnergy(1500, 2)

	if math.Abs(b.CO2Avoided()-2*a.CO2Avoided()) > 1e-9 {
		t.Errorf("CO2Avoided not linear: %v vs 2×%v", b.CO2Avoided(), a.CO2Avoided())
	}
	if math.Abs(b.TreeEquivalents()-2*a.TreeEquivalents()) > 1e-9 {
		t.Errorf("TreeEquivalents not linear: %v vs 2×%v", b.TreeEquivalents(), a.TreeEquivalents())
	}
}

func TestTotalIsMonotonic(t *testing.T) {
	acc := NewAccumulator(0, 0)

	prev := acc.TotalEnergyKWh()
	for _, watts := range []float64{100, 0, 2500, 50} {
		acc.AddEnergy(watts, 1)
		if acc.TotalEnergyKWh() < prev {
			t.Fatalf("total decreased after adding %v W", watts)
		}
		prev = acc.TotalEnergyKWh()
	}
}

func TestCustomFactors(t *testing.T) {
	acc := NewAccumulator(0.5, 0.02)
	acc.AddEnergy(1000, 1)

	if got := acc.CO2Avoided(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("CO2Avoided = %v, want 0.5", got)
	}
	if got := acc.TreeEquivalents(); math.Abs(got-0.02) > 1e-9 {
		t.Errorf("TreeEquivalents = %v, want 0.02", got)
	}
}
