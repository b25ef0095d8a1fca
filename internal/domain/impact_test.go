package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeImpact_ReferenceScenario(t *testing.T) {
	r := ComputeImpact(100, 15, 45)

	assert.InDelta(t, 1361356816.56, r.MassKg, 0.011)
	assert.InEpsilon(t, 1.5315264186250243e17, r.ImpactEnergyJ, 1e-12)
	assert.InDelta(t, 87.89, r.CraterDiameterKm, 1e-9)
	assert.InDelta(t, 439.44, r.AffectedRadiusKm, 1e-9)
	assert.InDelta(t, 36604359.91, r.TNTEquivalentTons, 0.011)
}

func TestComputeImpact_MinimumInputs(t *testing.T) {
	r := ComputeImpact(1, 1, 45)

	assert.InDelta(t, 1361.36, r.MassKg, 1e-9)
	assert.InEpsilon(t, 680678408.2777884, r.ImpactEnergyJ, 1e-12)
	assert.InDelta(t, 0.27, r.CraterDiameterKm, 1e-9)
	assert.InDelta(t, 1.34, r.AffectedRadiusKm, 1e-9)
	assert.InDelta(t, 0.16, r.TNTEquivalentTons, 1e-9)
}

func TestComputeImpact_Deterministic(t *testing.T) {
	a := ComputeImpact(340, 12.6, 30)
	b := ComputeImpact(340, 12.6, 30)
	assert.Equal(t, a, b)
}

func TestComputeImpact_AngleHasNoEffect(t *testing.T) {
	for _, d := range []float64{1, 25, 100, 1000} {
		shallow := ComputeImpact(d, 20, 15)
		steep := ComputeImpact(d, 20, 90)
		assert.Equal(t, shallow, steep, "diameter %v", d)
	}
}

func TestComputeImpact_InvalidInputsNormalize(t *testing.T) {
	floor := ComputeImpact(1, 1, 45)

	tests := []struct {
		name     string
		d, v, a  float64
		expected ImpactResult
	}{
		{name: "zeros", d: 0, v: 0, a: 0, expected: floor},
		{name: "negatives", d: -5, v: -5, a: -5, expected: floor},
		{name: "NaN", d: math.NaN(), v: math.NaN(), a: math.NaN(), expected: floor},
		{name: "infinities", d: math.Inf(1), v: math.Inf(-1), a: math.Inf(1), expected: floor},
		{name: "sub-minimum", d: 0.2, v: 0.5, a: 10, expected: floor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() { ComputeImpact(tt.d, tt.v, tt.a) })
			assert.Equal(t, tt.expected, ComputeImpact(tt.d, tt.v, tt.a))
		})
	}
}

func TestComputeImpact_OverflowReturnsSafeDefault(t *testing.T) {
	r := ComputeImpact(1e120, 70, 45)
	assert.Equal(t, SafeDefaultResult(), r)
	assert.Equal(t, ImpactResult{CraterDiameterKm: 0.1, AffectedRadiusKm: 0.5}, r)
}

func TestComputeImpact_OutputsFiniteAndNonNegative(t *testing.T) {
	for _, d := range []float64{1, 3.5, 10, 100, 1000, 10000} {
		for _, v := range []float64{1, 5, 11.2, 20, 45, 72} {
			for _, a := range []float64{15, 45, 90} {
				r := ComputeImpact(d, v, a)
				for _, f := range []float64{r.MassKg, r.ImpactEnergyJ, r.CraterDiameterKm, r.AffectedRadiusKm, r.TNTEquivalentTons} {
					assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "d=%v v=%v", d, v)
					assert.GreaterOrEqual(t, f, 0.0)
				}
				assert.GreaterOrEqual(t, r.AffectedRadiusKm, 0.1)
				expected := math.Max(0.1, r.CraterDiameterKm*5)
				assert.InDelta(t, expected, r.AffectedRadiusKm, 0.031, "d=%v v=%v", d, v)
			}
		}
	}
}

func TestComputeImpact_TNTDerivedFromEnergy(t *testing.T) {
	r := ComputeImpact(250, 18, 60)
	assert.InDelta(t, r.ImpactEnergyJ/JoulesPerTonTNT, r.TNTEquivalentTons, 0.005)
}

func TestComputeImpact_MonotonicInDiameter(t *testing.T) {
	prev := ComputeImpact(1, 17, 45)
	for _, d := range []float64{2, 5, 10, 50, 100, 500, 1000, 5000} {
		cur := ComputeImpact(d, 17, 45)
		assert.Greater(t, cur.MassKg, prev.MassKg, "mass at d=%v", d)
		assert.Greater(t, cur.ImpactEnergyJ, prev.ImpactEnergyJ, "energy at d=%v", d)
		assert.Greater(t, cur.CraterDiameterKm, prev.CraterDiameterKm, "crater at d=%v", d)
		prev = cur
	}
}

func TestComputeImpact_MonotonicInVelocity(t *testing.T) {
	prev := ComputeImpact(120, 1, 45)
	for _, v := range []float64{2, 5, 11, 20, 30, 50, 72} {
		cur := ComputeImpact(120, v, 45)
		assert.Greater(t, cur.ImpactEnergyJ, prev.ImpactEnergyJ, "energy at v=%v", v)
		assert.Greater(t, cur.CraterDiameterKm, prev.CraterDiameterKm, "crater at v=%v", v)
		prev = cur
	}
}

func TestNormalizeParameters(t *testing.T) {
	tests := []struct {
		name     string
		in       ImpactParameters
		expected ImpactParameters
	}{
		{
			name:     "valid values pass through",
			in:       ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 30},
			expected: ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 30},
		},
		{
			name:     "missing angle defaults to 45",
			in:       ImpactParameters{DiameterM: 100, VelocityKmS: 15},
			expected: ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 45},
		},
		{
			name:     "shallow angle clamps to 15",
			in:       ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 5},
			expected: ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 15},
		},
		{
			name:     "negative angle clamps to 15",
			in:       ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: -5},
			expected: ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 15},
		},
		{
			name:     "steep angle clamps to 90",
			in:       ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 120},
			expected: ImpactParameters{DiameterM: 100, VelocityKmS: 15, AngleDeg: 90},
		},
		{
			name:     "non-positive physical inputs become 1",
			in:       ImpactParameters{DiameterM: 0, VelocityKmS: -3, AngleDeg: 45},
			expected: ImpactParameters{DiameterM: 1, VelocityKmS: 1, AngleDeg: 45},
		},
		{
			name:     "NaN angle defaults to 45",
			in:       ImpactParameters{DiameterM: 10, VelocityKmS: 10, AngleDeg: math.NaN()},
			expected: ImpactParameters{DiameterM: 10, VelocityKmS: 10, AngleDeg: 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeParameters(tt.in))
		})
	}
}

func TestOrDefault(t *testing.T) {
	assert.InDelta(t, 0.1, orDefault(0, 0.1), 1e-12)
	assert.InDelta(t, 0.5, orDefault(math.NaN(), 0.5), 1e-12)
	assert.InDelta(t, 2.5, orDefault(2.5, 0.1), 1e-12)
}
