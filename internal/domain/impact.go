package domain

import "math"

// Physical constants of the impact model.
const (
	AsteroidDensity = 2600.0 // kg/m³, stony asteroid
	CraterConstant  = 1.161
	JoulesPerTonTNT = 4.184e9
	EarthGravity    = 9.81 // m/s², unused by the current formula set

	DefaultAngle = 45.0
	MinAngle     = 15.0
	MaxAngle     = 90.0

	minDiameter = 1.0 // meters
	minVelocity = 1.0 // km/s

	minAffectedRadius = 0.1 // km
	affectedFactor    = 5.0
	craterMassExp     = 0.333
	craterVelocityExp = 0.44
)

// ImpactParameters are the physical inputs of a single impact.
type ImpactParameters struct {
	DiameterM   float64 `json:"diameter_m" yaml:"diameter_m"`
	VelocityKmS float64 `json:"velocity_km_s" yaml:"velocity_km_s"`
	AngleDeg    float64 `json:"angle_deg" yaml:"angle_deg"`
}

// ImpactResult holds the physical effects derived from ImpactParameters.
type ImpactResult struct {
	MassKg            float64 `json:"mass_kg"`
	ImpactEnergyJ     float64 `json:"impact_energy_j"`
	CraterDiameterKm  float64 `json:"crater_diameter_km"`
	AffectedRadiusKm  float64 `json:"affected_radius_km"`
	TNTEquivalentTons float64 `json:"tnt_equivalent_tons"`
}

// SafeDefaultResult is returned when the arithmetic fails as a whole.
func SafeDefaultResult() ImpactResult {
	return ImpactResult{
		MassKg:            0,
		ImpactEnergyJ:     0,
		CraterDiameterKm:  0.1,
		AffectedRadiusKm:  0.5,
		TNTEquivalentTons: 0,
	}
}

// NormalizeParameters maps malformed input onto the documented minimums.
// Diameter and velocity that are missing, non-positive, NaN, or infinite
// become 1. A missing or invalid angle becomes 45, then the angle is clamped
// to [15, 90].
func NormalizeParameters(p ImpactParameters) ImpactParameters {
	return ImpactParameters{
		DiameterM:   atLeast(p.DiameterM, minDiameter),
		VelocityKmS: atLeast(p.VelocityKmS, minVelocity),
		AngleDeg:    normalizeAngle(p.AngleDeg),
	}
}

func atLeast(v, floor float64) float64 {
	if !isFinite(v) || v <= 0 {
		return floor
	}
	return math.Max(floor, v)
}

func normalizeAngle(a float64) float64 {
	if !isFinite(a) || a == 0 {
		a = DefaultAngle
	}
	return math.Max(MinAngle, math.Min(MaxAngle, a))
}

// ComputeImpact derives mass, energy, crater size, affected radius, and TNT
// yield. It never fails: inputs are normalized first and an arithmetic
// failure yields SafeDefaultResult.
func ComputeImpact(diameterM, velocityKmS, angleDeg float64) ImpactResult {
	return ComputeImpactParams(ImpactParameters{
		DiameterM:   diameterM,
		VelocityKmS: velocityKmS,
		AngleDeg:    angleDeg,
	})
}

// ComputeImpactParams is ComputeImpact over an ImpactParameters value.
func ComputeImpactParams(p ImpactParameters) ImpactResult {
	p = NormalizeParameters(p)

	radius := p.DiameterM / 2
	volume := (4.0 / 3.0) * math.Pi * math.Pow(radius, 3)
	mass := volume * AsteroidDensity
	velocity := p.VelocityKmS * 1000
	energy := 0.5 * mass * velocity * velocity
	crater := CraterConstant * math.Pow(mass, craterMassExp) * math.Pow(velocity, craterVelocityExp) / 1000
	affected := math.Max(minAffectedRadius, crater*affectedFactor)
	tnt := energy / JoulesPerTonTNT

	for _, v := range [...]float64{mass, energy, crater, affected, tnt} {
		if !isFinite(v) || v < 0 {
			return SafeDefaultResult()
		}
	}

	return ImpactResult{
		MassKg:            orDefault(round2(mass), 0),
		ImpactEnergyJ:     energy,
		CraterDiameterKm:  orDefault(round2(crater), 0.1),
		AffectedRadiusKm:  orDefault(round2(affected), 0.5),
		TNTEquivalentTons: orDefault(round2(tnt), 0),
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orDefault replaces a zero or non-finite value with def.
func orDefault(v, def float64) float64 {
	if v == 0 || !isFinite(v) {
		return def
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
