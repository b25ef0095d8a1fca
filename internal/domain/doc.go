// Package domain models hypothetical asteroid impacts and their effects.
//
// # Data Source
//
// Real candidate objects come from the NASA Near Earth Object Web Service
// (NeoWs) feed, https://api.nasa.gov/neo/rest/v1/feed. The feed adapter
// (internal/adapter/neows) parses it into [Asteroid] values; this package never
// sees the wire format. Custom scenarios supply the same three physical inputs
// directly.
//
// # Units
//
//	Diameter:        meters
//	Velocity:        kilometers per second (converted to m/s inside the formulas)
//	Angle:           degrees from horizontal, clamped to [15, 90], default 45
//	Mass:            kilograms
//	Impact energy:   joules
//	Crater diameter: kilometers
//	Affected radius: kilometers
//	TNT equivalent:  TONS of TNT. The divisor 4.184e9 J is one ton; the value is
//	                 never rescaled to kilotons and no surface labels it as such.
//
// # Impact Model
//
// [ComputeImpact] treats the asteroid as a sphere of stony density
// (2600 kg/m³) and derives:
//
//	mass   = 4/3·π·(d/2)³ · ρ
//	energy = ½ · mass · v²
//	crater = 1.161 · mass^0.333 · v^0.44 / 1000            (km)
//	radius = max(0.1, crater · 5)                            (km)
//	tnt    = energy / 4.184e9                                (tons)
//
// The impact angle is normalized and carried through to results, but no formula
// uses it. Angle would shape the crater (elliptical rims at low angles) rather
// than the scalar metrics modelled here, so it stays out until a concrete
// formula exists.
//
// Inputs are never rejected. Missing, zero, negative, NaN, or infinite
// diameter and velocity become 1; see [NormalizeParameters]. If the arithmetic
// still produces a non-finite value the whole result is replaced with
// [SafeDefaultResult].
//
// # Population Model
//
// [EstimatePopulation] is a coarse heuristic, not a demographic model. Five
// reference cities contribute 30% of their population scaled by a linear
// overlap falloff, using a flat 111 km-per-degree distance that ignores
// longitude convergence at high latitude. When fewer than 10,000 people are
// found, a rural floor of 20 people/km² over the affected disc applies.
//
// # Severity
//
// [ClassifySeverity] buckets the TNT yield into five labels, from local_event
// to extinction. The thresholds are illustrative.
//
// # ID Generation
//
// Simulation IDs are deterministic SHA-256 hashes of the scenario name,
// normalized parameters, and impact point, so replaying a scenario through the
// pipeline yields the same ID. See [generateID].
package domain
