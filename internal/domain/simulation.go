package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultScenarioName is used when a scenario has no name.
const DefaultScenarioName = "Custom Asteroid"

// Scenario is one impact to simulate.
type Scenario struct {
	Name       string           `json:"name" yaml:"name"`
	AsteroidID string           `json:"asteroid_id,omitempty" yaml:"asteroid_id,omitempty"`
	Parameters ImpactParameters `json:"parameters" yaml:"parameters"`
	Impact     GeoPoint         `json:"impact" yaml:"impact"`
}

// Overlay holds the circle radii a map draws around the impact point.
type Overlay struct {
	CraterRadiusM   float64 `json:"crater_radius_m"`
	AffectedRadiusM float64 `json:"affected_radius_m"`
}

// SimulationResult merges the physics result with the population estimate.
type SimulationResult struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	AsteroidID string           `json:"asteroid_id,omitempty"`
	Parameters ImpactParameters `json:"parameters"`
	Impact     GeoPoint         `json:"impact"`

	ImpactResult
	PopulationAffected int64         `json:"population_affected"`
	Severity           SeverityLevel `json:"severity"`
	Overlay            Overlay       `json:"overlay"`

	SimulatedAt time.Time `json:"simulated_at"`
}

// Simulate runs the physics calculator, feeds its affected radius to the
// population estimator, and merges both.
func Simulate(s Scenario) SimulationResult {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = DefaultScenarioName
	}
	params := NormalizeParameters(s.Parameters)
	physics := ComputeImpactParams(params)

	return SimulationResult{
		ID:                 generateID(name, params, s.Impact),
		Name:               name,
		AsteroidID:         s.AsteroidID,
		Parameters:         params,
		Impact:             s.Impact,
		ImpactResult:       physics,
		PopulationAffected: EstimatePopulationAt(s.Impact, physics.AffectedRadiusKm),
		Severity:           ClassifySeverity(physics.TNTEquivalentTons),
		Overlay:            overlayFor(physics),
		SimulatedAt:        clock.Now().UTC(),
	}
}

// overlayFor converts km to map meters with minimum visible sizes.
func overlayFor(r ImpactResult) Overlay {
	return Overlay{
		CraterRadiusM:   math.Max(r.CraterDiameterKm*500, 100),
		AffectedRadiusM: math.Max(r.AffectedRadiusKm*1000, 500),
	}
}

// generateID produces a deterministic ID from the scenario's key fields.
func generateID(name string, p ImpactParameters, at GeoPoint) string {
	input := fmt.Sprintf("%s|%g|%g|%g|%.6f|%.6f", name, p.DiameterM, p.VelocityKmS, p.AngleDeg, at.Lat, at.Lng)
	hash := sha256.Sum256([]byte(input))
	return "sim-" + hex.EncodeToString(hash[:8])
}

// ParseScenarioEvent deserializes a RawEvent's value into a ScenarioMessage.
func ParseScenarioEvent(raw RawEvent) (ScenarioMessage, error) {
	var msg ScenarioMessage
	if err := json.Unmarshal(raw.Value, &msg); err != nil {
		return ScenarioMessage{}, fmt.Errorf("parse scenario event: %w", err)
	}
	return msg, nil
}

// ErrFeedDisabled is returned when a scenario names an asteroid but no NEO
// feed is configured.
var ErrFeedDisabled = errors.New("asteroid lookup requires the NEO feed")

// AsteroidResolver looks up a feed asteroid by ID for a given day.
type AsteroidResolver interface {
	FindAsteroid(ctx context.Context, day time.Time, id string) (Asteroid, error)
}

// Resolve builds a Scenario, taking diameter and velocity from the feed when
// AsteroidID is set. The asteroid's name is used if the message has none.
func (m ScenarioMessage) Resolve(ctx context.Context, r AsteroidResolver) (Scenario, error) {
	s := m.Scenario()
	if m.AsteroidID == "" {
		return s, nil
	}
	if r == nil {
		return Scenario{}, ErrFeedDisabled
	}

	day, err := ParseFeedDate(m.Date)
	if err != nil {
		return Scenario{}, fmt.Errorf("invalid date %q: %w", m.Date, err)
	}
	a, err := r.FindAsteroid(ctx, day, m.AsteroidID)
	if err != nil {
		return Scenario{}, fmt.Errorf("resolve asteroid %s: %w", m.AsteroidID, err)
	}

	s.Parameters.DiameterM = a.DiameterM
	s.Parameters.VelocityKmS = a.VelocityKmS
	if strings.TrimSpace(s.Name) == "" {
		s.Name = a.Name
	}
	return s, nil
}

// Scenario converts the message into a Scenario using its inline parameters.
func (m ScenarioMessage) Scenario() Scenario {
	return Scenario{
		Name:       m.Name,
		AsteroidID: m.AsteroidID,
		Parameters: ImpactParameters{
			DiameterM:   m.DiameterM,
			VelocityKmS: m.VelocityKmS,
			AngleDeg:    m.AngleDeg,
		},
		Impact: m.Impact,
	}
}

// SerializeSimulation marshals a result into an OutputEvent keyed by its ID.
func SerializeSimulation(r SimulationResult) (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize simulation: %w", err)
	}
	return OutputEvent{
		Key:   []byte(r.ID),
		Value: data,
		Headers: map[string]string{
			"severity":     string(r.Severity.Level),
			"simulated_at": r.SimulatedAt.Format(time.RFC3339),
		},
	}, nil
}
