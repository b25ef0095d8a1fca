package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAsteroidNotFound is returned when an asteroid ID is not in the feed.
var ErrAsteroidNotFound = errors.New("asteroid not found")

// FeedDateLayout is the date format used by the NEO feed.
const FeedDateLayout = "2006-01-02"

// Asteroid is a near-Earth object candidate parsed from the NEO feed.
type Asteroid struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	DiameterM         float64 `json:"diameter_m"`
	VelocityKmS       float64 `json:"velocity_km_s"`
	Description       string  `json:"description"`
	JPLURL            string  `json:"nasa_jpl_url,omitempty"`
	CloseApproachDate string  `json:"close_approach_date,omitempty"`
	MissDistanceKm    float64 `json:"miss_distance_km,omitempty"`
	Hazardous         bool    `json:"hazardous"`

	// Preview is the simulation at the default location (0,0) and angle.
	Preview *SimulationResult `json:"preview,omitempty"`
}

// Parameters returns the impact parameters for the asteroid at the default angle.
func (a Asteroid) Parameters() ImpactParameters {
	return ImpactParameters{
		DiameterM:   a.DiameterM,
		VelocityKmS: a.VelocityKmS,
		AngleDeg:    DefaultAngle,
	}
}

// WithPreview attaches a simulation at the default location.
func (a Asteroid) WithPreview() Asteroid {
	preview := Simulate(Scenario{
		Name:       a.Name,
		AsteroidID: a.ID,
		Parameters: a.Parameters(),
	})
	a.Preview = &preview
	return a
}

// NEOFeed supplies near-Earth object candidates.
type NEOFeed interface {
	// Asteroids lists objects with a close approach between start and end (inclusive days).
	Asteroids(ctx context.Context, start, end time.Time) ([]Asteroid, error)
}

// FindAsteroid returns the asteroid with the given ID from the feed for day.
func FindAsteroid(ctx context.Context, feed NEOFeed, day time.Time, id string) (Asteroid, error) {
	list, err := feed.Asteroids(ctx, day, day)
	if err != nil {
		return Asteroid{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return Asteroid{}, ErrAsteroidNotFound
}

// ParseFeedDate parses a YYYY-MM-DD date, falling back to today (UTC) when s is empty.
func ParseFeedDate(s string) (time.Time, error) {
	if s == "" {
		now := clock.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(FeedDateLayout, s)
}
