package domain

import (
	"context"
	"time"
)

// ScenarioMessage is the JSON body of a scenario request on the source topic.
// When AsteroidID is set, diameter and velocity come from the NEO feed for
// Date (YYYY-MM-DD, today when empty).
type ScenarioMessage struct {
	Name        string   `json:"name,omitempty"`
	DiameterM   float64  `json:"diameter_m,omitempty"`
	VelocityKmS float64  `json:"velocity_km_s,omitempty"`
	AngleDeg    float64  `json:"angle_deg,omitempty"`
	Impact      GeoPoint `json:"impact"`
	AsteroidID  string   `json:"asteroid_id,omitempty"`
	Date        string   `json:"date,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
