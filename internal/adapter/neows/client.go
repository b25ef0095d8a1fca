// Package neows fetches near-Earth object candidates from NASA's NeoWs feed
// API and caches them per date range.
package neows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

// MaxRangeDays is the widest start/end window the feed accepts.
const MaxRangeDays = 7

const (
	descHazardous = "Potentially hazardous asteroid"
	descNearEarth = "Near-Earth asteroid"
)

// Client implements domain.NEOFeed using the NeoWs feed endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs client with the configured timeout and outbound rate limit.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  cfg.NEOAPIKey,
		baseURL: cfg.NEOAPIURL,
		httpClient: &http.Client{
			Timeout: cfg.NEOTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.NEORateLimit), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// Asteroids lists objects with a close approach between start and end, inclusive.
func (c *Client) Asteroids(ctx context.Context, start, end time.Time) ([]domain.Asteroid, error) {
	if end.Before(start) {
		return nil, errors.New("end date is before start date")
	}
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	}

	ctx, span := observability.Tracer().Start(ctx, "neows.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("neo.start_date", start.Format(domain.FeedDateLayout)),
		attribute.String("neo.end_date", end.Format(domain.FeedDateLayout)),
	)

	list, err := c.fetch(ctx, start, end)
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.metrics.FeedRequests.WithLabelValues("success").Inc()
	c.metrics.FeedAsteroids.Set(float64(len(list)))
	span.SetAttributes(attribute.Int("neo.count", len(list)))
	return list, nil
}

func (c *Client) fetch(ctx context.Context, start, end time.Time) ([]domain.Asteroid, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"start_date": {start.Format(domain.FeedDateLayout)},
		"end_date":   {end.Format(domain.FeedDateLayout)},
		"api_key":    {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	reqStart := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedAPIDuration.Observe(time.Since(reqStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("neo feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("neo feed API error: status %d: %s", resp.StatusCode, body)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return c.toAsteroids(feed), nil
}

// toAsteroids flattens the per-day map and sorts by ID for stable output.
func (c *Client) toAsteroids(feed feedResponse) []domain.Asteroid {
	var out []domain.Asteroid
	for date, objects := range feed.NearEarthObjects {
		for _, obj := range objects {
			a, ok := toAsteroid(obj)
			if !ok {
				c.logger.Debug("skipping neo without usable approach data", "asteroid_id", obj.ID, "date", date)
				continue
			}
			out = append(out, a.WithPreview())
			c.metrics.SimulationsTotal.WithLabelValues(observability.SourcePreview).Inc()
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func toAsteroid(obj nearEarthObject) (domain.Asteroid, bool) {
	if len(obj.CloseApproachData) == 0 {
		return domain.Asteroid{}, false
	}
	approach := obj.CloseApproachData[0]
	velocity, err := strconv.ParseFloat(approach.RelativeVelocity.KilometersPerSecond, 64)
	if err != nil {
		return domain.Asteroid{}, false
	}
	miss, _ := strconv.ParseFloat(approach.MissDistance.Kilometers, 64)

	meters := obj.EstimatedDiameter.Meters
	desc := descNearEarth
	if obj.Hazardous {
		desc = descHazardous
	}

	return domain.Asteroid{
		ID:                obj.ID,
		Name:              obj.Name,
		DiameterM:         math.Round((meters.Min + meters.Max) / 2),
		VelocityKmS:       velocity,
		Description:       desc,
		JPLURL:            obj.JPLURL,
		CloseApproachDate: approach.CloseApproachDate,
		MissDistanceKm:    miss,
		Hazardous:         obj.Hazardous,
	}, true
}

// NeoWs feed response types.

type feedResponse struct {
	ElementCount     int                          `json:"element_count"`
	NearEarthObjects map[string][]nearEarthObject `json:"near_earth_objects"`
}

type nearEarthObject struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	JPLURL            string            `json:"nasa_jpl_url"`
	Hazardous         bool              `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter estimatedDiameter `json:"estimated_diameter"`
	CloseApproachData []closeApproach   `json:"close_approach_data"`
}

type estimatedDiameter struct {
	Meters diameterRange `json:"meters"`
}

type diameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

type closeApproach struct {
	CloseApproachDate string `json:"close_approach_date"`
	RelativeVelocity  struct {
		KilometersPerSecond string `json:"kilometers_per_second"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}
