package neows

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var testDay = time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		metrics:    observability.NewMetricsForTesting(),
		logger:     discardLogger(),
	}
}

const feedFixture = `{
  "element_count": 4,
  "near_earth_objects": {
    "2025-10-05": [
      {
        "id": "3542519",
        "name": "(2010 PK9)",
        "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
        "is_potentially_hazardous_asteroid": true,
        "estimated_diameter": {"meters": {"estimated_diameter_min": 100.4, "estimated_diameter_max": 200.9}},
        "close_approach_data": [
          {
            "close_approach_date": "2025-10-05",
            "relative_velocity": {"kilometers_per_second": "22.4051"},
            "miss_distance": {"kilometers": "4519853.12"}
          }
        ]
      },
      {
        "id": "9999999",
        "name": "(no approach)",
        "estimated_diameter": {"meters": {"estimated_diameter_min": 10, "estimated_diameter_max": 20}},
        "close_approach_data": []
      }
    ],
    "2025-10-04": [
      {
        "id": "2465633",
        "name": "465633 (2009 JR5)",
        "is_potentially_hazardous_asteroid": false,
        "estimated_diameter": {"meters": {"estimated_diameter_min": 20, "estimated_diameter_max": 40}},
        "close_approach_data": [
          {
            "close_approach_date": "2025-10-04",
            "relative_velocity": {"kilometers_per_second": "12.5"},
            "miss_distance": {"kilometers": "123.5"}
          }
        ]
      },
      {
        "id": "8888888",
        "name": "(bad velocity)",
        "close_approach_data": [
          {"relative_velocity": {"kilometers_per_second": "fast"}}
        ]
      }
    ]
  }
}`

func TestClient_Asteroids_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2025-10-04", q.Get("start_date"))
		assert.Equal(t, "2025-10-05", q.Get("end_date"))
		assert.Equal(t, testAPIKey, q.Get("api_key"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, feedFixture)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	list, err := c.Asteroids(context.Background(), testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "2465633", first.ID)
	assert.InDelta(t, 30, first.DiameterM, 0)
	assert.InDelta(t, 12.5, first.VelocityKmS, 0)
	assert.Equal(t, "Near-Earth asteroid", first.Description)
	assert.False(t, first.Hazardous)

	second := list[1]
	assert.Equal(t, "3542519", second.ID)
	assert.Equal(t, "(2010 PK9)", second.Name)
	assert.InDelta(t, 151, second.DiameterM, 0)
	assert.InDelta(t, 22.4051, second.VelocityKmS, 1e-12)
	assert.InDelta(t, 4519853.12, second.MissDistanceKm, 1e-6)
	assert.Equal(t, "2025-10-05", second.CloseApproachDate)
	assert.Equal(t, "Potentially hazardous asteroid", second.Description)
	assert.True(t, second.Hazardous)
	assert.Contains(t, second.JPLURL, "3542519")

	require.NotNil(t, second.Preview)
	assert.Equal(t, domain.GeoPoint{}, second.Preview.Impact)
	assert.Equal(t, domain.ComputeImpact(151, 22.4051, 45), second.Preview.ImpactResult)

	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FeedRequests.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.FeedAsteroids), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.SimulationsTotal.WithLabelValues(observability.SourcePreview)), 0)
}

func TestClient_Asteroids_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":"OVER_RATE_LIMIT"}}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Asteroids(context.Background(), testDay, testDay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "OVER_RATE_LIMIT")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FeedRequests.WithLabelValues("error")), 0)
}

func TestClient_Asteroids_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Asteroids(context.Background(), testDay, testDay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Asteroids_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"element_count":0,"near_earth_objects":{}}`)
	}))
	defer srv.Close()

	list, err := testClient(srv.URL).Asteroids(context.Background(), testDay, testDay)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_Asteroids_InvalidRange(t *testing.T) {
	c := testClient("http://unused.invalid")

	_, err := c.Asteroids(context.Background(), testDay, testDay.AddDate(0, 0, -1))
	assert.Error(t, err)

	_, err = c.Asteroids(context.Background(), testDay, testDay.AddDate(0, 0, MaxRangeDays+1))
	assert.ErrorContains(t, err, "exceeds")
}

func TestClient_Asteroids_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, feedFixture)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Asteroids(ctx, testDay, testDay)
	assert.Error(t, err)
}

func TestNewClient_FromConfig(t *testing.T) {
	cfg := &config.Config{
		NEOAPIURL:    "http://neows.local/feed",
		NEOAPIKey:    "k",
		NEOTimeout:   3 * time.Second,
		NEORateLimit: 2,
	}
	c := NewClient(cfg, observability.NewMetricsForTesting(), discardLogger())

	assert.Equal(t, "http://neows.local/feed", c.baseURL)
	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, rate.Limit(2), c.limiter.Limit())
}
