package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// simulationRequest is the POST /api/v1/simulations body. The impact point is
// required; physical parameters are passed through for normalization.
type simulationRequest struct {
	Name        string           `json:"name" validate:"max=200"`
	DiameterM   float64          `json:"diameter_m"`
	VelocityKmS float64          `json:"velocity_km_s"`
	AngleDeg    float64          `json:"angle_deg"`
	Impact      *domain.GeoPoint `json:"impact" validate:"required"`
	AsteroidID  string           `json:"asteroid_id" validate:"max=32"`
	Date        string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (r simulationRequest) message() domain.ScenarioMessage {
	return domain.ScenarioMessage{
		Name:        r.Name,
		DiameterM:   r.DiameterM,
		VelocityKmS: r.VelocityKmS,
		AngleDeg:    r.AngleDeg,
		Impact:      *r.Impact,
		AsteroidID:  r.AsteroidID,
		Date:        r.Date,
	}
}

type populationQuery struct {
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64 `json:"lng" validate:"gte=-180,lte=180"`
	RadiusKm float64 `json:"radius_km" validate:"gte=0"`
}

type populationResponse struct {
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	RadiusKm           float64 `json:"radius_km"`
	PopulationAffected int64   `json:"population_affected"`
}

type asteroidsResponse struct {
	Date      string            `json:"date"`
	Count     int               `json:"count"`
	Asteroids []domain.Asteroid `json:"asteroids"`
}

func (s *Server) handleListAsteroids(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, s.feedAsteroids)
}

func (s *Server) handleRefreshAsteroids(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, s.feedRefresh)
}

type feedFunc func(r *http.Request, day time.Time) ([]domain.Asteroid, error)

func (s *Server) feedAsteroids(r *http.Request, day time.Time) ([]domain.Asteroid, error) {
	return s.feed.Asteroids(r.Context(), day, day)
}

func (s *Server) feedRefresh(r *http.Request, day time.Time) ([]domain.Asteroid, error) {
	return s.feed.Refresh(r.Context(), day, day)
}

func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, fetch feedFunc) {
	if s.feed == nil {
		writeError(w, http.StatusServiceUnavailable, "NEO feed is disabled")
		return
	}
	day, err := domain.ParseFeedDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	list, err := fetch(r, day)
	if err != nil {
		s.logger.Error("neo feed fetch failed", "error", err, "date", day.Format(domain.FeedDateLayout),
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusBadGateway, "NEO feed unavailable")
		return
	}
	if list == nil {
		list = []domain.Asteroid{}
	}
	writeJSON(w, http.StatusOK, asteroidsResponse{
		Date:      day.Format(domain.FeedDateLayout),
		Count:     len(list),
		Asteroids: list,
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx, span := observability.Tracer().Start(r.Context(), "api.simulate")
	defer span.End()

	var req simulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var resolver domain.AsteroidResolver
	if s.feed != nil {
		resolver = s.feed
	}
	scenario, err := req.message().Resolve(ctx, resolver)
	if err != nil {
		span.RecordError(err)
		status, msg := resolveErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("resolve scenario failed", "error", err, "asteroid_id", req.AsteroidID,
				"request_id", RequestIDFromContext(ctx))
		}
		writeError(w, status, msg)
		return
	}

	result := domain.Simulate(scenario)
	s.metrics.SimulationsTotal.WithLabelValues(observability.SourceAPI).Inc()
	span.SetAttributes(
		attribute.String("simulation.id", result.ID),
		attribute.String("simulation.severity", string(result.Severity.Level)),
	)
	writeJSON(w, http.StatusOK, result)
}

func resolveErrorStatus(err error) (int, string) {
	var parseErr *time.ParseError
	switch {
	case errors.Is(err, domain.ErrAsteroidNotFound):
		return http.StatusNotFound, "asteroid not found"
	case errors.Is(err, domain.ErrFeedDisabled):
		return http.StatusServiceUnavailable, "NEO feed is disabled"
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, "date must be YYYY-MM-DD"
	default:
		return http.StatusBadGateway, "NEO feed unavailable"
	}
}

func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var pq populationQuery
	var err error
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"lat", &pq.Lat},
		{"lng", &pq.Lng},
		{"radius_km", &pq.RadiusKm},
	} {
		if *p.dst, err = strconv.ParseFloat(q.Get(p.name), 64); err != nil {
			writeError(w, http.StatusBadRequest, p.name+" must be a number")
			return
		}
	}
	if err := validate.Struct(pq); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, populationResponse{
		Lat:                pq.Lat,
		Lng:                pq.Lng,
		RadiusKm:           pq.RadiusKm,
		PopulationAffected: domain.EstimatePopulation(pq.Lat, pq.Lng, pq.RadiusKm),
	})
}

// validationMessage turns validator errors into a short client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), strings.Split(fe.Namespace(), ".")[0]+".")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
