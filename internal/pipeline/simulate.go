package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

// ScenarioSimulator implements Transformer: it parses a scenario message,
// resolves any referenced asteroid, runs the simulation, and serializes the result.
type ScenarioSimulator struct {
	resolver domain.AsteroidResolver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewScenarioSimulator creates a transformer. resolver may be nil when the
// NEO feed is disabled; messages with an asteroid_id then fail.
func NewScenarioSimulator(resolver domain.AsteroidResolver, metrics *observability.Metrics, logger *slog.Logger) *ScenarioSimulator {
	return &ScenarioSimulator{resolver: resolver, metrics: metrics, logger: logger}
}

// Transform simulates one scenario message.
func (s *ScenarioSimulator) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	msg, err := domain.ParseScenarioEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	scenario, err := msg.Resolve(ctx, s.resolver)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	result := domain.Simulate(scenario)
	s.metrics.SimulationsTotal.WithLabelValues(observability.SourcePipeline).Inc()
	s.logger.Debug("scenario simulated",
		"simulation_id", result.ID,
		"asteroid_id", result.AsteroidID,
		"severity", result.Severity.Level,
	)

	return domain.SerializeSimulation(result)
}
