// Package predict runs one submission through the full flow: build the
// prompt, call the model, parse and render the reply.
package predict

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartoza/water-potability/internal/llm"
	"github.com/kartoza/water-potability/internal/potability"
	"github.com/kartoza/water-potability/internal/render"
)

// Result is everything produced for one submission.
type Result struct {
	RequestID    string
	Measurements potability.MeasurementSet
	Prompt       string
	Outcome      llm.Outcome
	Parsed       potability.Parsed
	Blocks       []render.Block
}

// Service holds the generator used for every submission.
type Service struct {
	gen    llm.Generator
	logger *zap.Logger
}

// NewService creates a prediction service
func NewService(gen llm.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger}
}

// Generator returns the underlying generator.
func (s *Service) Generator() llm.Generator {
	return s.gen
}

// Predict performs one synchronous round trip. Values are clamped before
// the prompt is built. Generation failures are carried in the result as an
// error block, never returned.
func (s *Service) Predict(ctx context.Context, m potability.MeasurementSet) Result {
	res := Result{
		RequestID:    uuid.NewString(),
		Measurements: m.Clamped(),
	}
	log := s.logger.With(zap.String("request_id", res.RequestID))

	res.Prompt = potability.BuildPrompt(res.Measurements)
	log.Debug("prompt built", zap.Int("bytes", len(res.Prompt)))

	res.Outcome = s.gen.Generate(ctx, res.Prompt)
	res.Parsed, res.Blocks = render.Outcome(res.Outcome)

	if !res.Outcome.OK() {
		log.Warn("generation failed",
			zap.Duration("latency", res.Outcome.Latency),
			zap.Error(res.Outcome.Err))
		return res
	}

	log.Info("prediction complete",
		zap.String("model", res.Outcome.Model),
		zap.Duration("latency", res.Outcome.Latency),
		zap.String("outcome", string(res.Parsed.Outcome)),
		zap.String("verdict", string(res.Parsed.Verdict)))
	return res
}
