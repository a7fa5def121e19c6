package serviceImp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cropcast/entities"
	"cropcast/pkg/ai"
	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
	"cropcast/pkg/metrics"
	"cropcast/pkg/prediction/service"
)

const MissingImageMessage = "Please upload a satellite image to proceed."

type PredictionSvc struct {
	model   ai.Client
	env     *envelope.Envelope
	log     *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

var _ service.PredictionService = (*PredictionSvc)(nil)

// NewPredictionService wires the model client. timeout <= 0 leaves the call
// bounded only by the caller's context.
func NewPredictionService(model ai.Client, env *envelope.Envelope, log *zap.Logger, m *metrics.Metrics, timeout time.Duration) *PredictionSvc {
	if env == nil {
		env = envelope.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PredictionSvc{model: model, env: env, log: log.Named("prediction"), metrics: m, timeout: timeout}
}

// Predict makes exactly one model call. Failures are returned as
// *fault.Error of kind InvalidInput, Provider or MalformedResponse.
func (s *PredictionSvc) Predict(ctx context.Context, req *entities.PredictionRequest) (*entities.Prediction, error) {
	if !req.HasImage() {
		s.metrics.Reject(fault.KindInvalidInput.String())
		return nil, fault.InvalidInput(MissingImageMessage)
	}
	if err := s.env.Validate(req); err != nil {
		s.metrics.Reject(fault.KindInvalidInput.String())
		return nil, err
	}

	prompt := ai.Prompt{
		System:      SystemInstruction,
		Text:        RenderPrompt(req),
		Image:       req.Image,
		Schema:      ResponseSchema(),
		Temperature: Temperature,
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := s.log.With(
		zap.String("crop", req.CropType.String()),
		zap.String("model", s.model.Model()),
		zap.Int("image_bytes", len(req.Image.Data)),
	)
	done := s.metrics.Begin()
	start := time.Now()

	raw, err := s.model.GenerateJSON(ctx, prompt)
	if err != nil {
		done(fault.KindProvider.String())
		log.Error("model call failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		return nil, fault.Provider(err)
	}

	p, err := ParsePrediction(raw)
	if err != nil {
		done(fault.KindMalformedResponse.String())
		log.Error("model reply rejected", zap.Error(err), zap.Int("reply_len", len(raw)))
		return nil, fault.Malformed(err)
	}

	done(metrics.OutcomeOK)
	log.Info("forecast ready",
		zap.Duration("took", time.Since(start)),
		zap.Float64("yield", p.PredictedYield),
		zap.Float64("confidence", p.ConfidenceScore),
	)
	return p, nil
}
