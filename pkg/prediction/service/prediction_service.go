package service

import (
	"context"

	"cropcast/entities"
)

// PredictionService turns a request into a forecast. Errors are *fault.Error.
type PredictionService interface {
	Predict(ctx context.Context, req *entities.PredictionRequest) (*entities.Prediction, error)
}
