package serviceImp

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cropcast/entities"
)

// wireReply mirrors Prediction with pointers so a missing key can be told
// apart from a zero value.
type wireReply struct {
	PredictedYield  *float64 `json:"predictedYield" validate:"required,gte=0"`
	YieldUnit       *string  `json:"yieldUnit" validate:"required"`
	ConfidenceScore *float64 `json:"confidenceScore" validate:"required,gte=0,lte=100"`
	Summary         *string  `json:"summary" validate:"required"`
	PositiveFactors []string `json:"positiveFactors" validate:"required"`
	NegativeFactors []string `json:"negativeFactors" validate:"required"`
}

var replyValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// ParsePrediction decodes and checks a raw model reply. It returns either a
// fully populated Prediction or an error, never a partial result.
func ParsePrediction(raw string) (*entities.Prediction, error) {
	var w wireReply
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	if err := replyValidator.Struct(&w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return nil, fmt.Errorf("reply is missing %q: %w", fe.Field(), err)
			}
			return nil, fmt.Errorf("reply field %q fails %s=%s: %w", fe.Field(), fe.Tag(), fe.Param(), err)
		}
		return nil, fmt.Errorf("validate reply: %w", err)
	}
	return &entities.Prediction{
		PredictedYield:  *w.PredictedYield,
		YieldUnit:       *w.YieldUnit,
		ConfidenceScore: *w.ConfidenceScore,
		Summary:         *w.Summary,
		PositiveFactors: w.PositiveFactors,
		NegativeFactors: w.NegativeFactors,
	}, nil
}
