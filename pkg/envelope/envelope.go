// Package envelope holds the crop list and the accepted range of every
// numeric input. The same envelope drives the form sliders and the request
// validation, so a request outside what the prompt was written for never
// reaches the model.
package envelope

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cropcast/entities"
	"cropcast/pkg/fault"
)

type Bound struct {
	Field string  `yaml:"field" json:"field"`
	Label string  `yaml:"label" json:"label"`
	Unit  string  `yaml:"unit" json:"unit"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Step  float64 `yaml:"step" json:"step"`
}

// Contains reports whether v lies inside [Min, Max].
func (b Bound) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.Min && v <= b.Max
}

func (b Bound) Clamp(v float64) float64 {
	return math.Min(b.Max, math.Max(b.Min, v))
}

type Envelope struct {
	crops  []entities.CropType
	bounds map[string]Bound
	order  []string
	v      *validator.Validate
}

// field order follows the form: weather first, then soil.
var fieldOrder = []string{"temperature", "rainfall", "sunshine", "nitrogen", "phosphorus", "potassium", "ph"}

func defaultBounds() []Bound {
	return []Bound{
		{Field: "temperature", Label: "Average Temperature", Unit: "°C", Min: -10, Max: 40, Step: 1},
		{Field: "rainfall", Label: "Total Rainfall", Unit: "mm", Min: 100, Max: 2000, Step: 10},
		{Field: "sunshine", Label: "Sunshine Hours", Unit: "hrs/day", Min: 2, Max: 14, Step: 0.5},
		{Field: "nitrogen", Label: "Nitrogen (N)", Unit: "ppm", Min: 20, Max: 300, Step: 5},
		{Field: "phosphorus", Label: "Phosphorus (P)", Unit: "ppm", Min: 10, Max: 100, Step: 2},
		{Field: "potassium", Label: "Potassium (K)", Unit: "ppm", Min: 20, Max: 150, Step: 5},
		{Field: "ph", Label: "Soil pH", Unit: "", Min: 4, Max: 9, Step: 0.1},
	}
}

// Default returns the built-in envelope.
func Default() *Envelope {
	e, err := build(append([]entities.CropType(nil), entities.Crops...), defaultBounds())
	if err != nil {
		panic(err) // built-in table is static
	}
	return e
}

func build(crops []entities.CropType, bounds []Bound) (*Envelope, error) {
	if len(crops) == 0 {
		return nil, errors.New("envelope: no crops")
	}
	e := &Envelope{crops: crops, bounds: map[string]Bound{}, order: fieldOrder}
	for _, b := range bounds {
		if !isKnownField(b.Field) {
			return nil, fmt.Errorf("envelope: unknown field %q", b.Field)
		}
		if b.Min >= b.Max {
			return nil, fmt.Errorf("envelope: %s: min %g must be below max %g", b.Field, b.Min, b.Max)
		}
		if b.Step <= 0 {
			return nil, fmt.Errorf("envelope: %s: step must be positive", b.Field)
		}
		e.bounds[b.Field] = b
	}
	for _, f := range fieldOrder {
		if _, ok := e.bounds[f]; !ok {
			return nil, fmt.Errorf("envelope: missing bounds for %s", f)
		}
	}
	e.v = e.newValidator()
	return e, nil
}

func isKnownField(f string) bool {
	for _, k := range fieldOrder {
		if k == f {
			return true
		}
	}
	return false
}

func (e *Envelope) Crops() []entities.CropType {
	return append([]entities.CropType(nil), e.crops...)
}

func (e *Envelope) HasCrop(c entities.CropType) bool {
	for _, k := range e.crops {
		if k == c {
			return true
		}
	}
	return false
}

// Bounds returns the numeric bounds in form order.
func (e *Envelope) Bounds() []Bound {
	out := make([]Bound, 0, len(e.order))
	for _, f := range e.order {
		out = append(out, e.bounds[f])
	}
	return out
}

func (e *Envelope) Bound(field string) (Bound, bool) {
	b, ok := e.bounds[field]
	return b, ok
}

// Check validates a single numeric value.
func (e *Envelope) Check(field string, v float64) error {
	b, ok := e.bounds[field]
	if !ok {
		return fault.InvalidInputf("unknown field %q", field)
	}
	if !b.Contains(v) {
		return outOfRange(b, v)
	}
	return nil
}

func (e *Envelope) CheckCrop(c entities.CropType) error {
	if !e.HasCrop(c) {
		return fault.InvalidInputf("unknown crop type %q", string(c))
	}
	return nil
}

// Validate checks crop type and every numeric field of r. The image is not
// checked here.
func (e *Envelope) Validate(r *entities.PredictionRequest) error {
	if r == nil {
		return fault.InvalidInput("empty prediction request")
	}
	err := e.v.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fault.InvalidInput(err.Error())
	}
	fe := verrs[0]
	if fe.Tag() == "crop" || fe.Tag() == "required" {
		return fault.InvalidInputf("unknown crop type %q", string(r.CropType))
	}
	b := e.bounds[fe.Field()]
	v, _ := fe.Value().(float64)
	return outOfRange(b, v)
}

func outOfRange(b Bound, v float64) error {
	name := b.Label
	if name == "" {
		name = b.Field
	}
	return fault.InvalidInputf("%s must be between %g and %g (got %g)", name, b.Min, b.Max, v)
}

func (e *Envelope) newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return sf.Name
		}
		return name
	})
	_ = v.RegisterValidation("crop", func(fl validator.FieldLevel) bool {
		return e.HasCrop(entities.CropType(fl.Field().String()))
	})
	_ = v.RegisterValidation("envelope", func(fl validator.FieldLevel) bool {
		b, ok := e.bounds[fl.FieldName()]
		return ok && b.Contains(fl.Field().Float())
	})
	return v
}
