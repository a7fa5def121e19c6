// Package form keeps the live, user-editable forecast inputs for one browser
// session and drives the submit lifecycle.
package form

import (
	"strconv"
	"strings"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
)

// Field names accepted by State.Set, in form order.
const (
	FieldCropType    = "cropType"
	FieldTemperature = "temperature"
	FieldRainfall    = "rainfall"
	FieldSunshine    = "sunshine"
	FieldNitrogen    = "nitrogen"
	FieldPhosphorus  = "phosphorus"
	FieldPotassium   = "potassium"
	FieldPH          = "ph"
)

var Fields = []string{
	FieldCropType, FieldTemperature, FieldRainfall, FieldSunshine,
	FieldNitrogen, FieldPhosphorus, FieldPotassium, FieldPH,
}

// State is the current value of every request field. The zero value is not
// usable; start from Default.
type State struct {
	env *envelope.Envelope
	req entities.PredictionRequest
}

// Default returns the initial form: Corn, 22°C, 600mm, 8h sun, N150 P50 K70,
// pH 6.5 and no image. Values are clamped into env when a loaded envelope is
// narrower than the built-in one.
func Default(env *envelope.Envelope) *State {
	if env == nil {
		env = envelope.Default()
	}
	s := &State{env: env, req: entities.PredictionRequest{
		CropType:    entities.CropCorn,
		Temperature: 22,
		Rainfall:    600,
		Sunshine:    8,
		Nitrogen:    150,
		Phosphorus:  50,
		Potassium:   70,
		PH:          6.5,
	}}
	if !env.HasCrop(s.req.CropType) {
		if crops := env.Crops(); len(crops) > 0 {
			s.req.CropType = crops[0]
		}
	}
	for _, f := range Fields[1:] {
		if b, ok := env.Bound(f); ok {
			p := numericField(&s.req, f)
			*p = b.Clamp(*p)
		}
	}
	return s
}

// Set parses raw for field and assigns it only if the result passes the
// envelope. A failed update leaves the state untouched.
func (s *State) Set(field, raw string) error {
	next := s.req
	raw = strings.TrimSpace(raw)

	switch field {
	case FieldCropType:
		next.CropType = entities.CropType(raw)
	default:
		p := numericField(&next, field)
		if p == nil {
			return fault.InvalidInputf("unknown field %q", field)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &fault.Error{Kind: fault.KindInvalidInput, Message: field + " must be a number", Err: err}
		}
		*p = v
	}

	if err := s.env.Validate(&next); err != nil {
		return err
	}
	s.req = next
	return nil
}

// Apply sets several fields at once, in form order. Either every value is
// accepted or the state is left untouched.
func (s *State) Apply(values map[string]string) error {
	next := *s
	for _, f := range Fields {
		raw, ok := values[f]
		if !ok {
			continue
		}
		if err := next.Set(f, raw); err != nil {
			return err
		}
	}
	for f := range values {
		if !isField(f) {
			return fault.InvalidInputf("unknown field %q", f)
		}
	}
	*s = next
	return nil
}

func isField(f string) bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

func (s *State) SetImage(img *entities.SatelliteImage) { s.req.Image = img }

func (s *State) Image() *entities.SatelliteImage { return s.req.Image }

// Values returns a copy of the current fields, image included.
func (s *State) Values() entities.PredictionRequest { return s.req }

// Request builds a fresh PredictionRequest for submission. It fails with an
// InvalidInput fault while no image has been captured.
func (s *State) Request() (*entities.PredictionRequest, error) {
	if !s.req.HasImage() {
		return nil, fault.InvalidInput("Please upload a satellite image to proceed.")
	}
	if err := s.env.Validate(&s.req); err != nil {
		return nil, err
	}
	r := s.req
	return &r, nil
}

func (s *State) Envelope() *envelope.Envelope { return s.env }

func numericField(r *entities.PredictionRequest, field string) *float64 {
	switch field {
	case FieldTemperature:
		return &r.Temperature
	case FieldRainfall:
		return &r.Rainfall
	case FieldSunshine:
		return &r.Sunshine
	case FieldNitrogen:
		return &r.Nitrogen
	case FieldPhosphorus:
		return &r.Phosphorus
	case FieldPotassium:
		return &r.Potassium
	case FieldPH:
		return &r.PH
	}
	return nil
}
