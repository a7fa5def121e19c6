// Package view renders a form session as an HTML page or a terminal panel.
package view

import (
	"fmt"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/form"
)

// ConfidenceColor buckets a 0-100 score: above 80 is green, above 60 yellow,
// anything else red.
func ConfidenceColor(score float64) string {
	switch {
	case score > 80:
		return "green"
	case score > 60:
		return "yellow"
	default:
		return "red"
	}
}

func FormatYield(v float64) string { return fmt.Sprintf("%.2f", v) }

type Slider struct {
	envelope.Bound
	Value float64
}

// Page is the data behind the index template.
type Page struct {
	Crops    []entities.CropType
	Sliders  []Slider
	Snapshot form.Snapshot
	// Notice is shown instead of the session error, e.g. for a rejected
	// field update that never reached submission.
	Notice string
}

func NewPage(env *envelope.Envelope, snap form.Snapshot) Page {
	p := Page{Crops: env.Crops(), Snapshot: snap}
	for _, b := range env.Bounds() {
		p.Sliders = append(p.Sliders, Slider{Bound: b, Value: fieldValue(snap.Values, b.Field)})
	}
	return p
}

func (p Page) Loading() bool { return p.Snapshot.Phase == form.PhaseSubmitting }

func (p Page) ErrorMessage() string {
	if p.Notice != "" {
		return p.Notice
	}
	return p.Snapshot.Error
}

func fieldValue(r entities.PredictionRequest, field string) float64 {
	switch field {
	case form.FieldTemperature:
		return r.Temperature
	case form.FieldRainfall:
		return r.Rainfall
	case form.FieldSunshine:
		return r.Sunshine
	case form.FieldNitrogen:
		return r.Nitrogen
	case form.FieldPhosphorus:
		return r.Phosphorus
	case form.FieldPotassium:
		return r.Potassium
	case form.FieldPH:
		return r.PH
	}
	return 0
}
