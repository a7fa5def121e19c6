package view

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/form"
	"cropcast/pkg/imagecapture"
)

func render(t *testing.T, p Page) *goquery.Document {
	t.Helper()
	h, err := NewHTML()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, h.Render(&buf, PageTemplate, p, nil))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func idleSnapshot() form.Snapshot {
	return form.NewSession("sid", nil).View()
}

func TestHTML_Idle(t *testing.T) {
	doc := render(t, NewPage(envelope.Default(), idleSnapshot()))

	assert.Equal(t, "Ready to Predict", doc.Find("#status .idle h2").Text())
	assert.Equal(t, 6, doc.Find("#cropType option").Length())
	assert.Equal(t, "Corn", doc.Find("#cropType option[selected]").Text())
	assert.Equal(t, 7, doc.Find(`input[type="range"]`).Length())

	ph := doc.Find("input#ph")
	assert.Equal(t, "4", ph.AttrOr("min", ""))
	assert.Equal(t, "9", ph.AttrOr("max", ""))
	assert.Equal(t, "0.1", ph.AttrOr("step", ""))
	assert.Equal(t, "6.5", ph.AttrOr("value", ""))
	assert.Equal(t, "Predict Yield", doc.Find("button").Text())
	assert.Zero(t, doc.Find("img.preview").Length())
}

func TestHTML_Result(t *testing.T) {
	snap := idleSnapshot()
	snap.Phase = form.PhaseSucceeded
	snap.Prediction = &entities.Prediction{
		PredictedYield:  4.2,
		YieldUnit:       "tons/hectare",
		ConfidenceScore: 78,
		Summary:         "ok",
		PositiveFactors: []string{"good rainfall"},
		NegativeFactors: []string{"low nitrogen", "late planting"},
	}

	doc := render(t, NewPage(envelope.Default(), snap))

	res := doc.Find("#status .result")
	require.Equal(t, 1, res.Length())
	assert.Equal(t, "4.20", res.Find(".yield strong").Text())
	assert.Equal(t, "tons/hectare", res.Find(".unit").Text())
	assert.Equal(t, "78%", res.Find(".confidence").Text())
	assert.True(t, res.Find(".bar span").HasClass("yellow"))
	assert.Equal(t, "ok", res.Find(".summary").Text())
	assert.Equal(t, 1, res.Find("ul.positive li").Length())
	assert.Equal(t, "late planting", res.Find("ul.negative li").Last().Text())
}

func TestHTML_Error(t *testing.T) {
	snap := idleSnapshot()
	snap.Phase = form.PhaseFailed
	snap.Error = "Please upload a satellite image to proceed."

	doc := render(t, NewPage(envelope.Default(), snap))

	assert.Equal(t, "Error Generating Forecast", doc.Find("#status .error h2").Text())
	assert.Equal(t, snap.Error, doc.Find("#status .error p").Text())
}

func TestHTML_NoticeWins(t *testing.T) {
	p := NewPage(envelope.Default(), idleSnapshot())
	p.Notice = "Soil pH must be between 4 and 9 (got 12)"

	doc := render(t, p)

	assert.Equal(t, p.Notice, doc.Find("#status .error p").Text())
}

func TestHTML_Loading(t *testing.T) {
	snap := idleSnapshot()
	snap.Phase = form.PhaseSubmitting

	doc := render(t, NewPage(envelope.Default(), snap))

	assert.Equal(t, "Analyzing...", doc.Find("#status .loading h2").Text())
	_, disabled := doc.Find("button").Attr("disabled")
	assert.True(t, disabled)
}

func TestHTML_ImagePreview(t *testing.T) {
	snap := idleSnapshot()
	snap.HasImage = true
	snap.ImagePreview = imagecapture.PreviewURI(&entities.SatelliteImage{Data: []byte("png"), MIMEType: "image/png"})

	doc := render(t, NewPage(envelope.Default(), snap))

	assert.Equal(t, "data:image/png;base64,cG5n", doc.Find("img.preview").AttrOr("src", ""))
}

func TestConfidenceColor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "green"}, {80.5, "green"}, {80, "yellow"}, {61, "yellow"}, {60, "red"}, {0, "red"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceColor(tt.score), "score %g", tt.score)
	}
}

func TestFormatYield(t *testing.T) {
	assert.Equal(t, "4.20", FormatYield(4.2))
	assert.Equal(t, "0.00", FormatYield(0))
	assert.Equal(t, "12.35", FormatYield(12.345678))
}
