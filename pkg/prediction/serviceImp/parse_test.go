package serviceImp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrediction_EmptyFactorLists(t *testing.T) {
	p, err := ParsePrediction(`{"predictedYield":0,"yieldUnit":"tons/hectare","confidenceScore":0,"summary":"","positiveFactors":[],"negativeFactors":[]}`)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.PredictedYield)
	assert.Equal(t, 0.0, p.ConfidenceScore)
	assert.NotNil(t, p.PositiveFactors)
	assert.Empty(t, p.PositiveFactors)
	assert.Empty(t, p.NegativeFactors)
}

func TestParsePrediction_IgnoresUnknownKeys(t *testing.T) {
	p, err := ParsePrediction(`{"predictedYield":3.1,"yieldUnit":"tons/hectare","confidenceScore":55,"summary":"s","positiveFactors":["a"],"negativeFactors":["b"],"notes":"extra"}`)
	require.NoError(t, err)
	assert.Equal(t, 3.1, p.PredictedYield)
}

func TestParsePrediction_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"not json", `not json`},
		{"array", `[]`},
		{"null", `null`},
		{"trailing text", wellFormed + ` thanks!`},
		{"fenced", "```json\n" + wellFormed + "\n```"},
		{"yield as string", `{"predictedYield":"4.2","yieldUnit":"tons/hectare","confidenceScore":78,"summary":"ok","positiveFactors":[],"negativeFactors":[]}`},
		{"missing yield", `{"yieldUnit":"tons/hectare","confidenceScore":78,"summary":"ok","positiveFactors":[],"negativeFactors":[]}`},
		{"missing unit", `{"predictedYield":4.2,"confidenceScore":78,"summary":"ok","positiveFactors":[],"negativeFactors":[]}`},
		{"missing summary", `{"predictedYield":4.2,"yieldUnit":"tons/hectare","confidenceScore":78,"positiveFactors":[],"negativeFactors":[]}`},
		{"null factors", `{"predictedYield":4.2,"yieldUnit":"tons/hectare","confidenceScore":78,"summary":"ok","positiveFactors":null,"negativeFactors":[]}`},
		{"missing negative factors", `{"predictedYield":4.2,"yieldUnit":"tons/hectare","confidenceScore":78,"summary":"ok","positiveFactors":[]}`},
		{"factor not a string", `{"predictedYield":4.2,"yieldUnit":"tons/hectare","confidenceScore":78,"summary":"ok","positiveFactors":[1],"negativeFactors":[]}`},
		{"confidence above 100", `{"predictedYield":4.2,"yieldUnit":"tons/hectare","confidenceScore":120,"summary":"ok","positiveFactors":[],"negativeFactors":[]}`},
		{"negative yield", `{"predictedYield":-1,"yieldUnit":"tons/hectare","confidenceScore":50,"summary":"ok","positiveFactors":[],"negativeFactors":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePrediction(tt.raw)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}
