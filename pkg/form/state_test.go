package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
)

func TestDefault(t *testing.T) {
	v := Default(nil).Values()

	assert.Equal(t, entities.CropCorn, v.CropType)
	assert.Equal(t, 22.0, v.Temperature)
	assert.Equal(t, 600.0, v.Rainfall)
	assert.Equal(t, 8.0, v.Sunshine)
	assert.Equal(t, 150.0, v.Nitrogen)
	assert.Equal(t, 50.0, v.Phosphorus)
	assert.Equal(t, 70.0, v.Potassium)
	assert.Equal(t, 6.5, v.PH)
	assert.Nil(t, v.Image)
}

func TestSet(t *testing.T) {
	tests := []struct {
		field, raw string
		check      func(t *testing.T, v entities.PredictionRequest)
	}{
		{FieldCropType, "Wheat", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, entities.CropWheat, v.CropType) }},
		{FieldTemperature, "-10", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, -10.0, v.Temperature) }},
		{FieldRainfall, " 2000 ", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 2000.0, v.Rainfall) }},
		{FieldSunshine, "12.5", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 12.5, v.Sunshine) }},
		{FieldNitrogen, "20", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 20.0, v.Nitrogen) }},
		{FieldPhosphorus, "100", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 100.0, v.Phosphorus) }},
		{FieldPotassium, "75", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 75.0, v.Potassium) }},
		{FieldPH, "7.2", func(t *testing.T, v entities.PredictionRequest) { assert.Equal(t, 7.2, v.PH) }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := Default(nil)
			require.NoError(t, s.Set(tt.field, tt.raw))
			tt.check(t, s.Values())
		})
	}
}

func TestSet_RejectsAndKeepsState(t *testing.T) {
	tests := []struct {
		name, field, raw string
	}{
		{"unknown field", "humidity", "50"},
		{"unknown crop", FieldCropType, "Barley"},
		{"empty crop", FieldCropType, ""},
		{"not a number", FieldTemperature, "warm"},
		{"below min", FieldTemperature, "-11"},
		{"above max", FieldPH, "9.5"},
		{"nan", FieldRainfall, "NaN"},
		{"infinite", FieldNitrogen, "+Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default(nil)
			before := s.Values()

			err := s.Set(tt.field, tt.raw)

			assert.True(t, fault.Is(err, fault.KindInvalidInput), "got %v", err)
			assert.Equal(t, before, s.Values())
		})
	}
}

func TestRequest(t *testing.T) {
	s := Default(nil)

	_, err := s.Request()
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindInvalidInput))
	assert.Equal(t, "Please upload a satellite image to proceed.", fault.UserMessage(err))

	img := &entities.SatelliteImage{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"}
	s.SetImage(img)
	require.NoError(t, s.Set(FieldSunshine, "9"))

	req, err := s.Request()
	require.NoError(t, err)
	assert.Same(t, img, req.Image)
	assert.Equal(t, 9.0, req.Sunshine)

	// the returned request is a copy
	req.Sunshine = 3
	assert.Equal(t, 9.0, s.Values().Sunshine)
}

func TestDefault_ClampsToNarrowEnvelope(t *testing.T) {
	env, err := envelope.LoadFromFile("testdata/narrow.yaml")
	require.NoError(t, err)

	v := Default(env).Values()

	assert.Equal(t, entities.CropRice, v.CropType)
	assert.Equal(t, 25.0, v.Temperature)
	assert.Equal(t, 600.0, v.Rainfall)
}

func TestApply(t *testing.T) {
	s := Default(nil)

	require.NoError(t, s.Apply(map[string]string{FieldCropType: "Rice", FieldNitrogen: "120"}))

	v := s.Values()
	assert.Equal(t, entities.CropRice, v.CropType)
	assert.Equal(t, 120.0, v.Nitrogen)
}

func TestApply_AllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"later field out of range", map[string]string{FieldCropType: "Rice", FieldNitrogen: "120", FieldPH: "15"}},
		{"unknown field", map[string]string{FieldCropType: "Rice", "humidity": "40"}},
		{"not a number", map[string]string{FieldTemperature: "30", FieldSunshine: "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default(nil)
			before := s.Values()

			err := s.Apply(tt.values)

			assert.True(t, fault.Is(err, fault.KindInvalidInput), "got %v", err)
			assert.Equal(t, before, s.Values())
		})
	}
}
