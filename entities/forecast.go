package entities

type SatelliteImage struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mimeType"`
}

type PredictionRequest struct {
	CropType    CropType        `json:"cropType" validate:"required,crop"`
	Image       *SatelliteImage `json:"satelliteImage,omitempty"`
	Temperature float64         `json:"temperature" validate:"envelope"` // °C
	Rainfall    float64         `json:"rainfall" validate:"envelope"`    // mm, growing season
	Sunshine    float64         `json:"sunshine" validate:"envelope"`    // hours/day
	Nitrogen    float64         `json:"nitrogen" validate:"envelope"`    // ppm
	Phosphorus  float64         `json:"phosphorus" validate:"envelope"`  // ppm
	Potassium   float64         `json:"potassium" validate:"envelope"`   // ppm
	PH          float64         `json:"ph" validate:"envelope"`
}

func (r *PredictionRequest) HasImage() bool {
	return r != nil && r.Image != nil && len(r.Image.Data) > 0
}

type Prediction struct {
	PredictedYield  float64  `json:"predictedYield"`
	YieldUnit       string   `json:"yieldUnit"` // tons/hectare
	ConfidenceScore float64  `json:"confidenceScore"`
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positiveFactors"`
	NegativeFactors []string `json:"negativeFactors"`
}
