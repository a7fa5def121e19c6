package serviceImp

import (
	"fmt"

	"cropcast/entities"
)

const SystemInstruction = "You are an advanced agricultural AI expert system for crop yield prediction. " +
	"Your purpose is to forecast crop yield based on provided data, returning your prediction in a strict JSON format. " +
	"Return a single JSON object and nothing else."

// Temperature is kept low so the model sticks to literal, repeatable answers.
const Temperature float32 = 0.2

// RenderPrompt writes every request field into a fixed template. The image
// itself travels as a separate part.
func RenderPrompt(r *entities.PredictionRequest) string {
	return fmt.Sprintf(`Analyze the following agricultural data and predict the crop yield. Your analysis should be insightful and directly related to the provided data. The confidence score should reflect how ideal the conditions are for the given crop.

**Data for Analysis:**
- Crop Type: %s
- Satellite Image Analysis: You are provided with a satellite image of the field. Analyze it for greenness (NDVI proxy), uniformity, and signs of stress or disease. Assume the image is from the mid-growth stage.
- Historical Weather Data:
  - Average Temperature: %g°C
  - Total Rainfall (growing season): %gmm
  - Daily Sunshine Hours: %g hours
- Soil Condition Analysis:
  - Nitrogen (N): %g ppm
  - Phosphorus (P): %g ppm
  - Potassium (K): %g ppm
  - Soil pH: %g
`,
		r.CropType,
		r.Temperature, r.Rainfall, r.Sunshine,
		r.Nitrogen, r.Phosphorus, r.Potassium, r.PH,
	)
}
