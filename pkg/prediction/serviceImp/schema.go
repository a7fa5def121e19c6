package serviceImp

import "google.golang.org/genai"

// replyFields is the exact set of keys the model must return.
var replyFields = []string{"predictedYield", "yieldUnit", "confidenceScore", "summary", "positiveFactors", "negativeFactors"}

// ResponseSchema constrains the model reply to a Prediction object.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"predictedYield": {
				Type:        genai.TypeNumber,
				Description: "The predicted crop yield in tons per hectare.",
			},
			"yieldUnit": {
				Type:        genai.TypeString,
				Description: `The unit for the predicted yield, must be "tons/hectare".`,
			},
			"confidenceScore": {
				Type:        genai.TypeNumber,
				Description: "A score from 0 to 100 indicating the confidence in the prediction based on data quality and conditions.",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief summary of the analysis and key findings.",
			},
			"positiveFactors": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "A list of factors that are positively impacting the predicted yield.",
			},
			"negativeFactors": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "A list of factors that are negatively impacting the predicted yield.",
			},
		},
		PropertyOrdering: append([]string(nil), replyFields...),
		Required:         append([]string(nil), replyFields...),
	}
}
