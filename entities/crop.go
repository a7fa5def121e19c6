package entities

type CropType string

const (
	CropCorn     CropType = "Corn"
	CropWheat    CropType = "Wheat"
	CropSoybeans CropType = "Soybeans"
	CropRice     CropType = "Rice"
	CropCanola   CropType = "Canola"
	CropPotatoes CropType = "Potatoes"
)

// Crops is the default crop list in the order the form shows it.
var Crops = []CropType{CropCorn, CropWheat, CropSoybeans, CropRice, CropCanola, CropPotatoes}

func (c CropType) String() string { return string(c) }
