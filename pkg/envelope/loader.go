package envelope

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"cropcast/entities"
)

// LoadFromFile overlays the bounds and crops found in path on top of the
// defaults. An empty path yields Default(). Supported: .csv, .xlsx, .yaml/.yml.
//
// Tabular files use one row per field with the columns
// Field, Label, Unit, Min, Max, Step. A row whose Field is "crop" adds the
// crop named in Label; if any crop rows exist they replace the default list.
func LoadFromFile(path string) (*Envelope, error) {
	if path == "" {
		return Default(), nil
	}
	var (
		crops  []entities.CropType
		bounds []Bound
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		crops, bounds, err = loadCSV(path)
	case ".xlsx":
		crops, bounds, err = loadXLSX(path)
	case ".yaml", ".yml":
		crops, bounds, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("envelope: unsupported file type %q", path)
	}
	if err != nil {
		return nil, fmt.Errorf("envelope: load %s: %w", path, err)
	}
	return overlay(crops, bounds)
}

func overlay(crops []entities.CropType, bounds []Bound) (*Envelope, error) {
	merged := map[string]Bound{}
	for _, b := range defaultBounds() {
		merged[b.Field] = b
	}
	for _, b := range bounds {
		cur, ok := merged[b.Field]
		if !ok {
			return nil, fmt.Errorf("envelope: unknown field %q", b.Field)
		}
		if b.Label == "" {
			b.Label = cur.Label
		}
		if b.Unit == "" {
			b.Unit = cur.Unit
		}
		if b.Step == 0 {
			b.Step = cur.Step
		}
		merged[b.Field] = b
	}
	list := make([]Bound, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		list = append(list, merged[f])
	}
	if len(crops) == 0 {
		crops = append(crops, entities.Crops...)
	}
	return build(crops, list)
}

func loadCSV(path string) ([]entities.CropType, []Bound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return parseRows(rows)
}

func loadXLSX(path string) ([]entities.CropType, []Bound, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer x.Close()
	rows, err := x.GetRows(x.GetSheetName(0))
	if err != nil {
		return nil, nil, err
	}
	return parseRows(rows)
}

type yamlFile struct {
	Crops  []string `yaml:"crops"`
	Bounds []Bound  `yaml:"bounds"`
}

func loadYAML(path string) ([]entities.CropType, []Bound, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var doc yamlFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, nil, err
	}
	crops := make([]entities.CropType, 0, len(doc.Crops))
	for _, c := range doc.Crops {
		if c = strings.TrimSpace(c); c != "" {
			crops = append(crops, entities.CropType(c))
		}
	}
	for i := range doc.Bounds {
		doc.Bounds[i].Field = normField(doc.Bounds[i].Field)
	}
	return crops, doc.Bounds, nil
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// normField maps spreadsheet spellings ("Soil pH", "N") to field names.
func normField(s string) string {
	switch n := norm(s); n {
	case "temp", "temperature", "avgtemperature", "averagetemperature":
		return "temperature"
	case "rain", "rainfall", "totalrainfall":
		return "rainfall"
	case "sun", "sunshine", "sunshinehours":
		return "sunshine"
	case "n", "nitrogen":
		return "nitrogen"
	case "p", "phosphorus":
		return "phosphorus"
	case "k", "potassium":
		return "potassium"
	case "ph", "soilph":
		return "ph"
	default:
		return n
	}
}

func parseRows(rows [][]string) ([]entities.CropType, []Bound, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty sheet")
	}
	head := rows[0]
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cField := findAny("Field", "parameter", "name", "input")
	cLabel := findAny("Label", "display", "title")
	cUnit := findAny("Unit", "units")
	cMin := findAny("Min", "minimum", "lower")
	cMax := findAny("Max", "maximum", "upper")
	cStep := findAny("Step", "increment")

	if cField == -1 {
		return nil, nil, fmt.Errorf("missing Field column; found headers: %v", head)
	}

	var (
		crops  []entities.CropType
		bounds []Bound
	)
	for ln, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		field := get(cField)
		if field == "" {
			continue
		}
		if norm(field) == "crop" {
			if name := get(cLabel); name != "" {
				crops = append(crops, entities.CropType(name))
			}
			continue
		}
		if cMin == -1 || cMax == -1 {
			return nil, nil, fmt.Errorf("missing Min/Max columns; found headers: %v", head)
		}
		lo, err := strconv.ParseFloat(get(cMin), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: min: %w", ln+2, err)
		}
		hi, err := strconv.ParseFloat(get(cMax), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: max: %w", ln+2, err)
		}
		var step float64
		if s := get(cStep); s != "" {
			if step, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, nil, fmt.Errorf("row %d: step: %w", ln+2, err)
			}
		}
		bounds = append(bounds, Bound{
			Field: normField(field),
			Label: get(cLabel),
			Unit:  get(cUnit),
			Min:   lo,
			Max:   hi,
			Step:  step,
		})
	}
	return crops, bounds, nil
}
