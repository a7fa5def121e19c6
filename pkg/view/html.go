package view

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name passed to echo.Context.Render for the main page.
const PageTemplate = "index.html"

// HTML implements echo.Renderer over the embedded templates.
type HTML struct {
	t *template.Template
}

func NewHTML() (*HTML, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"yield":      FormatYield,
		"confidence": ConfidenceColor,
		"num":        func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"dataURL":    func(s string) template.URL { return template.URL(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &HTML{t: t}, nil
}

func (h *HTML) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return h.t.ExecuteTemplate(w, name, data)
}
