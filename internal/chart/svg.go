package chart

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dennisdiepolder/callboard/internal/types"
)

//go:embed templates/*.svg.tmpl
var templatesFS embed.FS

// Chart names accepted by Render
const (
	NameDuration = "duration"
	NameVolume   = "volume"
	NameFailures = "failures"
)

// Names lists the renderable charts in dashboard order
var Names = []string{NameDuration, NameVolume, NameFailures}

var svgTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"num": num,
	"add": func(a, b float64) float64 { return a + b },
	"sub": func(a, b float64) float64 { return a - b },
	"mul": func(a, b float64) float64 { return a * b },
}).ParseFS(templatesFS, "templates/*.svg.tmpl"))

// Dataset is everything the three charts are drawn from
type Dataset struct {
	Duration       []types.CallDurationPoint
	Volume         []types.CallVolumeDay
	FailureReasons []types.FailureReason
}

// Build computes the geometry of the named chart
func Build(name string, data Dataset) (interface{}, error) {
	switch name {
	case NameDuration:
		return Line(data.Duration, DefaultLineBox), nil
	case NameVolume:
		return Volume(data.Volume), nil
	case NameFailures:
		return Donut(data.FailureReasons, DefaultDonut), nil
	default:
		return nil, fmt.Errorf("unknown chart %q", name)
	}
}

// Render writes the named chart as a standalone SVG document
func Render(w io.Writer, name string, data Dataset) error {
	geometry, err := Build(name, data)
	if err != nil {
		return err
	}
	if err := svgTemplates.ExecuteTemplate(w, name, geometry); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", name, err)
	}
	return nil
}

// Inline renders the named chart for embedding in an HTML page
func Inline(name string, data Dataset) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
