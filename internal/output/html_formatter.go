package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":      FormatCurrency,
	"rate":      FormatRate,
	"prob":      FormatProbability,
	"breakeven": FormatBreakeven,
	"mortality": MortalityTreatment,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.ScenarioReport) ([]byte, error) {
	var buf bytes.Buffer
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	data := struct {
		*domain.ScenarioReport
		AllAssumptions []string
	}{report, assumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
