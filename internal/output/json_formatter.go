package output

import (
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go out as JSON numbers, matching the HTTP API.
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON encodes v with the shared settings. indent selects two-space
// pretty printing.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.ScenarioReport) ([]byte, error) {
	return MarshalJSON(report, true)
}
