package server

import (
	"fmt"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// requestSchema describes the body of POST /v1/calculate
var requestSchema = map[string]interface{}{
	"$schema":              "http://json-schema.org/draft-07/schema#",
	"type":                 "object",
	"additionalProperties": false,
	"required":             []interface{}{"current_age", "cpp_estimate_at_65", "rrsp_savings"},
	"properties": map[string]interface{}{
		"current_age": map[string]interface{}{
			"type":    "integer",
			"minimum": domain.MinCurrentAge,
			"maximum": domain.MaxCurrentAge,
		},
		"cpp_estimate_at_65": map[string]interface{}{
			"type":             "number",
			"exclusiveMinimum": 0,
		},
		"rrsp_savings": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"gender": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{string(domain.Male), string(domain.Female)},
		},
		"health_status": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{string(domain.HealthAverage), string(domain.HealthExcellent), string(domain.HealthPoor)},
		},
		"real_rate_of_return": rateSchema(domain.MaxRealRateOfReturn),
		"wage_growth":         rateSchema(domain.MaxWageGrowth),
		"inflation_rate":      rateSchema(domain.MaxInflationRate),
		"discount_pre_retirement_mortality": map[string]interface{}{
			"type": "boolean",
		},
	},
}

func rateSchema(max float64) map[string]interface{} {
	return map[string]interface{}{
		"type":    "number",
		"minimum": 0,
		"maximum": max,
	}
}

func compileRequestSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(requestSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return schema, nil
}

// schemaViolations validates a raw body. A non-nil error means the body is
// not JSON at all.
func schemaViolations(schema *gojsonschema.Schema, body []byte) ([]*domain.ValidationError, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]*domain.ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		violations = append(violations, &domain.ValidationError{Field: field, Message: desc.Description()})
	}
	return violations, nil
}
