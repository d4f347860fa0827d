package comparison

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/evcraddock/invest-compare/internal/engine"
)

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func bounded(typ string, lo, hi float64) map[string]interface{} {
	return map[string]interface{}{"type": typ, "minimum": lo, "maximum": hi}
}

func positive(typ string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "exclusiveMinimum": 0}
}

func years() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "exclusiveMinimum": 0, "maximum": engine.MaxYears}
}

func nonNegative() map[string]interface{} {
	return map[string]interface{}{"type": "number", "minimum": 0}
}

var inputSchema = map[string]interface{}{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]interface{}{
		"comparison_period_years":           years(),
		"property_price":                    positive("number"),
		"down_payment_percentage":           bounded("number", 0, 100),
		"mortgage_interest_rate":            bounded("number", 0, 100),
		"mortgage_term_years":               years(),
		"monthly_rent":                      positive("number"),
		"annual_rent_increase_rate":         bounded("number", 0, 100),
		"annual_property_appreciation_rate": bounded("number", -100, 100),
		"monthly_maintenance_cost":          nonNegative(),
		"annual_property_tax_rate":          bounded("number", 0, 100),
		"annual_insurance_cost":             nonNegative(),
		"vacancy_rate_percentage":           bounded("number", 0, 100),
		"closing_costs":                     nonNegative(),
		"selling_costs_percentage":          bounded("number", 0, 100),
		"etf_annual_return_rate":            bounded("number", -100, 100),
		"etf_annual_fee_rate":               bounded("number", 0, 100),
	},
	"required": []interface{}{
		"comparison_period_years", "property_price", "down_payment_percentage",
		"mortgage_interest_rate", "mortgage_term_years", "monthly_rent",
		"annual_rent_increase_rate", "annual_property_appreciation_rate",
		"monthly_maintenance_cost", "annual_property_tax_rate", "annual_insurance_cost",
		"vacancy_rate_percentage", "closing_costs", "selling_costs_percentage",
		"etf_annual_return_rate", "etf_annual_fee_rate",
	},
}

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(inputSchema))
	if err != nil {
		panic(fmt.Sprintf("compiling input schema: %v", err))
	}
	return s
}

// ParseInput validates a JSON request body and decodes it.
func ParseInput(body []byte) (engine.Input, error) {
	if err := check(gojsonschema.NewBytesLoader(body)); err != nil {
		return engine.Input{}, err
	}

	var in engine.Input
	if err := json.Unmarshal(body, &in); err != nil {
		return engine.Input{}, fmt.Errorf("decoding input: %w", err)
	}
	return in, nil
}

// ValidateInput checks every field of an already decoded input.
func ValidateInput(in engine.Input) error {
	return check(gojsonschema.NewGoLoader(in))
}

func check(doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if p, ok := desc.Details()["property"].(string); ok {
				field = p
			}
		}
		verr.Fields = append(verr.Fields, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
