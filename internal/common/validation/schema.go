// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// applicationSchema constrains raw application payloads before decoding.
// Range rules here only reject structurally impossible input; business
// validation of values happens in the data validation stage.
var applicationSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"applicant_name",
		"credit_score",
		"annual_income",
		"employment_years",
		"loan_amount",
		"property_value",
		"down_payment",
		"debt_to_income_ratio",
	},
	"properties": map[string]interface{}{
		"application_id":       map[string]interface{}{"type": "string"},
		"applicant_name":       map[string]interface{}{"type": "string", "minLength": 1},
		"credit_score":         map[string]interface{}{"type": "integer"},
		"annual_income":        map[string]interface{}{"type": "number"},
		"employment_years":     map[string]interface{}{"type": "number", "minimum": 0},
		"loan_amount":          map[string]interface{}{"type": "number"},
		"property_value":       map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
		"down_payment":         map[string]interface{}{"type": "number", "minimum": 0},
		"debt_to_income_ratio": map[string]interface{}{"type": "number", "minimum": 0},
		"property": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"property_address": map[string]interface{}{"type": "string"},
				"property_type": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"single_family", "condo", "townhouse", "multi_family", "other"},
				},
				"square_footage": map[string]interface{}{"type": "number", "minimum": 0},
				"bedrooms":       map[string]interface{}{"type": "integer", "minimum": 0},
				"bathrooms":      map[string]interface{}{"type": "number", "minimum": 0},
				"year_built":     map[string]interface{}{"type": "integer"},
				"lot_size":       map[string]interface{}{"type": "number", "minimum": 0},
			},
		},
	},
}

// ValidateApplicationJSON checks a raw application document against the
// input schema and returns an itemized error on failure.
func ValidateApplicationJSON(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(applicationSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("application validation failed: %v", errs)
	}

	return nil
}

// ValidateAgainst validates an arbitrary document against a schema map.
// Used by the worker registry to check job variables at runtime.
func ValidateAgainst(document interface{}, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema validation failed: %v", errs)
	}

	return nil
}
