// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"mortgage-workers/internal/common/validation"
)

// LoadRegistry reads an activity catalog from disk.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Builtin returns the catalog of task types this binary implements.
func Builtin() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0",
		Activities: []Activity{
			{
				ID:          "process-mortgage-application",
				DisplayName: "Process Mortgage Application",
				Description: "Runs the full underwriting pipeline and returns a final decision",
				Category:    "decision",
				TaskType:    "process-mortgage-application",
				InputSchema: map[string]interface{}{
					"type": "object",
					"required": []interface{}{
						"applicant_name", "credit_score", "annual_income",
						"employment_years", "loan_amount", "property_value",
						"down_payment", "debt_to_income_ratio",
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"final_decision", "decision_reason", "confidence_score"},
				},
				ErrorCodes: []string{"APPLICATION_VALIDATION_FAILED", "APPLICATION_PARSE_FAILED"},
				Timeout:    "30s",
				Retries:    0,
				Tags:       []string{"mortgage", "underwriting"},
			},
			{
				ID:          "property-valuation",
				DisplayName: "Property Valuation",
				Description: "Obtains a property appraisal with loan-to-value analysis",
				Category:    "valuation",
				TaskType:    "property-valuation",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"property":    map[string]interface{}{"type": "object"},
						"loan_amount": map[string]interface{}{"type": "number"},
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"valuation"},
				},
				ErrorCodes: []string{"PROPERTY_VALUATION_FAILED", "APPLICATION_PARSE_FAILED"},
				Timeout:    "45s",
				Retries:    3,
				Tags:       []string{"mortgage", "valuation"},
			},
		},
	}
}

// Find returns the activity registered for a task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("task type %q is not registered", taskType)
}

// ValidateInput checks a decoded job payload against the registered
// input schema for the task type.
func (r *ActivityRegistry) ValidateInput(taskType string, document interface{}) error {
	activity, err := r.Find(taskType)
	if err != nil {
		return err
	}
	if activity.InputSchema == nil {
		return nil
	}
	return validation.ValidateAgainst(document, activity.InputSchema)
}

// TaskTypes lists every registered task type.
func (r *ActivityRegistry) TaskTypes() []string {
	types := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		types = append(types, a.TaskType)
	}
	return types
}
