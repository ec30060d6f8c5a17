// internal/workers/process-application/models.go
package processapplication

import "mortgage-workers/internal/models"

// Input is the subset of job variables the worker consumes. The raw
// variables are schema-checked before decoding.
type Input struct {
	models.Application
}

// Output is merged back into the process instance on completion.
type Output struct {
	FinalDecision   models.Decision     `json:"final_decision"`
	DecisionReason  string              `json:"decision_reason"`
	ConfidenceScore float64             `json:"confidence_score"`
	Result          *models.Application `json:"application_result"`
}
