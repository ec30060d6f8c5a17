// internal/workers/property-valuation/models.go
package propertyvaluation

import "mortgage-workers/internal/models"

type Input struct {
	Property   *models.PropertyInfo `json:"property"`
	LoanAmount float64              `json:"loan_amount"`
	RequestID  string               `json:"request_id,omitempty"`
}

type Output struct {
	Valuation   *models.Valuation   `json:"valuation"`
	LTVAnalysis *models.LTVAnalysis `json:"ltv_analysis"`
}
