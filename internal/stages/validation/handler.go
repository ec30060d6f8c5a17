// internal/stages/validation/handler.go
package validation

import (
	"context"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
)

const (
	StageName     = "data_validation"
	StepCompleted = "data_validation_completed"
)

// Handler implements the data validation stage. Every rule is checked
// independently; the stage never short-circuits internally.
type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(_ context.Context, app *models.Application) (*models.DataValidationResult, error) {
	result := &models.DataValidationResult{
		Status:   models.StatusPass,
		Issues:   []string{},
		Warnings: []string{},
	}

	if app.CreditScore < 300 || app.CreditScore > 850 {
		result.Issues = append(result.Issues, "Invalid credit score")
		result.Status = models.StatusFail
	}
	if app.AnnualIncome <= 0 {
		result.Issues = append(result.Issues, "Invalid annual income")
		result.Status = models.StatusFail
	}
	if app.LoanAmount <= 0 {
		result.Issues = append(result.Issues, "Invalid loan amount")
		result.Status = models.StatusFail
	}
	if app.DownPayment > app.PropertyValue {
		result.Issues = append(result.Issues, "Down payment exceeds property value")
		result.Status = models.StatusFail
	}
	if app.DebtToIncomeRatio > 0.5 {
		result.Warnings = append(result.Warnings, "High debt-to-income ratio")
	}

	h.logger.Info("data validation completed", map[string]interface{}{
		"applicant": app.ApplicantName,
		"status":    result.Status,
		"issues":    len(result.Issues),
		"warnings":  len(result.Warnings),
	})

	return result, nil
}
