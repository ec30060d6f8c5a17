// internal/stages/credit/handler.go
package credit

import (
	"context"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
)

const (
	StageName     = "credit_assessment"
	StepCompleted = "credit_assessment_completed"
)

// Handler implements the credit assessment stage: a pure function of
// credit score and employment years.
type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(_ context.Context, app *models.Application) (*models.CreditAssessmentResult, error) {
	grade, risk := gradeScore(app.CreditScore)

	result := &models.CreditAssessmentResult{
		Status:              models.StatusCompleted,
		CreditGrade:         grade,
		RiskLevel:           risk,
		CreditScore:         app.CreditScore,
		EmploymentStability: classifyEmployment(app.EmploymentYears),
	}

	h.logger.Info("credit assessment completed", map[string]interface{}{
		"applicant":   app.ApplicantName,
		"creditGrade": grade,
		"riskLevel":   risk,
	})

	return result, nil
}

// gradeScore maps a credit score to a letter grade and risk level.
// Thresholds are inclusive lower bounds, evaluated highest-first.
func gradeScore(score int) (models.CreditGrade, models.RiskLevel) {
	switch {
	case score >= 750:
		return models.GradeA, models.RiskLow
	case score >= 700:
		return models.GradeB, models.RiskLow
	case score >= 650:
		return models.GradeC, models.RiskMedium
	case score >= 600:
		return models.GradeD, models.RiskHigh
	default:
		return models.GradeF, models.RiskHigh
	}
}

func classifyEmployment(years float64) models.EmploymentStability {
	switch {
	case years >= 2:
		return models.EmploymentStable
	case years >= 1:
		return models.EmploymentModerate
	default:
		return models.EmploymentUnstable
	}
}
