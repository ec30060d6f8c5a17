// internal/stages/decision/handler.go
package decision

import (
	"context"
	"fmt"
	"strings"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
)

const (
	StageName     = "final_decision"
	StepCompleted = "final_decision_completed"
)

// Result carries the terminal outcome of the pipeline. Only this stage
// may produce a final decision.
type Result struct {
	Decision   models.Decision `json:"final_decision"`
	Reason     string          `json:"decision_reason"`
	Confidence float64         `json:"confidence_score"`
}

// Handler implements the final decision stage as a precedence ladder:
// the first matching rule wins.
type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(_ context.Context, app *models.Application) (*Result, error) {
	result := h.decide(app)

	h.logger.Info("final decision made", map[string]interface{}{
		"applicant":  app.ApplicantName,
		"decision":   result.Decision,
		"confidence": result.Confidence,
	})

	return result, nil
}

func (h *Handler) decide(app *models.Application) *Result {
	// Rule 1: failed data validation.
	if app.DataValidation == nil || app.DataValidation.Status != models.StatusPass {
		return &Result{
			Decision:   models.DecisionRejected,
			Reason:     "Failed data validation",
			Confidence: 95,
		}
	}

	// Rule 2: valuation reported a hard error. Unreachable while the
	// fallback estimator works, kept for robustness.
	if app.PropertyValuation != nil && app.PropertyValuation.Status == models.StatusError {
		return &Result{
			Decision:   models.DecisionRejected,
			Reason:     "Property valuation failed",
			Confidence: 90,
		}
	}

	grade := creditGrade(app)
	adequate := incomeAdequate(app)
	risk := overallRisk(app)

	// Rule 3: strong application.
	if (grade == models.GradeA || grade == models.GradeB) &&
		adequate &&
		(risk == models.RiskLow || risk == models.RiskMedium) {
		confidence := 75.0
		if risk == models.RiskLow {
			confidence = 85
		}
		confidence = adjustForValuationConfidence(app, confidence)

		return &Result{
			Decision: models.DecisionApproved,
			Reason: fmt.Sprintf("Strong application: %s credit grade, adequate income, %s risk",
				grade, strings.ToLower(string(risk))),
			Confidence: confidence,
		}
	}

	// Rule 4: disqualifying factors.
	if grade == models.GradeD || grade == models.GradeF || !adequate || risk == models.RiskHigh {
		return &Result{
			Decision: models.DecisionRejected,
			Reason: fmt.Sprintf("High risk factors: %s credit grade, income adequacy: %v, %s risk",
				grade, adequate, strings.ToLower(string(risk))),
			Confidence: 80,
		}
	}

	// Rule 5: borderline.
	return &Result{
		Decision: models.DecisionPendingReview,
		Reason: fmt.Sprintf("Borderline case requiring manual review: %s credit, %s risk",
			grade, strings.ToLower(string(risk))),
		Confidence: 60,
	}
}

// adjustForValuationConfidence nudges approval confidence by the quality
// of the property valuation, clamped to [0,100].
func adjustForValuationConfidence(app *models.Application, confidence float64) float64 {
	if app.PropertyValuation == nil || app.PropertyValuation.Status != models.StatusSuccess {
		return confidence
	}

	switch app.PropertyValuation.ConfidenceLevel {
	case models.ConfidenceHigh:
		confidence += 5
	case models.ConfidenceLow:
		confidence -= 10
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// Accessors tolerate sub-records skipped by the conditional strategy.

func creditGrade(app *models.Application) models.CreditGrade {
	if app.CreditAssessment == nil {
		return models.GradeF
	}
	return app.CreditAssessment.CreditGrade
}

func incomeAdequate(app *models.Application) bool {
	if app.IncomeVerification == nil {
		return false
	}
	return app.IncomeVerification.IncomeAdequacy == models.IncomeSufficient
}

func overallRisk(app *models.Application) models.RiskLevel {
	if app.RiskAnalysis == nil {
		return models.RiskHigh
	}
	return app.RiskAnalysis.OverallRisk
}
