// internal/stages/risk/handler.go
package risk

import (
	"context"
	"fmt"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
)

const (
	StageName     = "risk_analysis"
	StepCompleted = "risk_analysis_completed"
)

// lowCreditScoreFloor is the score below which a risk factor is recorded.
const lowCreditScoreFloor = 620

// Handler implements the risk analysis stage. It runs after the
// valuation step, so app.PropertyValue already reflects the appraised
// value when one was obtained.
type Handler struct {
	maxDTI       float64
	pmiThreshold float64
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	maxDTI := config.MaxDebtToIncomeRatio
	if maxDTI == 0 {
		maxDTI = 0.43
	}
	pmi := config.PMIThreshold
	if pmi == 0 {
		pmi = 0.80
	}
	return &Handler{
		maxDTI:       maxDTI,
		pmiThreshold: pmi,
		logger:       log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(_ context.Context, app *models.Application) (*models.RiskAnalysisResult, error) {
	if app.PropertyValue <= 0 {
		return nil, fmt.Errorf("cannot compute loan-to-value ratio: property value is %.2f", app.PropertyValue)
	}

	loanToValue := app.LoanAmount / app.PropertyValue
	downPaymentPercent := app.DownPayment / app.PropertyValue

	// Independent checks; each contributes one risk factor.
	riskFactors := []string{}
	if loanToValue > h.pmiThreshold {
		riskFactors = append(riskFactors, fmt.Sprintf("High loan-to-value ratio (>%.0f%%)", h.pmiThreshold*100))
	}
	if app.DebtToIncomeRatio > h.maxDTI {
		riskFactors = append(riskFactors, fmt.Sprintf("High debt-to-income ratio (>%.0f%%)", h.maxDTI*100))
	}
	if app.CreditScore < lowCreditScoreFloor {
		riskFactors = append(riskFactors, fmt.Sprintf("Low credit score (<%d)", lowCreditScoreFloor))
	}

	var overallRisk models.RiskLevel
	switch {
	case len(riskFactors) == 0:
		overallRisk = models.RiskLow
	case len(riskFactors) == 1:
		overallRisk = models.RiskMedium
	default:
		overallRisk = models.RiskHigh
	}

	result := &models.RiskAnalysisResult{
		Status:             models.StatusCompleted,
		LoanToValueRatio:   loanToValue,
		DownPaymentPercent: downPaymentPercent,
		OverallRisk:        overallRisk,
		RiskFactors:        riskFactors,
		RequiresPMI:        loanToValue > h.pmiThreshold,
	}

	h.logger.Info("risk analysis completed", map[string]interface{}{
		"applicant":   app.ApplicantName,
		"loanToValue": loanToValue,
		"overallRisk": overallRisk,
		"factors":     len(riskFactors),
	})

	return result, nil
}
