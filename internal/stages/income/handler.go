// internal/stages/income/handler.go
package income

import (
	"context"
	"fmt"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
)

const (
	StageName     = "income_verification"
	StepCompleted = "income_verification_completed"
)

// paymentFactor approximates the monthly payment on a 30-year loan at a
// reference rate. Deliberately not a real amortization formula.
const paymentFactor = 0.005

// Handler implements the income verification stage.
type Handler struct {
	maxPaymentToIncome float64
	logger             logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	maxRatio := config.MaxPaymentToIncomeRatio
	if maxRatio == 0 {
		maxRatio = 0.28
	}
	return &Handler{
		maxPaymentToIncome: maxRatio,
		logger:             log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(_ context.Context, app *models.Application) (*models.IncomeVerificationResult, error) {
	monthlyIncome := app.AnnualIncome / 12
	if monthlyIncome <= 0 {
		return nil, fmt.Errorf("cannot compute payment-to-income ratio: monthly income is %.2f", monthlyIncome)
	}

	monthlyPayment := app.LoanAmount * paymentFactor
	incomeRatio := monthlyPayment / monthlyIncome

	result := &models.IncomeVerificationResult{
		Status:                  models.StatusCompleted,
		MonthlyIncome:           monthlyIncome,
		EstimatedMonthlyPayment: monthlyPayment,
		PaymentToIncomeRatio:    incomeRatio,
		IncomeAdequacy:          models.IncomeSufficient,
		EmploymentStability:     models.EmploymentStable,
		Concerns:                []string{},
	}

	if incomeRatio > h.maxPaymentToIncome {
		result.IncomeAdequacy = models.IncomeInsufficient
		result.Concerns = append(result.Concerns,
			fmt.Sprintf("Payment-to-income ratio exceeds %.0f%%", h.maxPaymentToIncome*100))
	}
	if app.EmploymentYears < 2 {
		result.EmploymentStability = models.EmploymentUnstable
		result.Concerns = append(result.Concerns, "Employment history less than 2 years")
	}

	h.logger.Info("income verification completed", map[string]interface{}{
		"applicant":      app.ApplicantName,
		"incomeAdequacy": result.IncomeAdequacy,
		"paymentRatio":   incomeRatio,
	})

	return result, nil
}
