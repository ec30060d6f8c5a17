// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"strings"
	"testing"

	"mortgage-workers/internal/common/config"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
	"mortgage-workers/internal/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(strategy string) *config.Config {
	return &config.Config{
		Decision: config.DecisionConfig{
			MaxDebtToIncomeRatio:    0.43,
			MaxPaymentToIncomeRatio: 0.28,
			MaxLoanToValueRatio:     0.95,
			PMIThreshold:            0.80,
			Strategy:                strategy,
		},
		Valuation: config.ValuationConfig{
			Enabled:       true,
			Mode:          "mock",
			MinConfidence: "MEDIUM",
		},
	}
}

func newTestPipeline(t *testing.T, strategy string) *Pipeline {
	return New(createTestConfig(strategy), valuation.NewMockClient(), nil, logger.NewTestLogger(t))
}

func createStrongApplication() *models.Application {
	return &models.Application{
		ApplicantName:     "Alice Strong",
		CreditScore:       780,
		AnnualIncome:      95000,
		EmploymentYears:   5,
		LoanAmount:        300000,
		PropertyValue:     400000,
		DownPayment:       100000,
		DebtToIncomeRatio: 0.25,
	}
}

func createWeakApplication() *models.Application {
	return &models.Application{
		ApplicantName:     "Bob Weak",
		CreditScore:       580,
		AnnualIncome:      45000,
		EmploymentYears:   0.5,
		LoanAmount:        250000,
		PropertyValue:     280000,
		DownPayment:       30000,
		DebtToIncomeRatio: 0.45,
	}
}

func TestPipeline_Run_StrongApplicationApproved(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)

	result := p.Run(context.Background(), createStrongApplication())

	assert.Equal(t, models.DecisionApproved, result.FinalDecision)
	assert.Equal(t, 85.0, result.ConfidenceScore)
	assert.Equal(t, "final_decision_completed", result.CurrentStep)
	require.NotNil(t, result.DataValidation)
	assert.Equal(t, models.StatusPass, result.DataValidation.Status)
	require.NotNil(t, result.CreditAssessment)
	assert.Equal(t, models.GradeA, result.CreditAssessment.CreditGrade)
	require.NotNil(t, result.IncomeVerification)
	assert.Equal(t, models.IncomeSufficient, result.IncomeVerification.IncomeAdequacy)
	require.NotNil(t, result.PropertyValuation)
	assert.Equal(t, models.StatusSuccess, result.PropertyValuation.Status)
	require.NotNil(t, result.RiskAnalysis)
	assert.Equal(t, models.RiskLow, result.RiskAnalysis.OverallRisk)
	assert.Empty(t, result.Errors)
}

func TestPipeline_Run_WeakApplicationRejected(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)

	result := p.Run(context.Background(), createWeakApplication())

	assert.Equal(t, models.DecisionRejected, result.FinalDecision)
	assert.Contains(t, result.DecisionReason, "High risk factors")
	require.NotNil(t, result.CreditAssessment)
	assert.Equal(t, models.GradeF, result.CreditAssessment.CreditGrade)
	require.NotNil(t, result.RiskAnalysis)
	assert.Equal(t, models.RiskHigh, result.RiskAnalysis.OverallRisk)
}

func TestPipeline_Run_AppraisalVarianceSubstitutesValue(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)
	app := createStrongApplication()
	app.PropertyValue = 300000
	app.Property = &models.PropertyInfo{
		Type:          models.PropertyCondo,
		SquareFootage: 2200,
	}

	result := p.Run(context.Background(), app)

	// 2200 sqft condo appraises at 396000, a 32 percent variance
	assert.Equal(t, 396000.0, result.PropertyValue)
	require.NotNil(t, result.PropertyValuation)
	assert.Equal(t, 396000.0, result.PropertyValuation.AppraisedValue)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "differs from stated value") {
			found = true
		}
	}
	assert.True(t, found, "expected a variance warning, got %v", result.Warnings)

	require.NotNil(t, result.RiskAnalysis)
	assert.InDelta(t, 300000.0/396000.0, result.RiskAnalysis.LoanToValueRatio, 0.0001)
}

func TestPipeline_Run_SmallVarianceKeepsStatedValue(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)
	app := createStrongApplication()
	// mock estimate for 2000 sqft single family is exactly the stated value

	result := p.Run(context.Background(), app)

	assert.Equal(t, 400000.0, result.PropertyValue)
}

func TestPipeline_Run_SystemFaultYieldsSafeDecision(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)
	app := createStrongApplication()
	app.AnnualIncome = 0

	result := p.Run(context.Background(), app)

	assert.Equal(t, models.DecisionRejected, result.FinalDecision)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Contains(t, result.DecisionReason, "Application rejected due to system error")
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, "final_decision_completed", result.CurrentStep)

	// every sub-record is present, unreached ones as placeholders
	require.NotNil(t, result.IncomeVerification)
	assert.Equal(t, models.StatusNotCompleted, result.IncomeVerification.Status)
	require.NotNil(t, result.PropertyValuation)
	assert.Equal(t, models.StatusNotCompleted, result.PropertyValuation.Status)
	require.NotNil(t, result.RiskAnalysis)
	assert.Equal(t, models.StatusNotCompleted, result.RiskAnalysis.Status)
}

func TestPipeline_Run_ConditionalShortCircuitsOnValidationFailure(t *testing.T) {
	p := newTestPipeline(t, StrategyConditional)
	app := createStrongApplication()
	app.CreditScore = 200

	result := p.Run(context.Background(), app)

	assert.Equal(t, models.DecisionRejected, result.FinalDecision)
	assert.Equal(t, "Failed data validation", result.DecisionReason)
	assert.Equal(t, 95.0, result.ConfidenceScore)
	assert.Nil(t, result.CreditAssessment, "conditional strategy skips later stages")
	assert.Nil(t, result.RiskAnalysis)
}

func TestPipeline_Run_ConditionalShortCircuitsOnGradeF(t *testing.T) {
	p := newTestPipeline(t, StrategyConditional)
	app := createStrongApplication()
	app.CreditScore = 500

	result := p.Run(context.Background(), app)

	assert.Equal(t, models.DecisionRejected, result.FinalDecision)
	require.NotNil(t, result.CreditAssessment)
	assert.Equal(t, models.GradeF, result.CreditAssessment.CreditGrade)
	assert.Nil(t, result.IncomeVerification)
	assert.Nil(t, result.RiskAnalysis)
}

func TestPipeline_Run_SequentialRunsAllStagesOnFailure(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)
	app := createStrongApplication()
	app.CreditScore = 200

	result := p.Run(context.Background(), app)

	assert.Equal(t, models.DecisionRejected, result.FinalDecision)
	assert.Equal(t, "Failed data validation", result.DecisionReason)
	assert.NotNil(t, result.CreditAssessment, "sequential strategy runs every stage")
	assert.NotNil(t, result.RiskAnalysis)
}

func TestPipeline_Run_ValuationDisabled(t *testing.T) {
	cfg := createTestConfig(StrategySequential)
	cfg.Valuation.Enabled = false
	p := New(cfg, nil, nil, logger.NewTestLogger(t))

	result := p.Run(context.Background(), createStrongApplication())

	assert.Equal(t, models.DecisionApproved, result.FinalDecision)
	assert.Nil(t, result.PropertyValuation)
}

func TestPipeline_Run_IndependentRuns(t *testing.T) {
	p := newTestPipeline(t, StrategySequential)

	strong := p.Run(context.Background(), createStrongApplication())
	weak := p.Run(context.Background(), createWeakApplication())

	assert.Equal(t, models.DecisionApproved, strong.FinalDecision)
	assert.Equal(t, models.DecisionRejected, weak.FinalDecision)
	assert.Empty(t, strong.Errors)
}
