// internal/stages/risk/handler_test.go
package risk

import (
	"context"
	"testing"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestApplication() *models.Application {
	return &models.Application{
		ApplicantName:     "John Smith",
		CreditScore:       720,
		LoanAmount:        300000,
		PropertyValue:     400000,
		DownPayment:       100000,
		DebtToIncomeRatio: 0.30,
	}
}

func TestHandler_Execute_NoRiskFactors(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	result, err := handler.Execute(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.Status)
	assert.InDelta(t, 0.75, result.LoanToValueRatio, 0.001)
	assert.InDelta(t, 0.25, result.DownPaymentPercent, 0.001)
	assert.Equal(t, models.RiskLow, result.OverallRisk)
	assert.Empty(t, result.RiskFactors)
	assert.False(t, result.RequiresPMI)
}

func TestHandler_Execute_SingleFactorIsMedium(t *testing.T) {
	tests := []struct {
		name           string
		modify         func(app *models.Application)
		expectedFactor string
	}{
		{
			name: "high loan-to-value",
			modify: func(app *models.Application) {
				app.LoanAmount = 350000
			},
			expectedFactor: "High loan-to-value ratio (>80%)",
		},
		{
			name: "high debt-to-income",
			modify: func(app *models.Application) {
				app.DebtToIncomeRatio = 0.45
			},
			expectedFactor: "High debt-to-income ratio (>43%)",
		},
		{
			name: "low credit score",
			modify: func(app *models.Application) {
				app.CreditScore = 619
			},
			expectedFactor: "Low credit score (<620)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
			app := createTestApplication()
			tt.modify(app)

			result, err := handler.Execute(context.Background(), app)

			require.NoError(t, err)
			assert.Equal(t, models.RiskMedium, result.OverallRisk)
			assert.Equal(t, []string{tt.expectedFactor}, result.RiskFactors)
		})
	}
}

func TestHandler_Execute_MultipleFactorsAreHigh(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	app := createTestApplication()
	app.CreditScore = 580
	app.DebtToIncomeRatio = 0.48
	app.LoanAmount = 380000
	app.DownPayment = 20000

	result, err := handler.Execute(context.Background(), app)

	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, result.OverallRisk)
	assert.Len(t, result.RiskFactors, 3)
	assert.True(t, result.RequiresPMI)
}

func TestHandler_Execute_LTVBoundary(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	app := createTestApplication()
	// exactly 80 percent is not a risk factor and does not require PMI
	app.LoanAmount = 320000
	app.PropertyValue = 400000

	result, err := handler.Execute(context.Background(), app)

	require.NoError(t, err)
	assert.InDelta(t, 0.80, result.LoanToValueRatio, 0.0001)
	assert.False(t, result.RequiresPMI)
	assert.Empty(t, result.RiskFactors)
}

func TestHandler_Execute_CreditScoreBoundary(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	app := createTestApplication()
	app.CreditScore = 620

	result, err := handler.Execute(context.Background(), app)

	require.NoError(t, err)
	assert.Empty(t, result.RiskFactors, "score of exactly 620 is not a risk factor")
}

func TestHandler_Execute_ZeroPropertyValueFails(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	app := createTestApplication()
	app.PropertyValue = 0

	result, err := handler.Execute(context.Background(), app)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "property value")
}
