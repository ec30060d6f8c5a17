// internal/workers/property-valuation/handler_test.go
package propertyvaluation

import (
	"context"
	"testing"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
	"mortgage-workers/internal/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(
		LoadConfig(),
		valuation.NewMockClient(),
		valuation.NewAssessor(0.95, 0.80),
		logger.NewTestLogger(t),
	)
}

func TestHandler_Execute_ValuationWithLTV(t *testing.T) {
	handler := createTestHandler(t)
	input := &Input{
		Property: &models.PropertyInfo{
			Type:          models.PropertyCondo,
			SquareFootage: 2200,
		},
		LoanAmount: 300000,
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, output.Valuation)
	assert.Equal(t, 396000.0, output.Valuation.EstimatedValue)
	assert.Equal(t, models.ConfidenceMedium, output.Valuation.ConfidenceLevel)
	require.NotNil(t, output.LTVAnalysis)
	assert.True(t, output.LTVAnalysis.LTVAvailable)
	assert.InDelta(t, 300000.0/396000.0, output.LTVAnalysis.LTVRatio, 0.0001)
}

func TestHandler_Execute_NoLoanAmountSkipsLTV(t *testing.T) {
	handler := createTestHandler(t)
	input := &Input{
		Property: &models.PropertyInfo{SquareFootage: 1500},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 300000.0, output.Valuation.EstimatedValue)
	assert.Nil(t, output.LTVAnalysis)
}

func TestHandler_Execute_MissingPropertyUsesDefault(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{LoanAmount: 200000})

	require.NoError(t, err)
	assert.Equal(t, 400000.0, output.Valuation.EstimatedValue)
	assert.Equal(t, models.SourceMock, output.Valuation.Source)
}
