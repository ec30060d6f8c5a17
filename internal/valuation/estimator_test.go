// internal/valuation/estimator_test.go
package valuation

import (
	"testing"

	"mortgage-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_PropertyTypes(t *testing.T) {
	tests := []struct {
		name          string
		property      *models.PropertyInfo
		expectedValue float64
	}{
		{
			name:          "nil property uses default",
			property:      nil,
			expectedValue: 400000,
		},
		{
			name:          "zero square footage uses default",
			property:      &models.PropertyInfo{Type: models.PropertySingleFamily},
			expectedValue: 400000,
		},
		{
			name:          "single family by square footage",
			property:      &models.PropertyInfo{Type: models.PropertySingleFamily, SquareFootage: 2000},
			expectedValue: 400000,
		},
		{
			name:          "condo discounted",
			property:      &models.PropertyInfo{Type: models.PropertyCondo, SquareFootage: 2200},
			expectedValue: 396000,
		},
		{
			name:          "townhouse discounted",
			property:      &models.PropertyInfo{Type: models.PropertyTownhouse, SquareFootage: 2000},
			expectedValue: 380000,
		},
		{
			name:          "multi family premium",
			property:      &models.PropertyInfo{Type: models.PropertyMultiFamily, SquareFootage: 3000},
			expectedValue: 660000,
		},
		{
			name:          "unknown type uses base price",
			property:      &models.PropertyInfo{Type: models.PropertyOther, SquareFootage: 1500},
			expectedValue: 300000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Estimate(tt.property)

			assert.InDelta(t, tt.expectedValue, v.EstimatedValue, 0.01)
			assert.Equal(t, models.ConfidenceMedium, v.ConfidenceLevel)
			assert.Equal(t, 75.0, v.ConfidenceScore)
			assert.InDelta(t, tt.expectedValue*0.9, v.Range.Min, 0.01)
			assert.InDelta(t, tt.expectedValue*1.1, v.Range.Max, 0.01)
			assert.Equal(t, models.SourceMock, v.Source)
		})
	}
}

func TestEstimate_Flags(t *testing.T) {
	v := Estimate(&models.PropertyInfo{SquareFootage: 1800})

	assert.False(t, v.Flags.HighConfidence)
	assert.True(t, v.Flags.MarketStable)
	assert.True(t, v.Flags.ComparableDataSufficient)
}

func TestEstimate_Deterministic(t *testing.T) {
	property := &models.PropertyInfo{Type: models.PropertyCondo, SquareFootage: 2200}

	first := Estimate(property)
	second := Estimate(property)

	assert.Equal(t, first, second)
}
