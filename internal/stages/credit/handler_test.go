// internal/stages/credit/handler_test.go
package credit

import (
	"context"
	"testing"

	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute_GradeThresholds(t *testing.T) {
	tests := []struct {
		name          string
		creditScore   int
		expectedGrade models.CreditGrade
		expectedRisk  models.RiskLevel
	}{
		{"excellent at threshold", 750, models.GradeA, models.RiskLow},
		{"just below excellent", 749, models.GradeB, models.RiskLow},
		{"good at threshold", 700, models.GradeB, models.RiskLow},
		{"just below good", 699, models.GradeC, models.RiskMedium},
		{"fair at threshold", 650, models.GradeC, models.RiskMedium},
		{"just below fair", 649, models.GradeD, models.RiskHigh},
		{"poor at threshold", 600, models.GradeD, models.RiskHigh},
		{"just below poor", 599, models.GradeF, models.RiskHigh},
		{"floor score", 300, models.GradeF, models.RiskHigh},
		{"ceiling score", 850, models.GradeA, models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
			app := &models.Application{
				ApplicantName:   "Jane Doe",
				CreditScore:     tt.creditScore,
				EmploymentYears: 5,
			}

			result, err := handler.Execute(context.Background(), app)

			require.NoError(t, err)
			assert.Equal(t, models.StatusCompleted, result.Status)
			assert.Equal(t, tt.expectedGrade, result.CreditGrade)
			assert.Equal(t, tt.expectedRisk, result.RiskLevel)
			assert.Equal(t, tt.creditScore, result.CreditScore)
		})
	}
}

func TestHandler_Execute_EmploymentStability(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		expected models.EmploymentStability
	}{
		{"long tenure", 10, models.EmploymentStable},
		{"stable at threshold", 2, models.EmploymentStable},
		{"just below stable", 1.9, models.EmploymentModerate},
		{"moderate at threshold", 1, models.EmploymentModerate},
		{"short tenure", 0.5, models.EmploymentUnstable},
		{"no history", 0, models.EmploymentUnstable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
			app := &models.Application{
				ApplicantName:   "Jane Doe",
				CreditScore:     720,
				EmploymentYears: tt.years,
			}

			result, err := handler.Execute(context.Background(), app)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.EmploymentStability)
		})
	}
}
