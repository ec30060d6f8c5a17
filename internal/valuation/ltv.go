// internal/valuation/ltv.go
package valuation

import "mortgage-workers/internal/models"

// Recommended actions for the loan-to-value assessment.
const (
	ActionReject            = "REJECT"
	ActionAdditionalReview  = "REQUIRE_ADDITIONAL_REVIEW"
	ActionRequirePMI        = "REQUIRE_PMI"
	ActionApproveConditions = "APPROVE_WITH_CONDITIONS"
	ActionApprove           = "APPROVE"
)

// lowConfidenceReviewFloor is the LTV above which a low confidence
// valuation alone warrants closer review.
const lowConfidenceReviewFloor = 0.70

// Assessor classifies loan-to-value risk against the configured limits.
type Assessor struct {
	maxLTV       float64
	pmiThreshold float64
}

func NewAssessor(maxLTV, pmiThreshold float64) *Assessor {
	if maxLTV == 0 {
		maxLTV = 0.95
	}
	if pmiThreshold == 0 {
		pmiThreshold = 0.80
	}
	return &Assessor{maxLTV: maxLTV, pmiThreshold: pmiThreshold}
}

// Assess evaluates the loan against the appraised value. The first
// matching threshold sets the base risk level; a low confidence
// valuation can then upgrade LOW to MEDIUM but never downgrades.
func (a *Assessor) Assess(loanAmount float64, v *models.Valuation) models.LTVRiskAssessment {
	ltv := loanAmount / v.EstimatedValue
	lowConfidence := v.ConfidenceLevel == models.ConfidenceLow

	var riskLevel models.RiskLevel
	riskFactors := []string{}
	switch {
	case ltv > a.maxLTV:
		riskLevel = models.RiskHigh
		riskFactors = append(riskFactors, "Very high LTV (>95%)")
	case ltv > a.pmiThreshold:
		riskLevel = models.RiskHigh
		if v.ConfidenceLevel == models.ConfidenceHigh {
			riskLevel = models.RiskMedium
		}
		riskFactors = append(riskFactors, "High LTV (>80%)")
	case ltv > lowConfidenceReviewFloor && lowConfidence:
		riskLevel = models.RiskMedium
		riskFactors = append(riskFactors, "Medium LTV with low confidence valuation")
	default:
		riskLevel = models.RiskLow
	}

	if lowConfidence {
		riskFactors = append(riskFactors, "Low confidence property valuation")
		if riskLevel == models.RiskLow {
			riskLevel = models.RiskMedium
		}
	}

	return models.LTVRiskAssessment{
		RiskLevel:         riskLevel,
		RiskFactors:       riskFactors,
		RequiresPMI:       ltv > a.pmiThreshold,
		RecommendedAction: a.recommendedAction(riskLevel, ltv),
	}
}

func (a *Assessor) recommendedAction(riskLevel models.RiskLevel, ltv float64) string {
	switch riskLevel {
	case models.RiskHigh:
		if ltv > a.maxLTV {
			return ActionReject
		}
		return ActionAdditionalReview
	case models.RiskMedium:
		if ltv > a.pmiThreshold {
			return ActionRequirePMI
		}
		return ActionApproveConditions
	default:
		return ActionApprove
	}
}

// BuildAnalysis relates the requested loan to a valuation. A non
// positive appraised value or loan amount yields an unavailable
// analysis rather than an error.
func (a *Assessor) BuildAnalysis(loanAmount float64, v *models.Valuation) *models.LTVAnalysis {
	if v == nil || v.EstimatedValue <= 0 || loanAmount <= 0 {
		return &models.LTVAnalysis{LTVAvailable: false}
	}

	assessment := a.Assess(loanAmount, v)
	valuationRange := v.Range
	ltv := loanAmount / v.EstimatedValue

	return &models.LTVAnalysis{
		LTVAvailable:           true,
		EstimatedPropertyValue: v.EstimatedValue,
		LoanAmount:             loanAmount,
		LTVRatio:               ltv,
		LTVPercentage:          ltv * 100,
		ConfidenceLevel:        v.ConfidenceLevel,
		ConfidenceScore:        v.ConfidenceScore,
		ValuationRange:         &valuationRange,
		RiskAssessment:         &assessment,
	}
}
