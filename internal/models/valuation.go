// internal/models/valuation.go
package models

// ConfidenceLevel grades how much trust the valuation carries.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// ValuationSource records which strategy produced the valuation.
type ValuationSource string

const (
	SourceLive ValuationSource = "live"
	SourceMock ValuationSource = "mock"
)

// ValuationRange brackets the estimated value.
type ValuationRange struct {
	Min float64 `json:"min_value"`
	Max float64 `json:"max_value"`
}

// ValuationFlags carry qualitative signals about the valuation.
type ValuationFlags struct {
	HighConfidence           bool `json:"high_confidence"`
	MarketStable             bool `json:"market_stable"`
	ComparableDataSufficient bool `json:"comparable_data_sufficient"`
}

// Valuation is the canonical property valuation record. Created fresh per
// request and never mutated afterwards.
type Valuation struct {
	EstimatedValue  float64         `json:"estimated_value"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	ConfidenceScore float64         `json:"confidence_score"`
	Range           ValuationRange  `json:"valuation_range"`
	Flags           ValuationFlags  `json:"valuation_flags"`
	Source          ValuationSource `json:"source"`
}

// LTVRiskAssessment is the risk classification derived from the LTV ratio.
type LTVRiskAssessment struct {
	RiskLevel         RiskLevel `json:"risk_level"`
	RiskFactors       []string  `json:"risk_factors"`
	RequiresPMI       bool      `json:"requires_pmi"`
	RecommendedAction string    `json:"recommended_action"`
}

// LTVAnalysis relates the requested loan amount to the appraised value.
type LTVAnalysis struct {
	LTVAvailable           bool               `json:"ltv_available"`
	EstimatedPropertyValue float64            `json:"estimated_property_value,omitempty"`
	LoanAmount             float64            `json:"loan_amount,omitempty"`
	LTVRatio               float64            `json:"ltv_ratio,omitempty"`
	LTVPercentage          float64            `json:"ltv_percentage,omitempty"`
	ConfidenceLevel        ConfidenceLevel    `json:"confidence_level,omitempty"`
	ConfidenceScore        float64            `json:"confidence_score,omitempty"`
	ValuationRange         *ValuationRange    `json:"valuation_range,omitempty"`
	RiskAssessment         *LTVRiskAssessment `json:"ltv_risk_assessment,omitempty"`
}
