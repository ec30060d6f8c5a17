// internal/models/application.go
package models

// Decision is the terminal outcome of a pipeline run.
type Decision string

const (
	DecisionApproved      Decision = "APPROVED"
	DecisionRejected      Decision = "REJECTED"
	DecisionPendingReview Decision = "PENDING_REVIEW"
)

// StageStatus reports how a stage sub-record was produced.
type StageStatus string

const (
	StatusPass         StageStatus = "PASS"
	StatusFail         StageStatus = "FAIL"
	StatusCompleted    StageStatus = "COMPLETED"
	StatusSuccess      StageStatus = "SUCCESS"
	StatusError        StageStatus = "ERROR"
	StatusSkipped      StageStatus = "SKIPPED"
	StatusNotCompleted StageStatus = "NOT_COMPLETED"
)

// RiskLevel classifies assessed risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// CreditGrade is the letter grade assigned by the credit assessment stage.
type CreditGrade string

const (
	GradeA CreditGrade = "A"
	GradeB CreditGrade = "B"
	GradeC CreditGrade = "C"
	GradeD CreditGrade = "D"
	GradeF CreditGrade = "F"
)

// EmploymentStability classifies employment history length.
type EmploymentStability string

const (
	EmploymentStable   EmploymentStability = "STABLE"
	EmploymentModerate EmploymentStability = "MODERATE"
	EmploymentUnstable EmploymentStability = "UNSTABLE"
)

// IncomeAdequacy classifies the payment-to-income ratio.
type IncomeAdequacy string

const (
	IncomeSufficient   IncomeAdequacy = "SUFFICIENT"
	IncomeInsufficient IncomeAdequacy = "INSUFFICIENT"
)

// PropertyType enumerates supported property categories.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyOther        PropertyType = "other"
)

// PropertyInfo describes the property backing the loan. Only the valuation
// subsystem consumes it; every field is optional.
type PropertyInfo struct {
	Address       string       `json:"property_address,omitempty"`
	Type          PropertyType `json:"property_type,omitempty"`
	SquareFootage float64      `json:"square_footage,omitempty"`
	Bedrooms      int          `json:"bedrooms,omitempty"`
	Bathrooms     float64      `json:"bathrooms,omitempty"`
	YearBuilt     int          `json:"year_built,omitempty"`
	LotSize       float64      `json:"lot_size,omitempty"`
}

// Application is the single record threaded through the pipeline. Stages
// receive it and return their typed sub-record; the orchestrator attaches
// results and owns the record for the duration of one run.
type Application struct {
	ID string `json:"application_id,omitempty"`

	ApplicantName     string  `json:"applicant_name"`
	CreditScore       int     `json:"credit_score"`
	AnnualIncome      float64 `json:"annual_income"`
	EmploymentYears   float64 `json:"employment_years"`
	LoanAmount        float64 `json:"loan_amount"`
	PropertyValue     float64 `json:"property_value"`
	DownPayment       float64 `json:"down_payment"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`

	Property *PropertyInfo `json:"property,omitempty"`

	DataValidation     *DataValidationResult     `json:"data_validation_result,omitempty"`
	CreditAssessment   *CreditAssessmentResult   `json:"credit_assessment_result,omitempty"`
	IncomeVerification *IncomeVerificationResult `json:"income_verification_result,omitempty"`
	PropertyValuation  *PropertyValuationResult  `json:"property_valuation_result,omitempty"`
	RiskAnalysis       *RiskAnalysisResult       `json:"risk_analysis_result,omitempty"`

	FinalDecision   Decision `json:"final_decision,omitempty"`
	DecisionReason  string   `json:"decision_reason,omitempty"`
	ConfidenceScore float64  `json:"confidence_score"`

	CurrentStep string   `json:"current_step,omitempty"`
	Warnings    []string `json:"warnings"`
	Errors      []string `json:"errors"`
}

// AddWarning appends a non-fatal issue to the record.
func (a *Application) AddWarning(msg string) {
	a.Warnings = append(a.Warnings, msg)
}

// AddError appends a fatal issue to the record.
func (a *Application) AddError(msg string) {
	a.Errors = append(a.Errors, msg)
}

// DataValidationResult is produced by the data validation stage.
type DataValidationResult struct {
	Status   StageStatus `json:"status"`
	Issues   []string    `json:"issues"`
	Warnings []string    `json:"warnings"`
}

// CreditAssessmentResult is produced by the credit assessment stage.
type CreditAssessmentResult struct {
	Status              StageStatus         `json:"status"`
	CreditGrade         CreditGrade         `json:"credit_grade"`
	RiskLevel           RiskLevel           `json:"risk_level"`
	CreditScore         int                 `json:"credit_score"`
	EmploymentStability EmploymentStability `json:"employment_stability"`
}

// IncomeVerificationResult is produced by the income verification stage.
type IncomeVerificationResult struct {
	Status                  StageStatus         `json:"status"`
	MonthlyIncome           float64             `json:"monthly_income"`
	EstimatedMonthlyPayment float64             `json:"estimated_monthly_payment"`
	PaymentToIncomeRatio    float64             `json:"payment_to_income_ratio"`
	IncomeAdequacy          IncomeAdequacy      `json:"income_adequacy"`
	EmploymentStability     EmploymentStability `json:"employment_stability"`
	Concerns                []string            `json:"concerns"`
}

// PropertyValuationResult is the valuation sub-record merged into the
// application after the valuation step.
type PropertyValuationResult struct {
	Status          StageStatus     `json:"status"`
	AppraisedValue  float64         `json:"appraised_value"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	ConfidenceScore float64         `json:"confidence_score"`
	ValuationRange  *ValuationRange `json:"valuation_range,omitempty"`
	Flags           ValuationFlags  `json:"valuation_flags"`
	LTVAnalysis     *LTVAnalysis    `json:"ltv_analysis,omitempty"`
	Source          ValuationSource `json:"source,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// RiskAnalysisResult is produced by the risk analysis stage.
type RiskAnalysisResult struct {
	Status             StageStatus `json:"status"`
	LoanToValueRatio   float64     `json:"loan_to_value_ratio"`
	DownPaymentPercent float64     `json:"down_payment_percent"`
	OverallRisk        RiskLevel   `json:"overall_risk"`
	RiskFactors        []string    `json:"risk_factors"`
	RequiresPMI        bool        `json:"requires_pmi"`
}
