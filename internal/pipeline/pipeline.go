// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"mortgage-workers/internal/common/config"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/common/metrics"
	"mortgage-workers/internal/common/observability"
	"mortgage-workers/internal/models"
	"mortgage-workers/internal/stages/credit"
	"mortgage-workers/internal/stages/decision"
	"mortgage-workers/internal/stages/income"
	"mortgage-workers/internal/stages/risk"
	"mortgage-workers/internal/stages/validation"
	"mortgage-workers/internal/valuation"
)

// Execution strategies.
const (
	StrategySequential  = "sequential"
	StrategyConditional = "conditional"
)

const valuationStepCompleted = "property_valuation_completed"

// varianceThreshold is the relative difference between stated and
// appraised value that triggers substitution of the appraised value.
const varianceThreshold = 0.10

// Pipeline runs the full underwriting flow over one application record.
// The caller hands over the record for the duration of a run; Pipeline
// itself keeps no per-run state and is safe for concurrent use.
type Pipeline struct {
	validation *validation.Handler
	credit     *credit.Handler
	income     *income.Handler
	risk       *risk.Handler
	decision   *decision.Handler

	valuationClient valuation.Client
	assessor        *valuation.Assessor
	valuationCfg    config.ValuationConfig

	strategy string
	logger   logger.Logger
	obs      *observability.Observability
}

// New wires the five stages and the valuation subsystem. valuationClient
// may be nil when valuation is disabled; obs may be nil.
func New(cfg *config.Config, valuationClient valuation.Client, obs *observability.Observability, log logger.Logger) *Pipeline {
	strategy := cfg.Decision.Strategy
	if strategy == "" {
		strategy = StrategySequential
	}

	return &Pipeline{
		validation: validation.NewHandler(validation.LoadConfig(), log),
		credit:     credit.NewHandler(credit.LoadConfig(), log),
		income: income.NewHandler(&income.Config{
			MaxPaymentToIncomeRatio: cfg.Decision.MaxPaymentToIncomeRatio,
		}, log),
		risk: risk.NewHandler(&risk.Config{
			MaxDebtToIncomeRatio: cfg.Decision.MaxDebtToIncomeRatio,
			PMIThreshold:         cfg.Decision.PMIThreshold,
		}, log),
		decision: decision.NewHandler(decision.LoadConfig(), log),

		valuationClient: valuationClient,
		assessor:        valuation.NewAssessor(cfg.Decision.MaxLoanToValueRatio, cfg.Decision.PMIThreshold),
		valuationCfg:    cfg.Valuation,

		strategy: strategy,
		logger:   log.WithFields(map[string]interface{}{"component": "pipeline"}),
		obs:      obs,
	}
}

// Run executes the pipeline and always returns a complete record with a
// final decision, even when a stage fails internally.
func (p *Pipeline) Run(ctx context.Context, app *models.Application) (result *models.Application) {
	start := time.Now()
	if app.Warnings == nil {
		app.Warnings = []string{}
	}
	if app.Errors == nil {
		app.Errors = []string{}
	}
	result = app

	defer func() {
		if r := recover(); r != nil {
			p.applySafeDecision(app, fmt.Errorf("%v", r))
		}
		p.record(ctx, app, time.Since(start))
	}()

	p.logger.Info("pipeline run started", map[string]interface{}{
		"applicant": app.ApplicantName,
		"strategy":  p.strategy,
	})

	validationResult, err := p.timed("data_validation", func() (interface{}, error) {
		return p.validation.Execute(ctx, app)
	})
	if err != nil {
		p.applySafeDecision(app, err)
		return app
	}
	app.DataValidation = validationResult.(*models.DataValidationResult)
	app.Warnings = append(app.Warnings, app.DataValidation.Warnings...)
	app.CurrentStep = validation.StepCompleted

	if p.strategy == StrategyConditional && app.DataValidation.Status != models.StatusPass {
		p.finalize(ctx, app)
		return app
	}

	creditResult, err := p.timed("credit_assessment", func() (interface{}, error) {
		return p.credit.Execute(ctx, app)
	})
	if err != nil {
		p.applySafeDecision(app, err)
		return app
	}
	app.CreditAssessment = creditResult.(*models.CreditAssessmentResult)
	app.CurrentStep = credit.StepCompleted

	if p.strategy == StrategyConditional && app.CreditAssessment.CreditGrade == models.GradeF {
		p.finalize(ctx, app)
		return app
	}

	incomeResult, err := p.timed("income_verification", func() (interface{}, error) {
		return p.income.Execute(ctx, app)
	})
	if err != nil {
		p.applySafeDecision(app, err)
		return app
	}
	app.IncomeVerification = incomeResult.(*models.IncomeVerificationResult)
	app.CurrentStep = income.StepCompleted

	if p.valuationCfg.Enabled && p.valuationClient != nil {
		p.runValuation(ctx, app)
		if p.strategy == StrategyConditional && app.PropertyValuation != nil &&
			app.PropertyValuation.Status == models.StatusError {
			p.finalize(ctx, app)
			return app
		}
	}

	riskResult, err := p.timed("risk_analysis", func() (interface{}, error) {
		return p.risk.Execute(ctx, app)
	})
	if err != nil {
		p.applySafeDecision(app, err)
		return app
	}
	app.RiskAnalysis = riskResult.(*models.RiskAnalysisResult)
	app.CurrentStep = risk.StepCompleted

	p.finalize(ctx, app)
	return app
}

// runValuation obtains a valuation, attaches the sub-record and applies
// the appraised value when it diverges from the stated one. The client
// contract guarantees a usable valuation via its fallback, so the ERROR
// status here covers only a failing client implementation.
func (p *Pipeline) runValuation(ctx context.Context, app *models.Application) {
	stageStart := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("property_valuation").Observe(time.Since(stageStart).Seconds())
	}()

	v, err := p.valuationClient.RequestValuation(ctx, &valuation.Request{
		Property:        app.Property,
		LoanAmount:      app.LoanAmount,
		RequestingParty: app.ApplicantName,
	})
	if err != nil || v == nil {
		msg := "valuation client returned no result"
		if err != nil {
			msg = err.Error()
		}
		app.AddError(fmt.Sprintf("Property valuation failed: %s", msg))
		app.PropertyValuation = &models.PropertyValuationResult{
			Status:       models.StatusError,
			ErrorMessage: msg,
		}
		app.CurrentStep = valuationStepCompleted
		return
	}

	valuationRange := v.Range
	app.PropertyValuation = &models.PropertyValuationResult{
		Status:          models.StatusSuccess,
		AppraisedValue:  v.EstimatedValue,
		ConfidenceLevel: v.ConfidenceLevel,
		ConfidenceScore: v.ConfidenceScore,
		ValuationRange:  &valuationRange,
		Flags:           v.Flags,
		LTVAnalysis:     p.assessor.BuildAnalysis(app.LoanAmount, v),
		Source:          v.Source,
	}
	app.CurrentStep = valuationStepCompleted

	if belowMinConfidence(v.ConfidenceLevel, p.valuationCfg.MinConfidence) {
		app.AddWarning(fmt.Sprintf("Valuation confidence %s is below the required %s",
			v.ConfidenceLevel, p.valuationCfg.MinConfidence))
	}

	if app.PropertyValue > 0 && v.EstimatedValue > 0 {
		variance := (v.EstimatedValue - app.PropertyValue) / app.PropertyValue
		if variance > varianceThreshold || variance < -varianceThreshold {
			app.AddWarning(fmt.Sprintf("Appraised value ($%.0f) differs from stated value ($%.0f) by more than 10%%",
				v.EstimatedValue, app.PropertyValue))
			app.PropertyValue = v.EstimatedValue
		}
	} else if app.PropertyValue <= 0 && v.EstimatedValue > 0 {
		app.PropertyValue = v.EstimatedValue
	}
}

// finalize runs the terminal decision stage and applies its outcome.
func (p *Pipeline) finalize(ctx context.Context, app *models.Application) {
	result, err := p.timed("final_decision", func() (interface{}, error) {
		return p.decision.Execute(ctx, app)
	})
	if err != nil {
		p.applySafeDecision(app, err)
		return
	}

	d := result.(*decision.Result)
	app.FinalDecision = d.Decision
	app.DecisionReason = d.Reason
	app.ConfidenceScore = d.Confidence
	app.CurrentStep = decision.StepCompleted
}

// applySafeDecision converts an internal failure into a well-formed
// terminal state. Unpopulated sub-records are filled with placeholders
// so callers always see the full shape.
func (p *Pipeline) applySafeDecision(app *models.Application, cause error) {
	p.logger.WithError(cause).Error("pipeline run failed, applying safe decision", map[string]interface{}{
		"applicant": app.ApplicantName,
	})

	app.AddError(fmt.Sprintf("System error: %s", cause))
	app.FinalDecision = models.DecisionRejected
	app.DecisionReason = fmt.Sprintf("Application rejected due to system error: %s", cause)
	app.ConfidenceScore = 0
	app.CurrentStep = decision.StepCompleted

	if app.DataValidation == nil {
		app.DataValidation = &models.DataValidationResult{Status: models.StatusNotCompleted}
	}
	if app.CreditAssessment == nil {
		app.CreditAssessment = &models.CreditAssessmentResult{Status: models.StatusNotCompleted}
	}
	if app.IncomeVerification == nil {
		app.IncomeVerification = &models.IncomeVerificationResult{Status: models.StatusNotCompleted}
	}
	if p.valuationCfg.Enabled && app.PropertyValuation == nil {
		app.PropertyValuation = &models.PropertyValuationResult{Status: models.StatusNotCompleted}
	}
	if app.RiskAnalysis == nil {
		app.RiskAnalysis = &models.RiskAnalysisResult{Status: models.StatusNotCompleted}
	}
}

func (p *Pipeline) record(ctx context.Context, app *models.Application, elapsed time.Duration) {
	metrics.PipelineRunsTotal.WithLabelValues(string(app.FinalDecision)).Inc()
	metrics.PipelineRunDuration.WithLabelValues(p.strategy).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordApplicationProcessed(ctx, string(app.FinalDecision))
		p.obs.RecordApplicationDuration(ctx, elapsed, string(app.FinalDecision))
	}

	p.logger.Info("pipeline run finished", map[string]interface{}{
		"applicant":  app.ApplicantName,
		"decision":   app.FinalDecision,
		"confidence": app.ConfidenceScore,
		"durationMs": elapsed.Milliseconds(),
	})
}

func (p *Pipeline) timed(stage string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return result, err
}

// confidenceRank orders confidence levels for threshold comparison.
var confidenceRank = map[models.ConfidenceLevel]int{
	models.ConfidenceLow:    1,
	models.ConfidenceMedium: 2,
	models.ConfidenceHigh:   3,
}

func belowMinConfidence(level models.ConfidenceLevel, minimum string) bool {
	if minimum == "" {
		return false
	}
	levelRank, ok := confidenceRank[level]
	if !ok {
		return false
	}
	minRank, ok := confidenceRank[models.ConfidenceLevel(minimum)]
	if !ok {
		return false
	}
	return levelRank < minRank
}
