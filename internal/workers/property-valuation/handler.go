// internal/workers/property-valuation/handler.go
package propertyvaluation

import (
	"context"
	"encoding/json"
	"time"

	"mortgage-workers/internal/common/errors"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/common/metrics"
	"mortgage-workers/internal/valuation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "property-valuation"

// Handler exposes the valuation subsystem as a standalone job worker so
// process models can request an appraisal outside a full pipeline run.
type Handler struct {
	config   *Config
	client   valuation.Client
	assessor *valuation.Assessor
	logger   logger.Logger
}

func NewHandler(config *Config, client valuation.Client, assessor *valuation.Assessor, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		client:   client,
		assessor: assessor,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewApplicationParseFailedError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, errors.NewValuationFailedError(err.Error()))
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	v, err := h.client.RequestValuation(ctx, &valuation.Request{
		Property:   input.Property,
		LoanAmount: input.LoanAmount,
		RequestID:  input.RequestID,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{Valuation: v}
	if input.LoanAmount > 0 {
		output.LTVAnalysis = h.assessor.BuildAnalysis(input.LoanAmount, v)
	}

	h.logger.Info("valuation completed", map[string]interface{}{
		"estimatedValue": v.EstimatedValue,
		"confidence":     v.ConfidenceLevel,
		"source":         v.Source,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *errors.StandardError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    stdErr.Code,
		"errorMessage": stdErr.Message,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()

	bpmnErr := errors.ConvertToBPMNError(stdErr)
	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}
