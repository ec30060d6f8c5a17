// internal/valuation/live.go
package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mortgage-workers/internal/common/config"
	"mortgage-workers/internal/common/httpclient"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/common/metrics"
	"mortgage-workers/internal/models"

	"github.com/google/uuid"
)

// agentResponse is the wire format returned by the valuation service.
// Pointer fields distinguish absent from zero; all four are required.
type agentResponse struct {
	EstimatedValue  *float64               `json:"estimated_value"`
	ConfidenceLevel *string                `json:"confidence_level"`
	ConfidenceScore *float64               `json:"confidence_score"`
	ValuationRange  *models.ValuationRange `json:"valuation_range"`
	ValuationFlags  *models.ValuationFlags `json:"valuation_flags"`
}

// LiveClient calls the external valuation agents. Agents are tried in
// configured order, one attempt each; when every agent fails the client
// falls back to the deterministic estimator rather than returning an
// error, so valuation never blocks the pipeline.
type LiveClient struct {
	baseURL    string
	apiKey     string
	agentIDs   []string
	timeout    time.Duration
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewLiveClient(cfg config.ValuationConfig, log logger.Logger) *LiveClient {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LiveClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		agentIDs:   cfg.AgentIDs,
		timeout:    timeout,
		httpClient: httpclient.NewClient(timeout),
		logger:     log.WithFields(map[string]interface{}{"component": "valuation_live_client"}),
	}
}

func (c *LiveClient) RequestValuation(ctx context.Context, req *Request) (*models.Valuation, error) {
	if req == nil {
		req = &Request{}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for _, agentID := range c.agentIDs {
		v, err := c.invokeAgent(ctx, agentID, req)
		if err == nil {
			metrics.ValuationRequests.WithLabelValues(string(models.SourceLive), "success").Inc()
			return v, nil
		}

		c.logger.Warn("valuation agent failed", map[string]interface{}{
			"agentId":   agentID,
			"requestId": req.RequestID,
			"error":     err.Error(),
		})
		metrics.ValuationRequests.WithLabelValues(string(models.SourceLive), "error").Inc()

		// No point trying the next agent once the deadline passed.
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.Warn("all valuation agents exhausted, using estimator", map[string]interface{}{
		"requestId": req.RequestID,
	})
	metrics.ValuationRequests.WithLabelValues(string(models.SourceMock), "fallback").Inc()
	fallback := Estimate(req.Property)
	return &fallback, nil
}

func (c *LiveClient) invokeAgent(ctx context.Context, agentID string, req *Request) (*models.Valuation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize valuation request: %w", err)
	}

	invokeURL := fmt.Sprintf("%s/agents/%s/invoke", c.baseURL, agentID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", invokeURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create agent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-ID", req.RequestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}

	var parsed agentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("malformed agent response: %w", err)
	}
	if parsed.EstimatedValue == nil || parsed.ConfidenceLevel == nil ||
		parsed.ConfidenceScore == nil || parsed.ValuationRange == nil {
		return nil, fmt.Errorf("malformed agent response: missing required fields")
	}

	v := &models.Valuation{
		EstimatedValue:  *parsed.EstimatedValue,
		ConfidenceLevel: models.ConfidenceLevel(*parsed.ConfidenceLevel),
		ConfidenceScore: *parsed.ConfidenceScore,
		Range:           *parsed.ValuationRange,
		Source:          models.SourceLive,
	}
	if parsed.ValuationFlags != nil {
		v.Flags = *parsed.ValuationFlags
	}
	return v, nil
}
