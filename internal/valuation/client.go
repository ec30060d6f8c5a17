// internal/valuation/client.go
package valuation

import (
	"context"

	"mortgage-workers/internal/common/metrics"
	"mortgage-workers/internal/models"
)

// Request describes a single valuation. RequestID is assigned by the
// client when empty.
type Request struct {
	Property        *models.PropertyInfo `json:"property"`
	LoanAmount      float64              `json:"loan_amount"`
	RequestID       string               `json:"request_id,omitempty"`
	RequestingParty string               `json:"requesting_party,omitempty"`
}

// Client obtains a property valuation. Implementations must be safe for
// concurrent use.
type Client interface {
	RequestValuation(ctx context.Context, req *Request) (*models.Valuation, error)
}

// MockClient answers every request from the deterministic estimator.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) RequestValuation(_ context.Context, req *Request) (*models.Valuation, error) {
	var property *models.PropertyInfo
	if req != nil {
		property = req.Property
	}
	v := Estimate(property)
	metrics.ValuationRequests.WithLabelValues(string(models.SourceMock), "success").Inc()
	return &v, nil
}
