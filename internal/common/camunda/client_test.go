package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-workers/internal/common/errors"
)

func testClient() *Client {
	return &Client{
		config: &ClientConfig{
			GatewayAddress:    "127.0.0.1:26500",
			ConnectionTimeout: time.Second,
			RetryConfig: &RetryConfig{
				MaxRetries: 3,
				BaseDelay:  time.Millisecond,
				MaxDelay:   5 * time.Millisecond,
			},
		},
	}
}

func TestExecuteWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	client := testClient()

	attempts := 0
	result, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("connection refused")
		}
		return "ok", nil
	}, "deploy-process")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	client := testClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("INVALID_ARGUMENT: variables must be a JSON object")
	}, "complete-job")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	client := testClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("deadline exceeded")
	}, "create-instance")

	require.Error(t, err)
	assert.Equal(t, 4, attempts)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
}

func TestExecuteWithRetry_RespectsContextCancellation(t *testing.T) {
	client := testClient()
	client.config.RetryConfig.BaseDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fmt.Errorf("unavailable")
	}, "topology")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), true},
		{"deadline exceeded", fmt.Errorf("context deadline exceeded"), true},
		{"broker unavailable", fmt.Errorf("rpc error: code = Unavailable"), true},
		{"validation rejection", fmt.Errorf("INVALID_ARGUMENT"), false},
		{"not found", fmt.Errorf("NOT_FOUND: no such process"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableZeebeError(tt.err))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	client := testClient()

	timeoutErr := client.mapZeebeError(fmt.Errorf("request timeout"), "complete-job", 0)
	stdErr, ok := timeoutErr.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.True(t, stdErr.Retryable)

	existsErr := client.mapZeebeError(fmt.Errorf("process already exists"), "deploy", 0)
	stdErr, ok = existsErr.(*errors.StandardError)
	require.True(t, ok)
	assert.False(t, stdErr.Retryable)
}
