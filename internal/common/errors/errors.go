// Package errors provides standardized error handling for the mortgage decision pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation faults: malformed or out-of-range application input.
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeApplicationParseFailed      ErrorCode = "APPLICATION_PARSE_FAILED"

	// Valuation faults: external property valuation call failed. Always
	// recovered locally by the fallback estimator, never fatal on their own.
	ErrCodeValuationTimeout     ErrorCode = "PROPERTY_VALUATION_TIMEOUT"
	ErrCodeValuationUnavailable ErrorCode = "PROPERTY_VALUATION_UNAVAILABLE"
	ErrCodeValuationMalformed   ErrorCode = "PROPERTY_VALUATION_MALFORMED"
	ErrCodeValuationFailed      ErrorCode = "PROPERTY_VALUATION_FAILED"

	// System faults: unexpected failures inside a stage.
	ErrCodeStageFailed ErrorCode = "STAGE_EXECUTION_FAILED"
	ErrCodeSystemError ErrorCode = "SYSTEM_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewApplicationValidationFailedError creates a non-retryable validation fault.
func NewApplicationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationParseFailedError creates a non-retryable parse fault.
func NewApplicationParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationParseFailed,
		Message:   "Application payload could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValuationTimeoutError creates a retryable valuation timeout fault.
func NewValuationTimeoutError(endpoint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValuationTimeout,
		Message:   "Property valuation request timed out",
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValuationUnavailableError creates a retryable valuation connectivity fault.
func NewValuationUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeValuationUnavailable,
		Message:   "Property valuation service unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValuationMalformedError creates a non-retryable malformed response fault.
func NewValuationMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValuationMalformed,
		Message:   "Property valuation response missing required fields",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValuationFailedError creates a non-retryable terminal valuation fault.
// This only surfaces when the local fallback estimator itself cannot run.
func NewValuationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValuationFailed,
		Message:   "Property valuation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStageFailedError creates a system fault for an unexpected stage failure.
func NewStageFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStageFailed,
		Message:   fmt.Sprintf("Stage '%s' failed", stage),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSystemError(context string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSystemError,
		Message:   fmt.Sprintf("System error in %s", context),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeApplicationValidationFailed: "APPLICATION_VALIDATION_FAILED",
	ErrCodeApplicationParseFailed:      "APPLICATION_PARSE_FAILED",
	ErrCodeValuationTimeout:            "PROPERTY_VALUATION_TIMEOUT",
	ErrCodeValuationUnavailable:        "PROPERTY_VALUATION_UNAVAILABLE",
	ErrCodeValuationMalformed:          "PROPERTY_VALUATION_MALFORMED",
	ErrCodeValuationFailed:             "PROPERTY_VALUATION_FAILED",
	ErrCodeStageFailed:                 "STAGE_EXECUTION_FAILED",
	ErrCodeSystemError:                 "SYSTEM_ERROR",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeValuationUnavailable:
		return 3 // Retryable technical errors

	case ErrCodeValuationTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALUATION"):
		return "VALUATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "STAGE") || strings.Contains(codeStr, "SYSTEM"):
		return "SYSTEM"
	default:
		return "OTHER"
	}
}
