/**
 * Custom error types for the OCR benchmark worker
 *
 * Only configuration and input-resolution faults are fatal. Engine
 * construction and engine runtime faults are recovered locally by the
 * registry and the orchestrator so that one broken engine or one bad page
 * never loses the rest of the benchmark.
 */

package errors

import (
	"fmt"
	"time"
)

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Fatal before any page work
	ErrorConfiguration   ErrorCode = "CONFIGURATION_ERROR"
	ErrorInputResolution ErrorCode = "INPUT_RESOLUTION_ERROR"

	// Recovered locally
	ErrorEngineConstruction ErrorCode = "ENGINE_CONSTRUCTION_FAILED"
	ErrorEngineRuntime      ErrorCode = "ENGINE_RUNTIME_FAILED"

	// Report sink errors (non-fatal to the in-memory report)
	ErrorStorageFailed ErrorCode = "STORAGE_FAILED"
)

// BenchmarkError represents a structured benchmark error
type BenchmarkError struct {
	Code      ErrorCode
	Message   string
	RunID     string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *BenchmarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BenchmarkError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether the error must halt the run before any page work
func (e *BenchmarkError) IsFatal() bool {
	return e.Code == ErrorConfiguration || e.Code == ErrorInputResolution
}

// Factory functions for common errors

func NewConfigurationError(message string) *BenchmarkError {
	return &BenchmarkError{
		Code:      ErrorConfiguration,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewInputResolutionError(path string, cause error) *BenchmarkError {
	return &BenchmarkError{
		Code:      ErrorInputResolution,
		Message:   fmt.Sprintf("required input not found: %s", path),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func NewEngineConstructionError(engine string, cause error) *BenchmarkError {
	return &BenchmarkError{
		Code:      ErrorEngineConstruction,
		Message:   fmt.Sprintf("failed to construct engine: %s", engine),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"engine": engine,
		},
		Cause: cause,
	}
}

func NewEngineRuntimeError(engine string, page int, cause error) *BenchmarkError {
	return &BenchmarkError{
		Code:      ErrorEngineRuntime,
		Message:   fmt.Sprintf("engine %s failed on page %d", engine, page),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"engine": engine,
			"page":   page,
		},
		Cause: cause,
	}
}

func NewStorageFailedError(runID string, cause error) *BenchmarkError {
	return &BenchmarkError{
		Code:      ErrorStorageFailed,
		Message:   "failed to persist benchmark report",
		RunID:     runID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// ToMap converts the error to a map for structured logging or storage
func (e *BenchmarkError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	if e.RunID != "" {
		result["run_id"] = e.RunID
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
