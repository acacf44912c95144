package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatality(t *testing.T) {
	assert.True(t, NewConfigurationError("duplicate engine name").IsFatal())
	assert.True(t, NewInputResolutionError("missing.pdf", errors.New("no such file")).IsFatal())

	assert.False(t, NewEngineConstructionError("tesseract", errors.New("lib not found")).IsFatal())
	assert.False(t, NewEngineRuntimeError("tesseract", 3, errors.New("timeout")).IsFatal())
	assert.False(t, NewStorageFailedError("run-1", errors.New("connection refused")).IsFatal())
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := NewEngineRuntimeError("tesseract", 3, cause)

	assert.Contains(t, err.Error(), "ENGINE_RUNTIME_FAILED")
	assert.Contains(t, err.Error(), "page 3")
	assert.Contains(t, err.Error(), "timeout")
	assert.ErrorIs(t, err, cause)
}

func TestErrorAsThroughWrapping(t *testing.T) {
	inner := NewInputResolutionError("ground_truth.json", errors.New("no such file"))
	wrapped := fmt.Errorf("loading references: %w", inner)

	var benchErr *BenchmarkError
	require.ErrorAs(t, wrapped, &benchErr)
	assert.Equal(t, ErrorInputResolution, benchErr.Code)
}

func TestToMap(t *testing.T) {
	err := NewEngineRuntimeError("tesseract", 3, errors.New("timeout"))
	err.RunID = "run-1"

	m := err.ToMap()
	assert.Equal(t, "ENGINE_RUNTIME_FAILED", m["error_code"])
	assert.Equal(t, "run-1", m["run_id"])
	assert.Equal(t, "tesseract", m["engine"])
	assert.Equal(t, 3, m["page"])
	assert.Equal(t, "timeout", m["cause"])
	assert.NotNil(t, m["timestamp"])
}
