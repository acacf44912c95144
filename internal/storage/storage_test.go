package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverant/nexus/ocrbench-worker/internal/bench"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/metrics"
)

func TestMetricArgsSentinel(t *testing.T) {
	row := bench.MetricRow{Model: "tesseract", Page: 2, Metrics: metrics.NotApplicable()}

	args := metricArgs(row)
	require.Len(t, args, 11)
	for i, arg := range args {
		assert.Nil(t, arg, "arg %d", i)
	}
}

func TestMetricArgsApplicable(t *testing.T) {
	row := bench.MetricRow{
		Model:   "tesseract",
		Page:    1,
		Metrics: metrics.Compute("hello world", "hello world"),
	}

	args := metricArgs(row)
	require.Len(t, args, 11)
	assert.Equal(t, 0.0, args[0], "cer")
	assert.Equal(t, 1.0, args[2], "char_acc")
	assert.Equal(t, 0, args[4], "levenshtein_dist")
	assert.Equal(t, 0, args[8], "substitutions")
}

func TestNewPostgresSinkRequiresURL(t *testing.T) {
	_, err := NewPostgresSink("")
	assert.Error(t, err)
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	logger := logging.NewLoggerTo(&bytes.Buffer{}, "test")
	_, err := NewRedisCache("not-a-url", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Redis URL")
}

func TestCacheKeyIsContentAddressed(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "page-1.png")
	pathB := filepath.Join(dir, "page-1-copy.png")
	require.NoError(t, os.WriteFile(pathA, []byte("same bytes"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("same bytes"), 0o644))

	c := &RedisCache{}

	keyA, err := c.cacheKey("tesseract", pathA)
	require.NoError(t, err)
	keyB, err := c.cacheKey("tesseract", pathB)
	require.NoError(t, err)
	assert.Equal(t, keyA, keyB, "identical content hashes to the same key")
	assert.True(t, strings.HasPrefix(keyA, "ocrbench:hyp:tesseract:"))

	require.NoError(t, os.WriteFile(pathB, []byte("different bytes"), 0o644))
	keyB, err = c.cacheKey("tesseract", pathB)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, keyB)

	keyOther, err := c.cacheKey("gemini", pathA)
	require.NoError(t, err)
	assert.NotEqual(t, keyA, keyOther, "keys are namespaced per engine")

	_, err = c.cacheKey("tesseract", filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
