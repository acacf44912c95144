package bench

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverant/nexus/ocrbench-worker/internal/metrics"
)

func sampleReport() *Report {
	return &Report{
		RunID:     "f6f2f8f0-0000-4000-8000-000000000001",
		CreatedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Rows: []MetricRow{
			{
				Model:       "tesseract",
				Page:        1,
				GTLenChars:  11,
				HypLenChars: 11,
				Metrics:     metrics.Compute("hello world", "hello world"),
			},
			{
				Model:       "tesseract",
				Page:        2,
				GTLenChars:  0,
				HypLenChars: 4,
				Metrics:     metrics.NotApplicable(),
				Hypothesis:  "text",
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	require.Len(t, records[1], len(Columns))

	assert.Equal(t, "tesseract", records[1][0])
	assert.Equal(t, "1", records[1][1])
	assert.Equal(t, "0", records[1][4], "cer")
	assert.Equal(t, "1", records[1][6], "char_acc")

	// Sentinel rows keep the identifying columns and blank out metrics.
	assert.Equal(t, "tesseract", records[2][0])
	assert.Equal(t, "2", records[2][1])
	assert.Equal(t, "0", records[2][2])
	assert.Equal(t, "4", records[2][3])
	for i := 4; i < len(Columns); i++ {
		assert.Equal(t, "", records[2][i], "column %s", Columns[i])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteJSON(&buf))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "tesseract", rows[0]["model"])
	assert.Equal(t, float64(1), rows[0]["page"])
	assert.Equal(t, float64(0), rows[0]["cer"])
	assert.Equal(t, float64(1), rows[0]["char_acc"])

	for _, key := range []string{"cer", "wer", "char_acc", "word_acc", "levenshtein_dist", "fuzz_ratio", "bleu", "rougeL_f1", "substitutions", "deletions", "insertions"} {
		value, present := rows[1][key]
		require.True(t, present, "key %s", key)
		assert.Nil(t, value, "key %s must be null for sentinel rows", key)
	}
	assert.Equal(t, float64(4), rows[1]["hyp_len_chars"])
}

func TestCSVColumnsMatchJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteJSON(&buf))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))

	for _, col := range Columns {
		_, present := rows[0][col]
		assert.True(t, present, "column %s missing from JSON rows", col)
	}
}
