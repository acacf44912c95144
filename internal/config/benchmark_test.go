package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "benchmark_run": {
    "default_pdf": "sample_data/report.pdf",
    "default_ground_truth": "sample_data/ground_truth.json",
    "models": {
      "gemini-2.5-flash": {"runner": "gemini_api", "enabled": true, "params": {"model": "gemini-2.5-flash"}},
      "tesseract": {"runner": "tesseract", "enabled": true, "params": {"languages": ["eng", "deu"]}},
      "apple-vision": {"runner": "vision_api", "enabled": false},
      "easyocr": {"runner": "command", "enabled": true, "params": {"command": "easyocr"}}
    }
  }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBenchmarkFileDefaults(t *testing.T) {
	file, err := LoadBenchmarkFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "sample_data/report.pdf", file.BenchmarkRun.DefaultPDF)
	assert.Equal(t, "results", file.BenchmarkRun.DefaultOutDir)
	assert.Equal(t, 150, file.BenchmarkRun.DPI)
	assert.Equal(t, "gemini-2.5-pro", file.GroundTruth.ModelName)
	assert.Equal(t, 300, file.GroundTruth.DPI)
}

func TestLoadBenchmarkFileMissing(t *testing.T) {
	_, err := LoadBenchmarkFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadBenchmarkFileInvalidJSON(t *testing.T) {
	_, err := LoadBenchmarkFile(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestEnabledSpecsDeclarationOrder(t *testing.T) {
	file, err := LoadBenchmarkFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	specs := file.BenchmarkRun.EnabledSpecs()
	require.Len(t, specs, 3, "disabled models are skipped")

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	assert.Equal(t, []string{"gemini-2.5-flash", "tesseract", "easyocr"}, names)

	assert.Equal(t, "gemini_api", specs[0].Runner)
	assert.Equal(t, []string{"eng", "deu"}, specs[1].Params.StringSlice("languages", nil))
	assert.Equal(t, "easyocr", specs[2].Params.String("command", ""))
}

func TestEnabledSpecsOrderIsStableAcrossLoads(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	var first []string
	for run := 0; run < 20; run++ {
		file, err := LoadBenchmarkFile(path)
		require.NoError(t, err)

		var names []string
		for _, spec := range file.BenchmarkRun.EnabledSpecs() {
			names = append(names, spec.Name)
		}
		if first == nil {
			first = names
			continue
		}
		require.Equal(t, first, names)
	}
}

func TestModelDeclarationOrderNoModels(t *testing.T) {
	order, err := modelDeclarationOrder([]byte(`{"benchmark_run": {}}`))
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestModelDeclarationOrderNonObject(t *testing.T) {
	_, err := modelDeclarationOrder([]byte(`{"benchmark_run": {"models": ["a"]}}`))
	assert.Error(t, err)
}
