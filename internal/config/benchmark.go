/**
 * Benchmark run description (config.json)
 *
 * Declares which engines are enabled, their construction parameters, input
 * defaults and the rasterization DPI. The declaration order of the models
 * object defines engine registration order, which in turn defines report
 * row grouping, so decoding preserves it.
 */

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adverant/nexus/ocrbench-worker/internal/engine"
	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
)

// BenchmarkFile is the top-level config.json structure.
type BenchmarkFile struct {
	BenchmarkRun BenchmarkRun   `json:"benchmark_run"`
	GroundTruth  GroundTruthGen `json:"ground_truth_generation"`
}

// BenchmarkRun describes one benchmark invocation.
type BenchmarkRun struct {
	DefaultPDF         string `json:"default_pdf"`
	DefaultPagesDir    string `json:"default_pages_dir"`
	DefaultGroundTruth string `json:"default_ground_truth"`
	DefaultOutDir      string `json:"default_out_dir"`
	DPI                int    `json:"dpi"`

	Models     map[string]ModelConfig `json:"models"`
	modelOrder []string
}

// ModelConfig is one entry of the models object.
type ModelConfig struct {
	Runner  string        `json:"runner"`
	Enabled bool          `json:"enabled"`
	Params  engine.Params `json:"params,omitempty"`
}

// GroundTruthGen configures the ground-truth generation command.
type GroundTruthGen struct {
	DefaultPDF        string `json:"default_pdf"`
	DefaultOutputJSON string `json:"default_output_json"`
	ModelName         string `json:"model_name"`
	DPI               int    `json:"dpi"`
}

// LoadBenchmarkFile reads and parses config.json.
func LoadBenchmarkFile(path string) (*BenchmarkFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, benchErrors.NewInputResolutionError(path, err)
	}

	var file BenchmarkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	order, err := modelDeclarationOrder(data)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model order in %s: %w", path, err)
	}
	file.BenchmarkRun.modelOrder = order

	if file.BenchmarkRun.DefaultOutDir == "" {
		file.BenchmarkRun.DefaultOutDir = "results"
	}
	if file.BenchmarkRun.DPI <= 0 {
		file.BenchmarkRun.DPI = 150
	}
	if file.GroundTruth.ModelName == "" {
		file.GroundTruth.ModelName = "gemini-2.5-pro"
	}
	if file.GroundTruth.DPI <= 0 {
		file.GroundTruth.DPI = 300
	}

	return &file, nil
}

// EnabledSpecs returns the engine specs for every enabled model, in
// declaration order.
func (b *BenchmarkRun) EnabledSpecs() []engine.Spec {
	specs := make([]engine.Spec, 0, len(b.Models))
	for _, name := range b.modelOrder {
		model := b.Models[name]
		if !model.Enabled {
			continue
		}
		specs = append(specs, engine.Spec{
			Name:   name,
			Runner: model.Runner,
			Params: model.Params,
		})
	}
	return specs
}

// modelDeclarationOrder walks the raw JSON tokens to recover the key order
// of benchmark_run.models, which encoding/json map decoding discards.
func modelDeclarationOrder(data []byte) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	var run map[string]json.RawMessage
	if raw, ok := top["benchmark_run"]; ok {
		if err := json.Unmarshal(raw, &run); err != nil {
			return nil, err
		}
	}

	raw, ok := run["models"]
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("models must be a JSON object")
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in models object", keyTok)
		}
		order = append(order, key)

		// Skip the value.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}

	return order, nil
}
