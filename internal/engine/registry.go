/**
 * Engine registry for the OCR benchmark worker
 *
 * A closed, compile-time builder table maps runner keys to concrete engine
 * constructors. Construction is fallible and isolated: one engine failing
 * to initialize excludes only that engine; the run continues as long as at
 * least one engine remains.
 */

package engine

import (
	"fmt"

	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
)

// Builder constructs an engine from its configuration entry.
type Builder func(spec Spec) (Engine, error)

// builders is the closed set of supported runner keys. Adding a backend
// means adding a constructor here; there is no runtime class resolution.
var builders = map[string]Builder{
	"tesseract":  newTesseractEngine,
	"vision_api": newVisionEngine,
	"gemini_api": newGeminiEngine,
	"command":    newCommandEngine,
}

// ConstructionFailure records one engine that could not be initialized.
type ConstructionFailure struct {
	Name string
	Err  error
}

// BuildActive constructs every enabled engine in declaration order. It
// returns the active set, the recorded construction failures, and a fatal
// error when the configuration is unusable: duplicate display names, or no
// engine constructing successfully.
func BuildActive(specs []Spec, logger *logging.Logger) ([]Engine, []ConstructionFailure, error) {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, nil, benchErrors.NewConfigurationError(
				fmt.Sprintf("duplicate engine display name: %q", spec.Name))
		}
		seen[spec.Name] = true
	}

	var active []Engine
	var failures []ConstructionFailure

	for _, spec := range specs {
		builder, ok := builders[spec.Runner]
		if !ok {
			logger.Warn("Skipping engine with unknown runner key", "engine", spec.Name, "runner", spec.Runner)
			failures = append(failures, ConstructionFailure{
				Name: spec.Name,
				Err:  fmt.Errorf("unknown runner key: %q", spec.Runner),
			})
			continue
		}

		eng, err := builder(spec)
		if err != nil {
			logger.Error("Failed to initialize engine", "engine", spec.Name, "error", err)
			failures = append(failures, ConstructionFailure{
				Name: spec.Name,
				Err:  benchErrors.NewEngineConstructionError(spec.Name, err),
			})
			continue
		}

		logger.Info("Initialized engine", "engine", eng.Name(), "runner", spec.Runner)
		active = append(active, eng)
	}

	if len(active) == 0 {
		return nil, failures, benchErrors.NewConfigurationError("no engines were successfully initialized")
	}

	return active, failures, nil
}
