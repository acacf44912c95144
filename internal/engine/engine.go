/**
 * Recognition engine capability for the OCR benchmark worker
 *
 * Every OCR backend is an opaque capability behind the same interface: it
 * turns one page image into text. Engines are stateful, own their backing
 * resources, and are constructed once per run and released after their page
 * loop completes.
 */

package engine

import "context"

// Engine is a named recognition capability over page images.
type Engine interface {
	// Name returns the display name used as the report namespace for this
	// engine. Names must be unique within a run.
	Name() string

	// Recognize extracts text from the image at the given path. Any
	// internal fault is returned as an error; the orchestrator records it
	// as a failure marker instead of aborting the run.
	Recognize(ctx context.Context, imagePath string) (string, error)

	// Close releases the engine's backing resources.
	Close() error
}

// Spec describes one engine entry from the benchmark configuration.
type Spec struct {
	Name   string `json:"-"`
	Runner string `json:"runner"`
	Params Params `json:"params,omitempty"`
}

// Params holds per-engine construction parameters as plain data.
type Params map[string]interface{}

// String returns the string parameter for key, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Bool returns the boolean parameter for key, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// StringSlice returns the string-list parameter for key, or def when absent.
func (p Params) StringSlice(key string, def []string) []string {
	raw, ok := p[key].([]interface{})
	if !ok {
		return def
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
