/**
 * Gemini engine - Google Gen AI vision models as OCR
 *
 * Sends each page image to a Gemini model with a transcription prompt. The
 * same models back the ground-truth generator, so the display name must be
 * a different model than the one that produced the references to make the
 * comparison meaningful.
 */

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

const defaultOCRPrompt = "Perform OCR on this document image. Extract all text content accurately, " +
	"preserving the original line breaks and structure as much as possible."

// GeminiEngine performs OCR with a Google Gen AI vision model.
type GeminiEngine struct {
	name   string
	model  string
	prompt string
	client *genai.Client
}

func newGeminiEngine(spec Spec) (Engine, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Gen AI client: %w", err)
	}

	return &GeminiEngine{
		name:   spec.Name,
		model:  spec.Params.String("model", "gemini-2.0-flash"),
		prompt: spec.Params.String("prompt", defaultOCRPrompt),
		client: client,
	}, nil
}

// Name returns the engine display name
func (g *GeminiEngine) Name() string {
	return g.name
}

// Recognize transcribes a page image through the configured Gemini model
func (g *GeminiEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(g.prompt),
		genai.NewPartFromBytes(imageData, imageMIMEType(imagePath)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// Close is a no-op; the API client holds no local model resources
func (g *GeminiEngine) Close() error {
	return nil
}

func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
