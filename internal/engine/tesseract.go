/**
 * Tesseract engine - offline baseline OCR
 *
 * Wraps a gosseract client. The client is created once per run and released
 * by Close after the engine finishes its page loop.
 */

package engine

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine performs OCR with a local Tesseract installation.
type TesseractEngine struct {
	name   string
	client *gosseract.Client
}

func newTesseractEngine(spec Spec) (Engine, error) {
	client := gosseract.NewClient()

	langs := spec.Params.StringSlice("languages", []string{"eng"})
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set tesseract languages %v: %w", langs, err)
	}

	if psm := spec.Params.String("page_seg_mode", ""); psm != "" {
		if err := client.SetVariable("tessedit_pageseg_mode", psm); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}

	return &TesseractEngine{
		name:   spec.Name,
		client: client,
	}, nil
}

// Name returns the engine display name
func (t *TesseractEngine) Name() string {
	return t.name
}

// Recognize extracts text from a page image via Tesseract
func (t *TesseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := t.client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image %s: %w", imagePath, err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return text, nil
}

// Close releases the underlying Tesseract client
func (t *TesseractEngine) Close() error {
	return t.client.Close()
}
