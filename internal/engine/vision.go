/**
 * Vision API engine - HTTP vision-OCR service adapter
 *
 * Delegates recognition to an external vision OCR service over HTTP. The
 * page image is sent base64-encoded; the service answers with the extracted
 * text. Model selection happens inside the service, not here.
 */

package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const visionRequestTimeout = 120 * time.Second

// VisionEngine performs OCR through an external vision service endpoint.
type VisionEngine struct {
	name           string
	baseURL        string
	language       string
	preferAccuracy bool
	httpClient     *http.Client
}

// visionOCRRequest is the request body for the vision OCR endpoint.
type visionOCRRequest struct {
	Image          string `json:"image"`  // base64 encoded page image
	Format         string `json:"format"` // always "base64"
	Language       string `json:"language,omitempty"`
	PreferAccuracy bool   `json:"preferAccuracy"`
}

// visionOCRResponse is the response body from the vision OCR endpoint.
type visionOCRResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Text       string  `json:"text"`
		Model      string  `json:"model"`
		Confidence float64 `json:"confidence"`
	} `json:"data"`
}

func newVisionEngine(spec Spec) (Engine, error) {
	baseURL := spec.Params.String("url", os.Getenv("VISION_OCR_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("vision_api engine requires a service URL (params.url or VISION_OCR_URL)")
	}

	return &VisionEngine{
		name:           spec.Name,
		baseURL:        baseURL,
		language:       spec.Params.String("language", "en"),
		preferAccuracy: spec.Params.Bool("prefer_accuracy", false),
		httpClient: &http.Client{
			Timeout: visionRequestTimeout,
		},
	}, nil
}

// Name returns the engine display name
func (v *VisionEngine) Name() string {
	return v.name
}

// Recognize sends the page image to the vision service and returns the
// extracted text
func (v *VisionEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	reqBody := visionOCRRequest{
		Image:          base64.StdEncoding.EncodeToString(imageData),
		Format:         "base64",
		Language:       v.language,
		PreferAccuracy: v.preferAccuracy,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vision OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/api/vision/ocr", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create vision OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read vision OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision OCR returned status %d: %s", resp.StatusCode, string(body))
	}

	var result visionOCRResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse vision OCR response: %w", err)
	}

	if !result.Success {
		return "", fmt.Errorf("vision OCR reported failure: %s", result.Message)
	}

	return result.Data.Text, nil
}

// Close is a no-op; the engine holds no local model resources
func (v *VisionEngine) Close() error {
	v.httpClient.CloseIdleConnections()
	return nil
}
