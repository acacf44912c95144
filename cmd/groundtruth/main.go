/**
 * groundtruth - reference transcription generator
 *
 * Rasterizes a PDF and transcribes every page with a Gemini vision model,
 * producing the ground-truth JSON consumed by ocrbench. A page that fails
 * to transcribe gets an error placeholder so the page numbering stays
 * intact; fix those pages by hand or rerun before benchmarking.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/adverant/nexus/ocrbench-worker/internal/config"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
	"github.com/adverant/nexus/ocrbench-worker/internal/pages"
)

const transcriptionPrompt = `Your task is to perform a perfect, high-fidelity OCR transcription of this document image.
Transcribe the text exactly as it appears.
Preserve all original line breaks, spacing, and formatting.
Do not add any commentary, summarization, or explanation. Output only the transcribed text.`

func main() {
	logger := logging.NewLogger("groundtruth")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		configPath = flag.String("config", cfg.ConfigPath, "path to the benchmark config.json")
		pdfPath    = flag.String("pdf", "", "input PDF (overrides config default)")
		outputPath = flag.String("output_json", "", "ground truth JSON destination (overrides config default)")
		modelName  = flag.String("model_name", "", "Gemini model to transcribe with (overrides config default)")
		dpi        = flag.Int("dpi", 0, "rasterization DPI (overrides config default)")
	)
	flag.Parse()

	file, err := config.LoadBenchmarkFile(*configPath)
	if err != nil {
		logger.Error("Failed to load benchmark configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}
	gtCfg := file.GroundTruth

	pdf := firstNonEmpty(*pdfPath, gtCfg.DefaultPDF)
	output := firstNonEmpty(*outputPath, gtCfg.DefaultOutputJSON)
	model := firstNonEmpty(*modelName, gtCfg.ModelName)
	resolution := *dpi
	if resolution <= 0 {
		resolution = gtCfg.DPI
	}

	if pdf == "" || output == "" {
		logger.Error("An input PDF and an output JSON path are required (flags or config.json)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generate(ctx, cfg, pdf, output, model, resolution, logger); err != nil {
		logger.Error("Ground truth generation failed", "error", err)
		os.Exit(1)
	}
}

func generate(ctx context.Context, cfg *config.Config, pdfPath, outputPath, model string, dpi int, logger *logging.Logger) error {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Google Gen AI client: %w", err)
	}

	resolved, err := pages.ResolveInput(pdfPath, cfg.SampleDataDir, logger)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "groundtruth-pages-*")
	if err != nil {
		return fmt.Errorf("failed to create rasterization directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	logger.Info("Rasterizing PDF", "pdf", resolved, "dpi", dpi)
	pageSet, err := pages.Rasterize(ctx, resolved, dpi, tmpDir)
	if err != nil {
		return err
	}
	logger.Info("Rasterization complete", "pages", len(pageSet), "model", model)

	groundTruth := make(map[string]string, len(pageSet))
	for _, page := range pageSet {
		logger.Info("Transcribing page", "page", page.Number, "total", len(pageSet))

		text, err := transcribePage(ctx, client, model, page.ImagePath)
		if err != nil {
			logger.Warn("Failed to transcribe page", "page", page.Number, "error", err)
			text = fmt.Sprintf("[ERROR: Could not transcribe page %d]", page.Number)
		}
		groundTruth[strconv.Itoa(page.Number)] = text
	}

	data, err := json.MarshalIndent(groundTruth, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ground truth: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ground truth: %w", err)
	}

	logger.Info("Ground truth generation complete", "output", outputPath, "pages", len(groundTruth))
	return nil
}

func transcribePage(ctx context.Context, client *genai.Client, model, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read page image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcriptionPrompt),
		genai.NewPartFromBytes(imageData, "image/png"),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text()), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
