/**
 * Page-set resolution for the OCR benchmark worker
 *
 * The benchmark runs over a fixed, ordered set of rasterized page images,
 * derived once before any engine work and never mutated afterwards.
 * Rasterization itself is delegated to poppler's pdftoppm; alternatively a
 * pre-rasterized image directory can be used directly.
 */

package pages

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
	"github.com/adverant/nexus/ocrbench-worker/internal/logging"
)

// Page is one ordered position within the benchmark document.
type Page struct {
	Number    int
	ImagePath string
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// FromDirectory builds the page set from a directory of page images. Files
// are ordered by the numeric token trailing their name when present,
// otherwise lexically, and renumbered 1..N.
func FromDirectory(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, benchErrors.NewInputResolutionError(dir, err)
	}

	type candidate struct {
		name string
		num  int
	}

	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		num, ok := trailingNumber(entry.Name())
		if !ok {
			num = 0
		}
		candidates = append(candidates, candidate{name: entry.Name(), num: num})
	}

	if len(candidates) == 0 {
		return nil, benchErrors.NewInputResolutionError(dir, fmt.Errorf("no page images found"))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].num != candidates[j].num {
			return candidates[i].num < candidates[j].num
		}
		return candidates[i].name < candidates[j].name
	})

	result := make([]Page, len(candidates))
	for i, c := range candidates {
		result[i] = Page{
			Number:    i + 1,
			ImagePath: filepath.Join(dir, c.name),
		}
	}
	return result, nil
}

// Rasterize converts a PDF into per-page PNG images under outDir using
// pdftoppm and returns the resulting page set.
func Rasterize(ctx context.Context, pdfPath string, dpi int, outDir string) ([]Page, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, benchErrors.NewInputResolutionError(pdfPath, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create rasterization directory: %w", err)
	}

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}

	return FromDirectory(outDir)
}

// ResolveInput returns path if it exists, otherwise falls back to the same
// filename under fallbackDir. Mirrors the lookup used for sample data.
func ResolveInput(path, fallbackDir string, logger *logging.Logger) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	fallback := filepath.Join(fallbackDir, filepath.Base(path))
	if _, err := os.Stat(fallback); err == nil {
		logger.Info("Input path not found, using fallback", "path", path, "fallback", fallback)
		return fallback, nil
	}

	return "", benchErrors.NewInputResolutionError(path, os.ErrNotExist)
}

func trailingNumber(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	end := len(stem)
	start := end
	for start > 0 && stem[start-1] >= '0' && stem[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}

	num, err := strconv.Atoi(stem[start:end])
	if err != nil {
		return 0, false
	}
	return num, true
}
