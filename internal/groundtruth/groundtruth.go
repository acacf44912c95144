/**
 * Ground-truth reference loading for the OCR benchmark worker
 *
 * A ReferenceSet maps 1-based page numbers to trusted transcriptions. It is
 * loaded once per run and read-only afterwards. Three source layouts are
 * supported: a JSON object keyed by page number, a single text file split
 * on form-feed page separators, and a directory of per-page text files
 * whose trailing numeric filename token gives the page number.
 */

package groundtruth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
)

// ReferenceSet maps 1-based page numbers to reference transcriptions.
type ReferenceSet map[int]string

// Page returns the reference text for a page. Missing pages yield an empty
// reference, which downstream triggers the degenerate-input metrics policy.
func (r ReferenceSet) Page(page int) string {
	return r[page]
}

// Load reads a reference set from path, which may be a JSON file, a plain
// text file, or a directory of per-page text files.
func Load(path string) (ReferenceSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, benchErrors.NewInputResolutionError(path, err)
	}

	if info.IsDir() {
		return loadDirectory(path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSON(path)
	}
	return loadText(path)
}

// loadJSON reads a {"1": "page text", ...} object. Keys must be integers.
func loadJSON(path string) (ReferenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth file: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ground truth JSON: %w", err)
	}

	refs := make(ReferenceSet, len(raw))
	for key, text := range raw {
		page, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid page key %q in ground truth JSON: %w", key, err)
		}
		if _, exists := refs[page]; exists {
			return nil, fmt.Errorf("duplicate page %d in ground truth JSON", page)
		}
		refs[page] = text
	}

	return refs, nil
}

// loadText splits a text file on form-feed characters, one segment per
// page. A file without form feeds is a single page-1 reference.
func loadText(path string) (ReferenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth file: %w", err)
	}

	text := string(data)
	if !strings.Contains(text, "\f") {
		return ReferenceSet{1: strings.TrimSpace(text)}, nil
	}

	segments := strings.Split(text, "\f")
	refs := make(ReferenceSet, len(segments))
	for i, segment := range segments {
		refs[i+1] = strings.TrimSpace(segment)
	}

	return refs, nil
}

// loadDirectory reads every file whose name ends in a numeric token
// (page_3.txt, 0007.txt) as that page's reference. Files without a numeric
// token are ignored.
func loadDirectory(path string) (ReferenceSet, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground truth directory: %w", err)
	}

	refs := make(ReferenceSet)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		page, ok := trailingPageNumber(entry.Name())
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read ground truth page file %s: %w", entry.Name(), err)
		}
		refs[page] = strings.TrimSpace(string(data))
	}

	return refs, nil
}

// trailingPageNumber extracts the page number from a filename stem, either
// from the token after the last underscore or from the whole stem.
func trailingPageNumber(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if idx := strings.LastIndex(stem, "_"); idx >= 0 {
		if page, err := strconv.Atoi(stem[idx+1:]); err == nil {
			return page, true
		}
	}
	if page, err := strconv.Atoi(stem); err == nil {
		return page, true
	}
	return 0, false
}
