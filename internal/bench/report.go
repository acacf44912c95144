/**
 * Benchmark report schema and serialization
 *
 * A report is the ordered sequence of metric rows produced by one run, one
 * row per attempted (engine, page) pair, grouped by engine registration
 * order and ascending page. The flat column set is stable; sentinel rows
 * (degenerate references) serialize as empty CSV cells and JSON nulls.
 */

package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/adverant/nexus/ocrbench-worker/internal/metrics"
)

// MetricRow is one engine x one page result.
type MetricRow struct {
	Model       string
	Page        int
	GTLenChars  int
	HypLenChars int
	Metrics     metrics.Vector

	// Hypothesis carries the recognized (or failure-marker) text for page
	// dumps and inspection. It is not part of the tabular column set.
	Hypothesis string
	Failed     bool
}

// Report is the assembled result of a benchmark run.
type Report struct {
	RunID     string
	CreatedAt time.Time
	Rows      []MetricRow
}

// Columns is the stable tabular column set, identifying columns first,
// then the metrics vector fields.
var Columns = []string{
	"model", "page", "gt_len_chars", "hyp_len_chars",
	"cer", "wer", "char_acc", "word_acc",
	"levenshtein_dist", "fuzz_ratio", "bleu", "rougeL_f1",
	"substitutions", "deletions", "insertions",
}

// WriteCSV writes the report as summary CSV with a header row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range r.Rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report rows as an indented JSON array.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Rows)
}

func (row MetricRow) record() []string {
	rec := []string{
		row.Model,
		strconv.Itoa(row.Page),
		strconv.Itoa(row.GTLenChars),
		strconv.Itoa(row.HypLenChars),
	}

	v := row.Metrics
	if !v.Applicable {
		for range Columns[4:] {
			rec = append(rec, "")
		}
		return rec
	}

	rec = append(rec,
		formatFloat(v.CER),
		formatFloat(v.WER),
		formatFloat(v.CharAccuracy),
		formatFloat(v.WordAccuracy),
		strconv.Itoa(v.LevenshteinDist),
		formatFloat(v.FuzzRatio),
		formatFloat(v.BLEU),
		formatFloat(v.RougeLF1),
		strconv.Itoa(v.Substitutions),
		strconv.Itoa(v.Deletions),
		strconv.Itoa(v.Insertions),
	)
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rowJSON mirrors the tabular column set with nullable metric fields.
type rowJSON struct {
	Model       string `json:"model"`
	Page        int    `json:"page"`
	GTLenChars  int    `json:"gt_len_chars"`
	HypLenChars int    `json:"hyp_len_chars"`

	CER             *float64 `json:"cer"`
	WER             *float64 `json:"wer"`
	CharAcc         *float64 `json:"char_acc"`
	WordAcc         *float64 `json:"word_acc"`
	LevenshteinDist *int     `json:"levenshtein_dist"`
	FuzzRatio       *float64 `json:"fuzz_ratio"`
	BLEU            *float64 `json:"bleu"`
	RougeLF1        *float64 `json:"rougeL_f1"`
	Substitutions   *int     `json:"substitutions"`
	Deletions       *int     `json:"deletions"`
	Insertions      *int     `json:"insertions"`
}

// MarshalJSON renders sentinel metric fields as null, never as zero.
func (row MetricRow) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		Model:       row.Model,
		Page:        row.Page,
		GTLenChars:  row.GTLenChars,
		HypLenChars: row.HypLenChars,
	}

	if row.Metrics.Applicable {
		v := row.Metrics
		out.CER = &v.CER
		out.WER = &v.WER
		out.CharAcc = &v.CharAccuracy
		out.WordAcc = &v.WordAccuracy
		out.LevenshteinDist = &v.LevenshteinDist
		out.FuzzRatio = &v.FuzzRatio
		out.BLEU = &v.BLEU
		out.RougeLF1 = &v.RougeLF1
		out.Substitutions = &v.Substitutions
		out.Deletions = &v.Deletions
		out.Insertions = &v.Insertions
	}

	return json.Marshal(out)
}
