/**
 * PostgreSQL report sink for the OCR benchmark worker
 *
 * Optional persistence for benchmark reports. The in-memory report and the
 * CSV/JSON outputs are authoritative; a sink failure is logged and surfaced
 * but never loses the run.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/adverant/nexus/ocrbench-worker/internal/bench"
	benchErrors "github.com/adverant/nexus/ocrbench-worker/internal/errors"
)

// PostgresSink persists benchmark reports to PostgreSQL.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects to PostgreSQL and verifies the connection.
func NewPostgresSink(databaseURL string) (*PostgresSink, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSink{db: db}, nil
}

// EnsureSchema creates the benchmark rows table when it does not exist.
func (p *PostgresSink) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS ocr_benchmark_rows (
			run_id           UUID        NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			model            TEXT        NOT NULL,
			page             INTEGER     NOT NULL,
			gt_len_chars     INTEGER     NOT NULL,
			hyp_len_chars    INTEGER     NOT NULL,
			cer              DOUBLE PRECISION,
			wer              DOUBLE PRECISION,
			char_acc         DOUBLE PRECISION,
			word_acc         DOUBLE PRECISION,
			levenshtein_dist INTEGER,
			fuzz_ratio       DOUBLE PRECISION,
			bleu             DOUBLE PRECISION,
			rougeL_f1        DOUBLE PRECISION,
			substitutions    INTEGER,
			deletions        INTEGER,
			insertions       INTEGER,
			failed           BOOLEAN     NOT NULL,
			PRIMARY KEY (run_id, model, page)
		)`

	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure benchmark schema: %w", err)
	}
	return nil
}

// InsertReport batch-inserts every row of a report inside one transaction.
func (p *PostgresSink) InsertReport(ctx context.Context, report *bench.Report) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return benchErrors.NewStorageFailedError(report.RunID, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("ocr_benchmark_rows",
		"run_id", "created_at", "model", "page", "gt_len_chars", "hyp_len_chars",
		"cer", "wer", "char_acc", "word_acc", "levenshtein_dist",
		"fuzz_ratio", "bleu", "rougel_f1", "substitutions", "deletions", "insertions",
		"failed"))
	if err != nil {
		return benchErrors.NewStorageFailedError(report.RunID, err)
	}

	for _, row := range report.Rows {
		args := []interface{}{
			report.RunID, report.CreatedAt, row.Model, row.Page,
			row.GTLenChars, row.HypLenChars,
		}
		args = append(args, metricArgs(row)...)
		args = append(args, row.Failed)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			return benchErrors.NewStorageFailedError(report.RunID, err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return benchErrors.NewStorageFailedError(report.RunID, err)
	}
	if err := stmt.Close(); err != nil {
		return benchErrors.NewStorageFailedError(report.RunID, err)
	}

	if err := tx.Commit(); err != nil {
		return benchErrors.NewStorageFailedError(report.RunID, err)
	}
	return nil
}

// metricArgs renders the metrics vector as SQL values, with NULL for
// sentinel rows.
func metricArgs(row bench.MetricRow) []interface{} {
	if !row.Metrics.Applicable {
		return []interface{}{nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}
	}

	v := row.Metrics
	return []interface{}{
		v.CER, v.WER, v.CharAccuracy, v.WordAccuracy, v.LevenshteinDist,
		v.FuzzRatio, v.BLEU, v.RougeLF1, v.Substitutions, v.Deletions, v.Insertions,
	}
}

// Ping verifies the database connection.
func (p *PostgresSink) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the connection pool.
func (p *PostgresSink) Close() error {
	return p.db.Close()
}
