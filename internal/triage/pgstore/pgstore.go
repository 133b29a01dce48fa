// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/radalert/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/radalert/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists reports, audit entries, and recipient config in
// PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema, seeds config defaults idempotently, and returns
// a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool, configDefaults map[string]string) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	for key, value := range configDefaults {
		_, err := pool.Exec(ctx,
			`INSERT INTO config (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			key, value,
		)
		if err != nil {
			return nil, fmt.Errorf("seed config %q: %w", key, err)
		}
	}

	return &Store{pool: pool}, nil
}

const reportColumns = `seq, report_id, text, verdict, probability, created_at`

// InsertReport persists a report and fills in its store-assigned Seq.
func (s *Store) InsertReport(ctx context.Context, r *triage.Report) error {
	ctx, span := tracer.Start(ctx, "pgstore.InsertReport", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	err := s.pool.QueryRow(ctx,
		`INSERT INTO reports (report_id, text, verdict, probability, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING seq`,
		r.ID, r.Text, string(r.Verdict), r.Probability, r.CreatedAt,
	).Scan(&r.Seq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport returns the most recently inserted report with the given ID.
func (s *Store) GetReport(ctx context.Context, id string) (*triage.Report, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.GetReport", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1 ORDER BY seq DESC LIMIT 1`
	r, err := scanReportRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if r == nil {
		return nil, false, nil
	}
	return r, true, nil
}

// ListCriticalReportsAfter returns critical reports past the cursor in
// ascending sequence order.
func (s *Store) ListCriticalReportsAfter(ctx context.Context, cursor int64) ([]triage.Report, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListCriticalReportsAfter", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE seq > $1 AND verdict = $2 ORDER BY seq`,
		cursor, string(triage.VerdictCritical),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []triage.Report
	for rows.Next() {
		var (
			r       triage.Report
			verdict string
		)
		if err := rows.Scan(&r.Seq, &r.ID, &r.Text, &verdict, &r.Probability, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.Verdict = triage.Verdict(verdict)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// UpsertAuditEntry inserts or replaces the audit record for a report ID.
func (s *Store) UpsertAuditEntry(ctx context.Context, e *triage.AuditEntry) error {
	ctx, span := tracer.Start(ctx, "pgstore.UpsertAuditEntry", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (report_id, score, notified, is_critical, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (report_id) DO UPDATE SET
			score       = EXCLUDED.score,
			notified    = EXCLUDED.notified,
			is_critical = EXCLUDED.is_critical,
			updated_at  = now()`,
		e.ReportID, e.Score, e.Notified, e.IsCritical,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert audit entry: %w", err)
	}
	return nil
}

// GetAuditEntry returns the audit record for a report ID.
func (s *Store) GetAuditEntry(ctx context.Context, reportID string) (*triage.AuditEntry, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.GetAuditEntry", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	var e triage.AuditEntry
	err := s.pool.QueryRow(ctx,
		`SELECT report_id, score, notified, is_critical FROM audit_log WHERE report_id = $1`,
		reportID,
	).Scan(&e.ReportID, &e.Score, &e.Notified, &e.IsCritical)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("scan audit entry: %w", err)
	}
	return &e, true, nil
}

// GetConfigValue returns the current value for a config key.
func (s *Store) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.GetConfigValue", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", false, fmt.Errorf("scan config %q: %w", key, err)
	}
	return value, true, nil
}

// SetConfigValue replaces the value for a config key.
func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	ctx, span := tracer.Start(ctx, "pgstore.SetConfigValue", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO config (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

// scanReportRow scans a single report row. Returns (nil, nil) when no row
// is found.
func scanReportRow(row pgx.Row) (*triage.Report, error) {
	var (
		r       triage.Report
		verdict string
	)
	err := row.Scan(&r.Seq, &r.ID, &r.Text, &verdict, &r.Probability, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	r.Verdict = triage.Verdict(verdict)
	return &r, nil
}
