package triage

import "context"

// Store is the persistence interface for reports, the audit log, and the
// recipient config. Implementations: pgstore (PostgreSQL) and memstore
// (in-memory, dev/testing).
type Store interface {
	// InsertReport persists a new report and assigns its Seq. Duplicate
	// report IDs are accepted and stored as independent rows.
	InsertReport(ctx context.Context, r *Report) error

	// GetReport returns the most recently inserted report with the given
	// caller-facing ID.
	GetReport(ctx context.Context, id string) (*Report, bool, error)

	// ListCriticalReportsAfter returns critical reports with Seq greater
	// than the cursor, in ascending Seq order.
	ListCriticalReportsAfter(ctx context.Context, cursor int64) ([]Report, error)

	// UpsertAuditEntry inserts or replaces the audit record keyed by
	// report ID. Safe to call multiple times; later calls overwrite.
	UpsertAuditEntry(ctx context.Context, e *AuditEntry) error

	// GetAuditEntry returns the audit record for a report ID, if any.
	GetAuditEntry(ctx context.Context, reportID string) (*AuditEntry, bool, error)

	// GetConfigValue returns the current value for a config key.
	GetConfigValue(ctx context.Context, key string) (string, bool, error)

	// SetConfigValue replaces the value for a config key.
	SetConfigValue(ctx context.Context, key, value string) error
}

// LoadRecipients reads the escalation targets in effect right now, falling
// back to the given defaults for keys that are unset or unreadable. Both
// the inline pipeline and the reconciliation worker call this at the moment
// they need targets; a mid-flight config change may apply to one path and
// not the other.
func LoadRecipients(ctx context.Context, store Store, defaults Recipients) Recipients {
	rcpt := defaults
	if v, ok, err := store.GetConfigValue(ctx, ConfigKeyEmail); err == nil && ok && v != "" {
		rcpt.Email = v
	}
	if v, ok, err := store.GetConfigValue(ctx, ConfigKeyWhatsApp); err == nil && ok && v != "" {
		rcpt.WhatsApp = v
	}
	return rcpt
}
