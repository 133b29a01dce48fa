package triage

import "time"

// Verdict is the pipeline's classification of a report.
type Verdict string

const (
	// VerdictCritical means the report contains findings that require
	// escalation to a human recipient.
	VerdictCritical Verdict = "critical"

	// VerdictNormal means the report is routine and needs no escalation.
	VerdictNormal Verdict = "normal"
)

// Report is a persisted clinical text submission. Verdict and Probability
// are assigned once when the pipeline creates the row and never mutated.
type Report struct {
	// Seq is the store-assigned monotonic sequence number. The
	// reconciliation worker cursors over it; caller-supplied IDs may
	// repeat, Seq never does.
	Seq         int64     `json:"seq"`
	ID          string    `json:"report_id"`
	Text        string    `json:"text"`
	Verdict     Verdict   `json:"verdict"`
	Probability *float64  `json:"probability,omitempty"` // nil when classification failed outright
	CreatedAt   time.Time `json:"created_at"`
}

// AuditEntry records one triage attempt on a critical report. Entries are
// upserted keyed by ReportID, so a later attempt overwrites an earlier one.
type AuditEntry struct {
	ReportID   string  `json:"report_id"`
	Score      float64 `json:"score"`
	Notified   bool    `json:"notified"`
	IsCritical bool    `json:"is_critical"`
}

// Recipient config keys. The config table is seeded with defaults at first
// run and mutated through the admin API at any time.
const (
	ConfigKeyEmail    = "email"
	ConfigKeyWhatsApp = "whatsapp"
)

// Recipients holds the escalation targets in effect at the moment they
// were read. There is no snapshot isolation across the inline pipeline and
// the reconciliation worker.
type Recipients struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}
