// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/linnemanlabs/radalert/internal/triage"
)

// Store holds reports, audit entries, and config in memory. Suitable for
// dev/testing; nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	nextSeq int64
	reports []triage.Report
	audit   map[string]triage.AuditEntry // report ID -> latest entry
	config  map[string]string
}

// New initializes a new in-memory Store seeded with the given config
// defaults.
func New(defaults map[string]string) *Store {
	cfg := make(map[string]string, len(defaults))
	for k, v := range defaults {
		cfg[k] = v
	}
	return &Store{
		audit:  make(map[string]triage.AuditEntry),
		config: cfg,
	}
}

// InsertReport assigns the next sequence number and appends a copy.
func (s *Store) InsertReport(_ context.Context, r *triage.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	r.Seq = s.nextSeq
	s.reports = append(s.reports, *r)
	return nil
}

// GetReport returns the most recently inserted report with the given ID.
func (s *Store) GetReport(_ context.Context, id string) (*triage.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].ID == id {
			cp := s.reports[i]
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

// ListCriticalReportsAfter returns critical reports past the cursor in
// ascending sequence order.
func (s *Store) ListCriticalReportsAfter(_ context.Context, cursor int64) ([]triage.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []triage.Report
	for _, r := range s.reports {
		if r.Seq > cursor && r.Verdict == triage.VerdictCritical {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpsertAuditEntry stores a copy keyed by report ID; later calls overwrite.
func (s *Store) UpsertAuditEntry(_ context.Context, e *triage.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit[e.ReportID] = *e
	return nil
}

// GetAuditEntry returns a copy of the audit entry for a report ID.
func (s *Store) GetAuditEntry(_ context.Context, reportID string) (*triage.AuditEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.audit[reportID]
	if !ok {
		return nil, false, nil
	}
	cp := e
	return &cp, true, nil
}

// GetConfigValue returns the current value for a key.
func (s *Store) GetConfigValue(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.config[key]
	return v, ok, nil
}

// SetConfigValue replaces the value for a key.
func (s *Store) SetConfigValue(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}
