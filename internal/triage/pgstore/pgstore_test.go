package pgstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/radalert/internal/postgres"
	"github.com/linnemanlabs/radalert/internal/triage"
	"github.com/linnemanlabs/radalert/internal/triage/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("RADALERT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RADALERT_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("postgres.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	s, err := pgstore.New(ctx, pool, map[string]string{
		triage.ConfigKeyEmail:    "alertas@hospital.org",
		triage.ConfigKeyWhatsApp: "whatsapp:+573001234567",
	})
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return s
}

func TestInsertAndGetReport(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	prob := 0.93
	r := &triage.Report{
		ID:          "test-insert-" + ulid.Make().String(),
		Text:        "Hallazgos: hemorragia subaracnoidea.",
		Verdict:     triage.VerdictCritical,
		Probability: &prob,
		CreatedAt:   time.Now().Truncate(time.Microsecond).UTC(),
	}

	if err := s.InsertReport(ctx, r); err != nil {
		t.Fatalf("InsertReport: %v", err)
	}
	if r.Seq == 0 {
		t.Fatal("InsertReport did not assign a sequence number")
	}

	got, ok, err := s.GetReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !ok {
		t.Fatal("GetReport returned ok=false, want true")
	}

	assertEqual(t, "Seq", r.Seq, got.Seq)
	assertEqual(t, "ID", r.ID, got.ID)
	assertEqual(t, "Text", r.Text, got.Text)
	assertEqual(t, "Verdict", string(r.Verdict), string(got.Verdict))
	if got.Probability == nil || *got.Probability != prob {
		t.Errorf("Probability = %v, want %v", got.Probability, prob)
	}
}

func TestGetReportMissing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.GetReport(ctx, "nonexistent-id")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if ok {
		t.Error("GetReport returned ok=true for nonexistent ID")
	}
}

func TestGetReport_DuplicateIDReturnsLatest(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id := "test-dup-" + ulid.Make().String()
	first := &triage.Report{ID: id, Text: "first", Verdict: triage.VerdictNormal, CreatedAt: time.Now().UTC()}
	second := &triage.Report{ID: id, Text: "second", Verdict: triage.VerdictCritical, CreatedAt: time.Now().UTC()}

	if err := s.InsertReport(ctx, first); err != nil {
		t.Fatalf("InsertReport first: %v", err)
	}
	if err := s.InsertReport(ctx, second); err != nil {
		t.Fatalf("InsertReport second: %v", err)
	}

	got, ok, err := s.GetReport(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetReport: ok=%v err=%v", ok, err)
	}
	if got.Text != "second" {
		t.Errorf("Text = %q, want latest submission", got.Text)
	}
}

func TestListCriticalReportsAfter(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	marker := "test-list-" + ulid.Make().String()
	critical := &triage.Report{ID: marker + "-c", Text: "x", Verdict: triage.VerdictCritical, CreatedAt: time.Now().UTC()}
	routine := &triage.Report{ID: marker + "-n", Text: "x", Verdict: triage.VerdictNormal, CreatedAt: time.Now().UTC()}

	if err := s.InsertReport(ctx, critical); err != nil {
		t.Fatalf("InsertReport critical: %v", err)
	}
	if err := s.InsertReport(ctx, routine); err != nil {
		t.Fatalf("InsertReport routine: %v", err)
	}

	rows, err := s.ListCriticalReportsAfter(ctx, critical.Seq-1)
	if err != nil {
		t.Fatalf("ListCriticalReportsAfter: %v", err)
	}

	var sawCritical, sawRoutine bool
	lastSeq := int64(0)
	for _, r := range rows {
		if r.Seq <= critical.Seq-1 {
			t.Errorf("row seq %d at or below cursor", r.Seq)
		}
		if r.Seq < lastSeq {
			t.Error("rows not in ascending sequence order")
		}
		lastSeq = r.Seq
		switch r.ID {
		case critical.ID:
			sawCritical = true
		case routine.ID:
			sawRoutine = true
		}
	}
	if !sawCritical {
		t.Error("critical report missing from scan")
	}
	if sawRoutine {
		t.Error("routine report included in scan")
	}
}

func TestUpsertAuditEntry(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id := "test-audit-" + ulid.Make().String()

	if err := s.UpsertAuditEntry(ctx, &triage.AuditEntry{ReportID: id, Score: 0.7, Notified: false, IsCritical: true}); err != nil {
		t.Fatalf("UpsertAuditEntry initial: %v", err)
	}
	if err := s.UpsertAuditEntry(ctx, &triage.AuditEntry{ReportID: id, Score: 0.95, Notified: true, IsCritical: true}); err != nil {
		t.Fatalf("UpsertAuditEntry update: %v", err)
	}

	got, ok, err := s.GetAuditEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetAuditEntry: %v", err)
	}
	if !ok {
		t.Fatal("GetAuditEntry returned ok=false")
	}

	assertEqual(t, "Score", 0.95, got.Score)
	assertEqual(t, "Notified", true, got.Notified)
	assertEqual(t, "IsCritical", true, got.IsCritical)
}

func TestGetAuditEntryMissing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.GetAuditEntry(ctx, "nonexistent-id")
	if err != nil {
		t.Fatalf("GetAuditEntry: %v", err)
	}
	if ok {
		t.Error("GetAuditEntry returned ok=true for nonexistent ID")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// Seeded defaults survive re-init (ON CONFLICT DO NOTHING).
	v, ok, err := s.GetConfigValue(ctx, triage.ConfigKeyEmail)
	if err != nil {
		t.Fatalf("GetConfigValue: %v", err)
	}
	if !ok || v == "" {
		t.Fatalf("config %q = %q, %v; want seeded value", triage.ConfigKeyEmail, v, ok)
	}

	key := "test-key-" + ulid.Make().String()
	if err := s.SetConfigValue(ctx, key, "one"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	if err := s.SetConfigValue(ctx, key, "two"); err != nil {
		t.Fatalf("SetConfigValue update: %v", err)
	}

	v, ok, err = s.GetConfigValue(ctx, key)
	if err != nil || !ok {
		t.Fatalf("GetConfigValue: ok=%v err=%v", ok, err)
	}
	if v != "two" {
		t.Errorf("value = %q, want latest write", v)
	}

	if _, ok, _ := s.GetConfigValue(ctx, "nonexistent-key"); ok {
		t.Error("GetConfigValue returned ok=true for nonexistent key")
	}
}

func assertEqual[T comparable](t *testing.T, field string, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("%s: got %v, want %v", field, got, want)
	}
}
