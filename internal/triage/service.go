package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/radalert/internal/classify"
	"github.com/linnemanlabs/radalert/internal/notify"
)

// Dispatcher sends a composed alert over the notification channels.
// Implemented by notify.Dispatcher; mocked in tests.
type Dispatcher interface {
	Dispatch(ctx context.Context, targets notify.Targets, body string) notify.Receipt
}

// Outcome is the terminal state of one pipeline invocation.
type Outcome struct {
	ReportID    string  `json:"report_id"`
	Verdict     Verdict `json:"verdict"`
	Probability float64 `json:"probability"`
	Notified    bool    `json:"notified"`
}

// Service runs the triage pipeline: extract, classify, persist, and for
// critical reports compose, dispatch, and audit. One invocation per
// inbound report; invocations are independent and may run concurrently.
type Service struct {
	store      Store
	classifier classify.Classifier
	dispatcher Dispatcher
	fallback   classify.Keyword
	defaults   Recipients
	logger     log.Logger
	metrics    *Metrics
}

// NewService creates a new triage service. defaults are the recipient
// addresses used when the config store has no override.
func NewService(store Store, classifier classify.Classifier, dispatcher Dispatcher, defaults Recipients, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:      store,
		classifier: classifier,
		dispatcher: dispatcher,
		defaults:   defaults,
		logger:     logger,
		metrics:    metrics,
	}
}

// Process triages one report. Classification and dispatch failures degrade
// to safe defaults; only a store write failure returns an error, because
// losing the report row or the audit trail must not be masked.
func (s *Service) Process(ctx context.Context, reportID, rawText string) (*Outcome, error) {
	start := time.Now()
	L := s.logger.With("report_id", reportID)

	normalized := Normalize(rawText)
	findings := FindingsExcerpt(normalized)

	res := s.classifyWithFallback(ctx, L, findings)

	verdict := VerdictNormal
	if res.Critical() {
		verdict = VerdictCritical
	}

	prob := res.Confidence
	report := &Report{
		ID:          reportID,
		Text:        normalized,
		Verdict:     verdict,
		Probability: &prob,
		CreatedAt:   time.Now(),
	}
	if err := s.store.InsertReport(ctx, report); err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	outcome := &Outcome{
		ReportID:    reportID,
		Verdict:     verdict,
		Probability: res.Confidence,
	}

	if verdict == VerdictNormal {
		// Routine reports live only in the report store; no alert, no
		// audit entry.
		s.observe(verdict, start)
		L.Info(ctx, "report triaged", "verdict", verdict, "probability", res.Confidence)
		return outcome, nil
	}

	notified, err := s.escalate(ctx, L, reportID, normalized, res.Confidence)
	if err != nil {
		return nil, err
	}
	outcome.Notified = notified

	s.observe(verdict, start)
	L.Info(ctx, "report triaged",
		"verdict", verdict,
		"probability", res.Confidence,
		"notified", notified,
	)
	return outcome, nil
}

// GetReport returns the latest stored report for an ID.
func (s *Service) GetReport(ctx context.Context, id string) (*Report, bool, error) {
	return s.store.GetReport(ctx, id)
}

// Recipients returns the escalation targets currently in effect.
func (s *Service) Recipients(ctx context.Context) Recipients {
	return LoadRecipients(ctx, s.store, s.defaults)
}

// UpdateRecipients applies a partial config update; nil fields are left
// untouched. It returns the resulting config.
func (s *Service) UpdateRecipients(ctx context.Context, email, whatsapp *string) (Recipients, error) {
	if email != nil {
		if err := s.store.SetConfigValue(ctx, ConfigKeyEmail, *email); err != nil {
			return Recipients{}, fmt.Errorf("set email: %w", err)
		}
	}
	if whatsapp != nil {
		if err := s.store.SetConfigValue(ctx, ConfigKeyWhatsApp, *whatsapp); err != nil {
			return Recipients{}, fmt.Errorf("set whatsapp: %w", err)
		}
	}
	return LoadRecipients(ctx, s.store, s.defaults), nil
}

// classifyWithFallback asks the classifier adapter and degrades to the
// keyword heuristic on any adapter failure, so the pipeline never blocks
// on model unavailability.
func (s *Service) classifyWithFallback(ctx context.Context, L log.Logger, findings string) classify.Result {
	if s.classifier != nil {
		res, err := s.classifier.Classify(ctx, findings)
		if err == nil {
			return res
		}
		L.Error(ctx, err, "classifier unavailable, using keyword fallback")
	}

	if s.metrics != nil {
		s.metrics.ClassifierFallbacks.Inc()
	}
	res, _ := s.fallback.Classify(ctx, findings)
	return res
}

// escalate composes the alert, dispatches it, and writes the audit entry.
// Dispatch failure does not stop the audit write; it flips the recorded
// notified flag to false. The audit write happens exactly once, after
// dispatch completes.
func (s *Service) escalate(ctx context.Context, L log.Logger, reportID, normalized string, confidence float64) (bool, error) {
	opinion := OpinionExcerpt(normalized)
	body := ComposeCriticalAlert(reportID, opinion, confidence)

	rcpt := LoadRecipients(ctx, s.store, s.defaults)
	receipt := s.dispatcher.Dispatch(ctx, notify.Targets{
		WhatsApp: rcpt.WhatsApp,
		Email:    rcpt.Email,
	}, body)
	notified := receipt.Any()

	entry := &AuditEntry{
		ReportID:   reportID,
		Score:      confidence,
		Notified:   notified,
		IsCritical: true,
	}
	if err := s.store.UpsertAuditEntry(ctx, entry); err != nil {
		if s.metrics != nil {
			s.metrics.AuditWrites.WithLabelValues("error").Inc()
		}
		return notified, fmt.Errorf("upsert audit entry: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AuditWrites.WithLabelValues("ok").Inc()
	}

	L.Info(ctx, "escalation dispatched",
		"notified", notified,
		"whatsapp", receipt[notify.ChannelWhatsApp],
		"email", receipt[notify.ChannelEmail],
	)
	return notified, nil
}

func (s *Service) observe(verdict Verdict, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReportsTotal.WithLabelValues(string(verdict)).Inc()
	s.metrics.ProcessDuration.WithLabelValues(string(verdict)).Observe(time.Since(start).Seconds())
}
