// Package reconcile runs the background worker that re-scans persisted
// critical reports and re-dispatches their notifications, independently of
// the inline pipeline. Delivery is at-least-once: the worker does not
// consult the audit log, so a report both paths observe is notified twice.
package reconcile

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/radalert/internal/notify"
	"github.com/linnemanlabs/radalert/internal/triage"
)

// DefaultInterval is the poll interval when none is configured.
const DefaultInterval = 10 * time.Second

// Worker is the reconciliation loop. One instance runs for the process
// lifetime; the cursor lives only in memory and resets to zero on restart,
// which re-notifies all persisted critical reports.
type Worker struct {
	store      triage.Store
	dispatcher triage.Dispatcher
	defaults   triage.Recipients
	interval   time.Duration
	logger     log.Logger
	metrics    *Metrics

	cursor int64
}

// New creates a reconciliation worker.
func New(store triage.Store, dispatcher triage.Dispatcher, defaults triage.Recipients, interval time.Duration, logger log.Logger, metrics *Metrics) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Worker{
		store:      store,
		dispatcher: dispatcher,
		defaults:   defaults,
		interval:   interval,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run polls until the context is cancelled. An in-flight poll cycle
// finishes before Run returns, so shutdown never hard-kills a dispatch.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info(ctx, "reconciliation worker started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(context.WithoutCancel(ctx), "reconciliation worker stopped", "cursor", w.cursor)
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll runs one reconciliation cycle: list critical reports past the
// cursor, read the current recipient config once for the batch, dispatch
// per row in ascending order, and advance the cursor past every processed
// row whether or not delivery succeeded.
func (w *Worker) Poll(ctx context.Context) {
	if w.metrics != nil {
		w.metrics.Polls.Inc()
	}

	rows, err := w.store.ListCriticalReportsAfter(ctx, w.cursor)
	if err != nil {
		w.logger.Error(ctx, err, "reconcile scan failed", "cursor", w.cursor)
		return
	}
	if len(rows) == 0 {
		return
	}

	rcpt := triage.LoadRecipients(ctx, w.store, w.defaults)
	targets := notify.Targets{WhatsApp: rcpt.WhatsApp, Email: rcpt.Email}

	for i := range rows {
		r := &rows[i]
		body := triage.ComposeReconcileAlert(r)

		receipt := w.dispatcher.Dispatch(ctx, targets, body)

		// Processed means attempted, not confirmed delivered; the row
		// is never revisited by this process.
		w.cursor = r.Seq

		if w.metrics != nil {
			outcome := "failed"
			if receipt.Any() {
				outcome = "ok"
			}
			w.metrics.Redispatches.WithLabelValues(outcome).Inc()
		}

		w.logger.Info(ctx, "reconcile redispatch",
			"report_id", r.ID,
			"seq", r.Seq,
			"notified", receipt.Any(),
		)
	}

	w.logger.Info(ctx, "reconcile cycle complete", "rows", len(rows), "cursor", w.cursor)
}

// Cursor returns the highest sequence number the worker has processed.
func (w *Worker) Cursor() int64 { return w.cursor }
