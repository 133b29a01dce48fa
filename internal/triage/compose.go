package triage

import "fmt"

// reconcileBodyLimit bounds how much stored report text the worker alert
// carries; the channels apply their own wire limits on top.
const reconcileBodyLimit = 500

// ComposeCriticalAlert builds the escalation message for the inline path:
// report id, opinion excerpt, and the classifier confidence formatted as a
// percentage.
func ComposeCriticalAlert(reportID, opinion string, confidence float64) string {
	return fmt.Sprintf(
		"\U0001f6a8 ALERTA CRÍTICA \U0001f6a8\nID Informe: %s\nHallazgos: %s\nConfianza: %.2f%%",
		reportID, opinion, confidence*100,
	)
}

// ComposeReconcileAlert builds the escalation message the reconciliation
// worker sends for a persisted critical report.
func ComposeReconcileAlert(r *Report) string {
	text := r.Text
	if len(text) > reconcileBodyLimit {
		text = text[:reconcileBodyLimit]
	}
	var prob float64
	if r.Probability != nil {
		prob = *r.Probability
	}
	return fmt.Sprintf("ALERTA CRÍTICA\n\n%s...\nprob=%.2f", text, prob)
}
