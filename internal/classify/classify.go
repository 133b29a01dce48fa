// Package classify provides the classifier adapter boundary: an HTTP
// client for the external text-classification inference service, plus a
// deterministic keyword heuristic the pipeline falls back to when the
// service is unavailable.
package classify

import "context"

// Labels the adapter normalizes inference output to. LabelCritical is the
// sole escalation trigger; any other label is routine.
const (
	LabelCritical = "critical"
	LabelRoutine  = "routine"
)

// Result is a label/confidence pair. Confidence is in [0,1].
type Result struct {
	Label      string
	Confidence float64
}

// Critical reports whether the result triggers escalation.
func (r Result) Critical() bool {
	return r.Label == LabelCritical
}

// Classifier scores a findings excerpt. Implementations may fail (the
// inference service is an external collaborator); callers are expected to
// degrade to the keyword heuristic rather than block.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}
