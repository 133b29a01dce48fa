package classify

import (
	"context"
	"strings"
)

// criticalTerms is the fixed clinical term set for the fallback heuristic.
var criticalTerms = []string{"neumonia", "fractura", "tumor", "hemorragia"}

const (
	keywordCriticalScore = 0.9
	keywordRoutineScore  = 0.1
)

// Keyword is the deterministic fallback classifier: a report is critical
// when its text contains any term from a fixed clinical set. It never
// fails, so the pipeline always reaches a terminal state even with the
// inference service down.
type Keyword struct{}

// Classify implements Classifier.
func (Keyword) Classify(_ context.Context, text string) (Result, error) {
	lower := strings.ToLower(text)
	for _, term := range criticalTerms {
		if strings.Contains(lower, term) {
			return Result{Label: LabelCritical, Confidence: keywordCriticalScore}, nil
		}
	}
	return Result{Label: LabelRoutine, Confidence: keywordRoutineScore}, nil
}
