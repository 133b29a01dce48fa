package reportapi

import (
	"encoding/json"
	"mime"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oklog/ulid/v2"
)

// submitRequest is the ingestion payload. Report is kept raw so that
// empty, absent, null, or numeric values coerce to "" instead of failing
// the request; the upstream integration engine is not always well-behaved.
type submitRequest struct {
	Report   json.RawMessage `json:"report"`
	ReportID string          `json:"reportId"`
}

type submitResponse struct {
	ReportID    string  `json:"report_id"`
	Verdict     string  `json:"verdict"`
	Probability float64 `json:"probability"`
}

func (a *API) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, `{"error":"unsupported media type"}`, http.StatusUnsupportedMediaType)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	id := req.ReportID
	if id == "" {
		id = ulid.Make().String()
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("radalert.report.id", id))

	outcome, err := a.svc.Process(r.Context(), id, coerceText(req.Report))
	if err != nil {
		// Only persistence failures surface here; anything upstream has
		// already degraded to a safe default inside the pipeline.
		a.logger.Error(r.Context(), err, "triage pipeline failed", "report_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("radalert.report.verdict", string(outcome.Verdict)))

	writeJSON(w, http.StatusOK, submitResponse{
		ReportID:    outcome.ReportID,
		Verdict:     string(outcome.Verdict),
		Probability: outcome.Probability,
	})
}

// coerceText extracts the report text; any non-string JSON value becomes
// the empty string rather than an error.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
