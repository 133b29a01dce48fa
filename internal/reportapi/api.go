// Package reportapi exposes the HTTP boundary: report ingestion, report
// lookup, and the admin recipient-config endpoints.
package reportapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/linnemanlabs/radalert/internal/authmw"
	"github.com/linnemanlabs/radalert/internal/triage"
)

// TriageService defines the business operations reportapi needs.
type TriageService interface {
	Process(ctx context.Context, reportID, rawText string) (*triage.Outcome, error)
	GetReport(ctx context.Context, id string) (*triage.Report, bool, error)
	Recipients(ctx context.Context) triage.Recipients
	UpdateRecipients(ctx context.Context, email, whatsapp *string) (triage.Recipients, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger     log.Logger
	svc        TriageService
	adminToken string
}

// New creates a new API handler. adminToken guards the config endpoints;
// empty disables the guard.
func New(logger log.Logger, svc TriageService, adminToken string) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	return &API{
		logger:     logger,
		svc:        svc,
		adminToken: adminToken,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", a.handleSubmitReport)
		r.Get("/reports/{id}", a.handleGetReport)

		r.Route("/config", func(r chi.Router) {
			r.Use(authmw.RequireToken(a.adminToken))
			r.Get("/", a.handleGetConfig)
			r.Put("/", a.handlePutConfig)
		})
	})
}

func (a *API) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("radalert.report.id", id))

	report, ok, err := a.svc.GetReport(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get report", "report_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("radalert.report.verdict", string(report.Verdict)))

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
