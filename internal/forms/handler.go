// Package forms serves the destination pages' submission endpoints.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/wolfman30/atomnext-intake/internal/catalog"
	"github.com/wolfman30/atomnext-intake/internal/intake"
	"github.com/wolfman30/atomnext-intake/internal/leads"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

const maxBodyBytes = 64 << 10

const (
	msgBookCallOK       = "Your call request has been received. We'll contact you soon."
	msgRequestServiceOK = "Thanks! We've received your request and will get back to you shortly."
	msgMissingFields    = "Missing required fields"
	msgInvalidEmail     = "Invalid email address"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid request body"
	msgFailed           = "Something went wrong. Please try again or contact us directly."
)

// Notifier emails the owner and visitor about a stored submission.
type Notifier interface {
	NotifySubmission(ctx context.Context, sub *leads.Submission) error
}

// Archiver keeps a scrubbed long-term copy of a submission.
type Archiver interface {
	Archive(ctx context.Context, sub *leads.Submission)
}

// Config wires a Handler's collaborators. Archiver, Catalog and Metrics may be nil.
type Config struct {
	Repository leads.Repository
	Notifier   Notifier
	Archiver   Archiver
	Catalog    *catalog.Catalog
	Metrics    *metrics.FormsMetrics
	Logger     *logging.Logger
}

// Handler accepts book-call and request-service submissions.
type Handler struct {
	repo     leads.Repository
	notifier Notifier
	archiver Archiver
	catalog  *catalog.Catalog
	metrics  *metrics.FormsMetrics
	logger   *logging.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.Repository == nil {
		panic("forms: repository cannot be nil")
	}
	if cfg.Notifier == nil {
		panic("forms: notifier cannot be nil")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		archiver: cfg.Archiver,
		catalog:  cfg.Catalog,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// Response is the JSON body of every submission reply.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// BookCall handles POST /api/book-call.
func (h *Handler) BookCall(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, leads.KindBookCall, msgBookCallOK)
}

// RequestService handles POST /api/request-service.
func (h *Handler) RequestService(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, leads.KindRequestService, msgRequestServiceOK)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, kind leads.Kind, okMessage string) {
	form := string(kind)
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Error: msgMethodNotAllowed})
		return
	}

	req, err := decodeRequest(w, r)
	if err != nil {
		h.metrics.ObserveSubmission(form, "invalid")
		writeJSON(w, http.StatusBadRequest, Response{Error: msgInvalidBody})
		return
	}
	req.Kind = kind

	sub, err := h.repo.Create(r.Context(), req)
	if err != nil {
		var missing *leads.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			h.metrics.ObserveSubmission(form, "invalid")
			writeJSON(w, http.StatusBadRequest, Response{Error: msgMissingFields, Fields: missing.Fields})
		case errors.Is(err, leads.ErrInvalidEmail):
			h.metrics.ObserveSubmission(form, "invalid")
			writeJSON(w, http.StatusBadRequest, Response{Error: msgInvalidEmail})
		default:
			h.metrics.ObserveSubmission(form, "failed")
			h.logger.Error("forms: failed to store submission", "error", err, "form", form)
			writeJSON(w, http.StatusInternalServerError, Response{Error: msgFailed})
		}
		return
	}

	logger := h.logger.With("form", form, "submission_id", sub.ID)
	if err := h.notifier.NotifySubmission(r.Context(), sub); err != nil {
		h.metrics.ObserveSubmission(form, "failed")
		logger.Error("forms: failed to send notifications", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{Error: msgFailed})
		return
	}

	if h.archiver != nil {
		h.archiver.Archive(r.Context(), sub)
	}

	h.metrics.ObserveSubmission(form, "accepted")
	logger.Info("forms: submission accepted", "service", sub.Service, "intent", sub.Intent)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: okMessage, ID: sub.ID})
}

// decodeRequest reads a JSON body, or a urlencoded/multipart form when the
// page posts without script.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*leads.CreateSubmissionRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
	default:
		var req leads.CreateSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	get := func(key string) string { return strings.TrimSpace(r.PostForm.Get(key)) }
	return &leads.CreateSubmissionRequest{
		Name:          get("name"),
		Email:         get("email"),
		Phone:         get("phone"),
		Company:       get("company"),
		Service:       get("service"),
		Timeline:      get("timeline"),
		Budget:        get("budget"),
		PreferredDate: get("date"),
		PreferredTime: get("time"),
		Description:   get("description"),
		Message:       get("message"),
		Intent:        get("intent"),
		CompanyType:   get("type"),
	}, nil
}

// PrefillResponse carries form defaults recovered from a wizard handoff.
type PrefillResponse struct {
	intake.Prefill
	ServiceLabel string `json:"service_label,omitempty"`
}

// Prefill handles GET /api/prefill. It echoes the handoff query as form
// defaults, mapping the automation side channel to its catalog service.
func (h *Handler) Prefill(w http.ResponseWriter, r *http.Request) {
	p := intake.DecodeHandoff(r.URL.Query())
	resp := PrefillResponse{Prefill: p}
	if p.Automation() {
		if svc, ok := h.catalog.Lookup(catalog.AutomationService); ok {
			resp.Service = svc.Value
			resp.ServiceLabel = svc.Label
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
