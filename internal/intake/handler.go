package intake

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// VisitorCookie identifies the visitor across requests.
const VisitorCookie = "intake_visitor"

//go:embed assets/intake.js
var clientScript []byte

// Handler exposes the wizard over HTTP. Every response except the action
// commit is the dialog fragment for the browser to swap in.
type Handler struct {
	sessions      *Sessions
	logger        *logging.Logger
	secureCookie  bool
	navigateDelay time.Duration
}

// NewHandler creates an intake handler.
func NewHandler(sessions *Sessions, secureCookie bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		sessions:      sessions,
		logger:        logger,
		secureCookie:  secureCookie,
		navigateDelay: sessions.cfg.Delays.Navigate,
	}
}

// Routes mounts the intake endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/intake.js", h.Script)
	r.Get("/dialog", h.GetDialog)
	r.Post("/open", h.Open)
	r.Post("/close", h.Close)
	r.Post("/intent", h.SelectIntent)
	r.Post("/type", h.SelectCompanyType)
	r.Post("/description", h.UpdateDescription)
	r.Post("/action", h.ChooseAction)
	return r
}

// ActionResponse tells the browser where to go once the dialog has closed.
// It is the only place the handoff location is delivered.
type ActionResponse struct {
	Location string `json:"location"`
	DelayMS  int64  `json:"delay_ms"`
}

// Script serves the browser side of the dialog.
func (h *Handler) Script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(clientScript)
}

// GetDialog handles GET /intake/dialog.
func (h *Handler) GetDialog(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.writeDialog(w, sess, http.StatusOK)
}

// Open handles POST /intake/open.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Open(strings.TrimSpace(r.FormValue("opener")))
	h.writeDialog(w, sess, http.StatusOK)
}

// Close handles POST /intake/close for the escape key, overlay click and
// close button alike. The browser sends the textarea's current text along
// so a keystroke still in flight is not lost.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := r.ParseForm(); err == nil {
		if text, ok := r.PostForm["description"]; ok && len(text) > 0 {
			if err := sess.Controller.UpdateDescription(r.Context(), text[0]); err != nil {
				h.logger.Debug("intake: description on close ignored", "visitor_id", sess.VisitorID, "error", err)
			}
		}
	}
	sess.Controller.Close(r.Context())
	h.logger.Debug("intake: dismissed", "visitor_id", sess.VisitorID, "via", r.FormValue("via"))
	h.writeDialog(w, sess, http.StatusOK)
}

// SelectIntent handles POST /intake/intent.
func (h *Handler) SelectIntent(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.Controller.SelectIntent(r.Context(), r.FormValue("intent"))
	h.writeDialog(w, sess, statusFor(err))
}

// SelectCompanyType handles POST /intake/type.
func (h *Handler) SelectCompanyType(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.Controller.SelectCompanyType(r.Context(), r.FormValue("type"))
	h.writeDialog(w, sess, statusFor(err))
}

// UpdateDescription handles POST /intake/description. The browser keeps
// its textarea, so nothing is re-rendered on success.
func (h *Handler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := sess.Controller.UpdateDescription(r.Context(), r.FormValue("description")); err != nil {
		h.writeDialog(w, sess, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChooseAction handles POST /intake/action.
func (h *Handler) ChooseAction(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	target, err := sess.Controller.ChooseAction(r.Context(), r.FormValue("action"))
	if err != nil {
		h.writeDialog(w, sess, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ActionResponse{
		Location: target.String(),
		DelayMS:  h.navigateDelay.Milliseconds(),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	visitorID := ""
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			visitorID = id.String()
		}
	}
	if visitorID == "" {
		visitorID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     VisitorCookie,
			Value:    visitorID,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return h.sessions.Get(r.Context(), visitorID)
}

func (h *Handler) writeDialog(w http.ResponseWriter, sess *Session, status int) {
	var buf bytes.Buffer
	if err := sess.Dialog.WriteHTML(&buf); err != nil {
		h.logger.Error("intake: failed to render dialog", "error", err, "visitor_id", sess.VisitorID)
		http.Error(w, "failed to render dialog", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownOption), errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrClosed), errors.Is(err, ErrStepMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
