package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/atomnext-intake/internal/catalog"
	"github.com/wolfman30/atomnext-intake/internal/chatbot"
	"github.com/wolfman30/atomnext-intake/internal/forms"
	httpmiddleware "github.com/wolfman30/atomnext-intake/internal/http/middleware"
	"github.com/wolfman30/atomnext-intake/internal/intake"
	"github.com/wolfman30/atomnext-intake/internal/leads"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger      *logging.Logger
	Intake      *intake.Handler
	Forms       *forms.Handler
	Chat        *chatbot.Handler
	Catalog     *catalog.Handler
	Submissions *leads.Handler

	// Site serves the static pages; unmatched paths fall through to it.
	Site http.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	HealthChecks       map[string]HealthCheck

	// Per-IP limit on form and chat POSTs. Zero disables limiting.
	FormsRatePerSecond float64
	FormsRateBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "text/html", "text/css", "application/json", "text/javascript"))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.FormsRatePerSecond > 0 {
		limit = httpmiddleware.RateLimit(cfg.FormsRatePerSecond, cfg.FormsRateBurst)
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Intake != nil {
			public.Mount("/intake", cfg.Intake.Routes())
		}
	})

	r.Route("/api", func(api chi.Router) {
		if cfg.Forms != nil {
			// HandleFunc so wrong methods get the JSON 405 body.
			api.With(limit).HandleFunc("/book-call", cfg.Forms.BookCall)
			api.With(limit).HandleFunc("/request-service", cfg.Forms.RequestService)
			api.Get("/prefill", cfg.Forms.Prefill)
		}
		if cfg.Chat != nil {
			api.With(limit).HandleFunc("/chat", cfg.Chat.Chat)
			api.Get("/chat/history", cfg.Chat.History)
			api.Get("/chat/ws", cfg.Chat.HandleWebSocket)
		}
		if cfg.Catalog != nil {
			api.Get("/services", cfg.Catalog.Search)
		}
	})

	// Paths the site's pages posted to before the API existed.
	r.Route("/.netlify/functions", func(legacy chi.Router) {
		if cfg.Forms != nil {
			legacy.With(limit).HandleFunc("/book-call", cfg.Forms.BookCall)
			legacy.With(limit).HandleFunc("/request-service", cfg.Forms.RequestService)
		}
		if cfg.Chat != nil {
			legacy.With(limit).HandleFunc("/chat", cfg.Chat.Chat)
		}
	})

	if cfg.Submissions != nil && cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/submissions", cfg.Submissions.ListSubmissions)
			admin.Get("/submissions/{id}", cfg.Submissions.GetSubmission)
		})
	}

	if cfg.Site != nil {
		r.Handle("/*", cfg.Site)
	}

	return r
}
