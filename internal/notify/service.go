package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wolfman30/atomnext-intake/internal/leads"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ServiceLabeler turns a catalog value into its display label.
type ServiceLabeler interface {
	Label(value string) string
}

// ServiceConfig configures submission notifications.
type ServiceConfig struct {
	OwnerEmail string
	Location   *time.Location
	Services   ServiceLabeler
	Metrics    *metrics.FormsMetrics
	Now        func() time.Time
}

// Service sends the emails that follow a form submission: a full report to
// the site owner and a confirmation to the visitor.
type Service struct {
	email  EmailSender
	cfg    ServiceConfig
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		email:  email,
		cfg:    cfg,
		logger: logger,
	}
}

type emailView struct {
	S         *leads.Submission
	Submitted string
	Service   string
	Context   string
}

// NotifySubmission emails the owner, then the visitor. Either failure is
// returned; the owner email is attempted first so a bad visitor address
// never loses the lead.
func (s *Service) NotifySubmission(ctx context.Context, sub *leads.Submission) error {
	view := emailView{
		S:         sub,
		Submitted: s.cfg.Now().In(s.cfg.Location).Format("1/2/2006, 3:04:05 PM"),
		Service:   sub.Service,
		Context:   wizardSummary(sub),
	}
	if s.cfg.Services != nil && sub.Service != "" {
		view.Service = s.cfg.Services.Label(sub.Service)
	}

	ownerHTML, err := render("owner_"+string(sub.Kind)+".html", view)
	if err != nil {
		return err
	}
	visitorHTML, err := render("visitor_"+string(sub.Kind)+".html", view)
	if err != nil {
		return err
	}

	var ownerSubject, visitorSubject string
	switch sub.Kind {
	case leads.KindBookCall:
		ownerSubject = "New Call Request - " + sub.Name
		visitorSubject = "Call Request Received - AtomNext"
	default:
		ownerSubject = "New Service Request - " + view.Service
		visitorSubject = "Service Request Received - AtomNext"
	}

	if s.cfg.OwnerEmail == "" {
		s.logger.Warn("notify: owner email not configured, skipping owner notification", "submission_id", sub.ID)
	} else {
		err := s.email.Send(ctx, EmailMessage{
			To:      s.cfg.OwnerEmail,
			ReplyTo: sub.Email,
			Subject: ownerSubject,
			HTML:    ownerHTML,
		})
		s.cfg.Metrics.ObserveEmail("owner", err == nil)
		if err != nil {
			return fmt.Errorf("notify: owner email: %w", err)
		}
	}

	err = s.email.Send(ctx, EmailMessage{
		To:      sub.Email,
		ToName:  sub.Name,
		Subject: visitorSubject,
		HTML:    visitorHTML,
	})
	s.cfg.Metrics.ObserveEmail("visitor", err == nil)
	if err != nil {
		return fmt.Errorf("notify: visitor email: %w", err)
	}

	s.logger.Info("notify: submission emails sent", "submission_id", sub.ID, "kind", sub.Kind)
	return nil
}

func render(name string, view emailView) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", name, err)
	}
	return buf.String(), nil
}

func wizardSummary(sub *leads.Submission) string {
	var parts []string
	if sub.Intent != "" {
		parts = append(parts, "intent: "+sub.Intent)
	}
	if sub.CompanyType != "" {
		parts = append(parts, "company type: "+sub.CompanyType)
	}
	return strings.Join(parts, ", ")
}
