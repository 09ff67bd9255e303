package leads

import (
	"regexp"
	"strings"
	"time"
)

// Kind names the form a submission came from.
type Kind string

const (
	KindBookCall       Kind = "book-call"
	KindRequestService Kind = "request-service"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is a stored form submission.
type Submission struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company,omitempty"`
	Service       string    `json:"service,omitempty"`
	Timeline      string    `json:"timeline,omitempty"`
	Budget        string    `json:"budget,omitempty"`
	PreferredDate string    `json:"preferred_date,omitempty"`
	PreferredTime string    `json:"preferred_time,omitempty"`
	Description   string    `json:"description,omitempty"`
	Message       string    `json:"message,omitempty"`
	Intent        string    `json:"intent,omitempty"`
	CompanyType   string    `json:"company_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateSubmissionRequest is the input for storing a submission
type CreateSubmissionRequest struct {
	Kind          Kind   `json:"-"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Service       string `json:"service"`
	Timeline      string `json:"timeline"`
	Budget        string `json:"budget"`
	PreferredDate string `json:"date"`
	PreferredTime string `json:"time"`
	Description   string `json:"description"`
	Message       string `json:"message"`
	Intent        string `json:"intent"`
	CompanyType   string `json:"type"`
}

// MissingFields returns the required fields for the request's kind that
// are blank, in form order.
func (r *CreateSubmissionRequest) MissingFields() []string {
	var required []struct {
		name  string
		value string
	}
	switch r.Kind {
	case KindBookCall:
		required = []struct {
			name  string
			value string
		}{
			{"name", r.Name}, {"email", r.Email}, {"phone", r.Phone},
			{"date", r.PreferredDate}, {"time", r.PreferredTime},
		}
	case KindRequestService:
		required = []struct {
			name  string
			value string
		}{
			{"name", r.Name}, {"email", r.Email}, {"phone", r.Phone},
			{"service", r.Service}, {"description", r.Description}, {"timeline", r.Timeline},
		}
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate checks the request's kind, required fields and email.
func (r *CreateSubmissionRequest) Validate() error {
	if r.Kind != KindBookCall && r.Kind != KindRequestService {
		return ErrUnknownKind
	}
	if missing := r.MissingFields(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if !ValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

func (r *CreateSubmissionRequest) toSubmission(id string, createdAt time.Time) *Submission {
	return &Submission{
		ID:            id,
		Kind:          r.Kind,
		Name:          strings.TrimSpace(r.Name),
		Email:         strings.TrimSpace(r.Email),
		Phone:         strings.TrimSpace(r.Phone),
		Company:       strings.TrimSpace(r.Company),
		Service:       strings.TrimSpace(r.Service),
		Timeline:      strings.TrimSpace(r.Timeline),
		Budget:        strings.TrimSpace(r.Budget),
		PreferredDate: strings.TrimSpace(r.PreferredDate),
		PreferredTime: strings.TrimSpace(r.PreferredTime),
		Description:   strings.TrimSpace(r.Description),
		Message:       strings.TrimSpace(r.Message),
		Intent:        strings.TrimSpace(r.Intent),
		CompanyType:   strings.TrimSpace(r.CompanyType),
		CreatedAt:     createdAt,
	}
}
