package intake

import (
	"encoding/json"
	"strings"
	"time"
)

// Intent is the visitor's top-level reason for engaging.
type Intent string

const (
	IntentUnset    Intent = ""
	IntentDiscuss  Intent = "discuss"
	IntentRequest  Intent = "request"
	IntentAutomate Intent = "automate"
)

// CompanyType is the self-reported organizational stage.
type CompanyType string

const (
	CompanyTypeUnset      CompanyType = ""
	CompanyTypeStartup    CompanyType = "startup"
	CompanyTypeBusiness   CompanyType = "business"
	CompanyTypeEnterprise CompanyType = "enterprise"
)

var intentLabels = map[Intent]string{
	IntentDiscuss:  "Discuss an Idea",
	IntentRequest:  "Request a Service",
	IntentAutomate: "Automate My Business",
}

var companyTypeLabels = map[CompanyType]string{
	CompanyTypeStartup:    "Startup",
	CompanyTypeBusiness:   "Business",
	CompanyTypeEnterprise: "Enterprise",
}

const notSelected = "Not selected"

// ParseIntent maps raw input onto the closed enumeration. Anything else is unset.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentDiscuss:
		return IntentDiscuss
	case IntentRequest:
		return IntentRequest
	case IntentAutomate:
		return IntentAutomate
	default:
		return IntentUnset
	}
}

// ParseCompanyType maps raw input onto the closed enumeration. Anything else is unset.
func ParseCompanyType(raw string) CompanyType {
	switch CompanyType(strings.ToLower(strings.TrimSpace(raw))) {
	case CompanyTypeStartup:
		return CompanyTypeStartup
	case CompanyTypeBusiness:
		return CompanyTypeBusiness
	case CompanyTypeEnterprise:
		return CompanyTypeEnterprise
	default:
		return CompanyTypeUnset
	}
}

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	_, ok := intentLabels[i]
	return ok
}

// Label is the display text, "Not selected" for unset or unknown values.
func (i Intent) Label() string {
	if label, ok := intentLabels[i]; ok {
		return label
	}
	return notSelected
}

// Valid reports whether c is one of the known company types.
func (c CompanyType) Valid() bool {
	_, ok := companyTypeLabels[c]
	return ok
}

// Label is the display text, "Not selected" for unset or unknown values.
func (c CompanyType) Label() string {
	if label, ok := companyTypeLabels[c]; ok {
		return label
	}
	return notSelected
}

// UserContext is everything the wizard learns about a visitor.
type UserContext struct {
	Intent      Intent
	CompanyType CompanyType
	Description string
	CapturedAt  time.Time
}

// record is the persisted shape. Field names are part of the storage contract.
type record struct {
	Intent      *string `json:"intent"`
	Type        *string `json:"type"`
	Description string  `json:"description"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MarshalJSON writes the persisted record.
func (c UserContext) MarshalJSON() ([]byte, error) {
	rec := record{
		Intent:      optional(string(c.Intent)),
		Type:        optional(string(c.CompanyType)),
		Description: c.Description,
	}
	if !c.CapturedAt.IsZero() {
		rec.Timestamp = c.CapturedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads the persisted record. Unknown fields are ignored and
// out-of-range enum values collapse to unset.
func (c *UserContext) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	c.Intent = ParseIntent(deref(rec.Intent))
	c.CompanyType = ParseCompanyType(deref(rec.Type))
	c.Description = rec.Description
	c.CapturedAt = time.Time{}
	if rec.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp); err == nil {
			c.CapturedAt = ts
		}
	}
	return nil
}
