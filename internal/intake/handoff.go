package intake

import (
	"net/url"
	"strings"
)

// Query parameter names shared with the destination pages.
const (
	ParamIntent      = "intent"
	ParamType        = "type"
	ParamDescription = "description"
	ParamService     = "service"

	automationService = "automation"
)

// Destinations maps each destination kind to a page path.
type Destinations struct {
	Call    string
	Request string
}

// DefaultDestinations are the site's booking and service-request pages.
var DefaultDestinations = Destinations{
	Call:    "/book-call.html",
	Request: "/order.html",
}

// Path returns the page for dest.
func (d Destinations) Path(dest Destination) string {
	if dest == DestinationCall {
		return d.Call
	}
	return d.Request
}

// Encoder builds handoff URLs.
type Encoder struct {
	destinations Destinations
}

// NewEncoder creates an encoder, filling empty paths from the defaults.
// Paths are rooted so the handoff lands on the same page whichever page
// the wizard was opened from.
func NewEncoder(d Destinations) *Encoder {
	d.Call = rootPath(d.Call, DefaultDestinations.Call)
	d.Request = rootPath(d.Request, DefaultDestinations.Request)
	return &Encoder{destinations: d}
}

func rootPath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Encode builds the destination URL for action with the set fields of uc
// attached as query parameters.
func (e *Encoder) Encode(uc UserContext, action Action) *url.URL {
	u := &url.URL{Path: e.destinations.Path(action.Destination)}

	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	if uc.Intent.Valid() {
		add(ParamIntent, string(uc.Intent))
	}
	if uc.CompanyType.Valid() {
		add(ParamType, string(uc.CompanyType))
	}
	if uc.Description != "" {
		add(ParamDescription, uc.Description)
	}
	if uc.Intent == IntentAutomate {
		add(ParamService, automationService)
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u
}

// Prefill is what a destination page recovers from a handoff URL.
type Prefill struct {
	Intent      Intent      `json:"intent,omitempty"`
	CompanyType CompanyType `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Service     string      `json:"service,omitempty"`
}

// Automation reports whether the handoff asked for the automation service.
func (p Prefill) Automation() bool {
	return p.Service == automationService
}

// DecodeHandoff reads the handoff parameters; unknown enum values are dropped.
func DecodeHandoff(q url.Values) Prefill {
	p := Prefill{
		Intent:      ParseIntent(q.Get(ParamIntent)),
		CompanyType: ParseCompanyType(q.Get(ParamType)),
		Description: q.Get(ParamDescription),
	}
	if q.Get(ParamService) == automationService {
		p.Service = automationService
	}
	return p
}
