package intake

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	callAction    = Action{Label: "Book a Call", Destination: DestinationCall}
	requestAction = Action{Label: "Request Service", Destination: DestinationRequest}
)

func TestEncode_DescriptionIsLossless(t *testing.T) {
	enc := NewEncoder(DefaultDestinations)
	u := enc.Encode(UserContext{
		Intent:      IntentDiscuss,
		CompanyType: CompanyTypeEnterprise,
		Description: "Need <b>help</b> scaling",
	}, callAction)

	assert.Equal(t, "/book-call.html", u.Path)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "Need <b>help</b> scaling", q.Get("description"))
	assert.Equal(t, "discuss", q.Get("intent"))
	assert.Equal(t, "enterprise", q.Get("type"))
	assert.NotContains(t, u.RawQuery, "<")
	assert.Equal(t, "/book-call.html?intent=discuss&type=enterprise&description=Need+%3Cb%3Ehelp%3C%2Fb%3E+scaling", u.String())
}

func TestEncode_RoundTripsAwkwardText(t *testing.T) {
	enc := NewEncoder(DefaultDestinations)
	inputs := []string{
		"a+b=c & d",
		"100% ready?#anchor",
		"naïve café — 日本語",
		"line one\nline two\ttabbed",
		"'quotes' \"double\" `back`",
	}
	for _, in := range inputs {
		u := enc.Encode(UserContext{Description: in}, requestAction)
		q, err := url.ParseQuery(u.RawQuery)
		require.NoError(t, err)
		assert.Equal(t, in, q.Get("description"))
	}
}

func TestEncode_AutomationSideChannel(t *testing.T) {
	enc := NewEncoder(DefaultDestinations)
	for _, action := range []Action{callAction, requestAction} {
		u := enc.Encode(UserContext{Intent: IntentAutomate, CompanyType: CompanyTypeBusiness}, action)
		q, _ := url.ParseQuery(u.RawQuery)
		assert.Equal(t, "automation", q.Get("service"))

		for _, intent := range []Intent{IntentDiscuss, IntentRequest, IntentUnset} {
			u := enc.Encode(UserContext{Intent: intent, CompanyType: CompanyTypeBusiness}, action)
			q, _ := url.ParseQuery(u.RawQuery)
			_, has := q["service"]
			assert.False(t, has, "intent %q must not carry service", intent)
		}
	}
}

func TestEncode_OnlySetFields(t *testing.T) {
	enc := NewEncoder(Destinations{})
	u := enc.Encode(UserContext{}, requestAction)
	assert.Equal(t, "/order.html", u.String())

	u = enc.Encode(UserContext{Intent: Intent("future"), CompanyType: CompanyTypeStartup}, requestAction)
	assert.Equal(t, "/order.html?type=startup", u.String())
}

func TestEncode_CustomDestinations(t *testing.T) {
	enc := NewEncoder(Destinations{Call: "/book", Request: "/order"})
	assert.Equal(t, "/book", enc.Encode(UserContext{}, callAction).Path)
	assert.Equal(t, "/order", enc.Encode(UserContext{}, requestAction).Path)
}

func TestEncode_RootsRelativeDestinations(t *testing.T) {
	enc := NewEncoder(Destinations{Call: "book-call.html", Request: " pages/order.html "})
	assert.Equal(t, "/book-call.html", enc.Encode(UserContext{}, callAction).String())
	assert.Equal(t, "/pages/order.html?intent=request",
		enc.Encode(UserContext{Intent: IntentRequest}, requestAction).String())
}

func TestDecodeHandoff(t *testing.T) {
	enc := NewEncoder(DefaultDestinations)
	u := enc.Encode(UserContext{
		Intent:      IntentAutomate,
		CompanyType: CompanyTypeStartup,
		Description: "Need <b>help</b> scaling",
	}, callAction)

	p := DecodeHandoff(u.Query())
	assert.Equal(t, IntentAutomate, p.Intent)
	assert.Equal(t, CompanyTypeStartup, p.CompanyType)
	assert.Equal(t, "Need <b>help</b> scaling", p.Description)
	assert.True(t, p.Automation())

	p = DecodeHandoff(url.Values{"intent": {"hack"}, "service": {"other"}})
	assert.Equal(t, Prefill{}, p)
}
