package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_DefinedRows(t *testing.T) {
	tests := []struct {
		companyType CompanyType
		primary     Destination
		secondary   Destination
	}{
		{CompanyTypeStartup, DestinationCall, DestinationRequest},
		{CompanyTypeBusiness, DestinationRequest, DestinationCall},
		{CompanyTypeEnterprise, DestinationCall, DestinationRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.companyType), func(t *testing.T) {
			p := Resolve(IntentDiscuss, tt.companyType)
			assert.NotEmpty(t, p.Title)
			assert.Len(t, p.Actions(), 2)
			assert.NotEmpty(t, p.Primary.Label)
			assert.NotEmpty(t, p.Secondary.Label)
			assert.Equal(t, tt.primary, p.Primary.Destination)
			assert.Equal(t, tt.secondary, p.Secondary.Destination)
			assert.NotEqual(t, p.Primary.Destination, p.Secondary.Destination)
		})
	}
}

func TestResolve_IntentDoesNotChangeLookup(t *testing.T) {
	for _, ct := range []CompanyType{CompanyTypeStartup, CompanyTypeBusiness, CompanyTypeEnterprise} {
		base := Resolve(IntentDiscuss, ct)
		for _, intent := range []Intent{IntentUnset, IntentRequest, IntentAutomate, Intent("bogus")} {
			assert.Equal(t, base, Resolve(intent, ct))
		}
	}
}

func TestResolve_FallbackForUnsetType(t *testing.T) {
	for _, intent := range []Intent{IntentUnset, IntentDiscuss, IntentRequest, IntentAutomate, Intent("bogus")} {
		p := Resolve(intent, CompanyTypeUnset)
		assert.Equal(t, fallbackPresentation, p)
		assert.Equal(t, DestinationRequest, p.Primary.Destination)
		assert.Equal(t, DestinationCall, p.Secondary.Destination)
	}
	assert.Equal(t, fallbackPresentation, Resolve(IntentDiscuss, CompanyType("government")))
}

func TestPresentation_ActionFor(t *testing.T) {
	p := Resolve(IntentUnset, CompanyTypeBusiness)
	a, ok := p.ActionFor(DestinationCall)
	assert.True(t, ok)
	assert.Equal(t, "Talk to Us First", a.Label)

	_, ok = p.ActionFor(Destination("fax"))
	assert.False(t, ok)
}
