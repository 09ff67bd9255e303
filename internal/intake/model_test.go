package intake

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"discuss", IntentDiscuss},
		{" Automate ", IntentAutomate},
		{"request", IntentRequest},
		{"migrate", IntentUnset},
		{"", IntentUnset},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.raw))
		})
	}
}

func TestParseCompanyType(t *testing.T) {
	assert.Equal(t, CompanyTypeEnterprise, ParseCompanyType("enterprise"))
	assert.Equal(t, CompanyTypeUnset, ParseCompanyType("nonprofit"))
}

func TestLabelsForUnknownValues(t *testing.T) {
	assert.Equal(t, "Automate My Business", IntentAutomate.Label())
	assert.Equal(t, "Not selected", Intent("teleport").Label())
	assert.Equal(t, "Not selected", CompanyTypeUnset.Label())
	assert.False(t, Intent("teleport").Valid())
}

func TestUserContextJSON(t *testing.T) {
	captured := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	uc := UserContext{
		Intent:      IntentAutomate,
		CompanyType: CompanyTypeBusiness,
		Description: "reduce manual work",
		CapturedAt:  captured,
	}

	data, err := json.Marshal(uc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "automate", raw["intent"])
	assert.Equal(t, "business", raw["type"])
	assert.Equal(t, "reduce manual work", raw["description"])
	assert.NotEmpty(t, raw["timestamp"])

	var back UserContext
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, uc, back)
}

func TestUserContextJSONUnsetFieldsAreNull(t *testing.T) {
	data, err := json.Marshal(UserContext{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"intent":null,"type":null,"description":""}`, string(data))
}

func TestUserContextJSONTolerant(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want UserContext
	}{
		{
			name: "unknown fields ignored",
			in:   `{"intent":"discuss","type":"startup","description":"x","timestamp":"bad","version":7}`,
			want: UserContext{Intent: IntentDiscuss, CompanyType: CompanyTypeStartup, Description: "x"},
		},
		{
			name: "missing fields unset",
			in:   `{"description":"only text"}`,
			want: UserContext{Description: "only text"},
		},
		{
			name: "future enum values unset",
			in:   `{"intent":"partner","type":"government"}`,
			want: UserContext{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got UserContext
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
