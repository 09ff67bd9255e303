package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContact(t *testing.T) {
	h1 := HashContact("Asha@Example.com ")
	h2 := HashContact("asha@example.com")
	h3 := HashContact("ravi@example.com")

	assert.Equal(t, h1, h2, "normalized input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 64, "SHA-256 hex should be 64 chars")
}

func TestScrubPII(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"email", "contact me at john@example.com please", "contact me at [EMAIL] please"},
		{"phone", "call me at (330) 333-2654", "call me at[PHONE]"},
		{"phone with plus", "my number is +15005550002", "my number is [PHONE]"},
		{"ten digits", "whatsapp 9845012345", "whatsapp[PHONE]"},
		{"both", "email: a@b.com phone: 330-333-2654", "email: [EMAIL] phone:[PHONE]"},
		{"no pii", "We need an inventory app", "We need an inventory app"},
		{"name kept", "My name is Asha Rao", "My name is Asha Rao"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ScrubPII(tt.input))
		})
	}
}
