package template

import (
	"testing"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
)

func testContact() *models.Contact {
	return &models.Contact{
		ID:      "contact-1",
		Name:    "Jane  Mary   Doe",
		Email:   "jane@x.com",
		Phone:   "+1 555 0100",
		Address: "1 Main St",
	}
}

func TestSubstitute_ContactNamespace(t *testing.T) {
	contact := testContact()

	tests := []struct {
		template string
		expected string
	}{
		{"{{contact.name}}", "Jane  Mary   Doe"},
		{"{{contact.first_name}}", "Jane"},
		{"{{contact.last_name}}", "Mary Doe"},
		{"{{contact.email}}", "jane@x.com"},
		{"{{contact.phone}}", "+1 555 0100"},
		{"{{contact.address}}", "1 Main St"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.template, contact, nil))
		})
	}
}

func TestSubstitute_CaseAndWhitespace(t *testing.T) {
	contact := testContact()

	assert.Equal(t, "Hi Jane!", Substitute("Hi {{  Contact.First_Name }}!", contact, nil))
	assert.Equal(t, "jane@x.com", Substitute("{{ contact . email }}", contact, nil))
	assert.Equal(t, "https://dl", Substitute("{{QUOTE.DOWNLOADURL}}", contact, map[string]string{"quote.downloadUrl": "https://dl"}))
}

func TestSubstitute_UnknownPlaceholderIsEmpty(t *testing.T) {
	assert.Equal(t, "Value: .", Substitute("Value: {{ nope.missing }}.", testContact(), nil))
	assert.Equal(t, "", Substitute("{{ai.response}}", nil, nil))
}

func TestSubstitute_NilContact(t *testing.T) {
	assert.Equal(t, "Hello , ", Substitute("Hello {{contact.first_name}}, {{contact.email}}", nil, nil))
}

func TestSubstitute_ValuesAreNotResubstituted(t *testing.T) {
	extras := map[string]string{"ai.response": "{{contact.email}}"}

	result := Substitute("{{ai.response}}", testContact(), extras)

	assert.Equal(t, "{{contact.email}}", result)
}

func TestSubstitute_LeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "no placeholders { here }", Substitute("no placeholders { here }", nil, nil))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"Cher", "Cher", ""},
		{"Jane Doe", "Jane", "Doe"},
		{" Jean  Claude   Van Damme ", "Jean", "Claude Van Damme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.name)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestLinkify(t *testing.T) {
	assert.Equal(t, "[Download](https://x/q.pdf)", Linkify("[[Download]]", "https://x/q.pdf"))
	assert.Equal(t, "Download", Linkify("[[Download]]", ""))
	assert.Equal(t,
		"Here it is: [Download Quote](https://x/q.pdf) or [again](https://x/q.pdf)",
		Linkify("Here it is: [[Download Quote]] or [[again]]", "https://x/q.pdf"),
	)
	assert.Equal(t, "no links", Linkify("no links", "https://x"))
}
