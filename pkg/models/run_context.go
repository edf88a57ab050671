package models

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Contact is the CRM contact a run acts on.
type Contact struct {
	ID        string              `json:"id"`
	ScopeID   string              `json:"scope_id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	Address   string              `json:"address"`
	Tags      []string            `json:"tags"`
	Documents []DocumentReference `json:"documents"`
}

// HasTag reports whether the contact already carries the tag. Tags are
// compared exactly after trimming, so "vip" and "VIP" are distinct.
func (c *Contact) HasTag(tag string) bool {
	return slices.Contains(c.Tags, strings.TrimSpace(tag))
}

// DocumentReference points at a generated document stored for a contact.
type DocumentReference struct {
	URL         string    `json:"url"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Document is what the document generator returns.
type Document struct {
	URL         string `json:"url"`
	StoragePath string `json:"storage_path"`
}

// InboundEmail is the message that fired an email_received trigger.
type InboundEmail struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RunContext is built per invocation and carries everything the handlers may read.
type RunContext struct {
	ConversationID string            `json:"conversation_id,omitempty"`
	FormID         string            `json:"form_id,omitempty"`
	ScopeID        string            `json:"scope_id,omitempty"`
	Contact        *Contact          `json:"contact,omitempty"`
	Measurement    *float64          `json:"measurement,omitempty"`
	InboundEmail   *InboundEmail     `json:"inbound_email,omitempty"`
	TagAdded       string            `json:"tag_added,omitempty"`
	FormFields     map[string]string `json:"form_fields,omitempty"`
}

// TemplateExtras returns the trigger-specific values available to templates.
func (rc *RunContext) TemplateExtras() map[string]string {
	extras := make(map[string]string)

	if rc.ConversationID != "" {
		extras["conversation.id"] = rc.ConversationID
	}

	if rc.InboundEmail != nil {
		extras["inbound.from"] = rc.InboundEmail.From
		extras["inbound.subject"] = rc.InboundEmail.Subject
		extras["inbound.body"] = rc.InboundEmail.Body
	}

	if rc.TagAdded != "" {
		extras["tag.name"] = rc.TagAdded
	}

	for field, value := range rc.FormFields {
		extras["form."+field] = value
	}

	return extras
}

// Payload is the audit snapshot of the firing event stored on the run.
func (rc *RunContext) Payload() map[string]any {
	payload := map[string]any{}

	if rc.ConversationID != "" {
		payload["conversation_id"] = rc.ConversationID
	}

	if rc.FormID != "" {
		payload["form_id"] = rc.FormID
	}

	if rc.ScopeID != "" {
		payload["scope_id"] = rc.ScopeID
	}

	if rc.Contact != nil {
		payload["contact_id"] = rc.Contact.ID
	}

	if rc.Measurement != nil {
		payload["measurement"] = *rc.Measurement
	}

	if rc.InboundEmail != nil {
		payload["inbound_email"] = map[string]any{
			"from":    rc.InboundEmail.From,
			"subject": rc.InboundEmail.Subject,
		}
	}

	if rc.TagAdded != "" {
		payload["tag_added"] = rc.TagAdded
	}

	if len(rc.FormFields) > 0 {
		payload["form_fields"] = rc.FormFields
	}

	return payload
}

// Clone returns a copy that shares no mutable state with the receiver.
func (rc *RunContext) Clone() *RunContext {
	clone := *rc

	if rc.Contact != nil {
		contact := *rc.Contact
		contact.Tags = slices.Clone(rc.Contact.Tags)
		contact.Documents = slices.Clone(rc.Contact.Documents)
		clone.Contact = &contact
	}

	if rc.Measurement != nil {
		measurement := *rc.Measurement
		clone.Measurement = &measurement
	}

	if rc.InboundEmail != nil {
		email := *rc.InboundEmail
		clone.InboundEmail = &email
	}

	clone.FormFields = maps.Clone(rc.FormFields)

	return &clone
}
