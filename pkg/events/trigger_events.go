package events

import (
	"errors"
)

const (
	QuoteRequestedEvent EventType = "trigger.quote.requested"
	FormSubmittedEvent  EventType = "trigger.form.submitted"
	EmailReceivedEvent  EventType = "trigger.email.received"
	TagAddedEvent       EventType = "trigger.tag.added"
)

var (
	ErrMissingScopeID        = errors.New("scope_id is required")
	ErrMissingContactID      = errors.New("contact_id is required")
	ErrMissingConversationID = errors.New("conversation_id is required")
	ErrMissingFormID         = errors.New("form_id is required")
	ErrMissingTag            = errors.New("tag is required")
)

// IsValidationError reports whether err is a trigger event validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingScopeID) ||
		errors.Is(err, ErrMissingContactID) ||
		errors.Is(err, ErrMissingConversationID) ||
		errors.Is(err, ErrMissingFormID) ||
		errors.Is(err, ErrMissingTag)
}

// QuoteRequested is published when the conversational layer classifies a chat
// message as a quote request.
type QuoteRequested struct {
	BaseEvent

	ConversationID string   `json:"conversation_id"`
	ScopeID        string   `json:"scope_id"`
	Measurement    *float64 `json:"measurement,omitempty"`
}

func (e QuoteRequested) GetType() EventType {
	return QuoteRequestedEvent
}

func (e QuoteRequested) Validate() error {
	if e.ConversationID == "" {
		return ErrMissingConversationID
	}

	if e.ScopeID == "" {
		return ErrMissingScopeID
	}

	return nil
}

func NewQuoteRequested(conversationID, scopeID string, measurement *float64) QuoteRequested {
	return QuoteRequested{
		BaseEvent:      NewBaseEvent(QuoteRequestedEvent, ""),
		ConversationID: conversationID,
		ScopeID:        scopeID,
		Measurement:    measurement,
	}
}

// FormSubmitted carries a public form submission. The contact is either an
// existing contact ID or the submitted contact fields.
type FormSubmitted struct {
	BaseEvent

	FormID      string            `json:"form_id"`
	ScopeID     string            `json:"scope_id"`
	ContactID   string            `json:"contact_id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Address     string            `json:"address,omitempty"`
	Measurement *float64          `json:"measurement,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e FormSubmitted) GetType() EventType {
	return FormSubmittedEvent
}

func (e FormSubmitted) Validate() error {
	if e.FormID == "" {
		return ErrMissingFormID
	}

	if e.ScopeID == "" {
		return ErrMissingScopeID
	}

	return nil
}

// EmailReceived is published when an inbound mailbox receives a message from a known contact.
type EmailReceived struct {
	BaseEvent

	ScopeID   string `json:"scope_id"`
	ContactID string `json:"contact_id"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (e EmailReceived) GetType() EventType {
	return EmailReceivedEvent
}

func (e EmailReceived) Validate() error {
	if e.ScopeID == "" {
		return ErrMissingScopeID
	}

	if e.ContactID == "" {
		return ErrMissingContactID
	}

	return nil
}

func NewEmailReceived(scopeID, contactID, from, subject, body string) EmailReceived {
	return EmailReceived{
		BaseEvent: NewBaseEvent(EmailReceivedEvent, ""),
		ScopeID:   scopeID,
		ContactID: contactID,
		From:      from,
		Subject:   subject,
		Body:      body,
	}
}

// TagAdded is published after a tag was added to a contact.
type TagAdded struct {
	BaseEvent

	ScopeID   string `json:"scope_id"`
	ContactID string `json:"contact_id"`
	Tag       string `json:"tag"`
}

func (e TagAdded) GetType() EventType {
	return TagAddedEvent
}

func (e TagAdded) Validate() error {
	if e.ScopeID == "" {
		return ErrMissingScopeID
	}

	if e.ContactID == "" {
		return ErrMissingContactID
	}

	if e.Tag == "" {
		return ErrMissingTag
	}

	return nil
}

func NewTagAdded(scopeID, contactID, tag string) TagAdded {
	return TagAdded{
		BaseEvent: NewBaseEvent(TagAddedEvent, ""),
		ScopeID:   scopeID,
		ContactID: contactID,
		Tag:       tag,
	}
}
