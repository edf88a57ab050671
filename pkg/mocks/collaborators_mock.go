package mocks

import (
	"context"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/protocol"
	"github.com/stretchr/testify/mock"
)

// MockContactStore is a mock implementation of protocol.ContactStore interface.
type MockContactStore struct {
	mock.Mock
}

func (m *MockContactStore) ContactForConversation(ctx context.Context, conversationID string) (*models.Contact, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactStore) Contact(ctx context.Context, contactID string) (*models.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactStore) AddContactTag(ctx context.Context, contactID, tag string) ([]string, bool, error) {
	args := m.Called(ctx, contactID, tag)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}

	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *MockContactStore) AppendDocumentReference(ctx context.Context, contactID string, ref models.DocumentReference) error {
	args := m.Called(ctx, contactID, ref)

	return args.Error(0)
}

// MockConversationStore is a mock implementation of protocol.ConversationStore interface.
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) ConversationForContact(ctx context.Context, contactID string) (string, error) {
	args := m.Called(ctx, contactID)

	return args.String(0), args.Error(1)
}

func (m *MockConversationStore) InsertAssistantMessage(ctx context.Context, conversationID, content string) error {
	args := m.Called(ctx, conversationID, content)

	return args.Error(0)
}

// MockDocumentGenerator is a mock implementation of protocol.DocumentGenerator interface.
type MockDocumentGenerator struct {
	mock.Mock
}

func (m *MockDocumentGenerator) Generate(ctx context.Context, templateID string, contact *models.Contact, measurement float64) (*models.Document, error) {
	args := m.Called(ctx, templateID, contact, measurement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Document), args.Error(1)
}

// MockEmailSender is a mock implementation of protocol.EmailSender interface.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)

	return args.Error(0)
}

// MockModelCaller is a mock implementation of protocol.ModelCaller interface.
type MockModelCaller struct {
	mock.Mock
}

func (m *MockModelCaller) Complete(ctx context.Context, request protocol.CompletionRequest) (string, error) {
	args := m.Called(ctx, request)

	return args.String(0), args.Error(1)
}

// MockCredentialResolver is a mock implementation of protocol.CredentialResolver interface.
type MockCredentialResolver struct {
	mock.Mock
}

func (m *MockCredentialResolver) APIKey(ctx context.Context, provider string) (string, error) {
	args := m.Called(ctx, provider)

	return args.String(0), args.Error(1)
}
