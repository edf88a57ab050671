// Package redis stores contacts and chat conversations in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	backend "github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "leadflow:"

	// RoleAssistant marks messages posted by workflows.
	RoleAssistant = "assistant"

	maxTxRetries = 5
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrTxConflict      = errors.New("contact changed concurrently, too many retries")
)

// Message is one entry of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store implements protocol.ContactStore and protocol.ConversationStore.
type Store struct {
	client *backend.Client
	prefix string
	now    func() time.Time
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the time source used for message and conversation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New connects to the Redis server at url, e.g. redis://localhost:6379/0.
func New(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) contactKey(contactID string) string {
	return s.prefix + "contact:" + contactID
}

func (s *Store) contactConversationsKey(contactID string) string {
	return s.prefix + "contact:" + contactID + ":conversations"
}

func (s *Store) conversationContactKey(conversationID string) string {
	return s.prefix + "conversation:" + conversationID + ":contact"
}

func (s *Store) messagesKey(conversationID string) string {
	return s.prefix + "conversation:" + conversationID + ":messages"
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// SaveContact writes the whole contact record.
func (s *Store) SaveContact(ctx context.Context, contact *models.Contact) error {
	data, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}

	err = s.client.Set(ctx, s.contactKey(contact.ID), data, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to save contact %s: %w", contact.ID, err)
	}

	return nil
}

// Contact returns the contact, or nil when it does not exist.
func (s *Store) Contact(ctx context.Context, contactID string) (*models.Contact, error) {
	raw, err := s.client.Get(ctx, s.contactKey(contactID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", contactID, err)
	}

	return decodeContact(raw)
}

// LinkConversation records that the conversation belongs to the contact. The
// most recently linked conversation is the contact's current one.
func (s *Store) LinkConversation(ctx context.Context, conversationID, contactID string) error {
	pipe := s.client.TxPipeline()

	pipe.Set(ctx, s.conversationContactKey(conversationID), contactID, 0)
	pipe.ZAdd(ctx, s.contactConversationsKey(contactID), backend.Z{
		Score:  float64(s.now().UnixMilli()),
		Member: conversationID,
	})

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to link conversation %s: %w", conversationID, err)
	}

	return nil
}

// ContactForConversation returns the conversation's contact, or nil.
func (s *Store) ContactForConversation(ctx context.Context, conversationID string) (*models.Contact, error) {
	contactID, err := s.client.Get(ctx, s.conversationContactKey(conversationID)).Result()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve contact for conversation %s: %w", conversationID, err)
	}

	return s.Contact(ctx, contactID)
}

// ConversationForContact returns the contact's latest conversation, or "".
func (s *Store) ConversationForContact(ctx context.Context, contactID string) (string, error) {
	latest, err := s.client.ZRevRange(ctx, s.contactConversationsKey(contactID), 0, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to list conversations of contact %s: %w", contactID, err)
	}

	if len(latest) == 0 {
		return "", nil
	}

	return latest[0], nil
}

// AddContactTag appends the tag when the stored contact does not carry it yet.
// The equality check runs inside the WATCH transaction, so concurrent adds on
// one contact never drop each other's tags.
func (s *Store) AddContactTag(ctx context.Context, contactID, tag string) ([]string, bool, error) {
	var (
		tags  []string
		added bool
	)

	err := s.updateContact(ctx, contactID, func(contact *models.Contact) bool {
		added = !contact.HasTag(tag)
		if added {
			contact.Tags = append(contact.Tags, tag)
		}

		tags = contact.Tags

		return added
	})
	if err != nil {
		return nil, false, err
	}

	return tags, added, nil
}

// AppendDocumentReference adds a generated document to the contact.
func (s *Store) AppendDocumentReference(ctx context.Context, contactID string, ref models.DocumentReference) error {
	return s.updateContact(ctx, contactID, func(contact *models.Contact) bool {
		contact.Documents = append(contact.Documents, ref)

		return true
	})
}

// InsertAssistantMessage appends an assistant message to the conversation.
func (s *Store) InsertAssistantMessage(ctx context.Context, conversationID, content string) error {
	data, err := json.Marshal(Message{
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.client.RPush(ctx, s.messagesKey(conversationID), data).Err()
	if err != nil {
		return fmt.Errorf("failed to insert message into conversation %s: %w", conversationID, err)
	}

	return nil
}

// Messages returns the conversation in insertion order.
func (s *Store) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	raw, err := s.client.LRange(ctx, s.messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %s: %w", conversationID, err)
	}

	messages := make([]Message, 0, len(raw))

	for _, item := range raw {
		var message Message
		if err := json.Unmarshal([]byte(item), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}

		messages = append(messages, message)
	}

	return messages, nil
}

// updateContact runs a read-modify-write under WATCH and retries when another
// writer touched the contact in between. Nothing is written when mutate
// reports no change.
func (s *Store) updateContact(ctx context.Context, contactID string, mutate func(*models.Contact) bool) error {
	key := s.contactKey(contactID)

	txf := func(tx *backend.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, backend.Nil) {
			return fmt.Errorf("%w: %s", ErrContactNotFound, contactID)
		}

		if err != nil {
			return err
		}

		contact, err := decodeContact(raw)
		if err != nil {
			return err
		}

		if !mutate(contact) {
			return nil
		}

		data, err := json.Marshal(contact)
		if err != nil {
			return fmt.Errorf("failed to marshal contact: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)

			return nil
		})

		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrTxConflict
}

func decodeContact(raw []byte) (*models.Contact, error) {
	var contact models.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}

	return &contact, nil
}
