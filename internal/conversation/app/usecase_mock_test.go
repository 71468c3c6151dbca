package app

import (
	"context"
	"time"

	"classifieds_service/internal/conversation/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// EnsureIndexes moke ensure indexes
func (m *MockConversationRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Create moke create conversation
func (m *MockConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByID moke find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipants moke find conversation by listing, buyer, seller
func (m *MockConversationRepository) FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) (*domain.Conversation, error) {
	args := m.Called(ctx, listingID, buyerID, sellerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByUser moke list conversations of a user
func (m *MockConversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Append moke append message
func (m *MockMessageRepository) Append(ctx context.Context, conversationID, senderID, messageID, content string, now time.Time) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID, senderID, messageID, content, now)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByMessageID moke find conversation by message id
func (m *MockMessageRepository) FindByMessageID(ctx context.Context, messageID string) (*domain.Conversation, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetFlags moke set read / deleted
func (m *MockMessageRepository) SetFlags(ctx context.Context, messageID, userID string, flags domain.MessageFlags) (bool, error) {
	args := m.Called(ctx, messageID, userID, flags)
	return args.Bool(0), args.Error(1)
}

// CountUnread moke get count unread by user id
func (m *MockMessageRepository) CountUnread(ctx context.Context, userID string) ([]domain.UnreadInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.UnreadInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockDirectory Mock Directory
type MockDirectory struct {
	mock.Mock
}

// GetListing moke get listing
func (m *MockDirectory) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetListings moke get listings
func (m *MockDirectory) GetListings(ctx context.Context, listingIDs []string) (map[string]domain.Listing, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetUsers moke get users
func (m *MockDirectory) GetUsers(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) != nil {
		return args.Get(0).(map[string]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventPublisher Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish moke publish activity event
func (m *MockEventPublisher) Publish(ctx context.Context, event domain.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Close moke close
func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// Publish moke push notify event
func (m *MockNotifier) Publish(ctx context.Context, event domain.NotifyEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockBroker Mock Broker
type MockBroker struct {
	mock.Mock
}

// Publish moke publish to channel
func (m *MockBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// PSubscribe moke pattern subscribe, the handler is kept so tests can feed it
func (m *MockBroker) PSubscribe(ctx context.Context, pattern string, handler func(channel string, payload []byte)) error {
	args := m.Called(ctx, pattern, handler)
	return args.Error(0)
}
