package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/internal/conversation/repository"
	errprocess "classifieds_service/pkg/err"
	"classifieds_service/pkg/logger"
	"classifieds_service/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgConversationNotFound = "conversation not found"
	msgListingNotFound      = "listing not found"
	msgNotParticipant       = "you are not a participant of this conversation"
)

// ConversationUseCase 對話的建立與查詢
type ConversationUseCase struct {
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
	directory domain.Directory
	events    repository.EventPublisher
	now       func() time.Time
}

// NewConversationUseCase init conversation use case, events may be nil
func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	directory domain.Directory,
	events repository.EventPublisher,
) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		directory: directory,
		events:    events,
		now:       storeNow,
	}
}

// storeNow mongo keeps milliseconds
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FindOrCreate return the caller's conversation about listingID, open it when missing
func (uc *ConversationUseCase) FindOrCreate(ctx context.Context, listingID, userID string) (*domain.ConversationView, error) {
	const op = "conversation.find_or_create"

	if strings.TrimSpace(listingID) == "" {
		return nil, errprocess.Validation(op, "listing_id is required")
	}

	listing, err := uc.getListing(ctx, op, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == userID {
		return nil, errprocess.Forbidden(op, "you cannot start a conversation on your own listing")
	}

	conv, err := uc.findOrCreate(ctx, listing, userID)
	if err != nil {
		return nil, err
	}

	users := lookupUsers(ctx, uc.directory, conv.BuyerID, conv.SellerID)
	return toConversationView(conv, userID, listing, users), nil
}

// findOrCreate the unique index decides concurrent creates, the loser reads the winner once
func (uc *ConversationUseCase) findOrCreate(ctx context.Context, listing *domain.Listing, buyerID string) (*domain.Conversation, error) {
	const op = "conversation.find_or_create"
	fields := []zap.Field{zap.String("listing_id", listing.ID), zap.String("buyer_id", buyerID)}

	conv, err := uc.convRepo.FindByParticipants(ctx, listing.ID, buyerID, listing.SellerID)
	if err != nil {
		return nil, errprocess.Internal(op, err, fields...)
	}
	if conv != nil {
		return conv, nil
	}

	now := uc.now()
	conv = &domain.Conversation{
		ID:             uuid.New().String(),
		ListingID:      listing.ID,
		BuyerID:        buyerID,
		SellerID:       listing.SellerID,
		Messages:       []domain.Message{},
		CreatedAt:      now,
		LastActivityAt: now,
	}

	err = uc.convRepo.Create(ctx, conv)
	if errors.Is(err, domain.ErrDuplicateConversation) {
		existing, err := uc.convRepo.FindByParticipants(ctx, listing.ID, buyerID, listing.SellerID)
		if err != nil {
			return nil, errprocess.Internal(op, err, fields...)
		}
		if existing == nil {
			return nil, errprocess.Internal(op, errors.New("duplicate conversation not readable"), fields...)
		}
		return existing, nil
	}
	if err != nil {
		return nil, errprocess.Internal(op, err, fields...)
	}

	metrics.ConversationsCreated.Inc()
	logger.Log.Info("conversation created", zap.String("conversation_id", conv.ID), zap.String("listing_id", conv.ListingID))
	publishActivity(ctx, uc.events, domain.ActivityEvent{
		Type:           domain.EventConversationCreated,
		ConversationID: conv.ID,
		ListingID:      conv.ListingID,
		ActorID:        buyerID,
		OccurredAt:     now,
	})
	return conv, nil
}

// FindByID conversation with messages, only for its participants
func (uc *ConversationUseCase) FindByID(ctx context.Context, conversationID, userID string) (*domain.ConversationView, error) {
	conv, err := uc.Authorize(ctx, "conversation.find_by_id", conversationID, userID)
	if err != nil {
		return nil, err
	}

	users := lookupUsers(ctx, uc.directory, conv.BuyerID, conv.SellerID)
	listings := lookupListings(ctx, uc.directory, conv.ListingID)
	return toConversationView(conv, userID, listingRef(listings, conv.ListingID), users), nil
}

// Authorize load conversationID and check userID takes part in it
func (uc *ConversationUseCase) Authorize(ctx context.Context, op, conversationID, userID string) (*domain.Conversation, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errprocess.Validation(op, "conversation_id is required")
	}

	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, errprocess.Internal(op, err, zap.String("conversation_id", conversationID))
	}
	if conv == nil {
		return nil, errprocess.NotFound(op, msgConversationNotFound)
	}
	if !conv.IsParticipant(userID) {
		return nil, errprocess.Forbidden(op, msgNotParticipant)
	}
	return conv, nil
}

// ListForUser every conversation of userID, latest activity first, with last message and unread count
func (uc *ConversationUseCase) ListForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	const op = "conversation.list_for_user"

	conversations, err := uc.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal(op, err, zap.String("user_id", userID))
	}

	unreadInfos, err := uc.msgRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal(op, err, zap.String("user_id", userID))
	}
	unread := make(map[string]int, len(unreadInfos))
	for _, info := range unreadInfos {
		unread[info.ConversationID] = info.UnreadCount
	}

	var userIDs, listingIDs []string
	for i := range conversations {
		userIDs = append(userIDs, conversations[i].OtherParticipant(userID))
		listingIDs = append(listingIDs, conversations[i].ListingID)
	}
	users := lookupUsers(ctx, uc.directory, userIDs...)
	listings := lookupListings(ctx, uc.directory, listingIDs...)

	summaries := make([]domain.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		summaries = append(summaries, toSummary(&conversations[i], userID, listings, users, unread))
	}
	return summaries, nil
}

func (uc *ConversationUseCase) getListing(ctx context.Context, op, listingID string) (*domain.Listing, error) {
	listing, err := uc.directory.GetListing(ctx, listingID)
	if err != nil {
		return nil, errprocess.Internal(op, err, zap.String("listing_id", listingID))
	}
	if listing == nil {
		return nil, errprocess.NotFound(op, msgListingNotFound)
	}
	return listing, nil
}

func publishActivity(ctx context.Context, events repository.EventPublisher, event domain.ActivityEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		logger.Log.Warn("activity event publish failed",
			zap.String("type", string(event.Type)),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err),
		)
	}
}
