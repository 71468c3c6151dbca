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

const msgMessageNotFound = "message not found"

// SendInput either ConversationID, or ListingID with ReceiverID
type SendInput struct {
	ConversationID string
	ListingID      string
	ReceiverID     string
	Content        string
}

// MessageUseCase 負責處理聊天訊息
type MessageUseCase struct {
	convUC   *ConversationUseCase
	msgRepo  repository.MessageRepository
	notifier Notifier
	now      func() time.Time
}

// NewMessageUseCase init message use case, notifier may be nil
func NewMessageUseCase(convUC *ConversationUseCase, msgRepo repository.MessageRepository, notifier Notifier) *MessageUseCase {
	return &MessageUseCase{
		convUC:   convUC,
		msgRepo:  msgRepo,
		notifier: notifier,
		now:      storeNow,
	}
}

// Append store content from senderID at the end of conversationID
func (uc *MessageUseCase) Append(ctx context.Context, conversationID, senderID, content string) (*domain.SendResult, error) {
	const op = "message.append"

	if strings.TrimSpace(content) == "" {
		return nil, errprocess.Validation(op, "content is required")
	}
	conv, err := uc.convUC.Authorize(ctx, op, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	return uc.append(ctx, conv, senderID, content)
}

// Send resolve the conversation from in and append the message
// a buyer may open the conversation, a seller can only answer an existing one
func (uc *MessageUseCase) Send(ctx context.Context, senderID string, in SendInput) (*domain.SendResult, error) {
	const op = "message.send"

	if strings.TrimSpace(in.Content) == "" {
		return nil, errprocess.Validation(op, "content is required")
	}
	if in.ConversationID != "" {
		return uc.Append(ctx, in.ConversationID, senderID, in.Content)
	}
	if in.ListingID == "" || in.ReceiverID == "" {
		return nil, errprocess.Validation(op, "conversation_id or listing_id with receiver_id is required")
	}
	if in.ReceiverID == senderID {
		return nil, errprocess.Validation(op, "you cannot send a message to yourself")
	}

	listing, err := uc.convUC.getListing(ctx, op, in.ListingID)
	if err != nil {
		return nil, err
	}

	var conv *domain.Conversation
	if listing.SellerID == senderID {
		conv, err = uc.convUC.convRepo.FindByParticipants(ctx, listing.ID, in.ReceiverID, senderID)
		if err != nil {
			return nil, errprocess.Internal(op, err, zap.String("listing_id", listing.ID))
		}
		if conv == nil {
			return nil, errprocess.NotFound(op, msgConversationNotFound)
		}
	} else {
		if in.ReceiverID != listing.SellerID {
			return nil, errprocess.Forbidden(op, "receiver is not the seller of this listing")
		}
		if conv, err = uc.convUC.findOrCreate(ctx, listing, senderID); err != nil {
			return nil, err
		}
	}

	return uc.append(ctx, conv, senderID, in.Content)
}

func (uc *MessageUseCase) append(ctx context.Context, conv *domain.Conversation, senderID, content string) (*domain.SendResult, error) {
	const op = "message.append"
	fields := []zap.Field{zap.String("conversation_id", conv.ID), zap.String("sender_id", senderID)}

	msgID := uuid.New().String()
	updated, err := uc.msgRepo.Append(ctx, conv.ID, senderID, msgID, content, uc.now())
	if err != nil {
		return nil, errprocess.Internal(op, err, fields...)
	}
	if updated == nil {
		return nil, errprocess.NotFound(op, msgConversationNotFound)
	}
	msg := updated.FindMessage(msgID)
	if msg == nil {
		return nil, errprocess.Internal(op, errors.New("appended message missing from result"), fields...)
	}
	metrics.MessagesAppended.Inc()

	users := lookupUsers(ctx, uc.convUC.directory, updated.BuyerID, updated.SellerID)
	listings := lookupListings(ctx, uc.convUC.directory, updated.ListingID)

	result := &domain.SendResult{
		Conversation: toConversationView(updated, senderID, listingRef(listings, updated.ListingID), users),
		Message:      toMessageView(updated, *msg, senderID, users),
	}

	if uc.notifier != nil {
		event := domain.NotifyEvent{
			ConversationID: updated.ID,
			SenderID:       senderID,
			Message:        toMessageView(updated, *msg, updated.OtherParticipant(senderID), users),
		}
		if err := uc.notifier.Publish(ctx, event); err != nil {
			logger.Log.Warn("notify message failed", append(fields, zap.Error(err))...)
		}
	}

	publishActivity(ctx, uc.convUC.events, domain.ActivityEvent{
		Type:           domain.EventMessageAppended,
		ConversationID: updated.ID,
		ListingID:      updated.ListingID,
		ActorID:        senderID,
		MessageID:      msg.ID,
		OccurredAt:     msg.Timestamp,
	})
	return result, nil
}

// MarkRead set read on messageID, repeating it is a no-op
func (uc *MessageUseCase) MarkRead(ctx context.Context, messageID, userID string) (*domain.MessageView, error) {
	read := true
	return uc.UpdateFlags(ctx, messageID, userID, domain.MessageFlags{Read: &read})
}

// MarkDeleted soft delete messageID, content is kept
func (uc *MessageUseCase) MarkDeleted(ctx context.Context, messageID, userID string) (*domain.MessageView, error) {
	deleted := true
	return uc.UpdateFlags(ctx, messageID, userID, domain.MessageFlags{Deleted: &deleted})
}

// UpdateFlags flags only move from false to true, either participant may set them
func (uc *MessageUseCase) UpdateFlags(ctx context.Context, messageID, userID string, flags domain.MessageFlags) (*domain.MessageView, error) {
	const op = "message.update_flags"
	fields := []zap.Field{zap.String("message_id", messageID), zap.String("user_id", userID)}

	if strings.TrimSpace(messageID) == "" {
		return nil, errprocess.Validation(op, "message id is required")
	}
	if flags.Empty() {
		return nil, errprocess.Validation(op, "read or deleted is required")
	}
	if flags.Clears() {
		return nil, errprocess.Validation(op, "read and deleted can only be set to true")
	}

	conv, err := uc.msgRepo.FindByMessageID(ctx, messageID)
	if err != nil {
		return nil, errprocess.Internal(op, err, fields...)
	}
	if conv == nil || !conv.IsParticipant(userID) {
		return nil, errprocess.NotFound(op, msgMessageNotFound)
	}
	msg := conv.FindMessage(messageID)
	if msg == nil {
		return nil, errprocess.NotFound(op, msgMessageNotFound)
	}

	matched, err := uc.msgRepo.SetFlags(ctx, messageID, userID, flags)
	if err != nil {
		return nil, errprocess.Internal(op, err, fields...)
	}
	if !matched {
		return nil, errprocess.NotFound(op, msgMessageNotFound)
	}

	if flags.Read != nil {
		msg.Read = true
		metrics.MessageFlagUpdates.WithLabelValues("read").Inc()
	}
	if flags.Deleted != nil {
		msg.Deleted = true
		metrics.MessageFlagUpdates.WithLabelValues("deleted").Inc()
	}

	users := lookupUsers(ctx, uc.convUC.directory, conv.BuyerID, conv.SellerID)
	view := toMessageView(conv, *msg, userID, users)
	return &view, nil
}

// ListMessages messages of conversationID in timestamp order, deleted ones included
func (uc *MessageUseCase) ListMessages(ctx context.Context, conversationID, userID string) ([]domain.MessageView, error) {
	conv, err := uc.convUC.Authorize(ctx, "message.list", conversationID, userID)
	if err != nil {
		return nil, err
	}
	users := lookupUsers(ctx, uc.convUC.directory, conv.BuyerID, conv.SellerID)
	return toMessageViews(conv, userID, users), nil
}

// ListThread messages between userID and otherUserID about listingID, empty before the first message
func (uc *MessageUseCase) ListThread(ctx context.Context, listingID, otherUserID, userID string) (*domain.ThreadView, error) {
	const op = "message.list_thread"

	if listingID == "" || otherUserID == "" {
		return nil, errprocess.Validation(op, "listing id and other user id are required")
	}
	if otherUserID == userID {
		return nil, errprocess.Validation(op, "other user must be someone else")
	}

	listing, err := uc.convUC.getListing(ctx, op, listingID)
	if err != nil {
		return nil, err
	}

	var buyerID, sellerID string
	switch listing.SellerID {
	case userID:
		buyerID, sellerID = otherUserID, userID
	case otherUserID:
		buyerID, sellerID = userID, otherUserID
	default:
		return nil, errprocess.Forbidden(op, msgNotParticipant)
	}

	conv, err := uc.convUC.convRepo.FindByParticipants(ctx, listing.ID, buyerID, sellerID)
	if err != nil {
		return nil, errprocess.Internal(op, err, zap.String("listing_id", listing.ID))
	}

	users := lookupUsers(ctx, uc.convUC.directory, userID, otherUserID)
	thread := &domain.ThreadView{
		Listing:   listing,
		OtherUser: userRef(users, otherUserID),
		Messages:  []domain.MessageView{},
	}
	if conv != nil {
		thread.ConversationID = conv.ID
		thread.Messages = toMessageViews(conv, userID, users)
	}
	return thread, nil
}
