package app

import (
	"context"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/pkg"
	"classifieds_service/pkg/logger"

	"go.uber.org/zap"
)

// display fields are best effort, a failing directory only hides names and titles

func lookupUsers(ctx context.Context, directory domain.Directory, ids ...string) map[string]domain.User {
	ids = pkg.Unique(ids)
	if directory == nil || len(ids) == 0 {
		return map[string]domain.User{}
	}
	users, err := directory.GetUsers(ctx, ids)
	if err != nil {
		logger.Log.Warn("user display lookup failed", zap.Strings("user_ids", ids), zap.Error(err))
		return map[string]domain.User{}
	}
	return users
}

func lookupListings(ctx context.Context, directory domain.Directory, ids ...string) map[string]domain.Listing {
	ids = pkg.Unique(ids)
	if directory == nil || len(ids) == 0 {
		return map[string]domain.Listing{}
	}
	listings, err := directory.GetListings(ctx, ids)
	if err != nil {
		logger.Log.Warn("listing display lookup failed", zap.Strings("listing_ids", ids), zap.Error(err))
		return map[string]domain.Listing{}
	}
	return listings
}

func userRef(users map[string]domain.User, id string) *domain.User {
	if u, ok := users[id]; ok {
		return &u
	}
	return nil
}

func listingRef(listings map[string]domain.Listing, id string) *domain.Listing {
	if l, ok := listings[id]; ok {
		return &l
	}
	return nil
}

func toMessageView(conv *domain.Conversation, m domain.Message, viewerID string, users map[string]domain.User) domain.MessageView {
	receiverID := conv.OtherParticipant(m.SenderID)
	return domain.MessageView{
		ID:             m.ID,
		ConversationID: conv.ID,
		SenderID:       m.SenderID,
		ReceiverID:     receiverID,
		Sender:         userRef(users, m.SenderID),
		Receiver:       userRef(users, receiverID),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Read:           m.Read,
		Deleted:        m.Deleted,
		IsFromMe:       m.SenderID == viewerID,
	}
}

func toMessageViews(conv *domain.Conversation, viewerID string, users map[string]domain.User) []domain.MessageView {
	views := make([]domain.MessageView, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		views = append(views, toMessageView(conv, m, viewerID, users))
	}
	return views
}

func toConversationView(conv *domain.Conversation, viewerID string, listing *domain.Listing, users map[string]domain.User) *domain.ConversationView {
	return &domain.ConversationView{
		ID:             conv.ID,
		ListingID:      conv.ListingID,
		BuyerID:        conv.BuyerID,
		SellerID:       conv.SellerID,
		Listing:        listing,
		Buyer:          userRef(users, conv.BuyerID),
		Seller:         userRef(users, conv.SellerID),
		Messages:       toMessageViews(conv, viewerID, users),
		CreatedAt:      conv.CreatedAt,
		LastActivityAt: conv.LastActivityAt,
	}
}

func toSummary(conv *domain.Conversation, viewerID string, listings map[string]domain.Listing, users map[string]domain.User, unread map[string]int) domain.ConversationSummary {
	otherID := conv.OtherParticipant(viewerID)
	summary := domain.ConversationSummary{
		ID:             conv.ID,
		ListingID:      conv.ListingID,
		Listing:        listingRef(listings, conv.ListingID),
		OtherUserID:    otherID,
		OtherUser:      userRef(users, otherID),
		IsSeller:       conv.SellerID == viewerID,
		UnreadCount:    unread[conv.ID],
		LastActivityAt: conv.LastActivityAt,
		CreatedAt:      conv.CreatedAt,
	}
	if last := conv.LastMessage(); last != nil {
		summary.LastMessage = &domain.LastMessageView{
			ID:        last.ID,
			Content:   last.Content,
			Timestamp: last.Timestamp,
			IsFromMe:  last.SenderID == viewerID,
			Deleted:   last.Deleted,
		}
	}
	return summary
}
