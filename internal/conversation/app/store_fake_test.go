package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"classifieds_service/internal/conversation/domain"
)

// memoryStore in-memory ConversationRepository + MessageRepository with the same
// uniqueness and ordering rules as the mongo repositories
type memoryStore struct {
	mu    sync.Mutex
	convs map[string]*domain.Conversation
	order []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{convs: make(map[string]*domain.Conversation)}
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	cp := *c
	cp.Messages = append([]domain.Message{}, c.Messages...)
	return &cp
}

func (s *memoryStore) EnsureIndexes(context.Context) error { return nil }

func (s *memoryStore) Create(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if c.ListingID == conv.ListingID && c.BuyerID == conv.BuyerID && c.SellerID == conv.SellerID {
			return domain.ErrDuplicateConversation
		}
	}
	s.convs[conv.ID] = cloneConversation(conv)
	s.order = append(s.order, conv.ID)
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, conversationID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convs[conversationID]; ok {
		return cloneConversation(c), nil
	}
	return nil, nil
}

func (s *memoryStore) FindByParticipants(_ context.Context, listingID, buyerID, sellerID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if c.ListingID == listingID && c.BuyerID == buyerID && c.SellerID == sellerID {
			return cloneConversation(c), nil
		}
	}
	return nil, nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []domain.Conversation{}
	for _, id := range s.order {
		c := s.convs[id]
		if !c.IsParticipant(userID) {
			continue
		}
		cp := cloneConversation(c)
		if last := c.LastMessage(); last != nil {
			cp.Messages = []domain.Message{*last}
		}
		list = append(list, *cp)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].LastActivityAt.Equal(list[j].LastActivityAt) {
			return list[i].LastActivityAt.After(list[j].LastActivityAt)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *memoryStore) Append(_ context.Context, conversationID, senderID, messageID, content string, now time.Time) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok || !c.IsParticipant(senderID) {
		return nil, nil
	}
	ts := now
	if c.LastActivityAt.After(ts) {
		ts = c.LastActivityAt
	}
	c.LastActivityAt = ts
	c.Messages = append(c.Messages, domain.Message{
		ID:        messageID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: ts,
	})
	return cloneConversation(c), nil
}

func (s *memoryStore) FindByMessageID(_ context.Context, messageID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if m := c.FindMessage(messageID); m != nil {
			cp := cloneConversation(c)
			cp.Messages = []domain.Message{*m}
			return cp, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) SetFlags(_ context.Context, messageID, userID string, flags domain.MessageFlags) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if !c.IsParticipant(userID) {
			continue
		}
		if m := c.FindMessage(messageID); m != nil {
			if flags.Read != nil {
				m.Read = true
			}
			if flags.Deleted != nil {
				m.Deleted = true
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) CountUnread(_ context.Context, userID string) ([]domain.UnreadInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := []domain.UnreadInfo{}
	for _, id := range s.order {
		c := s.convs[id]
		if !c.IsParticipant(userID) {
			continue
		}
		info := domain.UnreadInfo{ConversationID: c.ID}
		for _, m := range c.Messages {
			if m.SenderID != userID && !m.Read && !m.Deleted {
				info.UnreadCount++
				if m.Timestamp.After(info.LastUnreadAt) {
					info.LastUnreadAt = m.Timestamp
				}
			}
		}
		if info.UnreadCount > 0 {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

// memoryDirectory fixed users and listings
type memoryDirectory struct {
	listings map[string]domain.Listing
	users    map[string]domain.User
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		listings: make(map[string]domain.Listing),
		users:    make(map[string]domain.User),
	}
}

func (d *memoryDirectory) GetListing(_ context.Context, listingID string) (*domain.Listing, error) {
	if l, ok := d.listings[listingID]; ok {
		return &l, nil
	}
	return nil, nil
}

func (d *memoryDirectory) GetListings(_ context.Context, listingIDs []string) (map[string]domain.Listing, error) {
	out := make(map[string]domain.Listing)
	for _, id := range listingIDs {
		if l, ok := d.listings[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (d *memoryDirectory) GetUsers(_ context.Context, userIDs []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User)
	for _, id := range userIDs {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
