package domain

import (
	"errors"
	"time"
)

// ConversationCollection mongo collection holding conversations and their embedded messages
const ConversationCollection = "conversations"

// ErrDuplicateConversation another conversation already holds the (listing, buyer, seller) triple
var ErrDuplicateConversation = errors.New("conversation already exists for listing, buyer and seller")

// Conversation 一個 listing 上 buyer 與 seller 的對話
type Conversation struct {
	ID             string    `bson:"_id" json:"id"`
	ListingID      string    `bson:"listing_id" json:"listing_id"`
	BuyerID        string    `bson:"buyer_id" json:"buyer_id"`
	SellerID       string    `bson:"seller_id" json:"seller_id"`
	Messages       []Message `bson:"messages" json:"messages"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	LastActivityAt time.Time `bson:"last_activity_at" json:"last_activity_at"`
}

// Message 對話中的一則訊息, insertion order is chronological order
type Message struct {
	ID        string    `bson:"id" json:"id"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Read      bool      `bson:"read" json:"read"`
	Deleted   bool      `bson:"deleted" json:"deleted"`
}

// UnreadInfo unread messages of one conversation for one user
type UnreadInfo struct {
	ConversationID string    `bson:"_id" json:"conversation_id"`
	UnreadCount    int       `bson:"unread_count" json:"unread_count"`
	LastUnreadAt   time.Time `bson:"last_unread_at" json:"last_unread_at"`
}

// IsParticipant userID is the buyer or the seller
func (c *Conversation) IsParticipant(userID string) bool {
	return userID != "" && (c.BuyerID == userID || c.SellerID == userID)
}

// OtherParticipant the participant that is not userID
func (c *Conversation) OtherParticipant(userID string) string {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// LastMessage nil when there is no message yet
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// FindMessage nil when messageID is not in the loaded messages
func (c *Conversation) FindMessage(messageID string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			return &c.Messages[i]
		}
	}
	return nil
}

// MessageFlags requested flag changes, nil leaves the flag alone
type MessageFlags struct {
	Read    *bool
	Deleted *bool
}

// Empty no flag requested
func (f MessageFlags) Empty() bool {
	return f.Read == nil && f.Deleted == nil
}

// Clears one of the flags would move true back to false
func (f MessageFlags) Clears() bool {
	return (f.Read != nil && !*f.Read) || (f.Deleted != nil && !*f.Deleted)
}
