package domain

import "time"

// MessageView message as returned to a participant
type MessageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Sender         *User     `json:"sender,omitempty"`
	Receiver       *User     `json:"receiver,omitempty"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
	Deleted        bool      `json:"deleted"`
	IsFromMe       bool      `json:"is_from_me"`
}

// ConversationView conversation with display fields and its messages
type ConversationView struct {
	ID             string        `json:"id"`
	ListingID      string        `json:"listing_id"`
	BuyerID        string        `json:"buyer_id"`
	SellerID       string        `json:"seller_id"`
	Listing        *Listing      `json:"listing,omitempty"`
	Buyer          *User         `json:"buyer,omitempty"`
	Seller         *User         `json:"seller,omitempty"`
	Messages       []MessageView `json:"messages"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
}

// LastMessageView preview line of a conversation list entry
type LastMessageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsFromMe  bool      `json:"is_from_me"`
	Deleted   bool      `json:"deleted"`
}

// ConversationSummary conversation list entry seen by one participant
type ConversationSummary struct {
	ID             string           `json:"id"`
	ListingID      string           `json:"listing_id"`
	Listing        *Listing         `json:"listing,omitempty"`
	OtherUserID    string           `json:"other_user_id"`
	OtherUser      *User            `json:"other_user,omitempty"`
	IsSeller       bool             `json:"is_seller"`
	LastMessage    *LastMessageView `json:"last_message,omitempty"`
	UnreadCount    int              `json:"unread_count"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ThreadView messages between the caller and another user about one listing
type ThreadView struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	Listing        *Listing      `json:"listing,omitempty"`
	OtherUser      *User         `json:"other_user,omitempty"`
	Messages       []MessageView `json:"messages"`
}

// SendResult outcome of sending a message
type SendResult struct {
	Conversation *ConversationView `json:"conversation"`
	Message      MessageView       `json:"message"`
}
