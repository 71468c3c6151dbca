package domain

import "time"

// EventType activity event name
type EventType string

const (
	// EventConversationCreated a buyer opened a new conversation
	EventConversationCreated EventType = "conversation.created"
	// EventMessageAppended a message was stored
	EventMessageAppended EventType = "message.appended"
)

// ActivityEvent ids only, never message content
type ActivityEvent struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	ListingID      string    `json:"listing_id"`
	ActorID        string    `json:"actor_id"`
	MessageID      string    `json:"message_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NotifyEvent realtime push for one stored message
type NotifyEvent struct {
	ConversationID string      `json:"conversation_id"`
	SenderID       string      `json:"sender_id"`
	Message        MessageView `json:"message"`
}
