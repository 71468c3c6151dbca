package app

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/internal/conversation/repository"
	"classifieds_service/pkg/logger"
	"classifieds_service/pkg/metrics"

	"go.uber.org/zap"
)

const defaultNotifyBuffer = 16

// Broker cross-node transport for NotifyEvent, *repository.RedisPubSub in production
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	PSubscribe(ctx context.Context, pattern string, handler func(channel string, payload []byte)) error
}

// Notifier realtime fan-out of stored messages
type Notifier interface {
	Publish(ctx context.Context, event domain.NotifyEvent) error
}

// Subscription one listener of one conversation
type Subscription struct {
	ConversationID string
	UserID         string
	ch             chan domain.NotifyEvent
}

// C receive pushes, closed after Unsubscribe
func (s *Subscription) C() <-chan domain.NotifyEvent {
	return s.ch
}

// Hub process scoped registry of subscriptions keyed by conversation id
// Publish goes through the broker when one is set, every node then dispatches locally
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]map[*Subscription]struct{}
	broker     Broker
	bufferSize int
}

// NewHub broker may be nil for a single node
func NewHub(broker Broker, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultNotifyBuffer
	}
	return &Hub{
		subs:       make(map[string]map[*Subscription]struct{}),
		broker:     broker,
		bufferSize: bufferSize,
	}
}

// Subscribe start receiving pushes of conversationID for userID
func (h *Hub) Subscribe(conversationID, userID string) *Subscription {
	sub := &Subscription{
		ConversationID: conversationID,
		UserID:         userID,
		ch:             make(chan domain.NotifyEvent, h.bufferSize),
	}

	h.mu.Lock()
	set, ok := h.subs[conversationID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[conversationID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	metrics.ActiveSubscriptions.Inc()
	return sub
}

// Unsubscribe stop delivery to sub and close its channel, safe to call twice
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.ConversationID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.ConversationID)
	}
	close(sub.ch)
	metrics.ActiveSubscriptions.Dec()
}

// Count subscriptions of conversationID on this node
func (h *Hub) Count(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[conversationID])
}

// Publish hand event to the broker, fall back to local delivery when it fails
func (h *Hub) Publish(ctx context.Context, event domain.NotifyEvent) error {
	if h.broker == nil {
		h.dispatch(event)
		return nil
	}

	if err := h.broker.Publish(ctx, repository.ConversationChannelPrefix+event.ConversationID, event); err != nil {
		logger.Log.Warn("notifier broker publish failed, deliver locally",
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err),
		)
		h.dispatch(event)
		return err
	}
	return nil
}

// Run subscribe to every conversation channel of the broker until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	if h.broker == nil {
		return nil
	}
	return h.broker.PSubscribe(ctx, repository.ConversationChannelPrefix+"*", func(channel string, payload []byte) {
		var event domain.NotifyEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Log.Warn("drop malformed notify event", zap.String("channel", channel), zap.Error(err))
			return
		}
		if event.ConversationID == "" {
			event.ConversationID = strings.TrimPrefix(channel, repository.ConversationChannelPrefix)
		}
		h.dispatch(event)
	})
}

// dispatch never blocks, a full subscriber buffer loses the push
func (h *Hub) dispatch(event domain.NotifyEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.ConversationID] {
		if sub.UserID == event.SenderID {
			continue
		}
		select {
		case sub.ch <- event:
			metrics.NotifierDeliveries.WithLabelValues("delivered").Inc()
		default:
			metrics.NotifierDeliveries.WithLabelValues("dropped").Inc()
			logger.Log.Debug("notify buffer full, drop push",
				zap.String("conversation_id", event.ConversationID),
				zap.String("user_id", sub.UserID),
			)
		}
	}
}
