package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"classifieds_service/internal/conversation/domain"
	errprocess "classifieds_service/pkg/err"
	"classifieds_service/pkg/logger"
	"classifieds_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const defaultPingInterval = 10 * time.Minute

// ChatWebsocketHandler 可包含所有需要的 UseCase
type ChatWebsocketHandler struct {
	convUC       *ConversationUseCase
	msgUC        *MessageUseCase
	hub          *Hub
	pingInterval time.Duration
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(convUC *ConversationUseCase, msgUC *MessageUseCase, hub *Hub) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		convUC:       convUC,
		msgUC:        msgUC,
		hub:          hub,
		pingInterval: defaultPingInterval,
	}
}

// wsSession one socket, writes are serialized because pushes come from other goroutines
type wsSession struct {
	conn     *websocket.Conn
	memberID string
	writeMu  sync.Mutex
	// subs only touched by the read loop
	subs map[string]*Subscription
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	memberID, _ := conn.Locals(middlewares.TokenMemberID).(string)
	s := &wsSession{conn: conn, memberID: memberID, subs: make(map[string]*Subscription)}
	logger.Log.Info("websocket open", zap.String("userID", memberID))

	if memberID == "" {
		s.sendError("missing member")
		conn.Close()
		return
	}

	ticker := time.NewTicker(h.pingInterval)
	ctxClose, cancel := context.WithCancel(ctx)

	defer func() {
		ticker.Stop()
		cancel()
		// 關閉前取消所有訂閱, 之後不會再有推播
		for _, sub := range s.subs {
			h.hub.Unsubscribe(sub)
		}
		logger.Log.Info("websocket close", zap.String("userID", memberID))
		conn.Close()
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Debug("websocket closed by client", zap.String("userID", memberID), zap.Int("code", code))
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("Received PONG", zap.String("userID", memberID))
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.write(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Warn("Ping error", zap.String("userID", memberID), zap.Error(err))
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("Connection closed", zap.String("userID", memberID))
			} else {
				logger.Log.Warn("websocket read error", zap.String("userID", memberID), zap.Error(err))
			}
			return
		}

		if mt != websocket.TextMessage {
			s.sendError("unsupported message type")
			continue
		}
		h.textMessageAction(ctxClose, s, message)
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, s *wsSession, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		s.sendError("invalid json")
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	var err error

	switch domain.Action(req.Action) {
	// 進入對話, 之後收到對方的新訊息
	case domain.JoinConversation:
		if _, ok := s.subs[req.ConversationID]; !ok {
			if _, err = h.convUC.Authorize(ctx, "ws.join", req.ConversationID, s.memberID); err == nil {
				sub := h.hub.Subscribe(req.ConversationID, s.memberID)
				s.subs[req.ConversationID] = sub
				go s.forward(sub)
			}
		}
		resp.Payload["conversation_id"] = req.ConversationID

	case domain.LeaveConversation:
		if sub, ok := s.subs[req.ConversationID]; ok {
			h.hub.Unsubscribe(sub)
			delete(s.subs, req.ConversationID)
		}
		resp.Payload["conversation_id"] = req.ConversationID

	// message 寫入 db 後推播給對話中的另一方
	case domain.SendMessage:
		var result *domain.SendResult
		result, err = h.msgUC.Send(ctx, s.memberID, SendInput{
			ConversationID: req.ConversationID,
			ListingID:      req.ListingID,
			ReceiverID:     req.ReceiverID,
			Content:        req.Content,
		})
		if err == nil {
			resp.Payload["conversation_id"] = result.Message.ConversationID
			resp.Payload["message"] = result.Message
		}

	case domain.ReadMessage:
		var view *domain.MessageView
		if view, err = h.msgUC.MarkRead(ctx, req.MessageID, s.memberID); err == nil {
			resp.Payload["message"] = view
		}

	case domain.DeleteMessage:
		var view *domain.MessageView
		if view, err = h.msgUC.MarkDeleted(ctx, req.MessageID, s.memberID); err == nil {
			resp.Payload["message"] = view
		}

	default:
		s.sendError("unknown action")
		return
	}

	if err != nil {
		resp.Error = errprocess.PublicMessage(err)
		logger.Log.Debug("websocket action failed",
			zap.String("MemberID", s.memberID),
			zap.String("Action", req.Action),
			zap.String("err", err.Error()),
		)
	} else {
		resp.Success = true
	}
	s.sendResponse(resp)
}

// forward push events of sub until Unsubscribe closes its channel
func (s *wsSession) forward(sub *Subscription) {
	for event := range sub.C() {
		s.sendResponse(domain.WSResponse{
			Action:  string(domain.NotifyMessage),
			Success: true,
			Payload: map[string]interface{}{
				"conversation_id": event.ConversationID,
				"message":         event.Message,
			},
		})
	}
}

func (s *wsSession) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

// sendResponse - 發送 JSON 給前端
func (s *wsSession) sendResponse(resp domain.WSResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Error("marshal websocket response", zap.Error(err))
		return
	}
	if err := s.write(websocket.TextMessage, b); err != nil {
		logger.Log.Debug("write message error", zap.String("userID", s.memberID), zap.Error(err))
	}
}

func (s *wsSession) sendError(errorMsg string) {
	s.sendResponse(domain.WSResponse{
		Action:  "error",
		Success: false,
		Error:   errorMsg,
	})
}
