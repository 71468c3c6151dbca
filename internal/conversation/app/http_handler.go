package app

import (
	"errors"
	"reflect"
	"strings"

	"classifieds_service/internal/conversation/domain"
	errprocess "classifieds_service/pkg/err"
	"classifieds_service/pkg/middlewares"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateConversationReq body of POST /api/conversations
type CreateConversationReq struct {
	ListingID string `json:"listing_id" validate:"required"`
}

// SendMessageReq body of POST /api/messages
type SendMessageReq struct {
	Content        string `json:"content" validate:"required"`
	ConversationID string `json:"conversation_id" validate:"required_without=ListingID"`
	ListingID      string `json:"listing_id" validate:"required_without=ConversationID"`
	ReceiverID     string `json:"receiver_id" validate:"required_with=ListingID"`
	// TempID client side placeholder id, echoed back and never stored
	TempID string `json:"temp_id,omitempty"`
}

// UpdateMessageReq body of PATCH /api/messages/:id
type UpdateMessageReq struct {
	Read    *bool `json:"read"`
	Deleted *bool `json:"deleted"`
}

// ErrorRes error body
type ErrorRes struct {
	Error string `json:"error"`
}

// HTTPHandler REST endpoints of the chat service
type HTTPHandler struct {
	convUC   *ConversationUseCase
	msgUC    *MessageUseCase
	validate *validator.Validate
}

// NewHTTPHandler create HTTPHandler
func NewHTTPHandler(convUC *ConversationUseCase, msgUC *MessageUseCase) *HTTPHandler {
	validate := validator.New()
	// 錯誤訊息用 json 欄位名稱
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &HTTPHandler{
		convUC:   convUC,
		msgUC:    msgUC,
		validate: validate,
	}
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(errprocess.StatusCode(err)).JSON(ErrorRes{Error: errprocess.PublicMessage(err)})
}

func (h *HTTPHandler) parse(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errprocess.Validation("http.parse", "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return errprocess.Validation("http.parse", validationMessage(err))
	}
	return nil
}

// validationMessage first failed field as a short text, e.g. "listing_id is required"
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]
	if strings.HasPrefix(fe.Tag(), "required") {
		return fe.Field() + " is required"
	}
	return fe.Field() + " is invalid"
}

// CreateConversation find or create the caller's conversation about a listing
// @Summary Find or create a conversation
// @Description Buyer opens (or reopens) the conversation with the seller of a listing
// @Tags Conversations
// @Accept json
// @Produce json
// @Param auth query string false "member token"
// @Param request body CreateConversationReq true "listing to talk about"
// @Success 200 {object} domain.ConversationView
// @Failure 400 {object} ErrorRes
// @Failure 403 {object} ErrorRes "seller of the listing"
// @Failure 404 {object} ErrorRes "listing not found"
// @Router /api/conversations [post]
func (h *HTTPHandler) CreateConversation(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	var req CreateConversationReq
	if err := h.parse(c, &req); err != nil {
		return writeError(c, err)
	}

	view, err := h.convUC.FindOrCreate(c.UserContext(), req.ListingID, memberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// ListConversations conversations of the caller
// @Summary List conversations
// @Description Conversations where the caller is buyer or seller, latest activity first
// @Tags Conversations
// @Produce json
// @Param auth query string false "member token"
// @Success 200 {array} domain.ConversationSummary
// @Router /api/conversations [get]
func (h *HTTPHandler) ListConversations(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	summaries, err := h.convUC.ListForUser(c.UserContext(), memberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summaries)
}

// GetConversation conversation with its messages
// @Summary Get a conversation
// @Tags Conversations
// @Produce json
// @Param auth query string false "member token"
// @Param id path string true "conversation id"
// @Success 200 {object} domain.ConversationView
// @Failure 403 {object} ErrorRes
// @Failure 404 {object} ErrorRes
// @Router /api/conversations/{id} [get]
func (h *HTTPHandler) GetConversation(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	view, err := h.convUC.FindByID(c.UserContext(), c.Params("id"), memberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// GetThread messages between the caller and another user about a listing
// @Summary Get the thread of a listing with another user
// @Tags Conversations
// @Produce json
// @Param auth query string false "member token"
// @Param listingID path string true "listing id"
// @Param otherUserID path string true "other participant id"
// @Success 200 {object} domain.ThreadView
// @Failure 403 {object} ErrorRes
// @Failure 404 {object} ErrorRes
// @Router /api/conversations/listing/{listingID}/{otherUserID} [get]
func (h *HTTPHandler) GetThread(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	thread, err := h.msgUC.ListThread(c.UserContext(), c.Params("listingID"), c.Params("otherUserID"), memberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(thread)
}

// SendMessage append a message
// @Summary Send a message
// @Description Send by conversation_id, or by listing_id and receiver_id
// @Tags Messages
// @Accept json
// @Produce json
// @Param auth query string false "member token"
// @Param request body SendMessageReq true "message"
// @Success 201 {object} domain.SendResult
// @Failure 400 {object} ErrorRes
// @Failure 403 {object} ErrorRes
// @Failure 404 {object} ErrorRes
// @Router /api/messages [post]
func (h *HTTPHandler) SendMessage(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	var req SendMessageReq
	if err := h.parse(c, &req); err != nil {
		return writeError(c, err)
	}

	result, err := h.msgUC.Send(c.UserContext(), memberID, SendInput{
		ConversationID: req.ConversationID,
		ListingID:      req.ListingID,
		ReceiverID:     req.ReceiverID,
		Content:        req.Content,
	})
	if err != nil {
		return writeError(c, err)
	}

	if req.TempID != "" {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"conversation": result.Conversation,
			"message":      result.Message,
			"temp_id":      req.TempID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// UpdateMessage set read / deleted on a message
// @Summary Mark a message read or deleted
// @Tags Messages
// @Accept json
// @Produce json
// @Param auth query string false "member token"
// @Param id path string true "message id"
// @Param request body UpdateMessageReq true "flags, only true is accepted"
// @Success 200 {object} domain.MessageView
// @Failure 400 {object} ErrorRes
// @Failure 404 {object} ErrorRes
// @Router /api/messages/{id} [patch]
func (h *HTTPHandler) UpdateMessage(c *fiber.Ctx) error {
	memberID, ok := middlewares.MemberID(c)
	if !ok {
		return currentMemberErr(c)
	}

	var req UpdateMessageReq
	if err := h.parse(c, &req); err != nil {
		return writeError(c, err)
	}

	view, err := h.msgUC.UpdateFlags(c.UserContext(), c.Params("id"), memberID, domain.MessageFlags{
		Read:    req.Read,
		Deleted: req.Deleted,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func currentMemberErr(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorRes{Error: "Missing token"})
}
