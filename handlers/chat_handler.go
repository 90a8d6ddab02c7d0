package handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/internal/service"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/response"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/validator"
)

// dialogService is the slice of DialogService the handler needs; tests
// substitute a small fake.
type dialogService interface {
	OpenSession() (string, []domain.Message)
	HandleInput(ctx context.Context, sessionID, text string) ([]domain.Message, domain.Stage, error)
	Messages(sessionID string) ([]domain.Message, domain.Stage, error)
	CloseSession(sessionID string) error
	TypingDelayMs() int
}

type ChatHandler struct {
	service dialogService
}

func NewChatHandler(service dialogService) *ChatHandler {
	return &ChatHandler{service: service}
}

type PostMessageRequest struct {
	// Text is the typed input or the clicked suggestion chip; both enter the
	// dialog the same way.
	Text string `json:"text" validate:"required"`
}

// BotMessage is a conversation message with the widget pacing hint attached.
type BotMessage struct {
	domain.Message
	TypingMs int `json:"typingMs,omitempty"`
}

type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	Stage     domain.Stage `json:"stage"`
	Messages  []BotMessage `json:"messages"`
}

// OpenSession godoc
// @Summary Open a chat session
// @Description Creates a conversation session and returns the greeting message
// @Tags chat
// @Accept json
// @Produce json
// @Success 201 {object} response.SuccessResponse
// @Router /api/v1/chat/sessions [post]
func (h *ChatHandler) OpenSession(c echo.Context) error {
	sessionID, messages := h.service.OpenSession()

	return response.Created(c, "Chat session opened", SessionResponse{
		SessionID: sessionID,
		Stage:     domain.StageAskName,
		Messages:  h.decorate(messages),
	})
}

// GetMessages godoc
// @Summary Get the session message log
// @Description Returns the append-only conversation log for a session
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/chat/sessions/{id}/messages [get]
func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, stage, err := h.service.Messages(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Chat session not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, SessionResponse{
		SessionID: c.Param("id"),
		Stage:     stage,
		Messages:  h.decorate(messages),
	})
}

// PostMessage godoc
// @Summary Send user input to a session
// @Description Processes one user input (typed text or suggestion click) and returns the appended messages
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param message body PostMessageRequest true "User input"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/chat/sessions/{id}/messages [post]
func (h *ChatHandler) PostMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	messages, stage, err := h.service.HandleInput(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Chat session not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, SessionResponse{
		SessionID: c.Param("id"),
		Stage:     stage,
		Messages:  h.decorate(messages),
	})
}

// CloseSession godoc
// @Summary Close a chat session
// @Description Discards in-memory session state (widget teardown); nothing partial is persisted
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/chat/sessions/{id} [delete]
func (h *ChatHandler) CloseSession(c echo.Context) error {
	if err := h.service.CloseSession(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Chat session not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Chat session closed", nil)
}

// decorate attaches the typing pacing hint to bot messages. User messages
// render immediately.
func (h *ChatHandler) decorate(messages []domain.Message) []BotMessage {
	delay := h.service.TypingDelayMs()

	out := make([]BotMessage, 0, len(messages))
	for _, msg := range messages {
		bm := BotMessage{Message: msg}
		if msg.Sender == domain.SenderBot {
			bm.TypingMs = delay
		}
		out = append(out, bm)
	}

	return out
}
