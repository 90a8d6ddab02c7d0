package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/internal/service"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/response"
	validatorpkg "github.com/arjunkapoor/chatbot-lead-service/pkg/validator"
)

type fakeDialogService struct {
	sessionID string
	messages  []domain.Message
	stage     domain.Stage
	err       error

	handledText string
	closedID    string
}

func (f *fakeDialogService) OpenSession() (string, []domain.Message) {
	return f.sessionID, f.messages
}

func (f *fakeDialogService) HandleInput(ctx context.Context, sessionID, text string) ([]domain.Message, domain.Stage, error) {
	f.handledText = text
	if f.err != nil {
		return nil, "", f.err
	}
	return f.messages, f.stage, nil
}

func (f *fakeDialogService) Messages(sessionID string) ([]domain.Message, domain.Stage, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.messages, f.stage, nil
}

func (f *fakeDialogService) CloseSession(sessionID string) error {
	f.closedID = sessionID
	return f.err
}

func (f *fakeDialogService) TypingDelayMs() int { return 600 }

func botMessage(text string) domain.Message {
	return domain.Message{
		ID:        "msg-1",
		Text:      text,
		Sender:    domain.SenderBot,
		Timestamp: time.Now(),
	}
}

func newPostContext(e *echo.Echo, sessionID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions/"+sessionID+"/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sessionID)
	return c, rec
}

func TestOpenSession_ReturnsGreeting(t *testing.T) {
	e := echo.New()
	svc := &fakeDialogService{
		sessionID: "session-1",
		messages:  []domain.Message{botMessage("Hi there! What's your name?")},
	}
	handler := NewChatHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.OpenSession(c); err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    SessionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if !resp.Success {
		t.Errorf("expected Success=true")
	}
	if resp.Data.SessionID != "session-1" {
		t.Errorf("expected sessionId=session-1, got %q", resp.Data.SessionID)
	}
	if len(resp.Data.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(resp.Data.Messages))
	}
	if resp.Data.Messages[0].TypingMs != 600 {
		t.Errorf("expected bot message to carry typingMs=600, got %d", resp.Data.Messages[0].TypingMs)
	}
}

// TestPostMessage_BadJSON verifies that invalid JSON returns 400 Bad Request.
func TestPostMessage_BadJSON(t *testing.T) {
	e := echo.New()
	// Validator is not needed here because Bind will fail before Validate is called.
	handler := NewChatHandler(nil)

	c, rec := newPostContext(e, "session-1", `{"text": "hello`)

	if err := handler.PostMessage(c); err != nil {
		t.Fatalf("PostMessage returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if resp.Success {
		t.Fatalf("expected Success=false, got true")
	}
	if resp.Error == "" {
		t.Fatalf("expected Error to be non-empty")
	}
}

// TestPostMessage_MissingText verifies that validation failure returns 422
// via the validation error handler.
func TestPostMessage_MissingText(t *testing.T) {
	e := echo.New()
	// Use the real custom validator so we exercise the normal flow.
	e.Validator = validatorpkg.New()

	// service is nil on purpose; we want validation to fail before it is called.
	handler := NewChatHandler(nil)

	c, rec := newPostContext(e, "session-1", `{}`)

	if err := handler.PostMessage(c); err != nil {
		t.Fatalf("PostMessage returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	var resp validatorpkg.ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if resp.Error != "Validation failed" {
		t.Fatalf("expected Error=%q, got %q", "Validation failed", resp.Error)
	}
	if _, ok := resp.Details["text"]; !ok {
		t.Fatalf("expected Details to contain 'text' key")
	}
}

func TestPostMessage_UnknownSessionReturns404(t *testing.T) {
	e := echo.New()
	e.Validator = validatorpkg.New()
	handler := NewChatHandler(&fakeDialogService{err: service.ErrSessionNotFound})

	c, rec := newPostContext(e, "missing", `{"text": "hello"}`)

	if err := handler.PostMessage(c); err != nil {
		t.Fatalf("PostMessage returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPostMessage_HappyPath(t *testing.T) {
	e := echo.New()
	e.Validator = validatorpkg.New()

	svc := &fakeDialogService{
		messages: []domain.Message{
			{ID: "msg-1", Text: "Arjun", Sender: domain.SenderUser},
			botMessage("Thanks Arjun! What's your phone number?"),
		},
		stage: domain.StageAskPhone,
	}
	handler := NewChatHandler(svc)

	c, rec := newPostContext(e, "session-1", `{"text": "Arjun"}`)

	if err := handler.PostMessage(c); err != nil {
		t.Fatalf("PostMessage returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.handledText != "Arjun" {
		t.Errorf("expected the raw text forwarded, got %q", svc.handledText)
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    SessionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if resp.Data.Stage != domain.StageAskPhone {
		t.Errorf("expected stage ask_phone, got %q", resp.Data.Stage)
	}
	if len(resp.Data.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Data.Messages))
	}

	// Only bot messages carry the pacing hint.
	if resp.Data.Messages[0].TypingMs != 0 {
		t.Errorf("expected user message without typingMs, got %d", resp.Data.Messages[0].TypingMs)
	}
	if resp.Data.Messages[1].TypingMs != 600 {
		t.Errorf("expected bot message with typingMs=600, got %d", resp.Data.Messages[1].TypingMs)
	}
}

func TestGetMessages_UnknownSessionReturns404(t *testing.T) {
	e := echo.New()
	handler := NewChatHandler(&fakeDialogService{err: service.ErrSessionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/sessions/missing/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.GetMessages(c); err != nil {
		t.Fatalf("GetMessages returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestCloseSession_DeletesSession(t *testing.T) {
	e := echo.New()
	svc := &fakeDialogService{}
	handler := NewChatHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chat/sessions/session-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("session-1")

	if err := handler.CloseSession(c); err != nil {
		t.Fatalf("CloseSession returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.closedID != "session-1" {
		t.Errorf("expected session-1 closed, got %q", svc.closedID)
	}
}
