package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/conversation"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

var ErrSessionNotFound = errors.New("chat session not found")

type leadSubmitter interface {
	Submit(ctx context.Context, lead domain.Lead) domain.SubmissionOutcome
}

// DialogService is the top-level dialog controller: it owns the session
// store, advances the conversation state machine per input, and invokes the
// submission pipeline exactly once per session on completion.
type DialogService struct {
	store    *conversation.Store
	pipeline leadSubmitter
	catalog  conversation.Catalog
	config   environments.ChatConfig
}

func NewDialogService(
	store *conversation.Store,
	pipeline leadSubmitter,
	catalog conversation.Catalog,
	config environments.ChatConfig,
) *DialogService {
	if catalog == nil {
		catalog = conversation.DefaultCatalog()
	}

	return &DialogService{
		store:    store,
		pipeline: pipeline,
		catalog:  catalog,
		config:   config,
	}
}

// OpenSession creates a session and emits the fixed greeting. The greeting is
// guarded by an empty message log so a re-opened render never duplicates it.
func (s *DialogService) OpenSession() (string, []domain.Message) {
	session := s.store.Create()

	session.Lock()
	defer session.Unlock()

	if len(session.Messages) == 0 {
		greeting := s.catalog.Render(conversation.KeyGreeting, "")
		session.AppendBot(greeting.Text, greeting.Suggestions)
	}

	logger.Infof("Opened chat session %s", session.ID)

	return session.ID, s.snapshot(session)
}

// HandleInput processes one user input to completion: append the user
// message, advance the state machine, run the pipeline on the completing
// transition, and append the bot reply. Suggestion clicks arrive here as
// plain text. Empty input is ignored.
func (s *DialogService) HandleInput(ctx context.Context, sessionID, text string) ([]domain.Message, domain.Stage, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, "", ErrSessionNotFound
	}

	text = strings.TrimSpace(text)
	if text == "" {
		session.Lock()
		defer session.Unlock()
		return nil, session.Stage, nil
	}

	if max := s.config.MaxMessageLength; max > 0 && len(text) > max {
		// Back off to a rune boundary so the log never holds invalid UTF-8.
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	// Serializes inputs per session: an input landing while a submission is
	// in flight waits here until the pipeline finishes.
	session.Lock()
	defer session.Unlock()
	session.Touch()

	logStart := len(session.Messages)
	session.AppendUser(text)

	result := session.Advance(text)

	replyKey := result.ReplyKey
	if result.Lead != nil {
		outcome := s.pipeline.Submit(ctx, *result.Lead)
		if outcome.Success() {
			replyKey = conversation.KeyConfirm
		} else {
			replyKey = conversation.KeyConfirmSoft
		}
	}

	reply := s.catalog.Render(replyKey, session.LeadName)
	session.AppendBot(reply.Text, reply.Suggestions)

	return append([]domain.Message(nil), session.Messages[logStart:]...), session.Stage, nil
}

// Messages returns a copy of the session's append-only log.
func (s *DialogService) Messages(sessionID string) ([]domain.Message, domain.Stage, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, "", ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	return s.snapshot(session), session.Stage, nil
}

// CloseSession discards in-memory state. Closing before completion persists
// nothing; the lead object only exists once phone validation succeeded.
func (s *DialogService) CloseSession(sessionID string) error {
	if _, ok := s.store.Get(sessionID); !ok {
		return ErrSessionNotFound
	}

	s.store.Delete(sessionID)
	logger.Infof("Closed chat session %s", sessionID)

	return nil
}

// TypingDelayMs is the pacing hint attached to bot messages for the widget.
func (s *DialogService) TypingDelayMs() int {
	return s.config.TypingDelayMs
}

func (s *DialogService) snapshot(session *conversation.Session) []domain.Message {
	return append([]domain.Message(nil), session.Messages...)
}
