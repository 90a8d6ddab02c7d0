package conversation

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

// Session is the state of one widget conversation. All mutation happens with
// the session lock held by the dialog service, so a message arriving while a
// submission is in flight waits for it to finish.
type Session struct {
	ID           string
	Stage        domain.Stage
	LeadName     string
	LeadPhone    string
	Messages     []domain.Message
	LeadCaptured bool
	CreatedAt    time.Time

	// lastActive holds unix nanos. Atomic because the store janitor reads it
	// without taking the session lock.
	lastActive atomic.Int64

	mu sync.Mutex
}

func NewSession() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Stage:     domain.StageAskName,
		CreatedAt: now,
	}
	s.lastActive.Store(now.UnixNano())
	return s
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch refreshes the idle clock used by the store's janitor.
func (s *Session) Touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive reports when the session was last touched.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// AppendUser adds a user message to the append-only log.
func (s *Session) AppendUser(text string) domain.Message {
	return s.append(domain.Message{
		Text:   text,
		Sender: domain.SenderUser,
	})
}

// AppendBot adds a bot message, optionally with suggestion chips.
func (s *Session) AppendBot(text string, suggestions []string) domain.Message {
	return s.append(domain.Message{
		Text:        text,
		Sender:      domain.SenderBot,
		Suggestions: suggestions,
	})
}

func (s *Session) append(msg domain.Message) domain.Message {
	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now()
	s.Messages = append(s.Messages, msg)
	return msg
}

// StepResult is the outcome of advancing the state machine by one user input.
type StepResult struct {
	ReplyKey string

	// Lead is non-nil exactly once per session: on the ask_phone -> completed
	// transition. The caller must run the submission pipeline for it.
	Lead *domain.Lead
}

// Advance runs one transition of the conversation state machine. Stages only
// move forward; invalid input re-prompts without changing the stage.
func (s *Session) Advance(input string) StepResult {
	switch s.Stage {
	case domain.StageAskName:
		if !ValidateName(input) {
			return StepResult{ReplyKey: KeyRepromptName}
		}
		s.LeadName = strings.TrimSpace(input)
		s.Stage = domain.StageAskPhone
		return StepResult{ReplyKey: KeyAskPhone}

	case domain.StageAskPhone:
		if !ValidatePhone(input) {
			return StepResult{ReplyKey: KeyRepromptPhone}
		}
		s.LeadPhone = NormalizePhone(input)
		s.Stage = domain.StageCompleted

		// LeadCaptured guards the exactly-once invariant even if a caller
		// ever replayed this transition.
		if s.LeadCaptured {
			return StepResult{ReplyKey: KeyDefault}
		}
		s.LeadCaptured = true
		lead := domain.NewLead(s.LeadName, s.LeadPhone)
		return StepResult{ReplyKey: "", Lead: &lead}

	default: // completed: free-form routing, stage never regresses
		return StepResult{ReplyKey: RouteIntent(input)}
	}
}
