package domain

import "time"

// Stage is the current node of the conversation state machine.
// Transitions only move forward: ask_name -> ask_phone -> completed.
type Stage string

const (
	StageAskName   Stage = "ask_name"
	StageAskPhone  Stage = "ask_phone"
	StageCompleted Stage = "completed"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of a session's append-only conversation log.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Sender      Sender    `json:"sender"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`
}
