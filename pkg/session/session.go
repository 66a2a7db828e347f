// Package session holds per-user chat state: the message history, the
// recorder for the turn in progress and the turn lifecycle around them.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/recorder"
	"github.com/killallgit/agentflow/pkg/uploads"
)

var (
	// ErrTurnInProgress is returned when a turn is begun while another is open
	ErrTurnInProgress = errors.New("turn already in progress")
	// ErrNoTurn is returned when completing or aborting with no open turn
	ErrNoTurn = errors.New("no turn in progress")
	// ErrEmptyPrompt is returned for a blank prompt
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Session is the state of one user's chat
type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	history  *chat.History
	recorder *recorder.Recorder
	inTurn   bool
	onEntry  func(flow.Entry)
	onChunk  func(string)
	log      *logger.ComponentLogger
}

func newSession(id string) *Session {
	s := &Session{
		ID:      id,
		Created: time.Now(),
		history: chat.NewHistory(),
		log:     logger.WithComponent("session").With("session", id),
	}
	s.recorder = recorder.New(
		recorder.WithEntryObserver(s.forwardEntry),
		recorder.WithChunkObserver(s.forwardChunk),
	)
	return s
}

func (s *Session) forwardEntry(e flow.Entry) {
	s.mu.Lock()
	fn := s.onEntry
	s.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func (s *Session) forwardChunk(delta string) {
	s.mu.Lock()
	fn := s.onChunk
	s.mu.Unlock()
	if fn != nil {
		fn(delta)
	}
}

// Observe registers live display callbacks for recorded entries and
// streamed text. Either may be nil.
func (s *Session) Observe(onEntry func(flow.Entry), onChunk func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEntry = onEntry
	s.onChunk = onChunk
}

// BeginTurn opens a turn for prompt. The user message is recorded as
// typed; the returned prompt, which is what the agent receives, also lists
// any uploaded files.
func (s *Session) BeginTurn(prompt string, uploaded []string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inTurn {
		return "", ErrTurnInProgress
	}
	s.inTurn = true

	s.history.Append(chat.NewUserMessage(prompt))
	s.recorder.Reset()

	s.log.Debug("turn started", "uploads", len(uploaded))
	return prompt + uploads.PromptSuffix(uploaded), nil
}

// Recorder returns the event handler for the open turn
func (s *Session) Recorder() *recorder.Recorder {
	return s.recorder
}

// InTurn reports whether a turn is open
func (s *Session) InTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTurn
}

// CompleteTurn finalizes the recorder and appends the assistant message.
// result is the agent's return value, used only when no text was recorded.
func (s *Session) CompleteTurn(result string) (chat.Message, error) {
	s.mu.Lock()
	if !s.inTurn {
		s.mu.Unlock()
		return chat.Message{}, ErrNoTurn
	}
	s.mu.Unlock()

	// Finalize may notify observers, which take s.mu
	msg := s.recorder.Finalize(result)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Append(msg)
	s.inTurn = false

	s.log.Debug("turn completed", "entries", len(msg.Flow), "tool_calls", msg.ToolCallCount())
	return msg, nil
}

// AbortTurn closes the open turn without an assistant message. The user
// message stays in the history.
func (s *Session) AbortTurn(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inTurn {
		return ErrNoTurn
	}
	s.inTurn = false
	s.recorder.Reset()

	s.log.Warn("turn aborted", "error", cause)
	return nil
}

// History returns the session's history
func (s *Session) History() *chat.History {
	return s.history
}

// Restore replaces the history with a loaded one
func (s *Session) Restore(h *chat.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inTurn {
		return fmt.Errorf("cannot restore history: %w", ErrTurnInProgress)
	}
	s.history = h
	return nil
}

// Clear drops the history. An open turn is not affected.
func (s *Session) Clear() {
	s.mu.Lock()
	h := s.history
	s.mu.Unlock()
	h.Clear()
}

// Stats summarises the history
func (s *Session) Stats() chat.Stats {
	s.mu.Lock()
	h := s.history
	s.mu.Unlock()
	return h.Stats()
}
