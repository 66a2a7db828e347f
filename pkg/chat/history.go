package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/killallgit/agentflow/pkg/config"
)

// History is the ordered chat record of one UI session. Messages are never
// modified once appended.
type History struct {
	messages []Message
	mu       sync.RWMutex
}

// historyFile is the on-disk snapshot layout
type historyFile struct {
	Messages []Message `json:"messages"`
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{
		messages: make([]Message, 0),
	}
}

// LoadHistory reads a snapshot written by Save
func LoadHistory(filePath string) (*History, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var snapshot historyFile
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	h := NewHistory()
	h.messages = append(h.messages, snapshot.Messages...)
	return h, nil
}

// Append adds a message to the end of the history
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
}

// Messages returns a copy of all messages in order
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msgs := make([]Message, len(h.messages))
	copy(msgs, h.messages)
	return msgs
}

// Len returns the number of messages
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// LastN returns the last N messages from history
func (h *History) LastN(n int) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || len(h.messages) == 0 {
		return []Message{}
	}

	if n > len(h.messages) {
		n = len(h.messages)
	}

	result := make([]Message, n)
	copy(result, h.messages[len(h.messages)-n:])
	return result
}

// Clear removes every message
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = make([]Message, 0)
}

// Save writes the history to disk as indented JSON. Concurrent writers
// are serialised through a sidecar lock file.
func (h *History) Save(filePath string) error {
	h.mu.RLock()
	snapshot := historyFile{Messages: h.messages}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	h.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := config.AtomicWrite(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}
