// Package events models the callback events an agent framework emits while
// it runs, decoded from loosely typed payloads; unknown keys are ignored.
package events

import (
	"github.com/killallgit/agentflow/pkg/flow"
)

// Role of a complete message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Event is one callback from the agent framework. The concrete types are
// TextDelta, ToolUseDelta, Message and Ignored.
type Event interface {
	isEvent()
}

// TextDelta is an incremental piece of assistant text
type TextDelta struct {
	Text string
}

// ToolUseDelta is a partially streamed tool use. It is never displayed.
type ToolUseDelta struct {
	Name         string
	PartialInput string
}

// Message is a complete structured message. Assistant messages carry text
// and tool-use blocks, user messages carry tool results.
type Message struct {
	Role    Role
	Content []Block
}

// Ignored covers lifecycle markers and any payload shape that is not
// recognised. Keys lists the payload keys for diagnostics.
type Ignored struct {
	Keys []string
}

func (TextDelta) isEvent()    {}
func (ToolUseDelta) isEvent() {}
func (Message) isEvent()      {}
func (Ignored) isEvent()      {}

// Block is one content block of a Message: TextBlock, ToolUseBlock or
// ToolResultBlock.
type Block interface {
	isBlock()
}

// TextBlock is a finalized piece of assistant text
type TextBlock struct {
	Text string
}

// ToolUseBlock is a complete tool-use request
type ToolUseBlock struct {
	Name      string
	Input     map[string]any
	ToolUseID string
}

// ToolResultBlock is the value returned by a tool
type ToolResultBlock struct {
	ToolUseID string
	Status    flow.Status
	Content   []flow.ContentItem
}

func (TextBlock) isBlock()       {}
func (ToolUseBlock) isBlock()    {}
func (ToolResultBlock) isBlock() {}

// Handler consumes events in the order they occur
type Handler interface {
	Handle(Event)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(Event)

// Handle implements Handler
func (f HandlerFunc) Handle(e Event) {
	if f != nil {
		f(e)
	}
}

// MultiHandler fans every event out to each handler in order
func MultiHandler(handlers ...Handler) Handler {
	filtered := make([]Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	return HandlerFunc(func(e Event) {
		for _, h := range filtered {
			h.Handle(e)
		}
	})
}
