package chat

import (
	"strings"
	"time"

	"github.com/killallgit/agentflow/pkg/flow"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat history record. Assistant messages carry the flow
// recorded during their turn; Tools and Results mirror the flow for readers
// that predate it.
type Message struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Flow      flow.Conversation `json:"conversation_flow,omitempty"`
	Tools     []flow.ToolCall   `json:"tools,omitempty"`
	Results   []flow.ToolResult `json:"results,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds an assistant record from a turn's transcript
// and flow. The flow is copied so later appends cannot reach it.
func NewAssistantMessage(content string, conv flow.Conversation) Message {
	conv = conv.Clone()
	if conv == nil {
		conv = flow.Conversation{}
	}
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Flow:      conv,
		Tools:     conv.ToolCalls(),
		Results:   conv.ToolResults(),
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// HasFlow reports whether replay can use the recorded flow
func (m Message) HasFlow() bool {
	return m.IsAssistant() && len(m.Flow) > 0
}

// ToolCallCount counts tool calls, falling back to the legacy list
func (m Message) ToolCallCount() int {
	if len(m.Flow) > 0 {
		return len(m.Flow.ToolCalls())
	}
	return len(m.Tools)
}
