package agent

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/events"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/schema"
)

// pendingCall is a tool use announced by the agent whose result has not
// been reported yet
type pendingCall struct {
	id   string
	name string
}

// CallbackHandler translates langchaingo callbacks into events. Streaming
// chunks become text deltas, agent actions become assistant messages with
// the thought and the tool use, tool outcomes become user messages with the
// tool result, and the agent finish becomes the closing assistant message.
type CallbackHandler struct {
	callbacks.SimpleHandler

	mu        sync.Mutex
	target    events.Handler
	pending   []pendingCall
	toolError error
	newID     func() string
	log       *logger.ComponentLogger
}

var _ callbacks.Handler = (*CallbackHandler)(nil)

func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{
		newID: uuid.NewString,
		log:   logger.WithComponent("agent_callbacks"),
	}
}

// SetTarget directs subsequent events to h. A nil handler drops them.
func (c *CallbackHandler) SetTarget(h events.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = h
	c.pending = nil
	c.toolError = nil
}

func (c *CallbackHandler) emit(e events.Event) {
	c.mu.Lock()
	target := c.target
	c.mu.Unlock()
	if target != nil {
		target.Handle(e)
	}
}

// HandleStreamingFunc forwards a raw LLM output chunk
func (c *CallbackHandler) HandleStreamingFunc(_ context.Context, chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	c.emit(events.TextDelta{Text: string(chunk)})
}

// HandleAgentAction reports the agent's thought and the tool it chose
func (c *CallbackHandler) HandleAgentAction(_ context.Context, action schema.AgentAction) {
	c.failUnreported()

	id := c.newID()
	c.mu.Lock()
	c.pending = append(c.pending, pendingCall{id: id, name: action.Tool})
	c.mu.Unlock()

	// The thought is sent even when empty so the raw streamed completion
	// is never recorded in its place.
	c.emit(events.Message{Role: events.RoleAssistant, Content: []events.Block{
		events.TextBlock{Text: thoughtFromLog(action.Log)},
		events.ToolUseBlock{
			Name:      action.Tool,
			Input:     events.DecodeInput(strings.TrimSpace(action.ToolInput)),
			ToolUseID: id,
		},
	}})
}

// HandleToolError notes a failure swallowed by a tool that reports it only
// through callbacks; the observing wrapper turns it into an error result.
func (c *CallbackHandler) HandleToolError(_ context.Context, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolError = err
}

// HandleAgentFinish reports the final answer
func (c *CallbackHandler) HandleAgentFinish(_ context.Context, finish schema.AgentFinish) {
	c.failUnreported()

	output, _ := finish.ReturnValues["output"].(string)
	if strings.TrimSpace(output) == "" {
		if i := strings.LastIndex(finish.Log, "Final Answer:"); i >= 0 {
			output = finish.Log[i+len("Final Answer:"):]
		}
	}
	c.emit(events.Message{
		Role:    events.RoleAssistant,
		Content: []events.Block{events.TextBlock{Text: chat.StripThinking(output)}},
	})
}

// toolResult reports the outcome of the oldest announced tool use
func (c *CallbackHandler) toolResult(name, output string, err error) {
	c.mu.Lock()
	call, ok := c.take(name)
	if err == nil && c.toolError != nil {
		err = c.toolError
	}
	c.toolError = nil
	c.mu.Unlock()

	if !ok {
		c.log.Warn("tool result without announced tool use", "tool", name)
		call = pendingCall{id: c.newID(), name: name}
	}

	block := events.ToolResultBlock{
		ToolUseID: call.id,
		Status:    flow.StatusSuccess,
		Content:   []flow.ContentItem{flow.TextItem(output)},
	}
	if err != nil {
		block.Status = flow.StatusError
		block.Content = []flow.ContentItem{flow.TextItem(err.Error())}
	}
	c.emit(events.Message{Role: events.RoleUser, Content: []events.Block{block}})
}

// take removes the oldest pending call, preferring one for name. Caller
// holds c.mu.
func (c *CallbackHandler) take(name string) (pendingCall, bool) {
	for i, p := range c.pending {
		if strings.EqualFold(p.name, name) {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return p, true
		}
	}
	if len(c.pending) == 0 {
		return pendingCall{}, false
	}
	p := c.pending[0]
	c.pending = c.pending[1:]
	return p, true
}

// failUnreported closes tool uses the executor never ran, which happens
// when the model names a tool that does not exist.
func (c *CallbackHandler) failUnreported() {
	c.mu.Lock()
	stale := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, p := range stale {
		c.emit(events.Message{Role: events.RoleUser, Content: []events.Block{events.ToolResultBlock{
			ToolUseID: p.id,
			Status:    flow.StatusError,
			Content:   []flow.ContentItem{flow.TextItem(p.name + " is not a valid tool")},
		}}})
	}
}

// thoughtFromLog extracts the reasoning that precedes the action lines of a
// ReAct style completion
func thoughtFromLog(log string) string {
	text := chat.StripThinking(log)
	for _, marker := range []string{"Action:", "Final Answer:"} {
		if i := strings.Index(text, marker); i >= 0 {
			text = text[:i]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimPrefix(text, "Thought:"))
	return text
}
