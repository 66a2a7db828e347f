package render

import (
	"sync"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
)

// Call kinds recorded by Capture
const (
	KindBegin      = "begin"
	KindText       = "text"
	KindToolCall   = "tool_call"
	KindToolResult = "tool_result"
	KindEnd        = "end"
	KindProgress   = "progress"
	KindNotice     = "notice"
	KindError      = "error"
)

// Call is one recorded renderer invocation
type Call struct {
	Kind       string
	Role       chat.Role
	Mode       Mode
	Text       string
	ToolCall   *flow.ToolCall
	ToolResult *flow.ToolResult
	Expanded   bool
}

// Capture records every call in order
type Capture struct {
	mu    sync.Mutex
	calls []Call
	mode  Mode
}

func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *Capture) BeginMessage(role chat.Role, mode Mode) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	c.record(Call{Kind: KindBegin, Role: role, Mode: mode})
}

func (c *Capture) Text(text string) {
	c.record(Call{Kind: KindText, Text: text})
}

func (c *Capture) ToolCall(call flow.ToolCall) {
	c.record(Call{Kind: KindToolCall, ToolCall: &call})
}

func (c *Capture) ToolResult(result flow.ToolResult) {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	c.record(Call{Kind: KindToolResult, ToolResult: &result, Mode: mode, Expanded: resultExpanded(result, mode)})
}

func (c *Capture) EndMessage() {
	c.record(Call{Kind: KindEnd})
}

func (c *Capture) Progress(delta string) {
	c.record(Call{Kind: KindProgress, Text: delta})
}

func (c *Capture) Notice(msg string) {
	c.record(Call{Kind: KindNotice, Text: msg})
}

func (c *Capture) Error(err error) {
	c.record(Call{Kind: KindError, Text: err.Error()})
}

// Calls returns a copy of the recorded calls
func (c *Capture) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Kinds returns the kind of each recorded call, skipping progress calls
func (c *Capture) Kinds() []string {
	var kinds []string
	for _, call := range c.Calls() {
		if call.Kind == KindProgress {
			continue
		}
		kinds = append(kinds, call.Kind)
	}
	return kinds
}

// Reset drops everything recorded so far
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}
