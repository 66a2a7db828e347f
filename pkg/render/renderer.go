// Package render is the display boundary. Live turns and replayed history
// drive the same Renderer calls.
package render

import (
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
)

// Mode says whether a message is being shown as it happens or replayed
// from history. Tool result sections are expanded live and collapsed on
// replay.
type Mode int

const (
	ModeLive Mode = iota
	ModeReplay
)

func (m Mode) String() string {
	if m == ModeReplay {
		return "replay"
	}
	return "live"
}

// Renderer receives one message at a time, entry by entry, in flow order
type Renderer interface {
	BeginMessage(role chat.Role, mode Mode)
	Text(text string)
	ToolCall(call flow.ToolCall)
	ToolResult(result flow.ToolResult)
	EndMessage()
}

// ProgressRenderer is implemented by renderers that show streamed text
// while a thought is still in progress.
type ProgressRenderer interface {
	Progress(delta string)
}

// StatusRenderer is implemented by renderers that can show out-of-band
// notices and errors, such as a failed agent invocation.
type StatusRenderer interface {
	Notice(msg string)
	Error(err error)
}

// Progress forwards delta when r supports it
func Progress(r Renderer, delta string) {
	if p, ok := r.(ProgressRenderer); ok {
		p.Progress(delta)
	}
}

// Notice forwards msg when r supports it
func Notice(r Renderer, msg string) {
	if s, ok := r.(StatusRenderer); ok {
		s.Notice(msg)
	}
}

// Error forwards err when r supports it
func Error(r Renderer, err error) {
	if s, ok := r.(StatusRenderer); ok {
		s.Error(err)
	}
}

// resultExpanded reports whether a tool result's content starts expanded
func resultExpanded(result flow.ToolResult, mode Mode) bool {
	if !result.Status.IsSuccess() {
		return true
	}
	return mode == ModeLive
}
