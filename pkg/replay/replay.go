// Package replay redraws recorded messages through a Renderer. Live display
// uses the same Dispatch, so a replayed turn looks exactly as it did.
package replay

import (
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/render"
)

// Dispatch sends one entry to the matching renderer call. Entries of an
// unknown type are skipped.
func Dispatch(entry flow.Entry, r render.Renderer) {
	switch entry.Type {
	case flow.TypeText:
		r.Text(entry.Text)
	case flow.TypeToolCall:
		if entry.ToolCall != nil {
			r.ToolCall(*entry.ToolCall)
		}
	case flow.TypeToolResult:
		if entry.ToolResult != nil {
			r.ToolResult(*entry.ToolResult)
		}
	default:
		logger.WithComponent("replay").Debug("skipping unknown entry", "type", entry.Type)
	}
}

// Message redraws one message. Assistant messages with a flow are drawn
// entry by entry in stored order; anything else falls back to the content
// followed by the legacy tool and result lists.
func Message(msg chat.Message, r render.Renderer) {
	r.BeginMessage(msg.Role, render.ModeReplay)
	defer r.EndMessage()

	if msg.HasFlow() {
		for _, entry := range msg.Flow {
			Dispatch(entry, r)
		}
		return
	}

	if msg.Content != "" {
		r.Text(msg.Content)
	}
	if !msg.IsAssistant() {
		return
	}
	for _, call := range msg.Tools {
		r.ToolCall(call)
	}
	for _, result := range msg.Results {
		r.ToolResult(result)
	}
}

// History redraws every message in order
func History(messages []chat.Message, r render.Renderer) {
	for _, msg := range messages {
		Message(msg, r)
	}
}
