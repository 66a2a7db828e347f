// Package recorder turns the callback stream of one agent turn into an
// ordered conversation flow and a text transcript.
package recorder

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/events"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
)

// transcriptSeparator joins finalized thoughts in the transcript
const transcriptSeparator = "\n\n"

// Option configures a Recorder
type Option func(*Recorder)

// WithEntryObserver registers fn to be called synchronously with every
// entry as it is appended. Live display hangs off this.
func WithEntryObserver(fn func(flow.Entry)) Option {
	return func(r *Recorder) {
		r.onEntry = fn
	}
}

// WithChunkObserver registers fn to be called with every buffered text
// delta, for "thinking" feedback while a thought is in progress.
func WithChunkObserver(fn func(string)) Option {
	return func(r *Recorder) {
		r.onChunk = fn
	}
}

// WithIDGenerator replaces the uuid generator used for tool uses that
// arrive without an id.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		r.newID = fn
	}
}

// Recorder accumulates one turn. It implements events.Handler.
type Recorder struct {
	mu      sync.Mutex
	buffer  strings.Builder
	flow    flow.Conversation
	callIDs map[string]struct{}

	onEntry func(flow.Entry)
	onChunk func(string)
	newID   func() string
	log     *logger.ComponentLogger
}

// New creates an empty recorder
func New(opts ...Option) *Recorder {
	r := &Recorder{
		flow:    flow.Conversation{},
		callIDs: make(map[string]struct{}),
		newID:   uuid.NewString,
		log:     logger.WithComponent("recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnTextChunk buffers an incremental delta. It never produces an entry.
func (r *Recorder) OnTextChunk(delta string) {
	if delta == "" {
		return
	}

	r.mu.Lock()
	r.buffer.WriteString(delta)
	observer := r.onChunk
	r.mu.Unlock()

	if observer != nil {
		observer(delta)
	}
}

// OnTextComplete closes the thought in progress. The structured text is
// authoritative; the buffer is only used when the structured text is
// empty. Nothing is emitted when both are empty.
func (r *Recorder) OnTextComplete(text string) {
	r.closeThought(text, false)
}

// closeThought drops the buffered chunks and records text. With strict
// set, the buffer is never used in its place.
func (r *Recorder) closeThought(text string, strict bool) {
	r.mu.Lock()
	buffered := r.buffer.String()
	r.buffer.Reset()

	if !strict && strings.TrimSpace(text) == "" {
		text = buffered
	}
	if strings.TrimSpace(text) == "" {
		r.mu.Unlock()
		return
	}
	entry := r.appendLocked(flow.NewText(text))
	r.mu.Unlock()

	r.notify(entry)
}

// OnToolUse records a complete tool-use request
func (r *Recorder) OnToolUse(name string, input map[string]any, id string) {
	r.mu.Lock()
	if id == "" {
		id = r.newID()
		r.log.Debug("generated tool use id", "tool", name, "tool_use_id", id)
	}
	r.callIDs[id] = struct{}{}
	entry := r.appendLocked(flow.NewToolCall(name, input, id))
	r.mu.Unlock()

	r.notify(entry)
}

// OnToolResult records a tool's return value. Results that match no
// earlier tool use of the turn are kept in place and logged.
func (r *Recorder) OnToolResult(id string, status flow.Status, content []flow.ContentItem) {
	r.mu.Lock()
	if _, ok := r.callIDs[id]; !ok {
		r.log.Warn("tool result without matching tool call", "tool_use_id", id, "status", status)
	}
	entry := r.appendLocked(flow.NewToolResult(id, status, content))
	r.mu.Unlock()

	r.notify(entry)
}

// Reset clears all state for a new turn
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer.Reset()
	r.flow = flow.Conversation{}
	r.callIDs = make(map[string]struct{})
}

// Buffered returns the text of the thought in progress
func (r *Recorder) Buffered() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer.String()
}

// Flow returns a copy of the entries recorded so far
func (r *Recorder) Flow() flow.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flow.Clone()
}

// Finalize flushes any leftover buffered text and packages the turn as an
// assistant message. fallback, usually the agent's returned result, is used
// as the content only when no text was recorded.
func (r *Recorder) Finalize(fallback string) chat.Message {
	r.mu.Lock()
	var flushed *flow.Entry
	if leftover := r.buffer.String(); strings.TrimSpace(leftover) != "" {
		r.log.Debug("flushing buffered text at end of turn", "chars", len(leftover))
		e := r.appendLocked(flow.NewText(leftover))
		flushed = &e
	}
	r.buffer.Reset()

	transcript := strings.Join(r.flow.Texts(), transcriptSeparator)
	if transcript == "" {
		transcript = strings.TrimSpace(fallback)
	}
	msg := chat.NewAssistantMessage(transcript, r.flow)
	r.mu.Unlock()

	if flushed != nil {
		r.notify(*flushed)
	}
	return msg
}

// Handle dispatches a decoded callback event. Unknown events are no-ops.
func (r *Recorder) Handle(e events.Event) {
	switch ev := e.(type) {
	case events.TextDelta:
		r.OnTextChunk(ev.Text)
	case events.Message:
		r.handleMessage(ev)
	case events.ToolUseDelta:
		// Displayed only once the tool use is whole
	case events.Ignored:
		r.log.Debug("ignored event", "keys", strings.Join(ev.Keys, ","))
	}
}

func (r *Recorder) handleMessage(msg events.Message) {
	switch msg.Role {
	case events.RoleAssistant:
		// Text blocks are authoritative, even when empty; streamed chunks
		// stand in only for a message that carries no text at all.
		structured := false
		for _, block := range msg.Content {
			if _, ok := block.(events.TextBlock); ok {
				structured = true
				break
			}
		}
		for _, block := range msg.Content {
			switch b := block.(type) {
			case events.TextBlock:
				r.closeThought(b.Text, true)
			case events.ToolUseBlock:
				if !structured {
					r.OnTextComplete("")
				}
				r.OnToolUse(b.Name, b.Input, b.ToolUseID)
			}
		}
		if !structured {
			r.OnTextComplete("")
		}
	case events.RoleUser:
		for _, block := range msg.Content {
			if b, ok := block.(events.ToolResultBlock); ok {
				r.OnToolResult(b.ToolUseID, b.Status, b.Content)
			}
		}
	}
}

func (r *Recorder) appendLocked(e flow.Entry) flow.Entry {
	r.flow = append(r.flow, e)
	return e
}

func (r *Recorder) notify(e flow.Entry) {
	if r.onEntry != nil {
		r.onEntry(e)
	}
}
