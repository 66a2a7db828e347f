package render

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
)

// Request is one line written by JSONLines
type Request struct {
	Event    string           `json:"event"`
	Role     chat.Role        `json:"role,omitempty"`
	Mode     string           `json:"mode,omitempty"`
	Text     string           `json:"text,omitempty"`
	Tool     *flow.ToolCall   `json:"tool,omitempty"`
	Result   *flow.ToolResult `json:"result,omitempty"`
	Expanded *bool            `json:"expanded,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// JSONLines writes one render request per line for a front end to draw
type JSONLines struct {
	mu   sync.Mutex
	enc  *json.Encoder
	mode Mode
}

func NewJSONLines(w io.Writer) *JSONLines {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLines{enc: enc}
}

func (j *JSONLines) write(req Request) {
	if err := j.enc.Encode(req); err != nil {
		logger.WithComponent("render").Error("Failed to write render request", "event", req.Event, "error", err)
	}
}

func (j *JSONLines) BeginMessage(role chat.Role, mode Mode) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.mode = mode
	j.write(Request{Event: "begin_message", Role: role, Mode: mode.String()})
}

func (j *JSONLines) Text(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "text", Text: text})
}

func (j *JSONLines) ToolCall(call flow.ToolCall) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "tool_call", Tool: &call})
}

func (j *JSONLines) ToolResult(result flow.ToolResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	expanded := resultExpanded(result, j.mode)
	j.write(Request{Event: "tool_result", Result: &result, Expanded: &expanded})
}

func (j *JSONLines) EndMessage() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "end_message"})
}

func (j *JSONLines) Progress(delta string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "progress", Text: delta})
}

func (j *JSONLines) Notice(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "notice", Text: msg})
}

func (j *JSONLines) Error(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.write(Request{Event: "error", Error: err.Error()})
}
