package flow

import (
	"encoding/json"
	"fmt"
)

// EntryType identifies which payload of an Entry is set
type EntryType string

const (
	TypeText       EntryType = "text"
	TypeToolCall   EntryType = "tool_call"
	TypeToolResult EntryType = "tool_result"
)

// Status is the outcome a tool reported for one invocation
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// IsSuccess reports whether the tool succeeded. Anything other than
// "success" is treated as a failure.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// ToolCall is a complete tool-use request made by the agent
type ToolCall struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
	ID    string         `json:"tool_use_id"`
}

// ToolResult is the value a tool returned for the call with ToolUseID
type ToolResult struct {
	ToolUseID string        `json:"tool_use_id,omitempty"`
	Status    Status        `json:"status"`
	Content   []ContentItem `json:"content"`
}

// Entry is one step of a turn: a finalized thought, a tool call or a tool
// result. Only the payload matching Type is set.
type Entry struct {
	Type       EntryType
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// NewText creates a Text entry
func NewText(text string) Entry {
	return Entry{Type: TypeText, Text: text}
}

// NewToolCall creates a ToolCall entry
func NewToolCall(name string, input map[string]any, id string) Entry {
	if input == nil {
		input = map[string]any{}
	}
	return Entry{
		Type: TypeToolCall,
		ToolCall: &ToolCall{
			Name:  name,
			Input: input,
			ID:    id,
		},
	}
}

// NewToolResult creates a ToolResult entry
func NewToolResult(toolUseID string, status Status, content []ContentItem) Entry {
	if content == nil {
		content = []ContentItem{}
	}
	return Entry{
		Type: TypeToolResult,
		ToolResult: &ToolResult{
			ToolUseID: toolUseID,
			Status:    status,
			Content:   content,
		},
	}
}

// IsKnown reports whether the entry carries a payload replay knows how to
// display. Entries decoded from unknown types are kept but never displayed.
func (e Entry) IsKnown() bool {
	switch e.Type {
	case TypeText:
		return true
	case TypeToolCall:
		return e.ToolCall != nil
	case TypeToolResult:
		return e.ToolResult != nil
	default:
		return false
	}
}

func (e Entry) String() string {
	switch e.Type {
	case TypeText:
		return fmt.Sprintf("Text(%q)", e.Text)
	case TypeToolCall:
		if e.ToolCall != nil {
			return fmt.Sprintf("ToolCall(%s, %s)", e.ToolCall.Name, e.ToolCall.ID)
		}
	case TypeToolResult:
		if e.ToolResult != nil {
			return fmt.Sprintf("ToolResult(%s, %s, %d items)", e.ToolResult.ToolUseID, e.ToolResult.Status, len(e.ToolResult.Content))
		}
	}
	return fmt.Sprintf("Entry(%s)", e.Type)
}

// entryJSON is the stored layout: {"type": ..., "content" | "tool" | "result": ...}
type entryJSON struct {
	Type    EntryType   `json:"type"`
	Content string      `json:"content,omitempty"`
	Tool    *ToolCall   `json:"tool,omitempty"`
	Result  *ToolResult `json:"result,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Type:    e.Type,
		Content: e.Text,
		Tool:    e.ToolCall,
		Result:  e.ToolResult,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown types and missing keys
// are accepted; the result simply reports IsKnown() == false.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode flow entry: %w", err)
	}
	*e = Entry{Type: raw.Type}
	switch raw.Type {
	case TypeText:
		e.Text = raw.Content
	case TypeToolCall:
		e.ToolCall = raw.Tool
		if e.ToolCall != nil && e.ToolCall.Input == nil {
			e.ToolCall.Input = map[string]any{}
		}
	case TypeToolResult:
		e.ToolResult = raw.Result
	}
	return nil
}
