package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/killallgit/agentflow/pkg/flow"
)

// Decode converts one callback payload into an Event. Payload keys follow
// the agent framework's keyword arguments: "data" for text deltas,
// "current_tool_use" for partial tool use, "message" for complete messages.
// Decode never fails; anything it does not recognise becomes Ignored.
func Decode(payload map[string]any) Event {
	if text, ok := payload["data"].(string); ok && text != "" {
		return TextDelta{Text: text}
	}
	if raw, ok := payload["current_tool_use"]; ok {
		return decodeToolUseDelta(raw)
	}
	if raw, ok := payload["message"].(map[string]any); ok {
		if msg, ok := decodeMessage(raw); ok {
			return msg
		}
	}
	return Ignored{Keys: sortedKeys(payload)}
}

// DecodeJSON decodes a JSON payload. It only fails on malformed JSON; a
// well-formed payload that is not an object is Ignored.
func DecodeJSON(data []byte) (Event, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}
	payload, ok := v.(map[string]any)
	if !ok {
		return Ignored{}, nil
	}
	return Decode(payload), nil
}

func decodeToolUseDelta(raw any) Event {
	m, _ := raw.(map[string]any)
	delta := ToolUseDelta{Name: stringField(m, "name")}
	switch input := m["input"].(type) {
	case string:
		delta.PartialInput = input
	case nil:
	default:
		if data, err := json.Marshal(input); err == nil {
			delta.PartialInput = string(data)
		}
	}
	return delta
}

func decodeMessage(raw map[string]any) (Message, bool) {
	role := Role(stringField(raw, "role"))
	if role != RoleUser && role != RoleAssistant {
		return Message{}, false
	}
	items, ok := raw["content"].([]any)
	if !ok {
		return Message{}, false
	}

	msg := Message{Role: role, Content: make([]Block, 0, len(items))}
	for _, item := range items {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if b, ok := decodeBlock(role, block); ok {
			msg.Content = append(msg.Content, b)
		}
	}
	return msg, true
}

func decodeBlock(role Role, block map[string]any) (Block, bool) {
	switch role {
	case RoleAssistant:
		if text, ok := block["text"].(string); ok {
			return TextBlock{Text: text}, true
		}
		if use, ok := block["toolUse"].(map[string]any); ok {
			return ToolUseBlock{
				Name:      stringField(use, "name"),
				Input:     DecodeInput(use["input"]),
				ToolUseID: firstString(use, "toolUseId", "tool_use_id", "id"),
			}, true
		}
	case RoleUser:
		if result, ok := block["toolResult"].(map[string]any); ok {
			return ToolResultBlock{
				ToolUseID: firstString(result, "toolUseId", "tool_use_id", "id"),
				Status:    flow.Status(stringField(result, "status")),
				Content:   DecodeContent(result["content"]),
			}, true
		}
	}
	return nil, false
}

// DecodeInput accepts an object, a JSON-encoded object, or any other value
// which is wrapped under "input".
func DecodeInput(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case nil:
		return map[string]any{}
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil && m != nil {
			return m
		}
		return map[string]any{"input": v}
	default:
		return map[string]any{"input": v}
	}
}

// DecodeContent converts a list of {"text": ...} / {"json": ...} items.
// Items of any other shape are dropped.
func DecodeContent(raw any) []flow.ContentItem {
	items, _ := raw.([]any)
	out := make([]flow.ContentItem, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m["json"]; ok && v != nil {
			out = append(out, flow.JSONItem(v))
			continue
		}
		if text, ok := m["text"].(string); ok {
			out = append(out, flow.TextItem(text))
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reader reads newline-delimited JSON payloads
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

const maxLineSize = 4 * 1024 * 1024

// NewReader creates a reader over JSON Lines input
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next event, or io.EOF when the input is exhausted.
// Blank lines and lines starting with '#' are skipped.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 || strings.HasPrefix(string(line), "#") {
			continue
		}
		ev, err := DecodeJSON(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return nil, io.EOF
}

// Replay feeds every event from r to h in order
func Replay(r io.Reader, h Handler) (int, error) {
	reader := NewReader(r)
	n := 0
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		h.Handle(ev)
		n++
	}
}
