package events

import (
	"strings"
	"testing"

	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("text delta", func(t *testing.T) {
		ev := Decode(map[string]any{"data": "Let"})
		assert.Equal(t, TextDelta{Text: "Let"}, ev)
	})

	t.Run("empty data falls through to other keys", func(t *testing.T) {
		ev := Decode(map[string]any{"data": "", "current_tool_use": map[string]any{"name": "calc"}})
		assert.Equal(t, ToolUseDelta{Name: "calc"}, ev)
	})

	t.Run("partial tool use", func(t *testing.T) {
		ev := Decode(map[string]any{"current_tool_use": map[string]any{"name": "calc", "input": `{"expr`}})
		assert.Equal(t, ToolUseDelta{Name: "calc", PartialInput: `{"expr`}, ev)
	})

	t.Run("assistant message with text and tool use", func(t *testing.T) {
		ev := Decode(map[string]any{
			"message": map[string]any{
				"role": "assistant",
				"content": []any{
					map[string]any{"text": "Let me check the weather."},
					map[string]any{"toolUse": map[string]any{
						"name":      "get_weather",
						"input":     map[string]any{"city": "NYC"},
						"toolUseId": "t1",
					}},
				},
			},
		})
		msg, ok := ev.(Message)
		require.True(t, ok)
		assert.Equal(t, RoleAssistant, msg.Role)
		require.Len(t, msg.Content, 2)
		assert.Equal(t, TextBlock{Text: "Let me check the weather."}, msg.Content[0])
		assert.Equal(t, ToolUseBlock{Name: "get_weather", Input: map[string]any{"city": "NYC"}, ToolUseID: "t1"}, msg.Content[1])
	})

	t.Run("tool input given as json string", func(t *testing.T) {
		ev := Decode(map[string]any{
			"message": map[string]any{
				"role": "assistant",
				"content": []any{
					map[string]any{"toolUse": map[string]any{"name": "calc", "input": `{"expression":"2+2"}`, "toolUseId": "c1"}},
					map[string]any{"toolUse": map[string]any{"name": "echo", "input": "hello", "toolUseId": "c2"}},
				},
			},
		})
		msg := ev.(Message)
		assert.Equal(t, map[string]any{"expression": "2+2"}, msg.Content[0].(ToolUseBlock).Input)
		assert.Equal(t, map[string]any{"input": "hello"}, msg.Content[1].(ToolUseBlock).Input)
	})

	t.Run("user message with tool result", func(t *testing.T) {
		ev := Decode(map[string]any{
			"message": map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"toolResult": map[string]any{
						"toolUseId": "t1",
						"status":    "success",
						"content": []any{
							map[string]any{"text": "72F"},
							map[string]any{"json": map[string]any{"humidity": 40.0}},
							map[string]any{"image": "ignored"},
						},
					}},
				},
			},
		})
		msg := ev.(Message)
		require.Len(t, msg.Content, 1)
		assert.Equal(t, ToolResultBlock{
			ToolUseID: "t1",
			Status:    flow.StatusSuccess,
			Content:   []flow.ContentItem{flow.TextItem("72F"), flow.JSONItem(map[string]any{"humidity": 40.0})},
		}, msg.Content[0])
	})

	t.Run("blocks that do not belong to the role are dropped", func(t *testing.T) {
		ev := Decode(map[string]any{
			"message": map[string]any{
				"role":    "user",
				"content": []any{map[string]any{"text": "user typed this"}, "garbage"},
			},
		})
		msg := ev.(Message)
		assert.Empty(t, msg.Content)
	})

	t.Run("lifecycle markers are ignored", func(t *testing.T) {
		ev := Decode(map[string]any{"init_event_loop": true, "start": true})
		assert.Equal(t, Ignored{Keys: []string{"init_event_loop", "start"}}, ev)
	})

	t.Run("malformed message is ignored", func(t *testing.T) {
		assert.IsType(t, Ignored{}, Decode(map[string]any{"message": "not a map"}))
		assert.IsType(t, Ignored{}, Decode(map[string]any{"message": map[string]any{"role": "system", "content": []any{}}}))
		assert.IsType(t, Ignored{}, Decode(map[string]any{"message": map[string]any{"role": "assistant"}}))
		assert.IsType(t, Ignored{}, Decode(nil))
	})
}

func TestDecodeJSON(t *testing.T) {
	ev, err := DecodeJSON([]byte(`{"data":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, TextDelta{Text: "hi"}, ev)

	ev, err = DecodeJSON([]byte(`[1,2,3]`))
	require.NoError(t, err)
	assert.IsType(t, Ignored{}, ev)

	_, err = DecodeJSON([]byte(`{"data":`))
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	input := strings.Join([]string{
		`{"data":"Let"}`,
		``,
		`# comment`,
		`{"data":" me check"}`,
		`{"event":{"messageStop":{}}}`,
	}, "\n")

	var got []Event
	n, err := Replay(strings.NewReader(input), HandlerFunc(func(e Event) {
		got = append(got, e)
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, TextDelta{Text: "Let"}, got[0])
	assert.Equal(t, TextDelta{Text: " me check"}, got[1])
	assert.IsType(t, Ignored{}, got[2])
}

func TestReplayReportsLine(t *testing.T) {
	_, err := Replay(strings.NewReader("{\"data\":\"ok\"}\n{bad"), HandlerFunc(func(Event) {}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestMultiHandler(t *testing.T) {
	var a, b int
	h := MultiHandler(
		HandlerFunc(func(Event) { a++ }),
		nil,
		HandlerFunc(func(Event) { b++ }),
	)
	h.Handle(TextDelta{Text: "x"})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestDecodeInput(t *testing.T) {
	assert.Equal(t, map[string]any{"x": 1.0}, DecodeInput(`{"x": 1}`))
	assert.Equal(t, map[string]any{"input": "2*3"}, DecodeInput("2*3"))
	assert.Equal(t, map[string]any{"input": 7}, DecodeInput(7))
	assert.Equal(t, map[string]any{}, DecodeInput(nil))
}
