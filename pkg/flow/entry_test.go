package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryJSONLayout(t *testing.T) {
	t.Run("text entry", func(t *testing.T) {
		data, err := json.Marshal(NewText("Let me check the weather."))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"text","content":"Let me check the weather."}`, string(data))
	})

	t.Run("tool call entry", func(t *testing.T) {
		data, err := json.Marshal(NewToolCall("get_weather", map[string]any{"city": "NYC"}, "t1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"tool_call","tool":{"name":"get_weather","input":{"city":"NYC"},"tool_use_id":"t1"}}`, string(data))
	})

	t.Run("tool result entry", func(t *testing.T) {
		data, err := json.Marshal(NewToolResult("t1", StatusSuccess, []ContentItem{TextItem("72F")}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"tool_result","result":{"tool_use_id":"t1","status":"success","content":[{"text":"72F"}]}}`, string(data))
	})
}

func TestEntryUnmarshal(t *testing.T) {
	t.Run("round trips a conversation", func(t *testing.T) {
		conv := Conversation{
			NewText("thinking"),
			NewToolCall("calculator", map[string]any{"expression": "2+2"}, "c1"),
			NewToolResult("c1", StatusSuccess, []ContentItem{JSONItem(map[string]any{"value": 4.0})}),
		}
		data, err := json.Marshal(conv)
		require.NoError(t, err)

		var got Conversation
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, conv, got)
	})

	t.Run("accepts unknown entry types", func(t *testing.T) {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(`{"type":"image","content":"x"}`), &e))
		assert.Equal(t, EntryType("image"), e.Type)
		assert.False(t, e.IsKnown())
	})

	t.Run("tolerates missing payloads", func(t *testing.T) {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(`{"type":"tool_call"}`), &e))
		assert.Equal(t, TypeToolCall, e.Type)
		assert.Nil(t, e.ToolCall)
		assert.False(t, e.IsKnown())
	})

	t.Run("fills missing tool input", func(t *testing.T) {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(`{"type":"tool_call","tool":{"name":"x","tool_use_id":"1"}}`), &e))
		require.NotNil(t, e.ToolCall)
		assert.NotNil(t, e.ToolCall.Input)
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		var e Entry
		assert.Error(t, json.Unmarshal([]byte(`{"type":`), &e))
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusSuccess.IsSuccess())
	assert.False(t, StatusError.IsSuccess())
	assert.False(t, Status("").IsSuccess())
}

func TestContentItem(t *testing.T) {
	assert.Equal(t, "72F", TextItem("72F").String())
	assert.False(t, TextItem("72F").IsJSON())

	item := JSONItem(map[string]any{"temp": 72})
	assert.True(t, item.IsJSON())
	assert.Equal(t, "{\n  \"temp\": 72\n}", item.String())

	assert.Equal(t, "a\nb", JoinContent([]ContentItem{TextItem("a"), TextItem("b")}))
}

func TestConversation(t *testing.T) {
	conv := Conversation{
		NewText("first"),
		NewToolCall("a", nil, "1"),
		NewToolResult("1", StatusError, nil),
		NewText("second"),
	}

	assert.Equal(t, []string{"first", "second"}, conv.Texts())
	assert.Len(t, conv.ToolCalls(), 1)
	assert.Len(t, conv.ToolResults(), 1)

	call, ok := conv.FindToolCall("1")
	assert.True(t, ok)
	assert.Equal(t, "a", call.Name)
	_, ok = conv.FindToolCall("missing")
	assert.False(t, ok)

	clone := conv.Clone()
	clone[0] = NewText("changed")
	assert.Equal(t, "first", conv[0].Text)

	var empty Conversation
	assert.Nil(t, empty.Clone())
}
