package session

import (
	"errors"
	"testing"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/events"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore()

	a := store.Get("alice")
	assert.Same(t, a, store.Get("alice"))
	assert.Equal(t, "alice", a.ID)

	anon := store.Get("")
	assert.NotEmpty(t, anon.ID)
	assert.NotEqual(t, anon.ID, store.Get("").ID)

	assert.True(t, store.Delete("alice"))
	assert.False(t, store.Delete("alice"))
	assert.NotSame(t, a, store.Get("alice"))
}

func TestTurnLifecycle(t *testing.T) {
	s := NewStore().Get("s1")

	var live []flow.Entry
	var chunks []string
	s.Observe(func(e flow.Entry) { live = append(live, e) }, func(d string) { chunks = append(chunks, d) })

	full, err := s.BeginTurn("What's the weather?", []string{"uploads/map.png"})
	require.NoError(t, err)
	assert.Equal(t, "What's the weather?\n\nUploaded files: uploads/map.png", full)
	assert.True(t, s.InTurn())

	_, err = s.BeginTurn("again", nil)
	assert.ErrorIs(t, err, ErrTurnInProgress)

	rec := s.Recorder()
	rec.Handle(events.TextDelta{Text: "Let me"})
	rec.Handle(events.Message{Role: events.RoleAssistant, Content: []events.Block{
		events.TextBlock{Text: "Let me check the weather."},
		events.ToolUseBlock{Name: "get_weather", Input: map[string]any{"city": "NYC"}, ToolUseID: "t1"},
	}})
	rec.Handle(events.Message{Role: events.RoleUser, Content: []events.Block{
		events.ToolResultBlock{ToolUseID: "t1", Status: flow.StatusSuccess, Content: []flow.ContentItem{flow.TextItem("72F")}},
	}})

	msg, err := s.CompleteTurn("72F")
	require.NoError(t, err)
	assert.False(t, s.InTurn())
	assert.Equal(t, "Let me check the weather.", msg.Content)
	assert.Len(t, msg.Flow, 3)
	assert.Equal(t, []flow.Entry(msg.Flow), live)
	assert.Equal(t, []string{"Let me"}, chunks)

	msgs := s.History().Messages()
	require.Len(t, msgs, 2)
	// The history keeps the prompt as typed
	assert.Equal(t, "What's the weather?", msgs[0].Content)
	assert.Equal(t, chat.Stats{UserMessages: 1, AssistantMessages: 1, ToolCalls: 1}, s.Stats())

	_, err = s.CompleteTurn("")
	assert.ErrorIs(t, err, ErrNoTurn)
}

func TestBeginTurnResetsRecorder(t *testing.T) {
	s := NewStore().Get("s1")

	_, err := s.BeginTurn("first", nil)
	require.NoError(t, err)
	s.Recorder().OnTextChunk("left over")
	require.NoError(t, s.AbortTurn(errors.New("model down")))

	_, err = s.BeginTurn("second", nil)
	require.NoError(t, err)
	assert.Empty(t, s.Recorder().Buffered())

	msg, err := s.CompleteTurn("fresh answer")
	require.NoError(t, err)
	assert.Equal(t, "fresh answer", msg.Content)
	assert.Empty(t, msg.Flow)
}

func TestAbortTurn(t *testing.T) {
	s := NewStore().Get("s1")

	assert.ErrorIs(t, s.AbortTurn(nil), ErrNoTurn)

	_, err := s.BeginTurn("hello", nil)
	require.NoError(t, err)
	require.NoError(t, s.AbortTurn(errors.New("boom")))

	assert.False(t, s.InTurn())
	msgs := s.History().Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsUser())
}

func TestBeginTurnEmptyPrompt(t *testing.T) {
	s := NewStore().Get("s1")
	_, err := s.BeginTurn("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.False(t, s.InTurn())
}

func TestClearAndRestore(t *testing.T) {
	s := NewStore().Get("s1")
	_, err := s.BeginTurn("hi", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Restore(chat.NewHistory()), ErrTurnInProgress)
	_, err = s.CompleteTurn("hello")
	require.NoError(t, err)

	s.Clear()
	assert.Zero(t, s.History().Len())

	loaded := chat.NewHistory()
	loaded.Append(chat.NewUserMessage("from disk"))
	require.NoError(t, s.Restore(loaded))
	assert.Equal(t, 1, s.Stats().UserMessages)
}
