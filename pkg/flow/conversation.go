package flow

// Conversation is the ordered record of one turn. Entries appear in exactly
// the order the agent framework emitted the matching completion events.
type Conversation []Entry

// Clone returns a copy whose backing array is not shared with c. A nil
// conversation stays nil.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return nil
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// ToolCalls returns the tool calls in order
func (c Conversation) ToolCalls() []ToolCall {
	var out []ToolCall
	for _, e := range c {
		if e.Type == TypeToolCall && e.ToolCall != nil {
			out = append(out, *e.ToolCall)
		}
	}
	return out
}

// ToolResults returns the tool results in order
func (c Conversation) ToolResults() []ToolResult {
	var out []ToolResult
	for _, e := range c {
		if e.Type == TypeToolResult && e.ToolResult != nil {
			out = append(out, *e.ToolResult)
		}
	}
	return out
}

// Texts returns the finalized thoughts in order
func (c Conversation) Texts() []string {
	var out []string
	for _, e := range c {
		if e.Type == TypeText {
			out = append(out, e.Text)
		}
	}
	return out
}

// FindToolCall returns the call with the given id
func (c Conversation) FindToolCall(id string) (ToolCall, bool) {
	for _, e := range c {
		if e.Type == TypeToolCall && e.ToolCall != nil && e.ToolCall.ID == id {
			return *e.ToolCall, true
		}
	}
	return ToolCall{}, false
}
