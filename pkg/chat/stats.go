package chat

// Stats summarises a history
type Stats struct {
	UserMessages      int `json:"user_messages"`
	AssistantMessages int `json:"assistant_messages"`
	ToolCalls         int `json:"tool_calls"`
}

// Stats counts messages by role and tool calls across the history
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return ComputeStats(h.messages)
}

func ComputeStats(messages []Message) Stats {
	var s Stats
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			s.UserMessages++
		case RoleAssistant:
			s.AssistantMessages++
			s.ToolCalls += m.ToolCallCount()
		}
	}
	return s
}
