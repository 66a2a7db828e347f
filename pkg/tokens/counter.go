package tokens

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in recorded messages
type Counter struct {
	encoder *tiktoken.Tiktoken
	mu      sync.RWMutex
}

// EncodingEstimate disables tiktoken; counts are estimated
const EncodingEstimate = "estimate"

// NewCounter creates a counter for modelName. encoding names a tiktoken
// encoding; empty or "auto" picks one from the model name. When no
// encoding can be loaded the counter estimates from word and character
// counts.
func NewCounter(modelName, encoding string) *Counter {
	if encoding == EncodingEstimate {
		return &Counter{}
	}
	if encoding == "" || encoding == "auto" {
		encoding = encodingForModel(modelName)
	}

	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Debug("Token encoding unavailable for %s, estimating: %v", modelName, err)
		return &Counter{}
	}
	return &Counter{encoder: encoder}
}

// Count counts the tokens in text
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.encoder == nil {
		return estimate(text)
	}
	return len(c.encoder.Encode(text, nil, nil))
}

// Estimated reports whether counts are estimates
func (c *Counter) Estimated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.encoder == nil
}

// CountMessages counts every message, including the tool inputs and
// results recorded in assistant flows
func (c *Counter) CountMessages(messages []chat.Message) int {
	total := 0
	for _, msg := range messages {
		total += c.countMessage(msg)
	}
	return total
}

func (c *Counter) countMessage(msg chat.Message) int {
	// role and boundary markers
	n := c.Count(string(msg.Role)) + 4

	if !msg.HasFlow() {
		return n + c.Count(msg.Content)
	}

	for _, e := range msg.Flow {
		switch e.Type {
		case flow.TypeText:
			n += c.Count(e.Text)
		case flow.TypeToolCall:
			if e.ToolCall != nil {
				n += c.Count(e.ToolCall.Name) + c.countJSON(e.ToolCall.Input)
			}
		case flow.TypeToolResult:
			if e.ToolResult != nil {
				n += c.Count(flow.JoinContent(e.ToolResult.Content))
			}
		}
	}
	return n
}

func (c *Counter) countJSON(v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return c.Count(string(data))
}

// encodingForModel returns the tiktoken encoding for a model
func encodingForModel(modelName string) string {
	name := strings.ToLower(modelName)
	if strings.Contains(name, "davinci") || strings.Contains(name, "curie") {
		return "p50k_base"
	}
	if strings.Contains(name, "gpt-4o") || strings.Contains(name, "o1") {
		return "o200k_base"
	}
	// works reasonably for local models too
	return "cl100k_base"
}

// estimate is one token per word or per four characters, whichever is higher
func estimate(text string) int {
	words := len(strings.Fields(text))
	chars := len(text) / 4
	if words > chars {
		return words
	}
	return chars
}
