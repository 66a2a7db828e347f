package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/killallgit/agentflow/pkg/events"
)

// ScriptAgent replays a recorded stream of callback payloads, one JSON
// object per line, instead of calling a model. Every Run replays the whole
// script. The result is the text of the last assistant text block.
type ScriptAgent struct {
	script []byte
	delay  time.Duration
}

// NewScriptAgent creates a script agent over the JSON Lines in script
func NewScriptAgent(script []byte) *ScriptAgent {
	return &ScriptAgent{script: script}
}

// NewScriptAgentFromFile reads the script from path
func NewScriptAgentFromFile(path string) (*ScriptAgent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent script: %w", err)
	}
	return NewScriptAgent(data), nil
}

// WithDelay paces the replay, pausing between events
func (s *ScriptAgent) WithDelay(d time.Duration) *ScriptAgent {
	s.delay = d
	return s
}

func (s *ScriptAgent) Run(ctx context.Context, _ string, handler events.Handler) (string, error) {
	reader := events.NewReader(bytes.NewReader(s.script))
	var result string

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("agent script: %w", err)
		}

		if msg, ok := ev.(events.Message); ok && msg.Role == events.RoleAssistant {
			if text := lastText(msg); text != "" {
				result = text
			}
		}
		if handler != nil {
			handler.Handle(ev)
		}

		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return result, nil
}

func (s *ScriptAgent) Close() error {
	return nil
}

func lastText(msg events.Message) string {
	for i := len(msg.Content) - 1; i >= 0; i-- {
		if tb, ok := msg.Content[i].(events.TextBlock); ok && strings.TrimSpace(tb.Text) != "" {
			return strings.TrimSpace(tb.Text)
		}
	}
	return ""
}
