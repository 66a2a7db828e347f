package render

import (
	"fmt"
	"io"

	"github.com/killallgit/agentflow/pkg/config"
)

const (
	FormatTerminal = "terminal"
	FormatJSONL    = "jsonl"
)

// New builds the renderer named by format
func New(format string, w io.Writer, cfg config.RenderConfig) (Renderer, error) {
	switch format {
	case "", FormatTerminal:
		return NewTerminal(w, TerminalOptions{
			Width:           cfg.Width,
			Theme:           cfg.Theme,
			Highlight:       cfg.Highlight,
			ExpandToolInput: cfg.ExpandToolInput,
		}), nil
	case FormatJSONL:
		return NewJSONLines(w), nil
	default:
		return nil, fmt.Errorf("unknown render format %q (want %s or %s)", format, FormatTerminal, FormatJSONL)
	}
}
