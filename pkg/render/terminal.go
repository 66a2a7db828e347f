package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
)

var (
	colorMuted   = lipgloss.Color("#5c5044")
	colorText    = lipgloss.Color("#ab937b")
	colorUser    = lipgloss.Color("#eb8755")
	colorAgent   = lipgloss.Color("#6b93b5")
	colorInfo    = lipgloss.Color("#61afaf")
	colorSuccess = lipgloss.Color("#93b56b")
	colorError   = lipgloss.Color("#d95f5f")
	colorCode    = lipgloss.Color("#f5b761")
)

// TerminalOptions configures a Terminal renderer
type TerminalOptions struct {
	Width           int
	Theme           string // chroma style name
	Highlight       bool   // syntax highlight JSON with chroma
	ExpandToolInput bool
}

type terminalStyles struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	text      lipgloss.Style
	toolCall  lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	section   lipgloss.Style
	code      lipgloss.Style
	muted     lipgloss.Style
}

// Terminal writes styled, line-oriented output
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	opts     TerminalOptions
	styles   terminalStyles
	mode     Mode
	thinking bool

	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTerminal creates a terminal renderer writing to w. Colours follow the
// capabilities lipgloss detects for w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	if opts.Width <= 0 {
		opts.Width = 100
	}

	r := lipgloss.NewRenderer(w)
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	style := styles.Get(opts.Theme)
	if style == nil {
		style = styles.Fallback
	}

	return &Terminal{
		w:         w,
		opts:      opts,
		formatter: formatter,
		style:     style,
		styles: terminalStyles{
			user:      r.NewStyle().Foreground(colorUser).Bold(true),
			assistant: r.NewStyle().Foreground(colorAgent).Bold(true),
			text:      r.NewStyle().Foreground(colorText).PaddingLeft(2).Width(opts.Width),
			toolCall:  r.NewStyle().Foreground(colorInfo).PaddingLeft(2),
			success:   r.NewStyle().Foreground(colorSuccess).PaddingLeft(2),
			failure:   r.NewStyle().Foreground(colorError).PaddingLeft(2),
			section:   r.NewStyle().Foreground(colorMuted).PaddingLeft(4),
			code:      r.NewStyle().Foreground(colorCode).PaddingLeft(6),
			muted:     r.NewStyle().Foreground(colorMuted).Italic(true).PaddingLeft(2),
		},
	}
}

func (t *Terminal) println(s string) {
	fmt.Fprintln(t.w, s)
}

func (t *Terminal) BeginMessage(role chat.Role, mode Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = mode
	t.thinking = false
	if role == chat.RoleUser {
		t.println(t.styles.user.Render("● You"))
		return
	}
	t.println(t.styles.assistant.Render("● Assistant"))
}

func (t *Terminal) Text(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.thinking = false
	if strings.TrimSpace(text) == "" {
		return
	}
	t.println(t.styles.text.Render(text))
}

func (t *Terminal) ToolCall(call flow.ToolCall) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.thinking = false
	t.println(t.styles.toolCall.Render("🔧 Tool Call: " + call.Name))

	if !t.opts.ExpandToolInput {
		t.println(t.styles.section.Render(fmt.Sprintf("▸ Tool Input (%d %s)", len(call.Input), plural(len(call.Input), "field", "fields"))))
		return
	}
	t.println(t.styles.section.Render("▾ Tool Input"))
	t.println(t.renderJSON(call.Input))
}

func (t *Terminal) ToolResult(result flow.ToolResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.thinking = false
	expanded := resultExpanded(result, t.mode)

	if !result.Status.IsSuccess() {
		status := string(result.Status)
		if status == "" {
			status = "Failed"
		}
		t.println(t.styles.failure.Render("❌ Tool Result: " + status))
		if len(result.Content) > 0 {
			t.println(t.styles.section.Render("▾ Error Details"))
			t.println(t.styles.code.Render(flow.JoinContent(result.Content)))
		}
		return
	}

	t.println(t.styles.success.Render("✅ Tool Result: Success"))
	if len(result.Content) == 0 {
		return
	}
	if !expanded {
		t.println(t.styles.section.Render(fmt.Sprintf("▸ Tool Result (%d %s)", len(result.Content), plural(len(result.Content), "item", "items"))))
		return
	}

	t.println(t.styles.section.Render("▾ Tool Result"))
	for _, item := range result.Content {
		if item.IsJSON() {
			t.println(t.renderJSON(item.JSON))
			continue
		}
		t.println(t.styles.code.Render(item.Text))
	}
}

func (t *Terminal) EndMessage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.thinking = false
	t.println("")
}

// Progress shows a single thinking marker per thought in progress
func (t *Terminal) Progress(delta string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.thinking || delta == "" {
		return
	}
	t.thinking = true
	t.println(t.styles.muted.Render("💭 thinking..."))
}

func (t *Terminal) Notice(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(t.styles.muted.Render(msg))
}

func (t *Terminal) Error(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(t.styles.failure.Render("Error: " + err.Error()))
}

// renderJSON pretty prints v, highlighted when enabled
func (t *Terminal) renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return t.styles.code.Render(fmt.Sprint(v))
	}
	text := string(data)
	if !t.opts.Highlight {
		return t.styles.code.Render(text)
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		logger.WithComponent("render").Debug("Failed to tokenize JSON, using plain text", "error", err)
		return t.styles.code.Render(text)
	}

	var buf strings.Builder
	if err := t.formatter.Format(&buf, t.style, iterator); err != nil {
		logger.WithComponent("render").Debug("Failed to format JSON, using plain text", "error", err)
		return t.styles.code.Render(text)
	}
	return indent(buf.String(), 6)
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
