package chat

import (
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?ims)<think(?:ing)?>(.*?)</think(?:ing)?>`)

// Thinking is model output with its <think> blocks separated out
type Thinking struct {
	Reasoning string
	Response  string
}

// SplitThinking separates <think> and <thinking> blocks from the rest of
// content. Multiple blocks are joined with a blank line.
func SplitThinking(content string) Thinking {
	matches := thinkBlock.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return Thinking{Response: strings.TrimSpace(content)}
	}

	var parts []string
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			parts = append(parts, s)
		}
	}
	return Thinking{
		Reasoning: strings.Join(parts, "\n\n"),
		Response:  strings.TrimSpace(thinkBlock.ReplaceAllString(content, "")),
	}
}

// StripThinking returns content without its thinking blocks
func StripThinking(content string) string {
	return SplitThinking(content).Response
}
