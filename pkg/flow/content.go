package flow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentItem is one piece of a tool result: plain text or structured data.
// JSON takes precedence when both are set.
type ContentItem struct {
	Text string `json:"text,omitempty"`
	JSON any    `json:"json,omitempty"`
}

// TextItem creates a plain text content item
func TextItem(text string) ContentItem {
	return ContentItem{Text: text}
}

// JSONItem creates a structured content item
func JSONItem(v any) ContentItem {
	return ContentItem{JSON: v}
}

// IsJSON reports whether the item carries structured data
func (c ContentItem) IsJSON() bool {
	return c.JSON != nil
}

// String returns the item as displayable text. Structured data is indented.
func (c ContentItem) String() string {
	if !c.IsJSON() {
		return c.Text
	}
	data, err := json.MarshalIndent(c.JSON, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", c.JSON)
	}
	return string(data)
}

// JoinContent renders every item on its own line
func JoinContent(items []ContentItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, "\n")
}
