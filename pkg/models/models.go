// Package models guesses how well a local model follows the agent's
// Thought/Action/Final Answer format from its name alone.
package models

import "strings"

// Support is how reliably a model drives the tool loop
type Support int

const (
	SupportUnknown Support = iota
	SupportNone
	SupportBasic
	SupportGood
)

func (s Support) String() string {
	switch s {
	case SupportNone:
		return "no"
	case SupportBasic:
		return "basic"
	case SupportGood:
		return "good"
	default:
		return "unknown"
	}
}

// Small models that lose the output format after one or two steps
var tooSmall = []string{
	"smollm2:135m",
	"smollm2:360m",
	"tinyllama:1.1b",
	"qwen2.5:0.5b",
	"qwen2.5:1.5b",
	"qwen2.5:3b",
}

// Normalize lowercases a model name and drops a ":latest" tag
func Normalize(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(strings.ToLower(name)), ":latest")
}

// Family returns the model family a name belongs to, or "unknown"
func Family(name string) string {
	n := Normalize(name)

	// More specific names first
	for _, family := range []string{
		"codellama", "mixtral", "llama", "qwen", "mistral",
		"deepseek", "gemma", "phi", "gpt",
	} {
		if strings.Contains(n, family) {
			return family
		}
	}
	return "unknown"
}

// SupportFor infers tool loop support for a model name
func SupportFor(name string) Support {
	n := Normalize(name)
	for _, small := range tooSmall {
		if n == small {
			return SupportBasic
		}
	}

	switch Family(n) {
	case "llama":
		if strings.Contains(n, "3.1") || strings.Contains(n, "3.2") || strings.Contains(n, "3.3") {
			return SupportGood
		}
		return SupportBasic
	case "qwen":
		if strings.Contains(n, "qwen2.5") || strings.Contains(n, "qwen3") {
			return SupportGood
		}
		return SupportBasic
	case "mistral", "mixtral", "gpt":
		return SupportGood
	case "deepseek", "codellama":
		return SupportBasic
	case "gemma", "phi":
		return SupportNone
	}
	return SupportUnknown
}

// Warning returns a line to show before chatting with model, or "" when
// the model is expected to work
func Warning(provider, model string) string {
	if provider == "script" {
		return ""
	}
	support := SupportFor(model)
	if support == SupportGood {
		return ""
	}
	return "Warning: model '" + model + "' has " + support.String() + " tool calling support"
}
