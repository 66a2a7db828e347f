package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamily(t *testing.T) {
	tests := map[string]string{
		"llama3.1:8b":        "llama",
		"codellama:7b":       "codellama",
		"mixtral:8x7b":       "mixtral",
		"qwen3:latest":       "qwen",
		"deepseek-r1:7b":     "deepseek",
		"gpt-4o-mini":        "gpt",
		"completely-unknown": "unknown",
	}
	for name, want := range tests {
		assert.Equal(t, want, Family(name), name)
	}
}

func TestSupportFor(t *testing.T) {
	tests := []struct {
		model string
		want  Support
	}{
		{"llama3.1:8b", SupportGood},
		{"llama2:7b", SupportBasic},
		{"qwen3:latest", SupportGood},
		{"QWEN2.5:7B", SupportGood},
		{"qwen2.5:1.5b", SupportBasic},
		{"qwen:7b", SupportBasic},
		{"mistral:7b", SupportGood},
		{"gpt-4o-mini", SupportGood},
		{"deepseek-coder:6.7b", SupportBasic},
		{"gemma:2b", SupportNone},
		{"phi:3b", SupportNone},
		{"mystery", SupportUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportFor(tt.model))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "qwen3", Normalize(" Qwen3:latest "))
	assert.Equal(t, "llama3.1:8b", Normalize("llama3.1:8b"))
}

func TestWarning(t *testing.T) {
	assert.Empty(t, Warning("ollama", "qwen3:latest"))
	assert.Empty(t, Warning("script", "gemma:2b"))
	assert.Equal(t, "Warning: model 'gemma:2b' has no tool calling support", Warning("ollama", "gemma:2b"))
	assert.Contains(t, Warning("ollama", "mystery"), "unknown")
}
