// Package testutil holds fakes and fixtures shared by tests across packages.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// ErrNoResponses is returned once every scripted response has been used
var ErrNoResponses = errors.New("no more responses")

// FakeLLM is a langchaingo model that returns scripted completions in order
type FakeLLM struct {
	mu        sync.Mutex
	responses []string
	next      int
	prompts   []string
	err       error
}

// NewFakeLLM creates a fake LLM with predefined responses
func NewFakeLLM(responses ...string) *FakeLLM {
	return &FakeLLM{responses: responses}
}

// GenerateContent implements llms.Model. When the call asks for
// streaming, the response is also sent through the streaming func in
// word-sized chunks before it is returned.
func (f *FakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				parts = append(parts, text.Text)
			}
		}
	}

	f.mu.Lock()
	f.prompts = append(f.prompts, strings.Join(parts, "\n"))
	if f.err != nil {
		err := f.err
		f.mu.Unlock()
		return nil, err
	}
	if f.next >= len(f.responses) {
		f.mu.Unlock()
		return nil, ErrNoResponses
	}
	response := f.responses[f.next]
	f.next++
	f.mu.Unlock()

	if opts.StreamingFunc != nil {
		for _, chunk := range strings.SplitAfter(response, " ") {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: response}},
	}, nil
}

// Call implements llms.Model
func (f *FakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// SetError makes every following call fail with err
func (f *FakeLLM) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// CallCount returns the number of generate calls
func (f *FakeLLM) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// LastPrompt returns the text of the most recent call
func (f *FakeLLM) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}
