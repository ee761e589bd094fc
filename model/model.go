package model

import (
	"context"
	"fmt"
	"sync"
)

// Model is the minimal interface required by agents & routers to drive generation.
// Generate receives the fully rendered prompt and returns the raw completion text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Streamer is an optional capability interface for backends that can emit a
// lazy, finite, non-restartable sequence of text chunks. Callers must drain
// both channels; the error channel is closed after the chunk channel.
type Streamer interface {
	Stream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Mock is a lightweight in-memory Model useful for tests & examples. It
// replays a scripted sequence of responses regardless of the prompt, or
// prompt-keyed canned completions when registered via AddResponse.
type Mock struct {
	mu        sync.Mutex
	info      Info
	script    []string
	cursor    int
	responses map[string]string

	// CallCount records the number of Generate invocations.
	CallCount int
	// Prompts records every prompt passed to Generate, in order.
	Prompts []string
}

// NewMock constructs a Mock that replays the given responses in order. Once
// the script is exhausted the last response is repeated.
func NewMock(script ...string) *Mock {
	return &Mock{
		info:      Info{Name: "mock", Provider: "mock"},
		script:    script,
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an exact prompt.
// Prompt-keyed responses take precedence over the script.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model.
func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Prompts = append(m.Prompts, prompt)

	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	if len(m.script) == 0 {
		return fmt.Sprintf("Mock response to: %s", prompt), nil
	}
	if m.cursor >= len(m.script) {
		return m.script[len(m.script)-1], nil
	}
	resp := m.script[m.cursor]
	m.cursor++
	return resp, nil
}

// Stream implements Streamer by emitting the Generate result as a single chunk.
func (m *Mock) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		resp, err := m.Generate(ctx, prompt)
		if err != nil {
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- resp:
		}
	}()
	return out, errCh
}

// Info implements Model.
func (m *Mock) Info() Info { return m.info }
