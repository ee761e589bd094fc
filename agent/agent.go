package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentpool/logging"
	"github.com/hupe1980/agentpool/memory"
	"github.com/hupe1980/agentpool/model"
	"github.com/hupe1980/agentpool/tool"
)

// DefaultStopLimit is the model-generation bound applied when no stop
// condition is supplied.
const DefaultStopLimit = 5

// DefaultMaxSteps is the hard iteration cap guarding against stop conditions
// that never fire. It is independent of the stop condition on purpose: a
// misconfigured condition must not produce an unbounded loop.
const DefaultMaxSteps = 25

// Options configure an Agent beyond its required name, persona and model.
type Options struct {
	// Description is a high-level summary of the agent's purpose, surfaced to
	// routers when composing pools.
	Description string

	// Tools the agent may invoke. Names must be unique.
	Tools []tool.Tool

	// Stop decides when the loop terminates. Defaults to LimitSteps(DefaultStopLimit).
	Stop StopCondition

	// Memory is an optional shared long-term memory. The agent only reads and
	// stores through it; it never owns or destroys it.
	Memory *memory.LongTermMemory

	// MemoryLimit caps how many recalled memories are injected into the
	// initial prompt. Defaults to 5.
	MemoryLimit int

	// MaxSteps is the hard iteration cap. Defaults to DefaultMaxSteps.
	MaxSteps int

	// Logger receives structured run telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent is a persona-bound execution loop over a model backend. Its transient
// conversation is reset at the start of every Run; long-term memory, when
// attached, is the only state that survives across runs.
//
// An Agent is not safe for concurrent Run calls: execution is single-threaded
// by design and the conversation is working memory for one run at a time.
type Agent struct {
	name        string
	description string
	persona     string
	model       model.Model
	tools       map[string]tool.Tool
	toolOrder   []tool.Tool
	stop        StopCondition
	memory      *memory.LongTermMemory
	memoryLimit int
	maxSteps    int
	logger      logging.Logger

	conversation []Message
}

// New constructs an Agent. Duplicate tool names are rejected.
func New(name, persona string, m model.Model, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Stop:        LimitSteps(DefaultStopLimit),
		MemoryLimit: 5,
		MaxSteps:    DefaultMaxSteps,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if m == nil {
		return nil, fmt.Errorf("agent %q: model is required", name)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		if _, exists := tools[t.Name()]; exists {
			return nil, fmt.Errorf("agent %q: duplicate tool name %q", name, t.Name())
		}
		tools[t.Name()] = t
	}

	return &Agent{
		name:        name,
		description: opts.Description,
		persona:     persona,
		model:       m,
		tools:       tools,
		toolOrder:   opts.Tools,
		stop:        opts.Stop,
		memory:      opts.Memory,
		memoryLimit: opts.MemoryLimit,
		maxSteps:    opts.MaxSteps,
		logger:      opts.Logger,
	}, nil
}

// Name returns the agent's unique identifier.
func (a *Agent) Name() string { return a.name }

// Description returns the high-level purpose summary used by routers.
func (a *Agent) Description() string { return a.description }

// Memory returns the attached long-term memory, or nil.
func (a *Agent) Memory() *memory.LongTermMemory { return a.memory }

// Conversation returns the transcript of the most recent run.
func (a *Agent) Conversation() []Message { return a.conversation }

// Run executes the agent loop on the given input and returns its final
// answer. Fatal failures (model errors, unknown tool names, tool execution
// errors) surface as errors; an output with no detectable tool call is the
// designed natural-language result, not a failure.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	a.conversation = a.conversation[:0]
	a.conversation = append(a.conversation, Message{Role: RoleUser, Content: input})

	prompt := a.buildInitialPrompt(a.recallMemories(ctx, input))

	step := 0
	for {
		step++
		if step > a.maxSteps {
			a.logger.Warn("agent.run.step_cap", "agent", a.name, "max_steps", a.maxSteps)
			return a.fallbackAnswer(), nil
		}

		output, err := a.model.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("agent %q: model generate: %w", a.name, err)
		}
		a.conversation = append(a.conversation, Message{Role: RoleAssistant, Content: output})

		call := ParseToolCall(output)
		if call == nil {
			if a.stop.ShouldStop(step, a.conversation) {
				return a.fallbackAnswer(), nil
			}
			return output, nil
		}

		t, ok := a.tools[call.Tool]
		if !ok {
			return "", &tool.NotFoundError{Tool: call.Tool}
		}

		result, err := t.Run(call.Args)
		if err != nil {
			return "", err
		}
		a.logger.Debug("agent.tool.executed", "agent", a.name, "tool", call.Tool, "step", step)

		a.conversation = append(a.conversation, Message{
			Role: RoleTool,
			Tool: &ToolResult{Name: call.Tool, Args: call.Args, Output: result},
		})

		if a.stop.ShouldStop(step, a.conversation) {
			return fmt.Sprintf("Tool result: %v", result), nil
		}

		prompt = a.buildFollowUpPrompt()
	}
}

// recallMemories retrieves memories relevant to the input and renders them
// for prompt injection. Retrieval failure downgrades to a warning: recall is
// an enrichment, losing it must not kill the run.
func (a *Agent) recallMemories(ctx context.Context, input string) string {
	if a.memory == nil {
		return ""
	}
	memories, err := a.memory.Retrieve(ctx, input, a.memoryLimit)
	if err != nil {
		a.logger.Warn("agent.memory.retrieve_failed", "agent", a.name, "error", err.Error())
		return ""
	}
	return a.memory.FormatForContext(memories)
}

// fallbackAnswer builds the terminal response when the stop condition fires
// without a final natural-language answer: the most recent tool output if one
// exists, else a generic completion message.
func (a *Agent) fallbackAnswer() string {
	for i := len(a.conversation) - 1; i >= 0; i-- {
		if m := a.conversation[i]; m.Role == RoleTool && m.Tool != nil {
			return fmt.Sprintf("Based on the analysis: %v", m.Tool.Output)
		}
	}
	return "Task completed with available information."
}
