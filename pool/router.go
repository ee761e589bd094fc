package pool

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentpool/model"
)

// Result is a routing decision: either the name of the next agent to run or
// the terminal sentinel ending the pool run. Produced fresh every turn, never
// persisted.
type Result struct {
	agent     string
	terminate bool
}

// Next selects the named agent for the next turn.
func Next(agentName string) Result { return Result{agent: agentName} }

// Terminate is the terminal sentinel: no next agent, the pool run ends.
func Terminate() Result { return Result{terminate: true} }

// Agent returns the selected agent name. Empty when terminated.
func (r Result) Agent() string { return r.agent }

// Terminated reports whether this is the terminal sentinel.
func (r Result) Terminated() bool { return r.terminate }

// Router selects the next participant in a pool turn. callCount is the number
// of completed turns so far, lastOutput the most recent agent output (empty on
// the first turn). Model-backed routers may block on the supplied context.
type Router interface {
	Decide(ctx context.Context, state *State, callCount int, lastOutput string) (Result, error)
}

// RouterFunc adapts a plain function to the Router interface.
type RouterFunc func(ctx context.Context, state *State, callCount int, lastOutput string) (Result, error)

// Decide implements Router.
func (f RouterFunc) Decide(ctx context.Context, state *State, callCount int, lastOutput string) (Result, error) {
	return f(ctx, state, callCount, lastOutput)
}

// RoundRobin cycles through the registered agent names in registration order,
// wrapping. It is stateless beyond the callCount it is handed.
type RoundRobin struct {
	names []string
}

var _ Router = (*RoundRobin)(nil)

// NewRoundRobin creates a round-robin router over the given agent names.
func NewRoundRobin(names ...string) *RoundRobin {
	return &RoundRobin{names: names}
}

// Decide implements Router.
func (r *RoundRobin) Decide(_ context.Context, _ *State, callCount int, _ string) (Result, error) {
	if len(r.names) == 0 {
		return Terminate(), nil
	}
	return Next(r.names[callCount%len(r.names)]), nil
}

// TerminateKeyword is the token a routing model emits to end the pool run.
const TerminateKeyword = "TERMINATE"

// RoutingAgentOptions configure a RoutingAgent.
type RoutingAgentOptions struct {
	// Fallback is the agent selected when the model names nothing known.
	// Empty means terminate instead of guessing.
	Fallback string
}

// RoutingAgent is a model-backed router: it asks its own backend, given a
// persona and the allowed agent-name set, to name the next agent. The raw
// output is matched against the known names — exact match preferred, then a
// case-insensitive containment pass. On no match it falls back to the
// configured default or the terminal sentinel; it never guesses.
type RoutingAgent struct {
	name    string
	persona string
	model   model.Model
	agents  []AgentInfo
	opts    RoutingAgentOptions
}

// AgentInfo identifies a routable agent to the routing model.
type AgentInfo struct {
	Name        string
	Description string
}

var _ Router = (*RoutingAgent)(nil)

// NewRoutingAgent constructs a model-backed router over the given agents.
func NewRoutingAgent(name, persona string, m model.Model, agents []AgentInfo, optFns ...func(o *RoutingAgentOptions)) *RoutingAgent {
	var opts RoutingAgentOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RoutingAgent{name: name, persona: persona, model: m, agents: agents, opts: opts}
}

// Name returns the routing agent's identifier.
func (r *RoutingAgent) Name() string { return r.name }

// Decide implements Router.
func (r *RoutingAgent) Decide(ctx context.Context, state *State, callCount int, lastOutput string) (Result, error) {
	output, err := r.model.Generate(ctx, r.buildPrompt(state, callCount, lastOutput))
	if err != nil {
		return Result{}, fmt.Errorf("routing agent %q: model generate: %w", r.name, err)
	}

	choice := strings.TrimSpace(output)

	if strings.EqualFold(choice, TerminateKeyword) {
		return Terminate(), nil
	}
	for _, a := range r.agents {
		if choice == a.Name {
			return Next(a.Name), nil
		}
	}
	for _, a := range r.agents {
		if strings.Contains(strings.ToLower(choice), strings.ToLower(a.Name)) {
			return Next(a.Name), nil
		}
	}

	if r.opts.Fallback != "" {
		return Next(r.opts.Fallback), nil
	}
	return Terminate(), nil
}

func (r *RoutingAgent) buildPrompt(state *State, callCount int, lastOutput string) string {
	var sb strings.Builder
	sb.WriteString(r.persona)
	sb.WriteString("\n\nAvailable agents:\n")
	for _, a := range r.agents {
		if a.Description != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", a.Name, a.Description)
		} else {
			fmt.Fprintf(&sb, "- %s\n", a.Name)
		}
	}
	fmt.Fprintf(&sb, "\nTurns completed: %d\n", callCount)
	if lastOutput != "" {
		fmt.Fprintf(&sb, "\nLast agent output:\n%s\n", lastOutput)
	} else if len(state.History) == 0 {
		sb.WriteString("\nNo agent has run yet.\n")
	}
	fmt.Fprintf(&sb, "\nRespond with ONLY the name of the next agent to run, or %s if the task is complete.", TerminateKeyword)
	return sb.String()
}
