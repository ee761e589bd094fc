// Package agentpool provides a high-level façade over the agent, pool, tool
// and memory subpackages for rapid construction of local multi-agent systems.
// Most applications interact with this package by:
//  1. Wrapping a model backend (model/anthropic, model/openai or model.Mock)
//  2. Declaring tools and creating agents with NewAgent
//  3. Composing agents into a Pool (round-robin or model-routed) and running it
//
// The façade delegates everything to the subpackages while keeping setup
// ergonomics concise. All defaults are safe for local development and testing;
// production deployments typically supply persistent vector/history stores and
// a structured logger.
package agentpool

import (
	"github.com/hupe1980/agentpool/agent"
	"github.com/hupe1980/agentpool/memory"
	"github.com/hupe1980/agentpool/model"
	"github.com/hupe1980/agentpool/pool"
	"github.com/hupe1980/agentpool/tool"
)

// NewTool creates a function-backed tool with an ordered parameter schema.
func NewTool(name, description string, parameters []tool.Parameter, fn func(args map[string]any) (any, error)) *tool.FunctionTool {
	return tool.NewFunctionTool(name, description, parameters, fn)
}

// NewAgent creates an agent with the given identity, persona and model.
// Options configure tools, stop condition, memory and logging.
func NewAgent(name, description, persona string, m model.Model, optFns ...func(o *agent.Options)) (*agent.Agent, error) {
	withDescription := func(o *agent.Options) { o.Description = description }
	return agent.New(name, persona, m, append([]func(o *agent.Options){withDescription}, optFns...)...)
}

// NewPool composes agents under a router (round-robin unless overridden).
func NewPool(agents []*agent.Agent, optFns ...func(o *pool.Options)) (*pool.Pool, error) {
	return pool.New(agents, optFns...)
}

// NewRoutingAgent creates a model-backed router whose allowed set is derived
// from the given agents' names and descriptions.
func NewRoutingAgent(name, persona string, m model.Model, agents []*agent.Agent, optFns ...func(o *pool.RoutingAgentOptions)) *pool.RoutingAgent {
	infos := make([]pool.AgentInfo, 0, len(agents))
	for _, a := range agents {
		infos = append(infos, pool.AgentInfo{Name: a.Name(), Description: a.Description()})
	}
	return pool.NewRoutingAgent(name, persona, m, infos, optFns...)
}

// NewLongTermMemory creates a long-term memory with in-process defaults
// (InMemoryStore + SimpleEmbedder), overridable via options.
func NewLongTermMemory(optFns ...func(o *memory.Options)) *memory.LongTermMemory {
	return memory.NewLongTermMemory(optFns...)
}
