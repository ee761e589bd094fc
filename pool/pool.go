package pool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentpool/agent"
	"github.com/hupe1980/agentpool/logging"
)

// DefaultMaxIter bounds a pool run when no explicit limit is configured.
const DefaultMaxIter = 5

// ConfigurationError reports a router decision naming an agent that is not
// registered in the pool. It is fatal and surfaced immediately — the pool
// never silently falls back to another routing policy.
type ConfigurationError struct {
	Agent string `json:"agent"`
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("router selected unknown agent %q", e.Agent)
}

// Options configure a Pool.
type Options struct {
	// Router decides turn order. Defaults to round-robin over the agents in
	// registration order.
	Router Router

	// MaxIter bounds the number of turns per run. Defaults to DefaultMaxIter.
	MaxIter int

	// Logger receives structured turn telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Pool is a shared-state scheduler running multiple agents in router-determined
// order. Execution is strictly sequential on the caller's goroutine.
type Pool struct {
	agents  []*agent.Agent
	byName  map[string]*agent.Agent
	router  Router
	maxIter int
	logger  logging.Logger
}

// New constructs a Pool over the given agents. Agent names must be unique.
func New(agents []*agent.Agent, optFns ...func(o *Options)) (*Pool, error) {
	opts := Options{
		MaxIter: DefaultMaxIter,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(agents) == 0 {
		return nil, fmt.Errorf("pool requires at least one agent")
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}

	byName := make(map[string]*agent.Agent, len(agents))
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		if _, exists := byName[a.Name()]; exists {
			return nil, fmt.Errorf("pool: duplicate agent name %q", a.Name())
		}
		byName[a.Name()] = a
		names = append(names, a.Name())
	}

	router := opts.Router
	if router == nil {
		router = NewRoundRobin(names...)
	}

	return &Pool{
		agents:  agents,
		byName:  byName,
		router:  router,
		maxIter: opts.MaxIter,
		logger:  opts.Logger,
	}, nil
}

// Run executes up to MaxIter router-selected turns on a fresh shared State
// and returns the final content. The first selected agent receives the
// original input; later agents receive the most recent history content. The
// run ends early when the router returns the terminal sentinel.
func (p *Pool) Run(ctx context.Context, input string) (string, error) {
	state := NewState()
	last := ""

	for turn := 0; turn < p.maxIter; turn++ {
		res, err := p.router.Decide(ctx, state, state.CallCount, last)
		if err != nil {
			return "", fmt.Errorf("pool: router decide: %w", err)
		}
		if res.Terminated() {
			p.logger.Info("pool.run.terminated", "turns", state.CallCount)
			break
		}

		a, ok := p.byName[res.Agent()]
		if !ok {
			return "", &ConfigurationError{Agent: res.Agent()}
		}

		turnInput := input
		if e, ok := state.Last(); ok {
			turnInput = e.Content
		}

		output, err := a.Run(ctx, turnInput)
		if err != nil {
			return "", fmt.Errorf("pool: agent %q: %w", a.Name(), err)
		}

		state.History = append(state.History, Entry{Agent: a.Name(), Content: output})
		state.CallCount++
		last = output

		p.logger.Info("pool.turn.completed", "agent", a.Name(), "turn", state.CallCount)
	}

	return last, nil
}
