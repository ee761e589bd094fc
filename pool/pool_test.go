package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentpool/agent"
	"github.com/hupe1980/agentpool/model"
)

func newAgent(t *testing.T, name string, m *model.Mock) *agent.Agent {
	t.Helper()
	a, err := agent.New(name, "You are "+name+".", m)
	require.NoError(t, err)
	return a
}

func TestPool_MaxIterBoundsTurns(t *testing.T) {
	mA := model.NewMock("output A")
	mB := model.NewMock("output B")
	a := newAgent(t, "A", mA)
	b := newAgent(t, "B", mB)

	// Round-robin never terminates on its own.
	p, err := New([]*agent.Agent{a, b}, func(o *Options) { o.MaxIter = 3 })
	require.NoError(t, err)

	out, err := p.Run(context.Background(), "start")
	require.NoError(t, err)

	// Turns: A, B, A — exactly 3.
	assert.Equal(t, 2, mA.CallCount)
	assert.Equal(t, 1, mB.CallCount)
	assert.Equal(t, "output A", out)
}

func TestPool_FirstTurnGetsInput_LaterTurnsGetLastOutput(t *testing.T) {
	mA := model.NewMock("A says hello")
	mB := model.NewMock("B says bye")
	a := newAgent(t, "A", mA)
	b := newAgent(t, "B", mB)

	p, err := New([]*agent.Agent{a, b}, func(o *Options) { o.MaxIter = 2 })
	require.NoError(t, err)

	out, err := p.Run(context.Background(), "original input")
	require.NoError(t, err)
	assert.Equal(t, "B says bye", out)

	require.Len(t, mA.Prompts, 1)
	assert.Contains(t, mA.Prompts[0], "original input")
	require.Len(t, mB.Prompts, 1)
	assert.Contains(t, mB.Prompts[0], "A says hello")
	assert.NotContains(t, mB.Prompts[0], "original input")
}

type scriptedRouter struct {
	decisions []Result
	calls     int
}

func (r *scriptedRouter) Decide(context.Context, *State, int, string) (Result, error) {
	if r.calls >= len(r.decisions) {
		return Terminate(), nil
	}
	res := r.decisions[r.calls]
	r.calls++
	return res, nil
}

func TestPool_TerminalSentinelStopsRun(t *testing.T) {
	mA := model.NewMock("only output")
	a := newAgent(t, "A", mA)

	router := &scriptedRouter{decisions: []Result{Next("A"), Terminate()}}
	p, err := New([]*agent.Agent{a}, func(o *Options) {
		o.Router = router
		o.MaxIter = 10
	})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "only output", out)
	assert.Equal(t, 1, mA.CallCount)
}

func TestPool_UnknownAgent_ConfigurationError(t *testing.T) {
	a := newAgent(t, "A", model.NewMock("x"))

	router := &scriptedRouter{decisions: []Result{Next("ghost")}}
	p, err := New([]*agent.Agent{a}, func(o *Options) { o.Router = router })
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "go")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ghost", cfgErr.Agent)
}

func TestPool_DuplicateAgentNames_Rejected(t *testing.T) {
	a1 := newAgent(t, "A", model.NewMock())
	a2 := newAgent(t, "A", model.NewMock())

	_, err := New([]*agent.Agent{a1, a2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate agent name")
}

func TestPool_NoAgents_Rejected(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestState_CallCountIncrementsPerTurn(t *testing.T) {
	a := newAgent(t, "A", model.NewMock("x"))

	var observed []int
	router := RouterFunc(func(_ context.Context, _ *State, callCount int, _ string) (Result, error) {
		observed = append(observed, callCount)
		if callCount >= 2 {
			return Terminate(), nil
		}
		return Next("A"), nil
	})

	p, err := New([]*agent.Agent{a}, func(o *Options) {
		o.Router = router
		o.MaxIter = 10
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, observed)
}
