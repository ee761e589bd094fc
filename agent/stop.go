package agent

// StopCondition decides whether an agent should stop iterating. Implementations
// must be deterministic and side-effect-free so agent behavior is reproducible
// given identical model outputs. step is the 1-based count of completed model
// generations; transcript is the full conversation so far.
type StopCondition interface {
	ShouldStop(step int, transcript []Message) bool
}

// StopFunc adapts a plain function to the StopCondition interface.
type StopFunc func(step int, transcript []Message) bool

// ShouldStop implements StopCondition.
func (f StopFunc) ShouldStop(step int, transcript []Message) bool { return f(step, transcript) }

// LimitSteps stops an agent once it has completed n model generations. It is
// the default termination policy.
func LimitSteps(n int) StopCondition {
	return StopFunc(func(step int, _ []Message) bool { return step >= n })
}
