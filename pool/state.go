package pool

// Entry is one item of the shared pool history: an agent's output tagged with
// the producing agent's name.
type Entry struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
}

// State is the shared conversation state of one Pool run. It is owned
// exclusively by the Pool for the duration of the run and mutated only by the
// Pool's own loop; routers and agents read it, never write it.
type State struct {
	// History holds completed turns in execution order.
	History []Entry
	// CallCount increases strictly by 1 per completed agent turn.
	CallCount int
}

// NewState creates an empty pool state.
func NewState() *State { return &State{} }

// Last returns the most recent history entry, if any.
func (s *State) Last() (Entry, bool) {
	if len(s.History) == 0 {
		return Entry{}, false
	}
	return s.History[len(s.History)-1], true
}
