package tool

// FunctionTool is a generic adapter that exposes a plain Go function as a Tool.
//
// Responsibilities:
//   - Holds the ordered parameter schema rendered into tool-usage prompts
//   - Invokes the wrapped function with the argument mapping parsed from the
//     model's tool-call JSON
//   - Normalizes failures so callers receive *ExecutionError wrapping the
//     original cause
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction and is safe
//	for concurrent use by multiple goroutines (assuming fn itself is).
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// Ordered argument schema
	parameters []Parameter
	// User supplied implementation
	fn func(args map[string]any) (any, error)
}

var _ Tool = (*FunctionTool)(nil)

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  []Parameter{{Name: "a", Type: "number"}, {Name: "b", Type: "number"}},
//	  func(args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters []Parameter,
	fn func(args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique tool name used in tool-call detection and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the ordered argument schema.
func (t *FunctionTool) Parameters() []Parameter { return t.parameters }

// Run invokes the underlying function, wrapping any failure as *ExecutionError.
// The result is returned verbatim; higher layers render it into the transcript.
func (t *FunctionTool) Run(args map[string]any) (any, error) {
	result, err := t.fn(args)
	if err != nil {
		return nil, &ExecutionError{Tool: t.name, Err: err}
	}
	return result, nil
}
