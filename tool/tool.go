// Package tool implements the function / tool calling subsystem that lets
// agents invoke structured capabilities (APIs, computations, side-effects)
// with a declared parameter schema and consistent error handling.
package tool

import "fmt"

// Parameter describes a single tool argument: its name and a semantic type
// label ("string", "number", ...) surfaced to the model. Parameters keep
// declaration order because the rendered schema is part of the prompt.
type Parameter struct {
	Name string
	Type string
}

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools are registered with agents under their unique name and invoked when
// the model emits a tool-call JSON naming them.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Declare every accepted parameter
//   - Return domain errors instead of panicking
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the LLM to help it understand when and how to use the tool.
	Description() string

	// Parameters returns the ordered argument schema exposed to the model.
	Parameters() []Parameter

	// Run executes the tool with the parsed argument mapping and returns its
	// result verbatim. Failures must be reported as errors, never swallowed.
	Run(args map[string]any) (any, error)
}

// NotFoundError reports a tool call referencing a name that is not registered
// with the executing agent. It is fatal for the run and never retried.
type NotFoundError struct {
	Tool string `json:"tool"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found in agent's toolset", e.Tool)
}

// ExecutionError wraps a failure raised by the tool's callable, preserving the
// original cause for errors.Is / errors.As inspection.
type ExecutionError struct {
	Tool string `json:"tool"`
	Err  error  `json:"-"`
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

// Unwrap returns the original cause.
func (e *ExecutionError) Unwrap() error { return e.Err }
