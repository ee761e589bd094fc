package agent

// Role identifies the producer of a transcript message.
type Role string

const (
	// RoleUser marks caller input.
	RoleUser Role = "user"
	// RoleAssistant marks raw model output.
	RoleAssistant Role = "assistant"
	// RoleTool marks a recorded tool execution.
	RoleTool Role = "tool"
)

// ToolResult captures one tool execution: the tool's name, the parsed
// argument mapping it received and the value it returned.
type ToolResult struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Output any            `json:"output"`
}

// Message is one entry of an agent's transient conversation. The sequence is
// append-only within a run and its order is meaningful: it is the prompt
// transcript. Content holds text for user/assistant messages; Tool is set
// instead when Role is RoleTool.
type Message struct {
	Role    Role        `json:"role"`
	Content string      `json:"content,omitempty"`
	Tool    *ToolResult `json:"tool,omitempty"`
}
