package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentpool/tool"
)

const noToolsInstruction = "IMPORTANT: You do not have access to any tools. " +
	"Respond directly in natural language only. Do NOT output JSON."

const followUpInstruction = "Assistant: The tool has executed successfully. Based on the tool output above:\n" +
	"1. If you need to use another tool, respond with the tool JSON.\n" +
	"2. Otherwise, provide your final response that INCLUDES the actual tool results/data.\n" +
	"3. Do NOT just describe what you did - show the actual results. Unless mentioned otherwise.\n" +
	"DO NOT output JSON unless calling a tool."

// renderToolInstructions produces the tool-usage section of the prompt: the
// schema of every registered tool in registration order plus the JSON calling
// convention the parser expects.
func renderToolInstructions(tools []tool.Tool) string {
	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n\n")
	for _, t := range tools {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name(), t.Description())
		params := t.Parameters()
		if len(params) == 0 {
			continue
		}
		sb.WriteString("  Parameters:\n")
		for _, p := range params {
			fmt.Fprintf(&sb, "    - %s (%s)\n", p.Name, p.Type)
		}
	}
	sb.WriteString("\nTo call a tool, respond with ONLY a JSON object in this exact format:\n")
	sb.WriteString(`{"tool": "<tool_name>", "args": {"<parameter>": <value>}}`)
	sb.WriteString("\n\nIf no tool is needed, respond in natural language.")
	return sb.String()
}

// renderArgs serializes a tool argument mapping for transcript display.
// json.Marshal sorts map keys, keeping the rendering stable across runs.
func renderArgs(args map[string]any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}

// renderTranscript renders the conversation for prompt inclusion. Tool
// messages are expanded into their name, arguments and output so the model
// sees what actually happened.
func renderTranscript(transcript []Message) string {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		if m.Role == RoleTool && m.Tool != nil {
			lines = append(lines, fmt.Sprintf("Tool '%s' called with args:\n%s\nOutput:\n%v",
				m.Tool.Name, renderArgs(m.Tool.Args), m.Tool.Output))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", capitalize(string(m.Role)), m.Content))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// buildInitialPrompt assembles persona + tool instructions (or the explicit
// no-tools instruction) + an optional recalled-memories block + the transcript.
func (a *Agent) buildInitialPrompt(memoryBlock string) string {
	toolsPrompt := noToolsInstruction
	if len(a.toolOrder) > 0 {
		toolsPrompt = renderToolInstructions(a.toolOrder)
	}

	var sb strings.Builder
	sb.WriteString(a.persona)
	sb.WriteString("\n\n")
	sb.WriteString(toolsPrompt)
	if memoryBlock != "" {
		sb.WriteString("\n\n")
		sb.WriteString(memoryBlock)
	}
	sb.WriteString("\n\n")
	sb.WriteString(renderTranscript(a.conversation))
	sb.WriteString("\n\nAssistant:")
	return sb.String()
}

// buildFollowUpPrompt assembles the prompt for the turn after a tool
// execution: persona + tool schema + the expanded conversation history + an
// instruction that permits another tool call or demands a final answer.
func (a *Agent) buildFollowUpPrompt() string {
	var sb strings.Builder
	sb.WriteString(a.persona)
	sb.WriteString("\n\n")
	sb.WriteString(renderToolInstructions(a.toolOrder))
	sb.WriteString("\n\nConversation History:\n")
	sb.WriteString(renderTranscript(a.conversation))
	sb.WriteString("\n\n")
	sb.WriteString(followUpInstruction)
	return sb.String()
}
