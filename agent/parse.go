package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedToolCall is a tool invocation extracted from model output.
type ParsedToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParseToolCall detects and extracts a tool call from untrusted model output.
// Three tiers are tried in fixed order, first success wins:
//
//  1. the entire trimmed output parsed as a JSON object with "tool" and "args"
//  2. the contents of a fenced code block (optionally tagged json)
//  3. a left-to-right balanced-brace scan accepting the first top-level
//     {...} span that textually contains both keys and parses cleanly
//
// A nil return means no tool call was found; that is the designed fallback to
// a natural-language response, never an error.
func ParseToolCall(output string) *ParsedToolCall {
	if call := tryParseCall(strings.TrimSpace(output)); call != nil {
		return call
	}

	if m := fencedBlockRe.FindStringSubmatch(output); m != nil {
		if call := tryParseCall(m[1]); call != nil {
			return call
		}
	}

	return scanBalancedBraces(output)
}

// tryParseCall parses s as a JSON object and requires both the "tool" and
// "args" keys to be present with usable types.
func tryParseCall(s string) *ParsedToolCall {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil
	}
	if _, ok := probe["tool"]; !ok {
		return nil
	}
	if _, ok := probe["args"]; !ok {
		return nil
	}

	var call ParsedToolCall
	if err := json.Unmarshal([]byte(s), &call); err != nil {
		return nil
	}
	if call.Tool == "" {
		return nil
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return &call
}

// scanBalancedBraces walks the text tracking brace nesting depth. Each time a
// balanced top-level span closes it is cheaply screened for both key strings
// before attempting a full parse. Braces inside JSON strings are not treated
// specially; a span broken by them simply fails the parse and scanning
// continues.
func scanBalancedBraces(output string) *ParsedToolCall {
	depth := 0
	start := -1

	for i := 0; i < len(output); i++ {
		switch output[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				span := output[start : i+1]
				if strings.Contains(span, `"tool"`) && strings.Contains(span, `"args"`) {
					if call := tryParseCall(span); call != nil {
						return call
					}
				}
				start = -1
			}
		}
	}
	return nil
}
