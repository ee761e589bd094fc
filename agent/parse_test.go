package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCall_PlainJSON(t *testing.T) {
	call := ParseToolCall(`{"tool": "calculator", "args": {"a": 1, "b": 2}}`)
	require.NotNil(t, call)
	assert.Equal(t, "calculator", call.Tool)
	assert.Equal(t, 1.0, call.Args["a"])
	assert.Equal(t, 2.0, call.Args["b"])
}

func TestParseToolCall_PlainJSONWithWhitespace(t *testing.T) {
	call := ParseToolCall("\n  {\"tool\": \"search\", \"args\": {}}  \n")
	require.NotNil(t, call)
	assert.Equal(t, "search", call.Tool)
	assert.Empty(t, call.Args)
}

func TestParseToolCall_FencedBlock(t *testing.T) {
	output := "I will use a tool.\n```json\n{\"tool\": \"search\", \"args\": {\"query\": \"go\"}}\n```\nDone."
	call := ParseToolCall(output)
	require.NotNil(t, call)
	assert.Equal(t, "search", call.Tool)
	assert.Equal(t, "go", call.Args["query"])
}

func TestParseToolCall_FencedBlockWithoutTag(t *testing.T) {
	output := "```\n{\"tool\": \"search\", \"args\": {\"query\": \"go\"}}\n```"
	call := ParseToolCall(output)
	require.NotNil(t, call)
	assert.Equal(t, "search", call.Tool)
}

func TestParseToolCall_EmbeddedInProse(t *testing.T) {
	output := `Sure, let me calculate that for you: {"tool": "calculator", "args": {"a": 40, "b": 2}} and I'll report back.`
	call := ParseToolCall(output)
	require.NotNil(t, call)
	assert.Equal(t, "calculator", call.Tool)
	assert.Equal(t, 40.0, call.Args["a"])
}

func TestParseToolCall_SkipsNonCallObjects(t *testing.T) {
	// The first balanced span has neither key; the second is the call.
	output := `Context: {"note": "irrelevant"} then {"tool": "calculator", "args": {"a": 1}}`
	call := ParseToolCall(output)
	require.NotNil(t, call)
	assert.Equal(t, "calculator", call.Tool)
}

func TestParseToolCall_NaturalLanguage(t *testing.T) {
	assert.Nil(t, ParseToolCall("The answer is 42."))
	assert.Nil(t, ParseToolCall(""))
}

func TestParseToolCall_MissingKeys(t *testing.T) {
	assert.Nil(t, ParseToolCall(`{"tool": "calculator"}`))
	assert.Nil(t, ParseToolCall(`{"args": {"a": 1}}`))
	assert.Nil(t, ParseToolCall(`{"name": "calculator", "arguments": {}}`))
}

func TestParseToolCall_MalformedJSON(t *testing.T) {
	assert.Nil(t, ParseToolCall(`{"tool": "calculator", "args": {`))
}

func TestParseToolCall_NullArgs(t *testing.T) {
	call := ParseToolCall(`{"tool": "noop", "args": null}`)
	require.NotNil(t, call)
	assert.NotNil(t, call.Args)
	assert.Empty(t, call.Args)
}
