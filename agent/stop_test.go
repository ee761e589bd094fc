package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitSteps(t *testing.T) {
	stop := LimitSteps(3)

	assert.False(t, stop.ShouldStop(1, nil))
	assert.False(t, stop.ShouldStop(2, nil))
	assert.True(t, stop.ShouldStop(3, nil))
	assert.True(t, stop.ShouldStop(4, nil))
}

func TestStopFunc_SeesTranscript(t *testing.T) {
	stop := StopFunc(func(_ int, transcript []Message) bool {
		for _, m := range transcript {
			if m.Role == RoleTool {
				return true
			}
		}
		return false
	})

	assert.False(t, stop.ShouldStop(1, []Message{{Role: RoleUser, Content: "hi"}}))
	assert.True(t, stop.ShouldStop(1, []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleTool, Tool: &ToolResult{Name: "calculator"}},
	}))
}
