package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRenderState(t *testing.T) {
	tests := []struct {
		in   string
		want RenderState
	}{
		{"queued", RenderQueued},
		{"submitted", RenderQueued},
		{"waiting", RenderQueued},
		{"pending", RenderQueued},
		{"fetching", RenderRendering},
		{"rendering", RenderRendering},
		{"saving", RenderRendering},
		{"done", RenderCompleted},
		{"complete", RenderCompleted},
		{"completed", RenderCompleted},
		{"failed", RenderFailed},
		{"error", RenderFailed},
		{"cancelled", RenderFailed},
		{"DONE", RenderCompleted},
		{"  rendering  ", RenderRendering},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeRenderState(tc.in), "state=%q", tc.in)
	}
}

func TestNormalizeRenderState_UnknownStaysNonTerminal(t *testing.T) {
	// A provider adding a new intermediate status must not be misread
	// as terminal; the poll loop keeps going.
	got := NormalizeRenderState("transcoding")
	assert.Equal(t, RenderRendering, got)
	assert.False(t, got.Terminal())
}

func TestRenderState_Terminal(t *testing.T) {
	assert.True(t, RenderCompleted.Terminal())
	assert.True(t, RenderFailed.Terminal())
	assert.False(t, RenderQueued.Terminal())
	assert.False(t, RenderRendering.Terminal())
}

func TestAssemblyOptions_TotalClipSeconds(t *testing.T) {
	opts := &AssemblyOptions{
		Clips: []VideoClip{
			{URL: "a", DurationSec: 5},
			{URL: "b", DurationSec: 5, TrimStartSec: 1, TrimEndSec: 1},
			{URL: "c", DurationSec: 2, TrimStartSec: 3}, // over-trimmed, ignored
		},
	}
	assert.Equal(t, 8.0, opts.TotalClipSeconds())
}
