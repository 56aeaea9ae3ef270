package isocat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGraph6(t *testing.T) {
	tests := []struct {
		line  string
		nodes int
		edges [][2]int
	}{
		{line: "A_", nodes: 2, edges: [][2]int{{0, 1}}},
		{line: "Bw", nodes: 3, edges: [][2]int{{0, 1}, {0, 2}, {1, 2}}},
		{line: "Bg", nodes: 3, edges: [][2]int{{0, 1}, {1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			g, err := DecodeGraph6(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.line, g.Encoding)
			assert.Equal(t, tt.nodes, g.Nodes)
			assert.Equal(t, tt.edges, g.Edges)
		})
	}
}

func TestDecodeGraph6Errors(t *testing.T) {
	for _, line := range []string{"", "B", "\x1f"} {
		_, err := DecodeGraph6(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestGraphDegrees(t *testing.T) {
	g, err := DecodeGraph6("Bg")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, g.Degrees())
}
