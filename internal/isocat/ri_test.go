package isocat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTemplateGFU(t *testing.T) {
	tpl := newTemplate([]int{1, 1})
	want := "#template1_1\n" +
		"2\n" +
		"p0\n" +
		"p1\n" +
		"1\n" +
		"0 1\n"
	assert.Equal(t, want, encodeTemplateGFU(tpl))
}

func TestEncodeGraphGFU(t *testing.T) {
	g := Graph{Encoding: "A_", Nodes: 2, Edges: [][2]int{{0, 1}}}
	want := "#candidate\n" +
		"2\n" +
		"v\n" +
		"v\n" +
		"1\n" +
		"0 1\n"
	assert.Equal(t, want, encodeGraphGFU(g))
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		line string
		want map[int]int
		ok   bool
	}{
		{line: "{0:4, 1:2}", want: map[int]int{0: 4, 1: 2}, ok: true},
		{line: "  {0:1}  ", want: map[int]int{0: 1}, ok: true},
		{line: "0:0,1:1", want: map[int]int{0: 0, 1: 1}, ok: true},
		{line: "{}", ok: false},
		{line: "", ok: false},
		{line: "found 3 mappings", ok: false},
		{line: "{0:x}", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseMapping(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		if tt.ok {
			assert.Equal(t, tt.want, got, "line %q", tt.line)
		}
	}
}
