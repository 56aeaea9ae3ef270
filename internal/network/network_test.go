package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-spectra/fragstore/internal/store"
	"github.com/mesh-spectra/fragstore/pkg/types"
)

// seedStore builds a store with the given compound-to-substructure links.
func seedStore(t *testing.T, links map[string][]string) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir(), "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.CreateSchema())

	seen := make(map[string]bool)
	for id, subs := range links {
		require.NoError(t, st.InsertCompound(&types.Compound{ID: id}))
		for _, smiles := range subs {
			if !seen[smiles] {
				seen[smiles] = true
				require.NoError(t, st.InsertSubstructureIfAbsent(&types.Substructure{
					SMILES:       smiles,
					ValenceAtoms: "{}",
					Payload:      []byte("{}"),
				}))
			}
			require.NoError(t, st.InsertCompoundSubstructureLink(id, smiles))
		}
	}
	return st
}

func TestBuildDefaultMode(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"c1": {"A", "B"},
		"c2": {"B", "C"},
	})

	g, err := Build(st, Options{Mode: ModeDefault, MinOccurrence: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, g.Weight("A", "B"))
	assert.Equal(t, 1, g.Weight("B", "C"))
	assert.Zero(t, g.Weight("A", "C"))
	assert.False(t, g.HasNode("c1"))
}

func TestBuildDefaultModeRepeatPairs(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"c1": {"A", "B"},
		"c2": {"A", "B"},
	})

	g, err := Build(st, Options{Mode: ModeDefault}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Weight("A", "B"))
}

func TestBuildExtendedModeRemovesParents(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"X": {"A", "B", "C"},
	})

	g, err := Build(st, Options{Mode: ModeExtended, MinOccurrence: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, g.Weight("A", "B"))
	assert.Equal(t, 1, g.Weight("A", "C"))
	assert.Equal(t, 1, g.Weight("B", "C"))
	assert.False(t, g.HasNode("X"))
	assert.Zero(t, g.Weight("A", "A"), "no self-loops after redistribution")
}

func TestBuildParentLinkageRetainsParents(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"X": {"A", "B"},
	})

	g, err := Build(st, Options{Mode: ModeParentLinkage}, nil)
	require.NoError(t, err)

	assert.True(t, g.HasNode("X"))
	assert.Equal(t, 1, g.Weight("X", "A"))
	assert.Equal(t, 1, g.Weight("X", "B"))
	assert.Zero(t, g.Weight("A", "B"))
}

func TestBuildMinOccurrenceFilter(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"c1": {"A", "B"},
		"c2": {"B", "C"},
	})

	g, err := Build(st, Options{Mode: ModeDefault, MinOccurrence: 2}, nil)
	require.NoError(t, err)

	assert.True(t, g.HasNode("B"))
	assert.False(t, g.HasNode("A"))
	assert.False(t, g.HasNode("C"))
	assert.Empty(t, g.Edges())
}

func TestBuildRemoveIsolated(t *testing.T) {
	st := seedStore(t, map[string][]string{
		"c1": {"A", "B"},
		"c2": {"C"},
	})

	g, err := Build(st, Options{Mode: ModeDefault, RemoveIsolated: true}, nil)
	require.NoError(t, err)

	assert.True(t, g.HasNode("A"))
	assert.True(t, g.HasNode("B"))
	assert.False(t, g.HasNode("C"))
}

func TestBuildUnknownMode(t *testing.T) {
	st := seedStore(t, nil)
	_, err := Build(st, Options{Mode: "sideways"}, nil)
	assert.Error(t, err)
}

func TestGraphExportDeterministic(t *testing.T) {
	g := NewGraph()
	g.IncrementEdge("B", "A")
	g.IncrementEdge("B", "C")
	g.IncrementEdge("B", "A")

	exp := g.Export()
	assert.Equal(t, []string{"A", "B", "C"}, exp.Nodes)
	require.Len(t, exp.Edges, 2)
	assert.Equal(t, Edge{A: "A", B: "B", Weight: 2}, exp.Edges[0])
	assert.Equal(t, Edge{A: "B", B: "C", Weight: 1}, exp.Edges[1])
}
