package isocat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-spectra/fragstore/internal/store"
)

// fakeRunner substitutes canned generator and matcher output for the
// external tools.
type fakeRunner struct {
	graphs   []Graph
	mappings []map[int]int
	genErr   error
	matchErr error
}

func (f *fakeRunner) GenerateGraphs(_ context.Context, _, _, _ int) ([]Graph, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.graphs, nil
}

func (f *fakeRunner) MatchMonomorphisms(_ context.Context, _ Template, _ Graph) ([]map[int]int, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.mappings, nil
}

func newCatalogStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir(), "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.CreateSchema())
	return st
}

// twoVertexOptions exercises the single (1, 1) template over a single edge
// skeleton.
func twoVertexOptions(batchSize int) BuildOptions {
	return BuildOptions{BoxSizes: []int{1}, KMin: 2, KMax: 2, MinDeg: 1, MaxDeg: 1, BatchSize: batchSize}
}

func TestBuildDeduplicatesAcrossBatches(t *testing.T) {
	st := newCatalogStore(t)
	forward := map[int]int{0: 0, 1: 1}
	backward := map[int]int{0: 1, 1: 0}
	run := &fakeRunner{
		graphs: []Graph{{Encoding: "A_", Nodes: 2, Edges: [][2]int{{0, 1}}}},
		// Window size two splits this into [fwd, bwd] [fwd, bwd]; the second
		// window must fold into the first's accumulator, not past it.
		mappings: []map[int]int{forward, backward, forward, backward},
	}

	b := NewBuilder(st, run, nil)
	stats, err := b.Build(context.Background(), twoVertexOptions(2))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Templates)
	assert.Equal(t, 1, stats.Candidates)
	assert.Equal(t, 4, stats.Mappings)
	assert.Equal(t, 2, stats.Duplicates)
	assert.Equal(t, 1, stats.Signatures)
	assert.Zero(t, stats.Skipped)

	entries, err := st.SelectCatalogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, int64(0), e.ID)
	assert.Equal(t, "A_", e.Encoding)
	assert.Equal(t, 2, e.K)
	assert.Equal(t, "(1, 1)", e.PartitionSizes)
	assert.Equal(t, "(1, 1)", e.PartitionValences)
	assert.Equal(t, "((1), (1))", e.NodeValences)
	assert.Equal(t, 2, e.Nodes)
	assert.Equal(t, 1, e.Edges)
	// Both retained mappings realize the same normalized edge, so the tree
	// holds a single path.
	assert.Equal(t, 1, e.Mappings)

	data, err := st.ReadArtifact(e.ID)
	require.NoError(t, err)
	tree := NewTree()
	require.NoError(t, json.Unmarshal(data, tree))
	assert.True(t, tree.Contains([]string{"0:1"}))
	assert.Equal(t, 1, countPaths(tree))
}

func TestBuildMergesIntoExistingCatalog(t *testing.T) {
	st := newCatalogStore(t)
	run := &fakeRunner{
		graphs:   []Graph{{Encoding: "A_", Nodes: 2, Edges: [][2]int{{0, 1}}}},
		mappings: []map[int]int{{0: 0, 1: 1}},
	}

	_, err := NewBuilder(st, run, nil).Build(context.Background(), twoVertexOptions(0))
	require.NoError(t, err)

	// A second run over the same store merges into the stored tree and keeps
	// the signature id stable.
	stats, err := NewBuilder(st, run, nil).Build(context.Background(), twoVertexOptions(0))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Signatures)

	entries, err := st.SelectCatalogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(0), entries[0].ID)
	assert.Equal(t, 1, entries[0].Mappings)
}

func TestBuildGeneratorFailureSkips(t *testing.T) {
	st := newCatalogStore(t)
	run := &fakeRunner{genErr: errors.New("boom")}

	stats, err := NewBuilder(st, run, nil).Build(context.Background(), twoVertexOptions(0))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Templates)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Candidates)

	entries, err := st.SelectCatalogEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildMatcherFailureSkips(t *testing.T) {
	st := newCatalogStore(t)
	run := &fakeRunner{
		graphs:   []Graph{{Encoding: "A_", Nodes: 2, Edges: [][2]int{{0, 1}}}},
		matchErr: errors.New("boom"),
	}

	stats, err := NewBuilder(st, run, nil).Build(context.Background(), twoVertexOptions(0))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Candidates)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Signatures)
}

func TestClassify(t *testing.T) {
	tpl := newTemplate([]int{1, 2})
	g := Graph{Encoding: "Bg", Nodes: 3, Edges: [][2]int{{0, 1}, {1, 2}}}

	// The path's degree-2 center lands in the singleton block.
	vnKey, vtKey, path, key := classify(tpl, g, map[int]int{0: 1, 1: 0, 2: 2})
	assert.Equal(t, "((2), (1, 1))", vnKey)
	assert.Equal(t, "(2, 2)", vtKey)
	assert.Equal(t, []string{"0:1", "0:2"}, path)
	assert.Equal(t, "0>1,1>0,2>2", key)
}
