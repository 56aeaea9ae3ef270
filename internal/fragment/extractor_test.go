package fragment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

// fakeToolkit is a deterministic stand-in for the external cheminformatics
// toolkit: kekulization is a no-op (or a forced failure) and canonical
// SMILES is a stable structural fingerprint.
type fakeToolkit struct {
	failKekulize bool
}

func (f fakeToolkit) Kekulize(m *types.Mol) error {
	if f.failKekulize {
		return errors.New("unresolvable aromatic system")
	}
	return nil
}

func (f fakeToolkit) CanonicalSMILES(m *types.Mol, kekulize bool) (string, error) {
	symbols := make([]string, 0, len(m.Atoms))
	for _, a := range m.Atoms {
		symbols = append(symbols, fmt.Sprintf("%s%d", a.Symbol, a.Hydrogens))
	}
	sort.Strings(symbols)
	orders := make([]string, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		orders = append(orders, fmt.Sprintf("%g", b.Order))
	}
	sort.Strings(orders)
	return strings.Join(symbols, ".") + "|" + strings.Join(orders, ","), nil
}

func (f fakeToolkit) MatchSubstructure(pattern, target *types.Mol) ([]int, bool) {
	// Naive: map pattern atoms onto the first target atoms with the same
	// symbol, in order. Good enough for the fixed fixtures below.
	used := make(map[int]bool)
	var out []int
	for _, pa := range pattern.Atoms {
		found := -1
		for ti, ta := range target.Atoms {
			if !used[ti] && ta.Symbol == pa.Symbol {
				found = ti
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		used[found] = true
		out = append(out, found)
	}
	return out, true
}

// propanol is a four-heavy-atom chain C-C-C-O.
func propanol() *types.Mol {
	return &types.Mol{
		Atoms: []types.Atom{
			{Symbol: types.ElemC, Hydrogens: 3},
			{Symbol: types.ElemC, Hydrogens: 2},
			{Symbol: types.ElemC, Hydrogens: 2},
			{Symbol: types.ElemO, Hydrogens: 1},
		},
		Bonds: []types.Bond{
			{Begin: 0, End: 1, Order: types.BondSingle},
			{Begin: 1, End: 2, Order: types.BondSingle},
			{Begin: 2, End: 3, Order: types.BondSingle},
		},
	}
}

func TestExtractCapsBoundaryAtoms(t *testing.T) {
	ex := NewExtractor(fakeToolkit{}, nil)

	// Middle bond only: atoms 1 and 2 selected, atoms 0 and 3 become caps.
	frag, err := ex.Extract(propanol(), []int{1})
	require.NoError(t, err)
	require.NotNil(t, frag)

	assert.Equal(t, 2, frag.Mol.HeavyAtoms())
	assert.Len(t, frag.Mol.Wildcards(), 2)
	assert.Equal(t, 2, frag.Valence)
	assert.Equal(t, 2, frag.AtomsAvailable)
	for _, orders := range frag.BondTypes {
		assert.Equal(t, []float64{types.BondSingle}, orders)
	}
}

func TestExtractTerminalBond(t *testing.T) {
	ex := NewExtractor(fakeToolkit{}, nil)

	// Last bond: atoms 2 and 3 selected, only atom 1 becomes a cap.
	frag, err := ex.Extract(propanol(), []int{2})
	require.NoError(t, err)
	require.NotNil(t, frag)

	assert.Equal(t, 2, frag.Mol.HeavyAtoms())
	assert.Len(t, frag.Dummies, 1)
	assert.Equal(t, 1, frag.Valence)
	assert.Equal(t, 1, frag.AtomsAvailable)
	els := frag.Mol.Elements()
	assert.Equal(t, 1, els.C)
	assert.Equal(t, 1, els.O)
}

func TestExtractKekulizationFailureDiscards(t *testing.T) {
	ex := NewExtractor(fakeToolkit{failKekulize: true}, nil)

	frag, err := ex.Extract(propanol(), []int{1})
	assert.NoError(t, err)
	assert.Nil(t, frag)
}

func TestExtractIdempotent(t *testing.T) {
	ex := NewExtractor(fakeToolkit{}, nil)

	first, err := ex.Extract(propanol(), []int{0, 1})
	require.NoError(t, err)
	second, err := ex.Extract(propanol(), []int{0, 1})
	require.NoError(t, err)

	a, err := first.Encode()
	require.NoError(t, err)
	b, err := second.Encode()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSubstructureBondIndexes(t *testing.T) {
	ex := NewExtractor(fakeToolkit{}, nil)

	pattern := &types.Mol{
		Atoms: []types.Atom{
			{Symbol: types.ElemC},
			{Symbol: types.ElemC},
		},
		Bonds: []types.Bond{{Begin: 0, End: 1, Order: types.BondSingle}},
	}
	bonds, ok := ex.SubstructureBondIndexes(pattern, propanol())
	require.True(t, ok)
	assert.Equal(t, []int{0}, bonds)
}

func TestEnumerateBondSubsetsPath(t *testing.T) {
	subsets := EnumerateBondSubsets(propanol(), 1, 3)

	// A 3-bond path has 3 singles, 2 connected pairs, 1 triple.
	require.Len(t, subsets, 6)
	seen := make(map[string]bool)
	for _, sub := range subsets {
		sort.Ints(sub)
		key := fmt.Sprint(sub)
		assert.False(t, seen[key], "duplicate subset %s", key)
		seen[key] = true
	}
	assert.True(t, seen["[0 1 2]"])
	assert.False(t, seen["[0 2]"], "disconnected pair must not appear")
}

func TestEnumerateBondSubsetsTriangle(t *testing.T) {
	triangle := &types.Mol{
		Atoms: []types.Atom{
			{Symbol: types.ElemC, Hydrogens: 2},
			{Symbol: types.ElemC, Hydrogens: 2},
			{Symbol: types.ElemC, Hydrogens: 2},
		},
		Bonds: []types.Bond{
			{Begin: 0, End: 1, Order: types.BondSingle},
			{Begin: 1, End: 2, Order: types.BondSingle},
			{Begin: 2, End: 0, Order: types.BondSingle},
		},
	}
	assert.Len(t, EnumerateBondSubsets(triangle, 1, 3), 7)
	assert.Len(t, EnumerateBondSubsets(triangle, 2, 2), 3)
	assert.Empty(t, EnumerateBondSubsets(triangle, 4, 3))
}
