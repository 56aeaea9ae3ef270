package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierRoundScenario(t *testing.T) {
	mass := 180.063388
	want := map[PrecisionTier]float64{
		TierWhole:         180.0,
		TierTenth:         180.1,
		TierHundredth:     180.06,
		TierThousandth:    180.063,
		TierTenThousandth: 180.0634,
	}
	for tier, expected := range want {
		assert.Equal(t, expected, tier.Round(mass), "tier %s", tier)
	}
}

func TestTierRoundIsIdempotent(t *testing.T) {
	for _, tier := range Tiers() {
		rounded := tier.Round(123.456789)
		assert.Equal(t, rounded, tier.Round(rounded), "tier %s", tier)
	}
}

func TestTierColumns(t *testing.T) {
	want := map[PrecisionTier]string{
		TierWhole:         "exact_mass__1",
		TierTenth:         "exact_mass__0_1",
		TierHundredth:     "exact_mass__0_01",
		TierThousandth:    "exact_mass__0_001",
		TierTenThousandth: "exact_mass__0_0001",
	}
	for tier, col := range want {
		assert.Equal(t, col, tier.Column())
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range Tiers() {
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	_, err := ParseTier("0_00001")
	assert.Error(t, err)
}

func TestElementCountsMass(t *testing.T) {
	// Glucose: C6 H12 O6.
	glucose := ElementCounts{C: 6, H: 12, O: 6}
	assert.InDelta(t, 180.063388, glucose.ExactMass(), 1e-4)
	assert.Equal(t, 12, glucose.HeavyAtoms())
	assert.Equal(t, 24, glucose.Length())
}

func TestElementCountsAddIgnoresUntracked(t *testing.T) {
	var e ElementCounts
	e.Add(ElemC, 2)
	e.Add(Wildcard, 5)
	e.Add("Cl", 1)
	assert.Equal(t, ElementCounts{C: 2}, e)
	assert.Equal(t, 2, e.Count(ElemC))
	assert.Zero(t, e.Count("Cl"))
}

func TestMolElementsSkipWildcards(t *testing.T) {
	m := &Mol{
		Atoms: []Atom{
			{Symbol: ElemC, Hydrogens: 3},
			{Symbol: Wildcard},
		},
		Bonds: []Bond{{Begin: 0, End: 1, Order: BondSingle}},
	}
	assert.Equal(t, ElementCounts{C: 1, H: 3}, m.Elements())
	assert.Equal(t, 1, m.HeavyAtoms())
	assert.Equal(t, []int{1}, m.Wildcards())
}

func TestMolRemoveRenumbers(t *testing.T) {
	m := &Mol{
		Atoms: []Atom{
			{Symbol: ElemC},
			{Symbol: ElemN},
			{Symbol: ElemO},
		},
		Bonds: []Bond{
			{Begin: 0, End: 1, Order: BondSingle},
			{Begin: 1, End: 2, Order: BondDouble},
		},
	}
	out, remap := m.Remove(map[int]bool{0: true})

	require.Len(t, out.Atoms, 2)
	assert.Equal(t, ElemN, out.Atoms[0].Symbol)
	assert.Equal(t, ElemO, out.Atoms[1].Symbol)
	require.Len(t, out.Bonds, 1)
	assert.Equal(t, Bond{Begin: 0, End: 1, Order: BondDouble}, out.Bonds[0])
	assert.Equal(t, map[int]int{1: 0, 2: 1}, remap)

	// The source molecule is untouched.
	assert.Len(t, m.Atoms, 3)
}

func TestEncodeDegreeMap(t *testing.T) {
	assert.Equal(t, "{}", EncodeDegreeMap(nil))
	assert.Equal(t, "{1:2, 4:1}", EncodeDegreeMap(map[int]int{4: 1, 1: 2}))
}

func TestFragmentEncodeDecode(t *testing.T) {
	f := &Fragment{
		SMILES: "C(C)[OH]",
		Mol: &Mol{
			Atoms: []Atom{{Symbol: ElemC, Hydrogens: 3}, {Symbol: Wildcard}},
			Bonds: []Bond{{Begin: 0, End: 1, Order: BondSingle}},
		},
		BondTypes:      map[int][]float64{0: {BondSingle}},
		DegreeAtoms:    map[int]int{0: 1},
		Valence:        1,
		AtomsAvailable: 1,
		Dummies:        []int{1},
	}
	data, err := f.Encode()
	require.NoError(t, err)

	got, err := DecodeFragment(data)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	_, err = DecodeFragment([]byte("not json"))
	assert.Error(t, err)
}

func TestNewSubstructureInvariants(t *testing.T) {
	f := &Fragment{
		SMILES: "key",
		Mol: &Mol{
			Atoms: []Atom{
				{Symbol: ElemC, Hydrogens: 2},
				{Symbol: ElemO, Hydrogens: 1},
				{Symbol: Wildcard},
			},
			Bonds: []Bond{
				{Begin: 0, End: 1, Order: BondSingle},
				{Begin: 0, End: 2, Order: BondSingle},
			},
		},
		BondTypes:      map[int][]float64{0: {BondSingle}},
		DegreeAtoms:    map[int]int{0: 1},
		Valence:        1,
		AtomsAvailable: 1,
		Dummies:        []int{2},
	}
	sub, err := NewSubstructure(f)
	require.NoError(t, err)

	// Heavy atoms equal the sum of non-hydrogen, non-wildcard counts.
	assert.Equal(t, sub.Elements.HeavyAtoms(), sub.HeavyAtoms)
	assert.Equal(t, 2, sub.HeavyAtoms)
	assert.Equal(t, 5, sub.Length)
	assert.Equal(t, "{0:1}", sub.ValenceAtoms)
	assert.Equal(t, sub.Elements.ExactMass(), sub.ExactMass)
	assert.NotEmpty(t, sub.Payload)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "valid", cfg: Config{DataDir: "/d"}, want: nil},
		{name: "empty data dir", cfg: Config{}, want: ErrDataDirEmpty},
		{name: "negative batch", cfg: Config{DataDir: "/d", MappingBatchSize: -1}, want: ErrBatchSizeInvalid},
		{name: "negative timeout", cfg: Config{DataDir: "/d", ProcessTimeout: -1}, want: ErrTimeoutNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestConfigBatchSizeDefault(t *testing.T) {
	assert.Equal(t, DefaultMappingBatchSize, Config{}.BatchSize())
	assert.Equal(t, 5, Config{MappingBatchSize: 5}.BatchSize())
}
