package types

import (
	"fmt"
	"math"
)

// PrecisionTier selects one of the five fixed mass rounding precisions used
// to index substructure masses for tolerant lookup. The tier set is closed;
// query builders switch exhaustively over it.
type PrecisionTier int

const (
	// TierWhole rounds to the nearest whole mass unit.
	TierWhole PrecisionTier = iota
	// TierTenth rounds to one decimal place.
	TierTenth
	// TierHundredth rounds to two decimal places.
	TierHundredth
	// TierThousandth rounds to three decimal places.
	TierThousandth
	// TierTenThousandth rounds to four decimal places.
	TierTenThousandth
)

// Tiers returns all precision tiers in ascending precision order.
func Tiers() []PrecisionTier {
	return []PrecisionTier{TierWhole, TierTenth, TierHundredth, TierThousandth, TierTenThousandth}
}

// Decimals returns the number of decimal places the tier retains.
func (t PrecisionTier) Decimals() int {
	switch t {
	case TierWhole:
		return 0
	case TierTenth:
		return 1
	case TierHundredth:
		return 2
	case TierThousandth:
		return 3
	case TierTenThousandth:
		return 4
	}
	panic("types: unknown precision tier")
}

// Column returns the substructures table column holding the tier value.
func (t PrecisionTier) Column() string {
	switch t {
	case TierWhole:
		return "exact_mass__1"
	case TierTenth:
		return "exact_mass__0_1"
	case TierHundredth:
		return "exact_mass__0_01"
	case TierThousandth:
		return "exact_mass__0_001"
	case TierTenThousandth:
		return "exact_mass__0_0001"
	}
	panic("types: unknown precision tier")
}

// Round returns the mass rounded to the tier's precision (half away from
// zero). Tier values stored in the index are always produced by this
// function, so equality comparisons against re-rounded query targets are
// exact.
func (t PrecisionTier) Round(mass float64) float64 {
	p := math.Pow(10, float64(t.Decimals()))
	return math.Round(mass*p) / p
}

// ParseTier returns the tier named by its column suffix ("1", "0_1", "0_01",
// "0_001", "0_0001").
func ParseTier(s string) (PrecisionTier, error) {
	for _, t := range Tiers() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown precision tier %q", s)
}

func (t PrecisionTier) String() string {
	switch t {
	case TierWhole:
		return "1"
	case TierTenth:
		return "0_1"
	case TierHundredth:
		return "0_01"
	case TierThousandth:
		return "0_001"
	case TierTenThousandth:
		return "0_0001"
	}
	panic("types: unknown precision tier")
}
