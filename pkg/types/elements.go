package types

// Element symbols tracked by the library. Source records containing any other
// heavy element are rejected during population.
const (
	ElemC = "C"
	ElemH = "H"
	ElemN = "N"
	ElemO = "O"
	ElemP = "P"
	ElemS = "S"

	// Wildcard is the capping atom symbol used at fragment cut points.
	Wildcard = "*"
)

// Monoisotopic masses for the tracked elements.
const (
	massC = 12.0
	massH = 1.007825
	massN = 14.003074
	massO = 15.994915
	massP = 30.973763
	massS = 31.972072
)

// ElementCounts is a bounded per-element atom count vector over {C,H,N,O,P,S}.
// It is the grouping key for composition queries; wildcard capping atoms are
// never counted here.
type ElementCounts struct {
	C int `json:"c"`
	H int `json:"h"`
	N int `json:"n"`
	O int `json:"o"`
	P int `json:"p"`
	S int `json:"s"`
}

// Add increments the count for the given element symbol. Hydrogens attached
// implicitly are added via AddN. Unknown symbols (including the wildcard) are
// ignored.
func (e *ElementCounts) Add(symbol string, n int) {
	switch symbol {
	case ElemC:
		e.C += n
	case ElemH:
		e.H += n
	case ElemN:
		e.N += n
	case ElemO:
		e.O += n
	case ElemP:
		e.P += n
	case ElemS:
		e.S += n
	}
}

// Count returns the count for the given element symbol, or zero for symbols
// not tracked.
func (e ElementCounts) Count(symbol string) int {
	switch symbol {
	case ElemC:
		return e.C
	case ElemH:
		return e.H
	case ElemN:
		return e.N
	case ElemO:
		return e.O
	case ElemP:
		return e.P
	case ElemS:
		return e.S
	}
	return 0
}

// HeavyAtoms returns the number of non-hydrogen atoms.
func (e ElementCounts) HeavyAtoms() int {
	return e.C + e.N + e.O + e.P + e.S
}

// Length returns the total atom count including hydrogens.
func (e ElementCounts) Length() int {
	return e.C + e.H + e.N + e.O + e.P + e.S
}

// ExactMass returns the monoisotopic mass of the composition.
func (e ElementCounts) ExactMass() float64 {
	return float64(e.C)*massC +
		float64(e.H)*massH +
		float64(e.N)*massN +
		float64(e.O)*massO +
		float64(e.P)*massP +
		float64(e.S)*massS
}
