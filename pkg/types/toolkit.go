package types

// Toolkit is the consumed molecular-graph capability interface. The built-in
// implementation lives in internal/toolkit; a wrapper around an external
// cheminformatics toolkit can be substituted without touching callers, which
// only ever drive this contract.
type Toolkit interface {
	// Kekulize resolves aromatic bonds to alternating single/double bonds in
	// place. It returns an error when the aromatic system cannot be resolved;
	// callers treat that as a signal to discard the molecule, not as a fault.
	Kekulize(m *Mol) error

	// CanonicalSMILES returns the canonical SMILES string for the molecule,
	// kekulized when requested.
	CanonicalSMILES(m *Mol, kekulize bool) (string, error)

	// MatchSubstructure maps the pattern onto the target and returns the
	// matched target atom indexes, or false when no embedding exists.
	MatchSubstructure(pattern, target *Mol) ([]int, bool)
}
