package types

// Compound is one ingested source record: a parent molecule with a stable
// identifier. Compounds are created once during population and are immutable
// afterwards.
type Compound struct {
	ID              string        // stable source identifier, primary key
	ExactMass       float64       // monoisotopic mass
	Formula         string        // chemical formula as reported by the source
	Elements        ElementCounts // per-element heavy-atom and hydrogen counts
	SMILES          string        // SMILES as reported by the source
	CanonicalSMILES string        // toolkit-canonical SMILES
	KekuleSMILES    string        // toolkit-canonical kekulized SMILES
}
