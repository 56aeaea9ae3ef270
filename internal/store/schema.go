// Package store implements the SQLite substructure library: compounds,
// substructures, compound-substructure links, the multi-precision mass
// index, and the isomorphism catalog table with its prefix-tree artifacts.
// See docs/ARCHITECTURE.md § Substructure Store.
package store

// Schema DDL. CreateSchema drops and recreates all tables, so a rebuild
// always starts from an empty library.
const (
	createCompounds = `CREATE TABLE compounds (
    compound_id TEXT PRIMARY KEY,
    exact_mass REAL NOT NULL,
    formula TEXT NOT NULL,
    c INTEGER NOT NULL,
    h INTEGER NOT NULL,
    n INTEGER NOT NULL,
    o INTEGER NOT NULL,
    p INTEGER NOT NULL,
    s INTEGER NOT NULL,
    smiles TEXT NOT NULL,
    smiles_canonical TEXT NOT NULL,
    smiles_kekule TEXT NOT NULL
);`

	createSubstructures = `CREATE TABLE substructures (
    smiles TEXT PRIMARY KEY,
    heavy_atoms INTEGER NOT NULL,
    length INTEGER NOT NULL,
    exact_mass__1 REAL NOT NULL,
    exact_mass__0_1 REAL NOT NULL,
    exact_mass__0_01 REAL NOT NULL,
    exact_mass__0_001 REAL NOT NULL,
    exact_mass__0_0001 REAL NOT NULL,
    exact_mass REAL NOT NULL,
    c INTEGER NOT NULL,
    h INTEGER NOT NULL,
    n INTEGER NOT NULL,
    o INTEGER NOT NULL,
    p INTEGER NOT NULL,
    s INTEGER NOT NULL,
    valence INTEGER NOT NULL,
    valence_atoms TEXT NOT NULL,
    atoms_available INTEGER NOT NULL,
    payload BLOB NOT NULL
);`

	createCompoundSubstructures = `CREATE TABLE compound_substructures (
    compound_id TEXT NOT NULL,
    smiles TEXT NOT NULL,
    PRIMARY KEY (compound_id, smiles)
);`

	createSubgraphs = `CREATE TABLE subgraphs (
    subgraph_id INTEGER NOT NULL,
    n_mappings INTEGER NOT NULL,
    encoding TEXT NOT NULL,
    k INTEGER NOT NULL,
    k_partite TEXT NOT NULL,
    k_valences TEXT NOT NULL,
    nodes_valences TEXT NOT NULL,
    n_nodes INTEGER NOT NULL,
    n_edges INTEGER NOT NULL,
    PRIMARY KEY (encoding, k_partite, nodes_valences)
);`
)

// Index DDL. Lookups are always filtered by a combination of heavy-atom
// count, valence, valence signature, and one tier column; a composite index
// per tier keeps those queries off full scans at catalog scale.
const (
	idxMassTier1      = `CREATE INDEX heavy_atoms__valence__mass__1__idx ON substructures (heavy_atoms, valence, valence_atoms, exact_mass__1);`
	idxMassTier01     = `CREATE INDEX heavy_atoms__valence__mass__0_1__idx ON substructures (heavy_atoms, valence, valence_atoms, exact_mass__0_1);`
	idxMassTier001    = `CREATE INDEX heavy_atoms__valence__mass__0_01__idx ON substructures (heavy_atoms, valence, valence_atoms, exact_mass__0_01);`
	idxMassTier0001   = `CREATE INDEX heavy_atoms__valence__mass__0_001__idx ON substructures (heavy_atoms, valence, valence_atoms, exact_mass__0_001);`
	idxMassTier00001  = `CREATE INDEX heavy_atoms__valence__mass__0_0001__idx ON substructures (heavy_atoms, valence, valence_atoms, exact_mass__0_0001);`
	idxElementValence = `CREATE INDEX atoms__valence__idx ON substructures (c, h, n, o, p, s, valence, valence_atoms);`
)

// tableNames lists all tables in drop order.
var tableNames = []string{
	"compounds",
	"substructures",
	"compound_substructures",
	"subgraphs",
}

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createCompounds,
	createSubstructures,
	createCompoundSubstructures,
	createSubgraphs,
}

// indexNames lists all index names in drop order.
var indexNames = []string{
	"heavy_atoms__valence__mass__1__idx",
	"heavy_atoms__valence__mass__0_1__idx",
	"heavy_atoms__valence__mass__0_01__idx",
	"heavy_atoms__valence__mass__0_001__idx",
	"heavy_atoms__valence__mass__0_0001__idx",
	"atoms__valence__idx",
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxMassTier1,
	idxMassTier01,
	idxMassTier001,
	idxMassTier0001,
	idxMassTier00001,
	idxElementValence,
}
