// Package types defines the domain model shared across fragstore: element
// count vectors, mass precision tiers, the molecular graph value type, the
// consumed molecule-toolkit capability interface, and the compound,
// substructure, and fragment records persisted by the store.
// See docs/ARCHITECTURE.md § Data Model.
package types
