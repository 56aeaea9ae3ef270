// Package populate ingests pre-parsed compound records and fills the
// substructure library: every connected bond subset of every accepted parent
// is extracted, canonicalized, and inserted with its compound link.
package populate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-spectra/fragstore/internal/fragment"
	"github.com/mesh-spectra/fragstore/internal/store"
	"github.com/mesh-spectra/fragstore/pkg/types"
)

// Record is one source compound in the JSONL input: the stable identifier,
// the reported formula and SMILES, and the parsed molecular graph. Parsing
// SMILES is the toolkit's job upstream; records arrive pre-parsed.
type Record struct {
	ID      string     `json:"id"`
	Formula string     `json:"formula"`
	SMILES  string     `json:"smiles"`
	Mol     *types.Mol `json:"mol"`
}

// Options tunes a population run.
type Options struct {
	// MinBonds and MaxBonds bound the enumerated bond-subset sizes.
	MinBonds int
	MaxBonds int
	// BatchSize is the number of source records per commit.
	BatchSize int
}

// DefaultOptions returns the bounds used when the caller does not override
// them.
func DefaultOptions() Options {
	return Options{MinBonds: 1, MaxBonds: 4, BatchSize: 100}
}

// Stats summarizes a population run.
type Stats struct {
	Read          int // records read from the source
	Rejected      int // records failing the acceptance filters
	Compounds     int // compounds inserted
	Substructures int // fragments extracted and inserted
	Discarded     int // bond subsets discarded for kekulization failure
}

// Pipeline drives a population run against one store.
type Pipeline struct {
	st  *store.Store
	ex  *fragment.Extractor
	tk  types.Toolkit
	log *zap.Logger
	opt Options
}

// NewPipeline wires a pipeline. A zero Options value is replaced with
// DefaultOptions.
func NewPipeline(st *store.Store, tk types.Toolkit, log *zap.Logger, opt Options) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if opt == (Options{}) {
		opt = DefaultOptions()
	}
	return &Pipeline{
		st:  st,
		ex:  fragment.NewExtractor(tk, log),
		tk:  tk,
		log: log,
		opt: opt,
	}
}

// Run reads JSONL records from path and populates the store, committing once
// per batch of accepted records. Per-record failures are logged and skipped;
// only store and I/O failures abort the run.
func (p *Pipeline) Run(path string) (Stats, error) {
	var stats Stats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	if err := p.st.Begin(); err != nil {
		return stats, err
	}
	defer p.st.Rollback()

	inBatch := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Read++

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			p.log.Warn("skipping malformed record", zap.Int("line", stats.Read), zap.Error(err))
			stats.Rejected++
			continue
		}
		if err := Accept(&rec); err != nil {
			p.log.Debug("rejecting record", zap.String("id", rec.ID), zap.Error(err))
			stats.Rejected++
			continue
		}

		if err := p.ingest(&rec, &stats); err != nil {
			return stats, err
		}
		stats.Compounds++
		inBatch++

		if inBatch >= p.opt.BatchSize {
			if err := p.st.Commit(); err != nil {
				return stats, err
			}
			p.log.Info("batch committed",
				zap.Int("compounds", stats.Compounds),
				zap.Int("substructures", stats.Substructures))
			if err := p.st.Begin(); err != nil {
				return stats, err
			}
			inBatch = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scanning records file: %w", err)
	}

	if err := p.st.Commit(); err != nil {
		return stats, err
	}
	p.log.Info("population finished",
		zap.Int("read", stats.Read),
		zap.Int("rejected", stats.Rejected),
		zap.Int("compounds", stats.Compounds),
		zap.Int("substructures", stats.Substructures),
		zap.Int("discarded", stats.Discarded))
	return stats, nil
}

// ingest inserts one accepted record and all its extracted substructures.
func (p *Pipeline) ingest(rec *Record, stats *Stats) error {
	canonical, err := p.tk.CanonicalSMILES(rec.Mol, false)
	if err != nil {
		return fmt.Errorf("canonicalizing %s: %w", rec.ID, err)
	}
	kekule, err := p.tk.CanonicalSMILES(rec.Mol, true)
	if err != nil {
		return fmt.Errorf("kekulizing %s: %w", rec.ID, err)
	}

	els := rec.Mol.Elements()
	if err := p.st.InsertCompound(&types.Compound{
		ID:              rec.ID,
		ExactMass:       els.ExactMass(),
		Formula:         rec.Formula,
		Elements:        els,
		SMILES:          rec.SMILES,
		CanonicalSMILES: canonical,
		KekuleSMILES:    kekule,
	}); err != nil {
		return err
	}

	for _, bondIDs := range fragment.EnumerateBondSubsets(rec.Mol, p.opt.MinBonds, p.opt.MaxBonds) {
		frag, err := p.ex.Extract(rec.Mol, bondIDs)
		if err != nil {
			return fmt.Errorf("extracting from %s: %w", rec.ID, err)
		}
		if frag == nil {
			stats.Discarded++
			continue
		}
		sub, err := types.NewSubstructure(frag)
		if err != nil {
			return err
		}
		if err := p.st.InsertSubstructureIfAbsent(sub); err != nil {
			return err
		}
		if err := p.st.InsertCompoundSubstructureLink(rec.ID, sub.SMILES); err != nil {
			return err
		}
		stats.Substructures++
	}
	return nil
}

// Accept applies the source-record filters: the parsed graph must be
// present, have at least four heavy atoms, contain only C/H/N/O/P/S, and the
// reported SMILES must carry no formal charges.
func Accept(rec *Record) error {
	if rec.ID == "" || rec.Mol == nil {
		return types.ErrInvalidRecord
	}
	if rec.Mol.HeavyAtoms() < 4 {
		return fmt.Errorf("%w: fewer than 4 heavy atoms", types.ErrInvalidRecord)
	}
	if strings.ContainsAny(rec.SMILES, "+-") {
		return fmt.Errorf("%w: charged species", types.ErrInvalidRecord)
	}
	for _, a := range rec.Mol.Atoms {
		switch a.Symbol {
		case types.ElemC, types.ElemH, types.ElemN, types.ElemO, types.ElemP, types.ElemS:
		default:
			return fmt.Errorf("%w: element %q not tracked", types.ErrInvalidRecord, a.Symbol)
		}
	}
	return nil
}
