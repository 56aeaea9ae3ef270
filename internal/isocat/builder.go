package isocat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-spectra/fragstore/internal/store"
	"github.com/mesh-spectra/fragstore/pkg/types"
)

// toolRunner is the external-tool contract the builder depends on. The
// production implementation is Runner; tests substitute canned outputs.
type toolRunner interface {
	GenerateGraphs(ctx context.Context, n, minDeg, maxDeg int) ([]Graph, error)
	MatchMonomorphisms(ctx context.Context, t Template, g Graph) ([]map[int]int, error)
}

// BuildOptions selects the template shapes and degree bounds of one catalog
// build.
type BuildOptions struct {
	// BoxSizes are the block sizes templates draw from.
	BoxSizes []int
	// KMin and KMax bound the partition arity.
	KMin, KMax int
	// MinDeg and MaxDeg bound skeleton vertex degrees at generation time.
	MinDeg, MaxDeg int
	// BatchSize is the streaming-merge window; zero uses the default.
	BatchSize int
}

// Stats summarizes a catalog build.
type Stats struct {
	Templates  int // template shapes processed
	Candidates int // skeleton graphs matched
	Mappings   int // raw mapping records read
	Duplicates int // mappings dropped by structural de-duplication
	Signatures int // catalog rows written
	Skipped    int // generator or matcher invocations that failed
}

// Builder folds matcher output into per-signature prefix trees and persists
// them. Catalogs are append-only: rebuilding over an existing store merges
// into the stored trees rather than replacing them.
type Builder struct {
	st     *store.Store
	run    toolRunner
	log    *zap.Logger
	nextID int64
}

// NewBuilder wires a builder over the store and tool runner.
func NewBuilder(st *store.Store, run toolRunner, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{st: st, run: run, log: log, nextID: -1}
}

// sigGroup accumulates the retained mappings of one valence-signature class
// for one (template, skeleton) pair.
type sigGroup struct {
	vnKey string
	vtKey string
	seen  map[string]bool
	tree  *Tree
}

// Build runs the full catalog build. Tool failures yield zero candidates for
// the affected invocation and the build continues; only store failures
// abort.
func (b *Builder) Build(ctx context.Context, opt BuildOptions) (Stats, error) {
	var stats Stats
	batchSize := opt.BatchSize
	if batchSize <= 0 {
		batchSize = types.DefaultMappingBatchSize
	}

	for _, t := range Multipartite(opt.BoxSizes, opt.KMin, opt.KMax) {
		stats.Templates++
		graphs, err := b.run.GenerateGraphs(ctx, t.Nodes, opt.MinDeg, opt.MaxDeg)
		if err != nil {
			b.log.Warn("generator failed, skipping vertex count",
				zap.Int("nodes", t.Nodes), zap.Error(err))
			stats.Skipped++
			continue
		}
		for _, g := range graphs {
			stats.Candidates++
			mappings, err := b.run.MatchMonomorphisms(ctx, t, g)
			if err != nil {
				b.log.Warn("matcher failed, skipping candidate",
					zap.String("encoding", g.Encoding), zap.Error(err))
				stats.Skipped++
				continue
			}
			stats.Mappings += len(mappings)

			groups := b.foldStream(t, g, mappings, batchSize, &stats)
			if len(groups) == 0 {
				continue
			}
			if err := b.persist(t, g, groups, &stats); err != nil {
				return stats, err
			}
		}
	}

	b.log.Info("catalog build finished",
		zap.Int("templates", stats.Templates),
		zap.Int("candidates", stats.Candidates),
		zap.Int("mappings", stats.Mappings),
		zap.Int("signatures", stats.Signatures),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// foldStream consumes the mapping stream in fixed-size windows, folding each
// window into the per-signature accumulator and releasing it before reading
// on. Peak memory is one window plus the compact accumulators, regardless of
// how combinatorially explosive the raw stream is.
func (b *Builder) foldStream(t Template, g Graph, mappings []map[int]int, batchSize int, stats *Stats) map[string]*sigGroup {
	groups := make(map[string]*sigGroup)
	batch := make([]map[int]int, 0, batchSize)
	for _, m := range mappings {
		batch = append(batch, m)
		if len(batch) == batchSize {
			b.foldBatch(t, g, batch, groups, stats)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		b.foldBatch(t, g, batch, groups, stats)
	}
	return groups
}

// foldBatch merges one window into the accumulator, appending only mappings
// not already retained for their signature.
func (b *Builder) foldBatch(t Template, g Graph, batch []map[int]int, groups map[string]*sigGroup, stats *Stats) {
	for _, m := range batch {
		vnKey, vtKey, path, key := classify(t, g, m)
		grp := groups[vnKey]
		if grp == nil {
			grp = &sigGroup{
				vnKey: vnKey,
				vtKey: vtKey,
				seen:  make(map[string]bool),
				tree:  NewTree(),
			}
			groups[vnKey] = grp
		}
		if grp.seen[key] {
			stats.Duplicates++
			continue
		}
		grp.seen[key] = true
		grp.tree.Insert(path)
	}
}

// persist writes every signature group of one candidate and commits them
// together. Existing signature rows are merged into, keeping their ids so
// artifact names stay stable.
func (b *Builder) persist(t Template, g Graph, groups map[string]*sigGroup, stats *Stats) error {
	if err := b.st.Begin(); err != nil {
		return err
	}
	defer b.st.Rollback()

	for _, grp := range groups {
		tree := grp.tree
		var id int64
		existing, err := b.st.SelectCatalogEntry(g.Encoding, t.SizesKey(), grp.vnKey)
		switch {
		case err == nil:
			id = existing.ID
			merged, err := b.loadArtifact(id)
			if err != nil {
				return err
			}
			it := grp.tree.Paths()
			for path, ok := it.Next(); ok; path, ok = it.Next() {
				merged.Insert(path)
			}
			tree = merged
		case errors.Is(err, types.ErrNotFound):
			id, err = b.allocateID()
			if err != nil {
				return err
			}
		default:
			return err
		}

		data, err := json.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encoding artifact %d: %w", id, err)
		}
		if err := b.st.WriteArtifact(id, data); err != nil {
			return err
		}
		if err := b.st.UpsertCatalogEntry(&store.CatalogEntry{
			ID:                id,
			Mappings:          countPaths(tree),
			Encoding:          g.Encoding,
			K:                 t.K(),
			PartitionSizes:    t.SizesKey(),
			PartitionValences: grp.vtKey,
			NodeValences:      grp.vnKey,
			Nodes:             g.Nodes,
			Edges:             len(g.Edges),
		}); err != nil {
			return err
		}
		stats.Signatures++
	}
	return b.st.Commit()
}

// loadArtifact reads and decodes a stored prefix tree.
func (b *Builder) loadArtifact(id int64) (*Tree, error) {
	data, err := b.st.ReadArtifact(id)
	if errors.Is(err, types.ErrNotFound) {
		return NewTree(), nil
	}
	if err != nil {
		return nil, err
	}
	tree := NewTree()
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("decoding artifact %d: %w", id, err)
	}
	return tree, nil
}

// allocateID hands out the next subgraph id, continuing from whatever the
// store already holds.
func (b *Builder) allocateID() (int64, error) {
	if b.nextID < 0 {
		max, err := b.st.MaxSubgraphID()
		if err != nil {
			return 0, err
		}
		b.nextID = max
	}
	b.nextID++
	return b.nextID, nil
}

// classify derives, for one mapping, the node-valence signature key, the
// partition valence-sum key, the prefix-tree path, and the structural
// de-duplication key.
//
// The mapping sends skeleton vertices into template vertices. Per template
// block, the degrees of the skeleton vertices landing in it (sorted) form
// the node-valence signature; their sums form the partition valence sums.
// The path lists, per skeleton edge in encoding order, the normalized
// template edge it realizes.
func classify(t Template, g Graph, mapping map[int]int) (vnKey, vtKey string, path []string, key string) {
	deg := g.Degrees()

	blocks := make([][]int, t.K())
	for s := 0; s < g.Nodes; s++ {
		v, ok := mapping[s]
		if !ok {
			continue
		}
		p := t.Partition(v)
		blocks[p] = append(blocks[p], deg[s])
	}
	vnParts := make([]string, t.K())
	sums := make([]int, t.K())
	for i, ds := range blocks {
		sort.Ints(ds)
		vnParts[i] = intsKey(ds)
		for _, d := range ds {
			sums[i] += d
		}
	}
	vnKey = "(" + strings.Join(vnParts, ", ") + ")"
	vtKey = intsKey(sums)

	path = make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		a, b := mapping[e[0]], mapping[e[1]]
		if a > b {
			a, b = b, a
		}
		path = append(path, fmt.Sprintf("%d:%d", a, b))
	}

	pairs := make([]string, 0, len(mapping))
	for s, v := range mapping {
		pairs = append(pairs, fmt.Sprintf("%d>%d", s, v))
	}
	sort.Strings(pairs)
	key = strings.Join(pairs, ",")
	return vnKey, vtKey, path, key
}

// countPaths returns the number of root-to-leaf paths in the tree.
func countPaths(t *Tree) int {
	n := 0
	it := t.Paths()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}
