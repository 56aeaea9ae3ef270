package isocat

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeTemplateGFU renders the template in the matcher's undirected graph
// exchange format: a name line, the vertex count, one label per vertex (the
// owning partition index, so the matcher can tell blocks apart), the edge
// count, then one "a b" line per edge.
func encodeTemplateGFU(t Template) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#template%s\n", strings.NewReplacer("(", "", ")", "", ", ", "_").Replace(t.SizesKey()))
	fmt.Fprintf(&sb, "%d\n", t.Nodes)
	for v := 0; v < t.Nodes; v++ {
		fmt.Fprintf(&sb, "p%d\n", t.Partition(v))
	}
	fmt.Fprintf(&sb, "%d\n", len(t.Edges))
	for _, e := range t.Edges {
		fmt.Fprintf(&sb, "%d %d\n", e[0], e[1])
	}
	return sb.String()
}

// encodeGraphGFU renders a candidate skeleton in the matcher's exchange
// format. Skeleton vertices are unlabeled; a uniform label keeps the matcher
// free to map any skeleton vertex into any partition.
func encodeGraphGFU(g Graph) string {
	var sb strings.Builder
	sb.WriteString("#candidate\n")
	fmt.Fprintf(&sb, "%d\n", g.Nodes)
	for v := 0; v < g.Nodes; v++ {
		sb.WriteString("v\n")
	}
	fmt.Fprintf(&sb, "%d\n", len(g.Edges))
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "%d %d\n", e[0], e[1])
	}
	return sb.String()
}

// parseMapping parses one matcher output line of the form "{0:4, 1:2}" into
// a skeleton-vertex to template-vertex map. Whitespace and brace placement
// vary across matcher builds, so parsing is lenient; lines that carry no
// colon-separated pairs yield (nil, false) and are skipped by the caller.
func parseMapping(line string) (map[int]int, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "{")
	line = strings.TrimSuffix(line, "}")
	if line == "" {
		return nil, false
	}

	out := make(map[int]int)
	for _, pair := range strings.Split(line, ",") {
		from, to, found := strings.Cut(pair, ":")
		if !found {
			return nil, false
		}
		k, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}
