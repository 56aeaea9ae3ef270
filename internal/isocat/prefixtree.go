package isocat

import (
	"encoding/json"
	"sort"
)

// Tree is a prefix tree over mapping paths. Each path is a sequence of edge
// identifiers; inserting a path shares any prefix already present, so the
// tree compactly encodes every retained vertex mapping for a signature.
// Each root-to-leaf path is one admissible way to realize the skeleton from
// labeled sub-blocks.
type Tree struct {
	root *node
}

type node struct {
	children map[string]*node
}

// NewTree returns an empty prefix tree.
func NewTree() *Tree {
	return &Tree{root: &node{}}
}

// Insert adds the path, sharing any existing prefix. Inserting a path
// already present is a no-op.
func (t *Tree) Insert(path []string) {
	cur := t.root
	for _, edge := range path {
		if cur.children == nil {
			cur.children = make(map[string]*node)
		}
		next := cur.children[edge]
		if next == nil {
			next = &node{}
			cur.children[edge] = next
		}
		cur = next
	}
}

// Contains reports whether the exact path terminates at a leaf or interior
// node of the tree.
func (t *Tree) Contains(path []string) bool {
	cur := t.root
	for _, edge := range path {
		next := cur.children[edge]
		if next == nil {
			return false
		}
		cur = next
	}
	return true
}

// Paths returns a lazy depth-first producer over every root-to-leaf path.
// The producer holds an explicit stack, so tree depth never translates into
// call-stack depth, and it can be abandoned at any point.
func (t *Tree) Paths() *PathIter {
	it := &PathIter{}
	it.stack = []frame{{n: t.root, keys: sortedKeys(t.root.children)}}
	return it
}

// PathIter walks root-to-leaf paths in lexicographic edge order.
type PathIter struct {
	stack []frame
	path  []string
}

type frame struct {
	n    *node
	keys []string
	next int
}

// Next returns the next root-to-leaf path, or false when the walk is done.
// The returned slice is only valid until the following call.
func (it *PathIter) Next() ([]string, bool) {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if len(top.keys) == 0 && top.n != it.stack[0].n {
			// Leaf reached; emit and pop.
			out := it.path
			it.pop()
			return out, true
		}
		if top.next >= len(top.keys) {
			if len(it.stack) == 1 && len(top.keys) == 0 {
				// Empty tree.
				it.stack = nil
				return nil, false
			}
			it.pop()
			continue
		}
		key := top.keys[top.next]
		top.next++
		child := top.n.children[key]
		it.path = append(it.path, key)
		it.stack = append(it.stack, frame{n: child, keys: sortedKeys(child.children)})
	}
	return nil, false
}

func (it *PathIter) pop() {
	it.stack = it.stack[:len(it.stack)-1]
	if len(it.path) > 0 {
		it.path = it.path[:len(it.path)-1]
	}
}

// MarshalJSON renders the tree as nested objects keyed by edge identifier,
// the artifact format read back at assembly time.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeNode(t.root))
}

// UnmarshalJSON rebuilds the tree from its nested-object artifact form.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	root, err := decodeNode(raw)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

func encodeNode(n *node) map[string]any {
	out := make(map[string]any, len(n.children))
	for edge, child := range n.children {
		out[edge] = encodeNode(child)
	}
	return out
}

func decodeNode(raw map[string]json.RawMessage) (*node, error) {
	n := &node{}
	if len(raw) > 0 {
		n.children = make(map[string]*node, len(raw))
	}
	for edge, sub := range raw {
		var childRaw map[string]json.RawMessage
		if err := json.Unmarshal(sub, &childRaw); err != nil {
			return nil, err
		}
		child, err := decodeNode(childRaw)
		if err != nil {
			return nil, err
		}
		n.children[edge] = child
	}
	return n, nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
