package rtti

import (
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/skdltmxn/wiztype/internal/logflags"
	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/remote"
)

// Tree maps type names to the registry leaves that describe them, in the
// order the leaves were discovered.
type Tree struct {
	types *orderedmap.OrderedMap[string, *HashNode]
}

// BuildTree keeps the nodes of nodes that carry a payload and indexes them by
// type name. When two nodes carry the same name the later one wins, keeping
// the position of the first.
func BuildTree(nodes []*HashNode, payload PayloadNodes) (*Tree, error) {
	log := logflags.WalkerLogger()
	t := &Tree{types: orderedmap.New[string, *HashNode]()}

	for _, node := range nodes {
		carries, err := payload.carries(node)
		if err != nil {
			return nil, err
		}
		if !carries {
			continue
		}

		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		if typ == nil {
			log.Warnf("node 0x%x has no type descriptor", node.Addr())
			continue
		}

		name, err := typ.Name()
		if err != nil {
			return nil, fmt.Errorf("rtti: failed to read type name of node 0x%x: %w", node.Addr(), err)
		}

		if prev, present := t.types.Set(name, node); present {
			log.Debugf("type %q at node 0x%x replaces node 0x%x", name, node.Addr(), prev.Addr())
		}
	}

	return t, nil
}

// Len returns the number of distinct type names.
func (t *Tree) Len() int {
	return t.types.Len()
}

// Get returns the leaf registered for name.
func (t *Tree) Get(name string) (*HashNode, bool) {
	return t.types.Get(name)
}

// All returns an iterator over name and leaf pairs in discovery order.
func (t *Tree) All() iter.Seq2[string, *HashNode] {
	return func(yield func(string, *HashNode) bool) {
		for pair := t.types.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Names returns the type names in discovery order.
func (t *Tree) Names() []string {
	names := make([]string, 0, t.Len())
	for name := range t.All() {
		names = append(names, name)
	}
	return names
}

// Snapshot is the result of one extraction: where the registry was found,
// every node reached, and the resulting name index.
type Snapshot struct {
	Location *Location
	Nodes    []*HashNode
	Tree     *Tree
}

// Leaves returns the number of nodes in s with the leaf flag set.
func (s *Snapshot) Leaves() (int, error) {
	n := 0
	for _, node := range s.Nodes {
		leaf, err := node.IsLeaf()
		if err != nil {
			return 0, err
		}
		if leaf {
			n++
		}
	}
	return n, nil
}

// Extract locates the registry in p, walks it and indexes its types.
func Extract(p remote.Process, opts Options) (*Snapshot, error) {
	ctx, err := opts.NewContext(p)
	if err != nil {
		return nil, err
	}
	return ExtractWith(p, ctx, opts)
}

// ExtractWith is like Extract but decodes through an existing context.
func ExtractWith(p remote.Process, ctx *memview.Context, opts Options) (*Snapshot, error) {
	loc, err := Locate(p, opts)
	if err != nil {
		return nil, err
	}

	nodes, err := WalkFrom(loc.RootNode(ctx))
	if err != nil {
		return nil, fmt.Errorf("rtti: failed to walk registry: %w", err)
	}

	tree, err := BuildTree(nodes, opts.Payload)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Location: loc, Nodes: nodes, Tree: tree}, nil
}
