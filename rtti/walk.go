package rtti

import (
	"github.com/skdltmxn/wiztype/internal/logflags"
)

// Walk returns every node reachable from start, depth first, left before
// right, in discovery order. Leaf nodes are recorded but not expanded.
//
// The tree lives in memory the target may be changing, so Walk keeps a
// visited set and an explicit stack: a cycle, a duplicated child pointer or a
// very deep tree cannot make it loop or overflow.
func Walk(start *HashNode) ([]*HashNode, error) {
	log := logflags.WalkerLogger()

	visited := make(map[uint64]struct{})
	stack := []*HashNode{start}
	var nodes []*HashNode

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[node.Addr()]; seen {
			continue
		}
		visited[node.Addr()] = struct{}{}
		nodes = append(nodes, node)

		leaf, err := node.IsLeaf()
		if err != nil {
			return nil, err
		}
		if leaf {
			continue
		}

		left, err := node.Left()
		if err != nil {
			return nil, err
		}
		right, err := node.Right()
		if err != nil {
			return nil, err
		}

		// pushed in reverse so left is expanded first
		for _, child := range []*HashNode{right, left} {
			if child == nil {
				continue
			}
			if _, seen := visited[child.Addr()]; seen {
				log.Debugf("node 0x%x links back to visited node 0x%x", node.Addr(), child.Addr())
				continue
			}
			stack = append(stack, child)
		}
	}

	log.Debugf("walked %d nodes", len(nodes))
	return nodes, nil
}

// WalkFrom walks the tree starting at the parent link of root, which is
// where the registry's real entry node is stored.
func WalkFrom(root *HashNode) ([]*HashNode, error) {
	start, err := root.Parent()
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, ErrNoEntryNode
	}
	return Walk(start)
}
