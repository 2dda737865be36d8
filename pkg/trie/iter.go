package trie

import (
	"errors"
	"iter"
)

var ErrNoMoreNodes = errors.New("there are no more nodes in the subtree")

// Iterator walks a subtree in pre-order, depth first, children in the order
// they were added. It is single pass; ask the trie for a new one to restart.
type Iterator struct {
	trie *Trie
	// each frame holds the siblings still to visit at one level
	stack [][]int
}

// Iter returns an iterator over start and all of its descendants. The start
// node is reported at depth 0.
func (t *Trie) Iter(start int) *Iterator {
	return &Iterator{
		trie:  t,
		stack: [][]int{{start}},
	}
}

func (it *Iterator) HasNext() bool {
	for len(it.stack) > 0 {
		if len(it.stack[len(it.stack)-1]) > 0 {
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Next returns the next node index and its depth below the start node.
func (it *Iterator) Next() (idx, depth int, err error) {
	if !it.HasNext() {
		return 0, 0, ErrNoMoreNodes
	}
	top := len(it.stack) - 1
	idx = it.stack[top][0]
	it.stack[top] = it.stack[top][1:]
	depth = top

	n := &it.trie.nodes[idx]
	if n.kind == Internal && len(n.children) > 0 {
		it.stack = append(it.stack, n.children)
	}
	return idx, depth, nil
}

// Walk is Iter as a range-over-func sequence of (node, depth) pairs.
func (t *Trie) Walk(start int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		it := t.Iter(start)
		for it.HasNext() {
			idx, depth, _ := it.Next()
			if !yield(idx, depth) {
				return
			}
		}
	}
}
