// Package trie is the alias index: a compressed prefix tree kept in a single
// arena of nodes addressed by index.
//
// Index 0 is always the root, an internal node with an empty value. Every
// other node stores the whole alias fragment from the root down to itself, so
// a node's value always starts with its parent's value. Internal nodes are
// only created when two stored aliases first diverge.
//
// A Trie is not safe for concurrent mutation. Readers may share one as long
// as nobody writes to it; the suggest package swaps whole tries instead of
// mutating a live one.
package trie

import (
	"fmt"
	"io"
	"strings"
)

// Root is the arena index of the root node.
const Root = 0

// Trie is an arena of nodes. The zero value is not usable, call New.
type Trie struct {
	nodes   []Node
	aliases int
}

// Entry is a stored alias and the character it expands to.
type Entry struct {
	Alias string
	Data  rune
}

func New() *Trie {
	return &Trie{
		nodes: []Node{{
			value:    []byte{},
			parent:   Root,
			kind:     Internal,
			children: nil,
		}},
	}
}

// Len returns the number of nodes, root included.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// Size returns the number of stored aliases.
func (t *Trie) Size() int {
	return t.aliases
}

// Node returns a copy of the node at idx. It panics on an out of range index
// like any slice access.
func (t *Trie) Node(idx int) Node {
	return t.nodes[idx]
}

// FindMaxMatch returns the deepest node reachable by matching input byte by
// byte from the root, together with the number of input bytes matched.
//
// Among matches of equal length the shallower node wins: descent stops as
// soon as it cannot be extended. An empty input matches (Root, 0).
func (t *Trie) FindMaxMatch(input []byte) (int, int) {
	if len(input) == 0 {
		return Root, 0
	}

	idx := Root
	matched := 0
descend:
	for {
		cur := &t.nodes[idx]
		limit := min(len(cur.value), len(input))
		for matched < limit && input[matched] == cur.value[matched] {
			matched++
		}

		// either the input is used up or the mismatch is inside this node
		if matched == len(input) || matched < len(cur.value) {
			break
		}

		if cur.kind == Leaf {
			break
		}
		for _, c := range cur.children {
			// a child equal to cur has no byte at matched and is skipped
			cv := t.nodes[c].value
			if len(cv) > matched && cv[matched] == input[matched] {
				matched++
				idx = c
				continue descend
			}
		}
		break
	}
	return idx, matched
}

// FindValue returns the character stored for alias.
func (t *Trie) FindValue(alias string) (rune, error) {
	if err := ValidateAlias(alias); err != nil {
		return 0, err
	}

	idx, matched := t.FindMaxMatch([]byte(alias))
	if matched != len(alias) {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, alias)
	}

	n := &t.nodes[idx]
	switch n.kind {
	case Leaf:
		// input ran out inside the leaf: only a prefix of its alias
		if len(n.value) != matched {
			return 0, fmt.Errorf("%w: %q", ErrNotFound, alias)
		}
		return n.data, nil
	case Internal:
		// the internal node spells the alias; its leaf twin holds the data
		for _, c := range n.children {
			child := &t.nodes[c]
			if len(child.value) != matched {
				continue
			}
			if child.kind != Leaf {
				return 0, fmt.Errorf("%w: node %d (%q) shares its value with internal child %d",
					ErrInternalConsistency, idx, n.value, c)
			}
			return child.data, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrNotFound, alias)
	default:
		return 0, fmt.Errorf("%w: node %d has kind %d", ErrInternalConsistency, idx, n.kind)
	}
}

// AppendLeaf stores alias -> data. An alias that is already present yields
// ErrDuplicateAlias and leaves the trie untouched.
func (t *Trie) AppendLeaf(alias string, data rune) error {
	if err := ValidateAlias(alias); err != nil {
		return err
	}

	in := []byte(alias)
	idx, matched := t.FindMaxMatch(in)
	m := &t.nodes[idx]

	switch m.kind {
	case Internal:
		if matched == len(m.value) {
			if matched < len(in) || !t.hasChildOfLen(idx, matched) {
				t.push(in, idx, data)
				return nil
			}
			return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
		}
	case Leaf:
		if matched == len(m.value) && matched == len(in) {
			return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
		}
	default:
		return fmt.Errorf("%w: node %d has kind %d", ErrInternalConsistency, idx, m.kind)
	}

	t.split(idx, matched, in, data)
	return nil
}

// split puts a new internal node holding the first n bytes of idx's value
// where idx used to hang, then hangs idx and a new leaf below it.
func (t *Trie) split(idx, n int, in []byte, data rune) {
	parent := t.nodes[idx].parent
	prefix := make([]byte, n)
	copy(prefix, t.nodes[idx].value[:n])

	branch := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		value:    prefix,
		parent:   parent,
		kind:     Internal,
		children: []int{idx},
	})
	t.nodes[parent].replaceChild(idx, branch)
	t.nodes[idx].parent = branch

	t.push(in, branch, data)
}

// push appends a leaf under parent. in must not be retained by the caller.
func (t *Trie) push(in []byte, parent int, data rune) {
	leaf := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		value:  in,
		parent: parent,
		kind:   Leaf,
		data:   data,
	})
	t.nodes[parent].addChild(leaf)
	t.aliases++
}

func (t *Trie) hasChildOfLen(idx, n int) bool {
	for _, c := range t.nodes[idx].children {
		if len(t.nodes[c].value) == n {
			return true
		}
	}
	return false
}

// Enumerate collects up to limit leaves from the subtree at start in
// traversal order. The start node itself comes first when it is a leaf.
func (t *Trie) Enumerate(start, limit int) []Entry {
	if limit <= 0 {
		return nil
	}
	out := make([]Entry, 0, min(limit, t.aliases))
	for idx := range t.Walk(start) {
		n := &t.nodes[idx]
		if n.kind != Leaf {
			continue
		}
		out = append(out, Entry{Alias: string(n.value), Data: n.data})
		if len(out) == limit {
			break
		}
	}
	return out
}

// Render writes the whole trie, one node per line, indented four spaces per
// level. Leaves carry their character in parentheses.
func (t *Trie) Render(w io.Writer) error {
	const indent = "    "
	for idx, depth := range t.Walk(Root) {
		n := &t.nodes[idx]
		line := strings.Repeat(indent, depth) + string(n.value)
		if n.kind == Leaf {
			line += "(" + string(n.data) + ")"
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trie) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

// Check walks every node and reports the first broken invariant.
func (t *Trie) Check() error {
	seen := make(map[string]int, t.aliases)
	leaves := 0
	for idx := range t.nodes {
		n := &t.nodes[idx]
		if idx != Root {
			p := &t.nodes[n.parent]
			if p.kind != Internal {
				return fmt.Errorf("%w: node %d hangs below leaf %d", ErrInternalConsistency, idx, n.parent)
			}
			if len(n.value) < len(p.value) || string(n.value[:len(p.value)]) != string(p.value) {
				return fmt.Errorf("%w: node %d (%q) does not extend parent %q",
					ErrInternalConsistency, idx, n.value, p.value)
			}
			if len(n.value) == len(p.value) && n.kind != Leaf {
				return fmt.Errorf("%w: internal node %d repeats its parent's value", ErrInternalConsistency, idx)
			}
		}
		switch n.kind {
		case Leaf:
			if prev, dup := seen[string(n.value)]; dup {
				return fmt.Errorf("%w: leaves %d and %d both hold %q", ErrInternalConsistency, prev, idx, n.value)
			}
			seen[string(n.value)] = idx
			leaves++
		case Internal:
			branches := make(map[byte]int, len(n.children))
			for _, c := range n.children {
				child := &t.nodes[c]
				if child.parent != idx {
					return fmt.Errorf("%w: child %d of %d points at parent %d",
						ErrInternalConsistency, c, idx, child.parent)
				}
				if len(child.value) == len(n.value) {
					continue
				}
				b := child.value[len(n.value)]
				if other, dup := branches[b]; dup {
					return fmt.Errorf("%w: children %d and %d of %d both branch on %q",
						ErrInternalConsistency, other, c, idx, b)
				}
				branches[b] = c
			}
		}
	}
	if leaves != t.aliases {
		return fmt.Errorf("%w: %d leaves but %d aliases counted", ErrInternalConsistency, leaves, t.aliases)
	}
	return nil
}
