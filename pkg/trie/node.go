package trie

// Kind tells which content a Node carries.
type Kind uint8

const (
	// Internal nodes branch to children.
	Internal Kind = iota
	// Leaf nodes hold the character an alias expands to.
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Leaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Node is one arena slot. Its value never changes after creation;
// only parent and children move when a split happens.
type Node struct {
	value  []byte
	parent int
	kind   Kind

	// Internal content
	children []int
	// Leaf content
	data rune
}

// Value returns the full alias fragment from the root down to this node.
func (n Node) Value() string {
	return string(n.value)
}

// Len is the length of the node's value in bytes.
func (n Node) Len() int {
	return len(n.value)
}

func (n Node) Parent() int {
	return n.parent
}

func (n Node) Kind() Kind {
	return n.kind
}

func (n Node) IsLeaf() bool {
	return n.kind == Leaf
}

// Children returns a copy of the child indices in insertion order.
// Leaves have none.
func (n Node) Children() []int {
	if n.kind != Internal {
		return nil
	}
	out := make([]int, len(n.children))
	copy(out, n.children)
	return out
}

// Data returns the payload of a leaf. ok is false for internal nodes.
func (n Node) Data() (r rune, ok bool) {
	if n.kind != Leaf {
		return 0, false
	}
	return n.data, true
}

func (n *Node) addChild(idx int) bool {
	if n.kind != Internal {
		return false
	}
	n.children = append(n.children, idx)
	return true
}

// replaceChild swaps old for repl in place so sibling order is kept.
func (n *Node) replaceChild(old, repl int) bool {
	if n.kind != Internal {
		return false
	}
	for i, c := range n.children {
		if c == old {
			n.children[i] = repl
			return true
		}
	}
	return false
}
