package kdtree

// Navigator walks the level-order slot array of a tree using node
// relationships instead of index arithmetic. Navigators are values and never
// modify the tree.
type Navigator[C Coordinate] struct {
	nodes [][]C
	index int
}

// Index returns the array index of the current node.
func (n Navigator[C]) Index() int { return n.index }

// Value returns the point stored at the current node, or nil for an
// empty slot. The point is shared with the tree and must not be modified.
func (n Navigator[C]) Value() []C {
	if n.index >= len(n.nodes) {
		return nil
	}
	return n.nodes[n.index]
}

// Left moves to the left child. ok is false if the child slot is empty or
// outside the array.
func (n Navigator[C]) Left() (Navigator[C], bool) { return n.move(LeftChild(n.index)) }

// Right moves to the right child. ok is false if the child slot is empty or
// outside the array.
func (n Navigator[C]) Right() (Navigator[C], bool) { return n.move(RightChild(n.index)) }

// Parent moves to the parent. ok is false at the root.
func (n Navigator[C]) Parent() (Navigator[C], bool) {
	if n.index == 0 {
		return n, false
	}
	return n.move(Parent(n.index))
}

// IsLeaf reports whether the current node has no children.
func (n Navigator[C]) IsLeaf() bool {
	_, left := n.Left()
	_, right := n.Right()
	return !left && !right
}

func (n Navigator[C]) move(index int) (Navigator[C], bool) {
	if index >= len(n.nodes) || n.nodes[index] == nil {
		return n, false
	}
	return Navigator[C]{nodes: n.nodes, index: index}, true
}
