package kdtree

// The tree is stored as a flat array in level order: index 0 is the root and
// node i has children at 2*i+1 and 2*i+2. Callers bounds-check the results.

// LeftChild returns the array index of the left child of node i.
func LeftChild(i int) int { return 2*i + 1 }

// RightChild returns the array index of the right child of node i.
func RightChild(i int) int { return 2*i + 2 }

// Parent returns the array index of the parent of node i.
// Parent(0) is 0; Go integer division truncates toward zero.
func Parent(i int) int { return (i - 1) / 2 }
