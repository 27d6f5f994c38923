// Package keydiff implements the order-statistics tree used by the core
// diff runner to correct the source index of a Move patch for the shift
// caused by earlier emitted moves (see appendMove in the parent package's
// differ.go).
package keydiff

// Node is a node of an OrderStatTree, keyed by an integer position and
// carrying an integer weight. Each node caches the sum of weights across
// its whole subtree so that CountLessThan runs in O(log n).
type Node struct {
	Key    int
	Weight int
	sum    int
	height int
	left   *Node
	right  *Node
}

// OrderStatTree is a self-balancing (AVL) binary search tree augmented
// with subtree weight sums, supporting rank-style queries in O(log n).
//
// The zero value is an empty tree.
type OrderStatTree struct {
	root *Node
}

func height(n *Node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func sumOf(n *Node) int {
	if n == nil {
		return 0
	}
	return n.sum
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func update(n *Node) {
	n.height = 1 + max(height(n.left), height(n.right))
	n.sum = n.Weight + sumOf(n.left) + sumOf(n.right)
}

func balanceFactor(n *Node) int {
	return height(n.left) - height(n.right)
}

func rotateRight(y *Node) *Node {
	x := y.left
	t := x.right

	x.right = y
	y.left = t

	update(y)
	update(x)

	return x
}

func rotateLeft(x *Node) *Node {
	y := x.right
	t := y.left

	y.left = x
	x.right = t

	update(x)
	update(y)

	return y
}

func rebalance(n *Node) *Node {
	update(n)

	bf := balanceFactor(n)

	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}

	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}

	return n
}

// Insert adds a new node with the given key and weight and returns it. The
// returned handle remains valid (its address never changes) until the next
// call to Remove with the same key: AVL rotations rewire child pointers
// between existing nodes rather than copying node contents.
func (t *OrderStatTree) Insert(key, weight int) *Node {
	var inserted *Node
	t.root, inserted = insert(t.root, key, weight)
	return inserted
}

func insert(n *Node, key, weight int) (*Node, *Node) {
	if n == nil {
		node := &Node{Key: key, Weight: weight, height: 1, sum: weight}
		return node, node
	}

	var inserted *Node

	if key < n.Key {
		n.left, inserted = insert(n.left, key, weight)
	} else if key > n.Key {
		n.right, inserted = insert(n.right, key, weight)
	} else {
		// Duplicate key: add weight to the existing node and return it.
		n.Weight += weight
		update(n)
		return n, n
	}

	return rebalance(n), inserted
}

// Remove deletes the node with the given key, if present, and rebalances.
func (t *OrderStatTree) Remove(key int) {
	t.root = remove(t.root, key)
}

func remove(n *Node, key int) *Node {
	if n == nil {
		return nil
	}

	if key < n.Key {
		n.left = remove(n.left, key)
	} else if key > n.Key {
		n.right = remove(n.right, key)
	} else {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}

		successor := n.right
		for successor.left != nil {
			successor = successor.left
		}

		// Relink the successor node in n's place instead of copying its key
		// and weight into n, so every other key keeps its node.
		successor.right = remove(n.right, successor.Key)
		successor.left = n.left
		n = successor
	}

	return rebalance(n)
}

// Min returns the smallest key currently in the tree, or 0 if the tree is
// empty.
func (t *OrderStatTree) Min() int {
	if t.root == nil {
		return 0
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.Key
}

// Max returns the largest key currently in the tree, or 0 if the tree is
// empty.
func (t *OrderStatTree) Max() int {
	if t.root == nil {
		return 0
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	return n.Key
}

// CountLessThan returns the total weight of all nodes whose key is
// strictly less than key.
func (t *OrderStatTree) CountLessThan(key int) int {
	total := 0
	n := t.root

	for n != nil {
		if key <= n.Key {
			n = n.left
		} else {
			total += n.Weight + sumOf(n.left)
			n = n.right
		}
	}

	return total
}

// Sum returns the total weight of every node in the tree.
func (t *OrderStatTree) Sum() int {
	return sumOf(t.root)
}

// Empty reports whether the tree currently holds no nodes.
func (t *OrderStatTree) Empty() bool {
	return t.root == nil
}

// Root returns the root node, for use by tests that want to walk the tree
// shape directly.
func (t *OrderStatTree) Root() *Node {
	return t.root
}

// Height returns the tree's height (0 for an empty tree).
func (t *OrderStatTree) Height() int {
	return height(t.root)
}

// Validate recursively checks the AVL balance invariant and the cached
// subtree-sum field starting at node, returning an error describing the
// first violation found. A nil node is valid.
func Validate(node *Node) error {
	_, _, err := validate(node)
	return err
}

func validate(n *Node) (h, sum int, err error) {
	if n == nil {
		return 0, 0, nil
	}

	lh, lsum, err := validate(n.left)
	if err != nil {
		return 0, 0, err
	}

	rh, rsum, err := validate(n.right)
	if err != nil {
		return 0, 0, err
	}

	if n.left != nil && n.left.Key >= n.Key {
		return 0, 0, errInvariant("left child key must be less than node key")
	}
	if n.right != nil && n.right.Key <= n.Key {
		return 0, 0, errInvariant("right child key must be greater than node key")
	}

	bf := lh - rh
	if bf > 1 || bf < -1 {
		return 0, 0, errInvariant("balance factor out of range")
	}

	wantHeight := 1 + max(lh, rh)
	if n.height != wantHeight {
		return 0, 0, errInvariant("cached height is stale")
	}

	wantSum := n.Weight + lsum + rsum
	if n.sum != wantSum {
		return 0, 0, errInvariant("cached subtree sum is stale")
	}

	return wantHeight, wantSum, nil
}

type errInvariant string

func (e errInvariant) Error() string { return string(e) }
