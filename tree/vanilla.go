// Package tree implements the two tree stores from spec section 3 as an
// arena of dense, index-addressed nodes (spec section 9's "tree as arena"
// design note): a state->index map plus a slice of nodes, so the hot
// selection/backup path never chases pointers and the tree is trivially a DAG
// rooted at index 0.
//
// This mirrors the arena-style cacheNode tree in the teacher's
// internal/searchers/mcts/mcts.go, generalized from a single board type to
// any comparable state/action pair.
package tree

// VanillaStateActionNode is one state-action edge of a vanilla tree node
// (spec section 3). Action is immutable after construction; N and Q are
// mutated only by Backup.
type VanillaStateActionNode[A comparable] struct {
	Action A
	N      int
	Q      float32
}

// VanillaStateNode holds a fixed, order-stable vector of action children, one
// per legal action at creation time (spec section 3).
type VanillaStateNode[A comparable] struct {
	TotalN   int
	Children []VanillaStateActionNode[A]
}

// Vanilla is the arena-backed tree store for the finite-action-space variant.
type Vanilla[S, A comparable] struct {
	index map[S]int
	nodes []VanillaStateNode[A]
}

// NewVanilla returns an empty tree.
func NewVanilla[S, A comparable]() *Vanilla[S, A] {
	return &Vanilla[S, A]{index: make(map[S]int)}
}

// Lookup returns the arena index of s, if present.
func (t *Vanilla[S, A]) Lookup(s S) (int, bool) {
	idx, ok := t.index[s]
	return idx, ok
}

// Insert creates a new state node for s with one child per action in
// actions, in the given order (spec section 3: "index order fixed for the
// node's lifetime"). initN/initQ are invoked once per action to seed the new
// edges. Insert must only be called when s is not yet present.
func (t *Vanilla[S, A]) Insert(s S, actions []A, initN func(a A) (int, error), initQ func(a A) (float32, error)) (int, error) {
	children := make([]VanillaStateActionNode[A], len(actions))
	totalN := 0
	for i, a := range actions {
		n, err := initN(a)
		if err != nil {
			return 0, err
		}
		q, err := initQ(a)
		if err != nil {
			return 0, err
		}
		children[i] = VanillaStateActionNode[A]{Action: a, N: n, Q: q}
		totalN += n
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, VanillaStateNode[A]{TotalN: totalN, Children: children})
	t.index[s] = idx
	return idx, nil
}

// Node returns a pointer into the arena for in-place mutation.
func (t *Vanilla[S, A]) Node(idx int) *VanillaStateNode[A] {
	return &t.nodes[idx]
}

// Backup applies one incremental-mean update to children[actionIdx] of node
// idx and increments both the edge's and the node's visit counts (spec
// section 4.1 step 6). This is the only place N/Q are mutated after
// construction.
func (t *Vanilla[S, A]) Backup(idx, actionIdx int, target float32) {
	node := &t.nodes[idx]
	child := &node.Children[actionIdx]
	child.N++
	node.TotalN++
	child.Q += (target - child.Q) / float32(child.N)
}

// Len returns the number of state nodes in the tree.
func (t *Vanilla[S, A]) Len() int { return len(t.nodes) }

// Clear empties the tree (clear_tree! in spec section 3).
func (t *Vanilla[S, A]) Clear() {
	t.index = make(map[S]int)
	t.nodes = t.nodes[:0]
}
