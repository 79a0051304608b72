// Package planner implements the search driver of spec section 4.1: the
// shared selection/expansion/simulation/backup skeleton, specialized by the
// vanilla UCB rule (this file) and the DPW UCB-with-widening rule (dpw.go).
//
// Grounded on the teacher's internal/searchers/mcts/mcts.go SearchSubtree/
// searchImpl pair (select-best-upper-confidence, recurse, backup on the way
// out) and internal/searchers/mcts/players_params.go's option-validation
// style, generalized from a two-player, policy-network-guided search over
// *state.Board to a single-agent UCB search over any comparable (S, A).
package planner

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/gomdp/planner/estimate"
	"github.com/gomdp/planner/internal/generics"
	"github.com/gomdp/planner/internal/perr"
	"github.com/gomdp/planner/mdp"
	"github.com/gomdp/planner/seam"
	"github.com/gomdp/planner/tree"
)

// Vanilla is the finite-action-space solver (spec section 4, "vanilla
// variant"). Construct with NewVanilla, then call Action repeatedly.
type Vanilla[S, A comparable] struct {
	model mdp.Model[S, A]
	tr    *tree.Vanilla[S, A]
	rng   *rand.Rand

	nIterations int
	depth       int
	c           float32 // exploration_constant

	initN     seam.InitNHook[S, A]
	initQ     seam.InitQHook[S, A]
	estimator estimate.Estimator[S]

	resetCallback func(s S)
	keepTree      bool
}

// VanillaOption configures a Vanilla solver at construction time.
type VanillaOption[S, A comparable] func(*Vanilla[S, A])

// WithIterations sets n_iterations (must be > 0).
func WithIterations[S, A comparable](n int) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.nIterations = n }
}

// WithDepth sets the per-simulation depth bound (must be > 0).
func WithDepth[S, A comparable](d int) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.depth = d }
}

// WithExplorationConstant sets UCB's c (must be >= 0).
func WithExplorationConstant[S, A comparable](c float32) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.c = c }
}

// WithRNG sets the shared, seedable engine RNG.
func WithRNG[S, A comparable](rng *rand.Rand) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.rng = rng }
}

// WithInitN sets the init_N seam.
func WithInitN[S, A comparable](h seam.InitNHook[S, A]) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.initN = h }
}

// WithInitQ sets the init_Q seam.
func WithInitQ[S, A comparable](h seam.InitQHook[S, A]) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.initQ = h }
}

// WithEstimator sets the leaf value estimator (estimate.Constant or estimate.Rollout).
func WithEstimator[S, A comparable](e estimate.Estimator[S]) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.estimator = e }
}

// WithResetCallback installs a callback invoked at the top of every Action call.
func WithResetCallback[S, A comparable](f func(s S)) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.resetCallback = f }
}

// WithKeepTree controls whether the tree is retained across Action calls
// (default true). When false, the tree is cleared at the top of every call.
func WithKeepTree[S, A comparable](keep bool) VanillaOption[S, A] {
	return func(v *Vanilla[S, A]) { v.keepTree = keep }
}

// NewVanilla constructs a Vanilla solver, validating configuration per spec
// section 7's "invalid configuration" taxonomy.
func NewVanilla[S, A comparable](model mdp.Model[S, A], opts ...VanillaOption[S, A]) (*Vanilla[S, A], error) {
	v := &Vanilla[S, A]{
		model:       model,
		tr:          tree.NewVanilla[S, A](),
		rng:         rand.New(rand.NewSource(1)),
		nIterations: 100,
		depth:       20,
		c:           1.0,
		initN:       seam.InitNConst[S, A](0),
		initQ:       seam.InitQConst[S, A](0),
		estimator:   estimate.Constant[S]{Hook: seam.EstimateValueConst[S](0)},
		keepTree:    true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vanilla[S, A]) validate() error {
	if v.nIterations <= 0 {
		return perr.New(perr.InvalidConfig, "n_iterations must be > 0, got %d", v.nIterations)
	}
	if v.depth <= 0 {
		return perr.New(perr.InvalidConfig, "depth must be > 0, got %d", v.depth)
	}
	if v.c < 0 {
		return perr.New(perr.InvalidConfig, "exploration_constant must be >= 0, got %g", v.c)
	}
	return nil
}

// ClearTree empties the retained tree (clear_tree! in spec section 3).
func (v *Vanilla[S, A]) ClearTree() { v.tr.Clear() }

// Children returns the root's (action, n, q) triples and total_n, for
// inspection (spec section 6's "observable outputs"). ok is false if s was
// never visited.
func (v *Vanilla[S, A]) Children(s S) (children []tree.VanillaStateActionNode[A], totalN int, ok bool) {
	idx, found := v.tr.Lookup(s)
	if !found {
		return nil, 0, false
	}
	node := v.tr.Node(idx)
	return node.Children, node.TotalN, true
}

// Action runs n_iterations simulations rooted at s and returns the
// arg-max action by accumulated Q (spec section 4.5).
func (v *Vanilla[S, A]) Action(s S) (A, error) {
	var zero A
	if err := mdp.CheckDiscount(v.model.Discount()); err != nil {
		return zero, err
	}
	if v.resetCallback != nil {
		v.resetCallback(s)
	}
	if !v.keepTree {
		v.tr.Clear()
	}

	idx, ok := v.tr.Lookup(s)
	if !ok {
		var err error
		idx, err = v.insertRoot(s)
		if err != nil {
			return zero, err
		}
	}

	for i := 0; i < v.nIterations; i++ {
		if _, err := v.simulate(s, v.depth); err != nil {
			return zero, err
		}
	}

	node := v.tr.Node(idx)
	best, err := v.bestByQ(node)
	if err != nil {
		return zero, err
	}
	klog.V(2).Infof("planner/vanilla: root has %d children, total_n=%d, chosen action=%v", len(node.Children), node.TotalN, node.Children[best].Action)
	return node.Children[best].Action, nil
}

func (v *Vanilla[S, A]) insertRoot(s S) (int, error) {
	if v.model.IsTerminal(s) {
		return v.tr.Insert(s, nil, nil, nil)
	}
	actions, err := v.model.Actions(s)
	if err != nil {
		return 0, err
	}
	if len(actions) == 0 {
		return 0, perr.New(perr.ModelViolation, "actions(mdp, s) is empty at non-terminal state %v", s)
	}
	return v.tr.Insert(s, actions, v.bindInitN(s), v.bindInitQ(s))
}

func (v *Vanilla[S, A]) bindInitN(s S) func(a A) (int, error) {
	return func(a A) (int, error) { return v.initN(s, a) }
}

func (v *Vanilla[S, A]) bindInitQ(s S) func(a A) (float32, error) {
	return func(a A) (float32, error) { return v.initQ(s, a) }
}

// simulate implements one recursive simulate(s, depth) call of spec section 4.1.
func (v *Vanilla[S, A]) simulate(s S, depth int) (float32, error) {
	if depth == 0 || v.model.IsTerminal(s) {
		return 0, nil
	}

	idx, ok := v.tr.Lookup(s)
	if !ok {
		var err error
		idx, err = v.insertRoot(s) // leaf: create the state-node (step 2)
		if err != nil {
			return 0, err
		}
		return v.estimator.Estimate(s, depth)
	}

	node := v.tr.Node(idx)
	actionIdx := v.selectUCB(node)
	action := node.Children[actionIdx].Action

	next, reward, err := v.model.GenerateSR(s, action, v.rng)
	if err != nil {
		return 0, err
	}
	if err := mdp.CheckReward(reward); err != nil {
		return 0, err
	}

	future, err := v.simulate(next, depth-1)
	if err != nil {
		return 0, err
	}
	target := reward + v.model.Discount()*future
	v.tr.Backup(idx, actionIdx, target)
	return target, nil
}

// selectUCB implements spec section 4.3's vanilla rule: any unvisited child
// first, else the arg-max of Q + c*sqrt(ln(total_n)/n), ties by index order.
func (v *Vanilla[S, A]) selectUCB(node *tree.VanillaStateNode[A]) int {
	if zero := generics.IndexOfZero(node.Children, func(c tree.VanillaStateActionNode[A]) bool { return c.N == 0 }); zero >= 0 {
		return zero
	}
	lnN := math32.Log(float32(node.TotalN))
	best, bestVal := -1, float32(math32.Inf(-1))
	for i, c := range node.Children {
		ucb := c.Q + v.c*math32.Sqrt(lnN/float32(c.N))
		if ucb > bestVal {
			bestVal = ucb
			best = i
		}
	}
	if best < 0 {
		exceptions.Panicf("planner/vanilla: UCB selection found no candidate among %d children", len(node.Children))
	}
	return best
}

// bestByQ returns the arg-max index over node's children by Q, ties by index
// order. Returns a ModelViolation error if node has no children, e.g. a
// terminal root state (spec section 4.5's "terminal cutoff" scenario).
func (v *Vanilla[S, A]) bestByQ(node *tree.VanillaStateNode[A]) (int, error) {
	if len(node.Children) == 0 {
		return 0, perr.New(perr.ModelViolation, "root has no action children after search")
	}
	best, bestQ := 0, float32(math32.Inf(-1))
	for i, c := range node.Children {
		if c.Q > bestQ {
			bestQ = c.Q
			best = i
		}
	}
	return best, nil
}
