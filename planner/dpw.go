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

// DPW is the Double Progressive Widening solver for large/continuous state
// and action spaces (spec section 4.3). Construct with NewDPW, then call
// Action repeatedly.
type DPW[S, A comparable] struct {
	model mdp.Model[S, A]
	tr    *tree.DPW[S, A]
	rng   *rand.Rand

	nIterations int
	depth       int
	c           float32

	kAction, alphaAction float32
	kState, alphaState   float32
	enableActionPW       bool

	initN      seam.InitNHook[S, A]
	initQ      seam.InitQHook[S, A]
	estimator  estimate.Estimator[S]
	nextAction seam.NextActionHook[S, A]

	resetCallback func(s S)
	keepTree      bool
}

// DPWOption configures a DPW solver at construction time.
type DPWOption[S, A comparable] func(*DPW[S, A])

func WithDPWIterations[S, A comparable](n int) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.nIterations = n }
}

func WithDPWDepth[S, A comparable](depth int) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.depth = depth }
}

func WithDPWExplorationConstant[S, A comparable](c float32) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.c = c }
}

func WithDPWRNG[S, A comparable](rng *rand.Rand) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.rng = rng }
}

func WithDPWInitN[S, A comparable](h seam.InitNHook[S, A]) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.initN = h }
}

func WithDPWInitQ[S, A comparable](h seam.InitQHook[S, A]) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.initQ = h }
}

func WithDPWEstimator[S, A comparable](e estimate.Estimator[S]) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.estimator = e }
}

// WithNextAction sets the next_action seam, required when action
// progressive widening is enabled.
func WithNextAction[S, A comparable](h seam.NextActionHook[S, A]) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.nextAction = h }
}

// WithActionWidening enables/disables action progressive widening (default
// true). When false, the full action set is enumerated once at node
// creation and never widened (spec section 4.3).
func WithActionWidening[S, A comparable](enable bool) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.enableActionPW = enable }
}

// WithActionWideningParams sets k_action and alpha_action.
func WithActionWideningParams[S, A comparable](k, alpha float32) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.kAction, d.alphaAction = k, alpha }
}

// WithStateWideningParams sets k_state and alpha_state.
func WithStateWideningParams[S, A comparable](k, alpha float32) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.kState, d.alphaState = k, alpha }
}

func WithDPWResetCallback[S, A comparable](f func(s S)) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.resetCallback = f }
}

func WithDPWKeepTree[S, A comparable](keep bool) DPWOption[S, A] {
	return func(d *DPW[S, A]) { d.keepTree = keep }
}

// NewDPW constructs a DPW solver, validating configuration per spec section 7.
func NewDPW[S, A comparable](model mdp.Model[S, A], opts ...DPWOption[S, A]) (*DPW[S, A], error) {
	d := &DPW[S, A]{
		model:          model,
		tr:             tree.NewDPW[S, A](),
		rng:            rand.New(rand.NewSource(1)),
		nIterations:    100,
		depth:          20,
		c:              1.0,
		kAction:        2,
		alphaAction:    0.5,
		kState:         2,
		alphaState:     0.5,
		enableActionPW: true,
		initN:          seam.InitNConst[S, A](0),
		initQ:          seam.InitQConst[S, A](0),
		estimator:      estimate.Constant[S]{Hook: seam.EstimateValueConst[S](0)},
		keepTree:       true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DPW[S, A]) validate() error {
	if d.nIterations <= 0 {
		return perr.New(perr.InvalidConfig, "n_iterations must be > 0, got %d", d.nIterations)
	}
	if d.depth <= 0 {
		return perr.New(perr.InvalidConfig, "depth must be > 0, got %d", d.depth)
	}
	if d.c < 0 {
		return perr.New(perr.InvalidConfig, "exploration_constant must be >= 0, got %g", d.c)
	}
	if d.enableActionPW {
		if d.kAction <= 0 {
			return perr.New(perr.InvalidConfig, "k_action must be > 0, got %g", d.kAction)
		}
		if d.alphaAction <= 0 {
			return perr.New(perr.InvalidConfig, "alpha_action must be > 0, got %g", d.alphaAction)
		}
		if d.nextAction == nil {
			return perr.New(perr.UnsupportedCombination, "enable_action_pw=true requires a next_action seam")
		}
	}
	if d.kState <= 0 {
		return perr.New(perr.InvalidConfig, "k_state must be > 0, got %g", d.kState)
	}
	if d.alphaState <= 0 {
		return perr.New(perr.InvalidConfig, "alpha_state must be > 0, got %g", d.alphaState)
	}
	return nil
}

// ClearTree empties the retained tree.
func (d *DPW[S, A]) ClearTree() { d.tr.Clear() }

// Children returns the root's current action children and total_n, for
// inspection. ok is false if s was never visited.
func (d *DPW[S, A]) Children(s S) (actions []A, get func(A) (*tree.DPWStateActionNode[S], bool), totalN int, ok bool) {
	idx, found := d.tr.Lookup(s)
	if !found {
		return nil, nil, 0, false
	}
	node := d.tr.Node(idx)
	return node.Actions(), node.ActionChild, node.TotalN, true
}

// Action runs n_iterations simulations rooted at s and returns the arg-max
// action by accumulated Q among the root's (possibly widened) children.
func (d *DPW[S, A]) Action(s S) (A, error) {
	var zero A
	if err := mdp.CheckDiscount(d.model.Discount()); err != nil {
		return zero, err
	}
	if d.resetCallback != nil {
		d.resetCallback(s)
	}
	if !d.keepTree {
		d.tr.Clear()
	}

	idx, ok := d.tr.Lookup(s)
	if !ok {
		var err error
		idx, err = d.insertRoot(s)
		if err != nil {
			return zero, err
		}
	}

	for i := 0; i < d.nIterations; i++ {
		if _, err := d.simulate(s, d.depth); err != nil {
			return zero, err
		}
	}

	node := d.tr.Node(idx)
	best, err := d.bestByQ(node)
	if err != nil {
		return zero, err
	}
	klog.V(2).Infof("planner/dpw: root has %d action children, total_n=%d, chosen action=%v", node.NumActionChildren(), node.TotalN, best)
	return best, nil
}

func (d *DPW[S, A]) insertRoot(s S) (int, error) {
	idx := d.tr.Insert(s)
	if d.model.IsTerminal(s) {
		return idx, nil
	}
	if !d.enableActionPW {
		if err := d.enumerateAllActions(idx, s); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

func (d *DPW[S, A]) enumerateAllActions(idx int, s S) error {
	actions, err := d.model.Actions(s)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		return perr.New(perr.ModelViolation, "actions(mdp, s) is empty at non-terminal state %v", s)
	}
	for _, a := range actions {
		n, err := d.initN(s, a)
		if err != nil {
			return err
		}
		q, err := d.initQ(s, a)
		if err != nil {
			return err
		}
		d.tr.AddActionChild(idx, a, n, q)
	}
	return nil
}

// simulate implements one recursive simulate(s, depth) call under DPW UCB
// with progressive widening (spec sections 4.1, 4.3).
func (d *DPW[S, A]) simulate(s S, depth int) (float32, error) {
	if depth == 0 || d.model.IsTerminal(s) {
		return 0, nil
	}

	idx, ok := d.tr.Lookup(s)
	if !ok {
		var err error
		idx, err = d.insertRoot(s) // leaf: create the state-node (step 2)
		if err != nil {
			return 0, err
		}
		return d.estimator.Estimate(s, depth)
	}

	node := d.tr.Node(idx)
	if d.enableActionPW {
		if err := d.widenActions(idx, s, node); err != nil {
			return 0, err
		}
	}

	bestAction, err := d.selectUCB(node)
	if err != nil {
		return 0, err
	}
	child, _ := node.ActionChild(bestAction)

	next, reward, err := d.sampleSuccessor(s, bestAction, child)
	if err != nil {
		return 0, err
	}

	future, err := d.simulate(next, depth-1)
	if err != nil {
		return 0, err
	}
	target := reward + d.model.Discount()*future
	d.tr.Backup(idx, child, target)
	return target, nil
}

// widenActions implements spec section 4.3's action widening: allowed count
// is ceil(k_action * N^alpha_action), evaluated with N>=1 so the first visit
// (N=0) still allows ceil(k_action) >= 1 action.
func (d *DPW[S, A]) widenActions(idx int, s S, node *tree.DPWStateNode[S, A]) error {
	n := node.TotalN
	if n < 1 {
		n = 1
	}
	allowed := int(math32.Ceil(d.kAction * math32.Pow(float32(n), d.alphaAction)))
	if node.NumActionChildren() >= allowed {
		return nil
	}
	proposed, err := d.nextAction(s, node)
	if err != nil {
		return err
	}
	if _, exists := node.ActionChild(proposed); exists {
		return nil // controlled stochastic proposer re-proposed an existing action: no-op.
	}
	n0, err := d.initN(s, proposed)
	if err != nil {
		return err
	}
	q0, err := d.initQ(s, proposed)
	if err != nil {
		return err
	}
	d.tr.AddActionChild(idx, proposed, n0, q0)
	return nil
}

// sampleSuccessor implements spec section 4.3's state widening: sample a
// fresh (s', r) while under the allowed successor count, else reuse by
// sampling uniformly from the observed transitions (which naturally weights
// by observation frequency).
//
// The allowed count also evaluates n(s,a*) with a floor of 1, symmetric with
// widenActions's N>=1 convention, so the very first visit to a freshly
// created action edge (n=0) still allows at least one fresh sample instead
// of deadlocking against an empty transitions multiset.
func (d *DPW[S, A]) sampleSuccessor(s S, a A, child *tree.DPWStateActionNode[S]) (S, float32, error) {
	n := child.N
	if n < 1 {
		n = 1
	}
	allowed := int(math32.Ceil(d.kState * math32.Pow(float32(n), d.alphaState)))
	if child.NChildren() < allowed {
		next, reward, err := d.model.GenerateSR(s, a, d.rng)
		if err != nil {
			var zero S
			return zero, 0, err
		}
		if err := mdp.CheckReward(reward); err != nil {
			var zero S
			return zero, 0, err
		}
		d.tr.AddTransition(child, next, reward)
		return next, reward, nil
	}
	tr := generics.SampleUniform(child.Transitions, d.rng)
	return tr.Next, tr.Reward, nil
}

// selectUCB implements spec section 4.3's DPW rule over the node's current
// action children: any unvisited child first, else the arg-max of
// Q + c*sqrt(ln(total_n)/n), ties by insertion order.
func (d *DPW[S, A]) selectUCB(node *tree.DPWStateNode[S, A]) (A, error) {
	actions := node.Actions()
	if len(actions) == 0 {
		var zero A
		return zero, perr.New(perr.ModelViolation, "DPW state node has no action children to select from")
	}
	for _, a := range actions {
		child, _ := node.ActionChild(a)
		if child.N == 0 {
			return a, nil
		}
	}
	n := node.TotalN
	if n < 1 {
		n = 1
	}
	lnN := math32.Log(float32(n))
	var best A
	bestVal := float32(math32.Inf(-1))
	found := false
	for _, a := range actions {
		child, _ := node.ActionChild(a)
		ucb := child.Q + d.c*math32.Sqrt(lnN/float32(child.N))
		if !found || ucb > bestVal {
			bestVal = ucb
			best = a
			found = true
		}
	}
	if !found {
		exceptions.Panicf("planner/dpw: UCB selection found no candidate among %d action children", len(actions))
	}
	return best, nil
}

// bestByQ returns the arg-max action over node's children by Q, ties by insertion order.
func (d *DPW[S, A]) bestByQ(node *tree.DPWStateNode[S, A]) (A, error) {
	actions := node.Actions()
	if len(actions) == 0 {
		var zero A
		return zero, perr.New(perr.ModelViolation, "root has no action children after search")
	}
	best := actions[0]
	bestQ := float32(math32.Inf(-1))
	for _, a := range actions {
		child, _ := node.ActionChild(a)
		if child.Q > bestQ {
			bestQ = child.Q
			best = a
		}
	}
	return best, nil
}
