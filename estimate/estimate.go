// Package estimate implements the value estimators of spec section 4.4: a
// trivial wrapper over the estimate_value seam, and a rollout estimator that
// simulates a supplied policy from the leaf for the remaining depth.
//
// Grounded on the teacher's searchers.ExecuteAndScoreActions /
// randomizedSearcher, which likewise drive a policy forward through the MDP
// and accumulate a discounted score using the shared RNG
// (internal/searchers/randomized.go), generalized from a two-player board
// game's alternating-sign score to a single-agent discounted return.
package estimate

import (
	"math/rand"

	"github.com/gomdp/planner/internal/perr"
	"github.com/gomdp/planner/mdp"
	"github.com/gomdp/planner/seam"
)

// Estimator produces a scalar value estimate at a freshly-expanded leaf s
// with remaining depth d (spec section 4).
type Estimator[S comparable] interface {
	Estimate(s S, depth int) (float32, error)
}

// Constant wraps the estimate_value seam directly; no MDP interaction.
type Constant[S comparable] struct {
	Hook seam.EstimateValueHook[S]
}

// Estimate implements Estimator.
func (c Constant[S]) Estimate(s S, depth int) (float32, error) {
	return c.Hook(s, depth)
}

// PolicyHook picks an action at s_t during rollout. It may be stateful (spec
// section 4.2: seams need not be pure).
type PolicyHook[S, A comparable] func(s S) (A, error)

// PolicyFunc wraps a pure function s -> a.
func PolicyFunc[S, A comparable](f func(s S) A) PolicyHook[S, A] {
	return func(s S) (A, error) { return f(s), nil }
}

// PolicyObjectOp is the named operation an object-form rollout policy (a
// "solver or a policy object", spec section 4.4) must implement.
type PolicyObjectOp[S, A comparable] interface {
	Act(s S) (A, error)
}

// PolicyObject dispatches to obj.Act(s), lazily type-asserted so a
// non-conforming obj fails on first dispatch (spec section 7: seam misuse).
func PolicyObject[S, A comparable](obj any) PolicyHook[S, A] {
	return func(s S) (A, error) {
		op, ok := obj.(PolicyObjectOp[S, A])
		if !ok {
			return *new(A), perr.New(perr.SeamMisuse, "rollout policy object %T does not implement Act(s) (A, error)", obj)
		}
		return op.Act(s)
	}
}

// Rollout implements the rollout estimator of spec section 4.4: simulate
// Policy from s for up to depth steps, returning the discounted return. It
// consumes the engine's RNG (RNG field) so a whole planning call remains
// reproducible from one seed (spec section 4.4's closing requirement).
type Rollout[S, A comparable] struct {
	Model  mdp.Model[S, A]
	Policy PolicyHook[S, A]
	RNG    *rand.Rand
}

// Estimate implements Estimator.
func (r Rollout[S, A]) Estimate(s S, depth int) (float32, error) {
	gamma := r.Model.Discount()
	var g float32
	gammaAcc := float32(1)
	st := s
	for t := 0; t < depth; t++ {
		if r.Model.IsTerminal(st) {
			break
		}
		at, err := r.Policy(st)
		if err != nil {
			return 0, err
		}
		next, reward, err := r.Model.GenerateSR(st, at, r.RNG)
		if err != nil {
			return 0, err
		}
		if err := mdp.CheckReward(reward); err != nil {
			return 0, err
		}
		g += gammaAcc * reward
		gammaAcc *= gamma
		st = next
	}
	return g, nil
}
