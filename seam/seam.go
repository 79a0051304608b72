// Package seam implements the four domain-knowledge hooks from spec section 4.2:
// init_N, init_Q, estimate_value, next_action. Each admits three concrete
// forms -- a constant, a pure function of (s, ...), or an opaque object
// with a named operation -- collapsed to a single dispatch boundary per seam
// (a plain Go function value), per the design note in spec section 9: "a
// single capability interface with variants... one dispatch boundary per
// seam". Object-form dispatch is a type assertion performed lazily inside the
// returned hook, so a missing operation surfaces as a perr.SeamMisuse error on
// first dispatch, exactly as spec section 7 requires, not at construction.
package seam

import "github.com/gomdp/planner/internal/perr"

// InitNHook returns the initial visit count for a new state-action edge.
type InitNHook[S, A comparable] func(s S, a A) (int, error)

// InitNConst always returns n regardless of (s, a).
func InitNConst[S, A comparable](n int) InitNHook[S, A] {
	return func(S, A) (int, error) { return n, nil }
}

// InitNFunc wraps a pure function of (s, a).
func InitNFunc[S, A comparable](f func(s S, a A) int) InitNHook[S, A] {
	return func(s S, a A) (int, error) { return f(s, a), nil }
}

// InitNObjectOp is the named operation an object-form init_N seam must implement.
type InitNObjectOp[S, A comparable] interface {
	InitN(s S, a A) (int, error)
}

// InitNObject dispatches to obj.InitN(s, a), type-asserting lazily so a
// non-conforming obj fails on first dispatch rather than at construction.
func InitNObject[S, A comparable](obj any) InitNHook[S, A] {
	return func(s S, a A) (int, error) {
		op, ok := obj.(InitNObjectOp[S, A])
		if !ok {
			return 0, perr.New(perr.SeamMisuse, "init_N object %T does not implement InitN(s, a) (int, error)", obj)
		}
		return op.InitN(s, a)
	}
}

// InitQHook returns the initial Q estimate for a new state-action edge.
type InitQHook[S, A comparable] func(s S, a A) (float32, error)

// InitQConst always returns q regardless of (s, a).
func InitQConst[S, A comparable](q float32) InitQHook[S, A] {
	return func(S, A) (float32, error) { return q, nil }
}

// InitQFunc wraps a pure function of (s, a).
func InitQFunc[S, A comparable](f func(s S, a A) float32) InitQHook[S, A] {
	return func(s S, a A) (float32, error) { return f(s, a), nil }
}

// InitQObjectOp is the named operation an object-form init_Q seam must implement.
type InitQObjectOp[S, A comparable] interface {
	InitQ(s S, a A) (float32, error)
}

// InitQObject dispatches to obj.InitQ(s, a).
func InitQObject[S, A comparable](obj any) InitQHook[S, A] {
	return func(s S, a A) (float32, error) {
		op, ok := obj.(InitQObjectOp[S, A])
		if !ok {
			return 0, perr.New(perr.SeamMisuse, "init_Q object %T does not implement InitQ(s, a) (float32, error)", obj)
		}
		return op.InitQ(s, a)
	}
}

// EstimateValueHook returns the leaf value at a freshly-inserted state s with
// remaining depth d.
type EstimateValueHook[S comparable] func(s S, depth int) (float32, error)

// EstimateValueConst always returns v regardless of (s, depth).
func EstimateValueConst[S comparable](v float32) EstimateValueHook[S] {
	return func(S, int) (float32, error) { return v, nil }
}

// EstimateValueFunc wraps a pure function of (s, depth).
func EstimateValueFunc[S comparable](f func(s S, depth int) float32) EstimateValueHook[S] {
	return func(s S, depth int) (float32, error) { return f(s, depth), nil }
}

// EstimateValueObjectOp is the named operation an object-form estimate_value seam must implement.
type EstimateValueObjectOp[S comparable] interface {
	EstimateValue(s S, depth int) (float32, error)
}

// EstimateValueObject dispatches to obj.EstimateValue(s, depth).
func EstimateValueObject[S comparable](obj any) EstimateValueHook[S] {
	return func(s S, depth int) (float32, error) {
		op, ok := obj.(EstimateValueObjectOp[S])
		if !ok {
			return 0, perr.New(perr.SeamMisuse, "estimate_value object %T does not implement EstimateValue(s, depth) (float32, error)", obj)
		}
		return op.EstimateValue(s, depth)
	}
}

// ActionSnapshot is the narrow read-only view of a DPW state-node's current
// action children that next_action is allowed to see (spec section 4.3): just
// enough to check whether a proposed action is already present.
type ActionSnapshot[A comparable] interface {
	// Actions returns the current action children, in insertion order.
	Actions() []A
}

// NextActionHook proposes a new action to add under DPW widening.
type NextActionHook[S, A comparable] func(s S, snode ActionSnapshot[A]) (A, error)

// NextActionFunc wraps a pure(-ish) function of (s, snode); the function may
// itself be stateful (e.g. close over an RNG), per spec section 4.2: "The
// engine must not assume purity".
func NextActionFunc[S, A comparable](f func(s S, snode ActionSnapshot[A]) A) NextActionHook[S, A] {
	return func(s S, snode ActionSnapshot[A]) (A, error) { return f(s, snode), nil }
}

// NextActionObjectOp is the named operation an object-form next_action seam must implement.
type NextActionObjectOp[S, A comparable] interface {
	NextAction(s S, snode ActionSnapshot[A]) (A, error)
}

// NextActionObject dispatches to obj.NextAction(s, snode).
func NextActionObject[S, A comparable](obj any) NextActionHook[S, A] {
	return func(s S, snode ActionSnapshot[A]) (A, error) {
		op, ok := obj.(NextActionObjectOp[S, A])
		if !ok {
			return *new(A), perr.New(perr.SeamMisuse, "next_action object %T does not implement NextAction(s, snode) (A, error)", obj)
		}
		return op.NextAction(s, snode)
	}
}
