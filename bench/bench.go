// Package bench runs independent planning calls concurrently. It is not part
// of the core engine: spec section 5 documents, as an external concern, that
// an embedder may drive multiple independent policies in parallel, one tree
// per thread, and explicitly leaves multi-threaded search *within* one call
// out of scope. This package covers exactly the documented case -- N fully
// independent Action calls, each owning its own tree and RNG -- grounded on
// the teacher's cmd/a0trainer/matches.go and cmd/trainer/play_and_train.go,
// which both play many independent match episodes concurrently with
// golang.org/x/sync/errgroup and a parallelism cap from runtime.GOMAXPROCS.
package bench

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Policy is the narrow capability RunIndependent needs from a solver: pick
// one action for a state. Both *planner.Vanilla[S,A] and *planner.DPW[S,A]
// satisfy this.
type Policy[S, A comparable] interface {
	Action(s S) (A, error)
}

// Task bundles one independent planning call: a freshly-built policy (its
// own tree, its own RNG) paired with the state to plan from. Make fresh
// Policy values per task -- RunIndependent never shares a tree or RNG across
// goroutines.
type Task[S, A comparable] struct {
	Policy Policy[S, A]
	State  S
}

// Result is the outcome of one Task, in the same order as the input slice.
type Result[A any] struct {
	Action A
	Err    error
}

// Parallelism caps how many tasks run at once; zero or negative means
// GOMAXPROCS, matching the teacher's getParallelism default.
var Parallelism int

// RunIndependent runs every task's Action call concurrently, capped at
// Parallelism (or GOMAXPROCS if unset), and returns one Result per task in
// input order. A single task's error is reported in its own Result and does
// not cancel the others -- each task is fully independent, per spec section
// 5's single-thread-per-call model.
func RunIndependent[S, A comparable](tasks []Task[S, A]) []Result[A] {
	results := make([]Result[A], len(tasks))

	limit := Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			a, err := task.Policy.Action(task.State)
			results[i] = Result[A]{Action: a, Err: err}
			return nil
		})
	}
	_ = g.Wait() // per-task errors are captured in results, never fatal to the batch

	return results
}
