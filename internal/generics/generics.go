// Package generics implements the small generic helpers the tree and planner
// packages share.
package generics

import "math/rand"

// SampleUniform picks one element of in uniformly at random using rng.
//
// Used by DPW state-widening reuse (spec section 4.3): sampling uniformly from
// the ordered transitions sequence naturally reproduces the observation
// frequency of each distinct successor.
func SampleUniform[T any](in []T, rng *rand.Rand) T {
	return in[rng.Intn(len(in))]
}

// IndexOfZero returns the index of the first element for which isZero returns
// true, or -1 if none. Used by vanilla UCB selection to find an unvisited
// child deterministically by slice order (spec section 4.3).
func IndexOfZero[T any](in []T, isZero func(T) bool) int {
	for i, e := range in {
		if isZero(e) {
			return i
		}
	}
	return -1
}
