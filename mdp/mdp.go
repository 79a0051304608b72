// Package mdp defines the external collaborator boundary the search engine
// consumes: a generative Markov Decision Process model (spec section 6).
//
// The model itself -- state/action spaces, transitions, reward, terminality --
// is explicitly out of scope for this module (spec section 1); Model is the
// narrow interface the planner is written against. The module ships no
// concrete implementation; each test package defines the small models it uses.
package mdp

import (
	"math"
	"math/rand"

	"github.com/gomdp/planner/internal/perr"
)

// Model is the generative MDP contract the planner consumes.
//
// S and A need only comparable (equality + hashing as map keys); no ordering
// is assumed, per spec section 3.
type Model[S, A comparable] interface {
	// Actions enumerates the legal actions at s. Required for the vanilla
	// variant, and for DPW when EnableActionPW is false. May return an error
	// for non-finite/invalid states, but an empty slice at a non-terminal
	// state is a model contract violation the caller should surface via
	// perr.ModelViolation.
	Actions(s S) ([]A, error)

	// GenerateSR samples (s', r) ~ G(s, a, rng), threading the engine's RNG
	// explicitly (spec section 4.1 step 4, section 9 "no hidden global RNG").
	GenerateSR(s S, a A, rng *rand.Rand) (S, float32, error)

	// Discount returns gamma in [0, 1].
	Discount() float32

	// IsTerminal reports whether s has no further actions.
	IsTerminal(s S) bool
}

// CheckDiscount validates gamma is in [0, 1], returning a perr.ModelViolation
// error otherwise.
func CheckDiscount(gamma float32) error {
	if !(gamma >= 0 && gamma <= 1) {
		return perr.New(perr.ModelViolation, "discount %g outside [0, 1]", gamma)
	}
	return nil
}

// CheckReward validates r is finite, returning a perr.ModelViolation error
// otherwise (spec section 7: "generative model returns non-finite reward").
func CheckReward(r float32) error {
	if math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) {
		return perr.New(perr.ModelViolation, "generative model returned non-finite reward %v", r)
	}
	return nil
}
