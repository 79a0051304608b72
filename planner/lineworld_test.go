package planner

import (
	"math/rand"

	"github.com/gomdp/planner/mdp"
)

// lineWorld is a small deterministic MDP shared by this package's tests: an
// integer position on [0, maxPos], actions "L" (move left, clamped at 0,
// reward 0) and "R" (move right, reward 1 per step); terminal at maxPos.
// Grounded on the teacher's grid-world end-to-end test boards
// (internal/searchers/mcts/mcts_test.go builds a small fixed board by hand);
// here the "board" is a 1-D line since the engine under test no longer knows
// about Hive pieces.
type lineWorld struct {
	maxPos int
	gamma  float32
}

var _ mdp.Model[int, string] = (*lineWorld)(nil)

func (w *lineWorld) Actions(s int) ([]string, error) {
	return []string{"L", "R"}, nil
}

func (w *lineWorld) GenerateSR(s int, a string, rng *rand.Rand) (int, float32, error) {
	switch a {
	case "R":
		next := s + 1
		if next > w.maxPos {
			next = w.maxPos
		}
		return next, 1, nil
	default: // "L"
		next := s - 1
		if next < 0 {
			next = 0
		}
		return next, 0, nil
	}
}

func (w *lineWorld) Discount() float32 { return w.gamma }
func (w *lineWorld) IsTerminal(s int) bool { return s >= w.maxPos }

// oneStepWin is the S5 scenario MDP: every action from state 0 leads directly
// to a terminal state with reward 1.
type oneStepWin struct {
	actions []string
}

var _ mdp.Model[int, string] = (*oneStepWin)(nil)

func (w *oneStepWin) Actions(s int) ([]string, error) { return w.actions, nil }
func (w *oneStepWin) GenerateSR(s int, a string, rng *rand.Rand) (int, float32, error) {
	return 1, 1, nil
}
func (w *oneStepWin) Discount() float32    { return 1.0 }
func (w *oneStepWin) IsTerminal(s int) bool { return s == 1 }
