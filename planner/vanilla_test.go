package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomdp/planner/seam"
)

// S1 (vanilla, constant init): after n_iterations=3 at depth=4, any action
// never visited keeps n=init_N, q=init_Q; any visited action has
// n >= init_N+1 (its q, which blends init_Q as init_N prior visits with the
// backups, is not checked here).
func TestVanilla_S1_ConstantInit(t *testing.T) {
	w := &lineWorld{maxPos: 5, gamma: 1.0}
	v, err := NewVanilla[int, string](w,
		WithIterations[int, string](3),
		WithDepth[int, string](4),
		WithInitN[int, string](seam.InitNConst[int, string](3)),
		WithInitQ[int, string](seam.InitQConst[int, string](11.73)),
		WithRNG[int, string](rand.New(rand.NewSource(7))),
	)
	require.NoError(t, err)

	_, err = v.Action(0)
	require.NoError(t, err)

	children, totalN, ok := v.Children(0)
	require.True(t, ok)
	require.Len(t, children, 2)
	require.GreaterOrEqual(t, totalN, 6)

	for _, c := range children {
		if c.N == 3 {
			require.Equal(t, float32(11.73), c.Q)
		} else {
			require.GreaterOrEqual(t, c.N, 4)
		}
	}
}

// S5 (terminal cutoff): one iteration, root edge taken has n=1 q=1, others n=0 q=init_Q.
func TestVanilla_S5_TerminalCutoff(t *testing.T) {
	w := &oneStepWin{actions: []string{"a", "b", "c"}}
	v, err := NewVanilla[int, string](w,
		WithIterations[int, string](1),
		WithDepth[int, string](5),
		WithInitQ[int, string](seam.InitQConst[int, string](-1)),
		WithRNG[int, string](rand.New(rand.NewSource(3))),
	)
	require.NoError(t, err)

	_, err = v.Action(0)
	require.NoError(t, err)

	children, totalN, ok := v.Children(0)
	require.True(t, ok)
	require.Equal(t, 1, totalN)

	visited := 0
	for _, c := range children {
		if c.N == 1 {
			visited++
			require.Equal(t, float32(1), c.Q)
		} else {
			require.Equal(t, 0, c.N)
			require.Equal(t, float32(-1), c.Q)
		}
	}
	require.Equal(t, 1, visited)
}

// S6 (clear_tree): after ClearTree, root lookup misses; a fresh solver with
// the same seed/config produces the same chosen action and root children.
func TestVanilla_S6_ClearTreeReproducibility(t *testing.T) {
	newSolver := func() *Vanilla[int, string] {
		w := &lineWorld{maxPos: 6, gamma: 0.9}
		v, err := NewVanilla[int, string](w,
			WithIterations[int, string](25),
			WithDepth[int, string](6),
			WithExplorationConstant[int, string](1.2),
			WithRNG[int, string](rand.New(rand.NewSource(42))),
		)
		require.NoError(t, err)
		return v
	}

	v1 := newSolver()
	action1, err := v1.Action(0)
	require.NoError(t, err)
	children1, totalN1, _ := v1.Children(0)

	v1.ClearTree()
	_, _, ok := v1.Children(0)
	require.False(t, ok)

	v2 := newSolver()
	action2, err := v2.Action(0)
	require.NoError(t, err)
	children2, totalN2, _ := v2.Children(0)

	require.Equal(t, action1, action2)
	require.Equal(t, totalN1, totalN2)
	require.Equal(t, children1, children2)
}

// Reproducibility (quantitative law 6): two independently constructed
// solvers with the same seed/model/config produce identical root Q values and
// identical chosen actions.
func TestVanilla_Reproducibility(t *testing.T) {
	build := func() (string, []float32) {
		w := &lineWorld{maxPos: 8, gamma: 0.95}
		v, err := NewVanilla[int, string](w,
			WithIterations[int, string](50),
			WithDepth[int, string](8),
			WithRNG[int, string](rand.New(rand.NewSource(99))),
		)
		require.NoError(t, err)
		a, err := v.Action(0)
		require.NoError(t, err)
		children, _, _ := v.Children(0)
		qs := make([]float32, len(children))
		for i, c := range children {
			qs[i] = c.Q
		}
		return a, qs
	}
	a1, qs1 := build()
	a2, qs2 := build()
	require.Equal(t, a1, a2)
	require.Equal(t, qs1, qs2)
}

// Discount correctness (quantitative law 9): for gamma=0, backed-up Q on a
// root edge equals the mean immediate reward observed through that edge.
func TestVanilla_DiscountZero_QIsMeanImmediateReward(t *testing.T) {
	w := &lineWorld{maxPos: 5, gamma: 0}
	v, err := NewVanilla[int, string](w,
		WithIterations[int, string](20),
		WithDepth[int, string](3),
		WithRNG[int, string](rand.New(rand.NewSource(5))),
	)
	require.NoError(t, err)
	_, err = v.Action(0)
	require.NoError(t, err)

	children, _, _ := v.Children(0)
	for _, c := range children {
		if c.N == 0 {
			continue
		}
		if c.Action == "R" {
			require.Equal(t, float32(1), c.Q) // immediate reward of R is always 1, gamma=0 drops the future term
		} else {
			require.Equal(t, float32(0), c.Q)
		}
	}
}

// Invariant 5 / config errors.
func TestVanilla_InvalidConfig(t *testing.T) {
	w := &lineWorld{maxPos: 5, gamma: 1}
	_, err := NewVanilla[int, string](w, WithIterations[int, string](0))
	require.Error(t, err)
	_, err = NewVanilla[int, string](w, WithDepth[int, string](-1))
	require.Error(t, err)
	_, err = NewVanilla[int, string](w, WithExplorationConstant[int, string](-0.1))
	require.Error(t, err)
}

// A root state that is already terminal has no action children; Action must
// report a ModelViolation instead of indexing into the empty children slice.
func TestVanilla_TerminalRootStateReturnsError(t *testing.T) {
	w := &lineWorld{maxPos: 0, gamma: 1} // state 0 is terminal (>= maxPos)
	v, err := NewVanilla[int, string](w, WithIterations[int, string](5))
	require.NoError(t, err)

	_, err = v.Action(0)
	require.Error(t, err)
}

// A Model reporting a discount outside [0, 1] must fail the planning call
// rather than silently corrupting backups.
func TestVanilla_InvalidDiscountFailsAction(t *testing.T) {
	w := &lineWorld{maxPos: 5, gamma: 1.5}
	v, err := NewVanilla[int, string](w, WithIterations[int, string](5))
	require.NoError(t, err)

	_, err = v.Action(0)
	require.Error(t, err)
}
