package estimate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// chainModel is a deterministic line world 0 -> 1 -> 2 -> ... -> terminal,
// with action "fwd" always yielding reward 1 and gamma as configured.
type chainModel struct {
	gamma    float32
	terminal int
}

func (m *chainModel) Actions(s int) ([]string, error) { return []string{"fwd"}, nil }
func (m *chainModel) GenerateSR(s int, a string, rng *rand.Rand) (int, float32, error) {
	return s + 1, 1.0, nil
}
func (m *chainModel) Discount() float32    { return m.gamma }
func (m *chainModel) IsTerminal(s int) bool { return s >= m.terminal }

func TestConstantEstimator(t *testing.T) {
	c := Constant[int]{Hook: func(s int, d int) (float32, error) { return 3.5, nil }}
	v, err := c.Estimate(5, 10)
	require.NoError(t, err)
	require.Equal(t, float32(3.5), v)
}

func TestRolloutEstimatorUndiscounted(t *testing.T) {
	m := &chainModel{gamma: 1.0, terminal: 100}
	r := Rollout[int, string]{
		Model:  m,
		Policy: PolicyFunc[int, string](func(s int) string { return "fwd" }),
		RNG:    rand.New(rand.NewSource(1)),
	}
	v, err := r.Estimate(0, 4)
	require.NoError(t, err)
	require.Equal(t, float32(4), v) // 4 steps, reward 1 each, gamma=1
}

func TestRolloutEstimatorStopsAtTerminal(t *testing.T) {
	m := &chainModel{gamma: 1.0, terminal: 2}
	r := Rollout[int, string]{
		Model:  m,
		Policy: PolicyFunc[int, string](func(s int) string { return "fwd" }),
		RNG:    rand.New(rand.NewSource(1)),
	}
	v, err := r.Estimate(0, 10)
	require.NoError(t, err)
	require.Equal(t, float32(2), v) // only 2 steps until terminal at s=2
}

func TestRolloutEstimatorDiscounted(t *testing.T) {
	m := &chainModel{gamma: 0.5, terminal: 100}
	r := Rollout[int, string]{
		Model:  m,
		Policy: PolicyFunc[int, string](func(s int) string { return "fwd" }),
		RNG:    rand.New(rand.NewSource(1)),
	}
	v, err := r.Estimate(0, 3)
	require.NoError(t, err)
	require.InDelta(t, float32(1+0.5+0.25), v, 1e-6)
}

type objPolicy struct{ calls int }

func (p *objPolicy) Act(s int) (string, error) {
	p.calls++
	return "fwd", nil
}

func TestPolicyObject(t *testing.T) {
	m := &chainModel{gamma: 1.0, terminal: 100}
	obj := &objPolicy{}
	r := Rollout[int, string]{
		Model:  m,
		Policy: PolicyObject[int, string](obj),
		RNG:    rand.New(rand.NewSource(1)),
	}
	v, err := r.Estimate(0, 2)
	require.NoError(t, err)
	require.Equal(t, float32(2), v)
	require.Equal(t, 2, obj.calls)
}

type notAPolicy struct{}

func TestPolicyObjectMisuse(t *testing.T) {
	m := &chainModel{gamma: 1.0, terminal: 100}
	r := Rollout[int, string]{
		Model:  m,
		Policy: PolicyObject[int, string](notAPolicy{}),
		RNG:    rand.New(rand.NewSource(1)),
	}
	_, err := r.Estimate(0, 2)
	require.Error(t, err)
}
