package generics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	in := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for range 50 {
		seen[SampleUniform(in, rng)] = true
	}
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
	assert.True(t, seen["c"])
}

func TestIndexOfZero(t *testing.T) {
	in := []int{1, 2, 0, 4}
	assert.Equal(t, 2, IndexOfZero(in, func(e int) bool { return e == 0 }))
	assert.Equal(t, -1, IndexOfZero([]int{1, 2}, func(e int) bool { return e == 0 }))
}
