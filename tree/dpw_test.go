package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDPWWideningAndBackup(t *testing.T) {
	dt := NewDPW[string, string]()
	idx := dt.Insert("s0")
	_, ok := dt.Lookup("s0")
	require.True(t, ok)

	child, created := dt.AddActionChild(idx, "up", 0, 11.73)
	require.True(t, created)
	require.Equal(t, float32(11.73), child.Q)

	// Re-adding the same action is a no-op (spec section 4.3).
	same, created2 := dt.AddActionChild(idx, "up", 99, -5)
	require.False(t, created2)
	require.Same(t, child, same)
	require.Equal(t, float32(11.73), same.Q)

	isNew := dt.AddTransition(child, "s1", 1.0)
	require.True(t, isNew)
	require.Equal(t, 1, child.NChildren())
	require.Equal(t, 1, child.CountOf("s1"))

	isNew = dt.AddTransition(child, "s1", 1.0)
	require.False(t, isNew)
	require.Equal(t, 1, child.NChildren())
	require.Equal(t, 2, child.CountOf("s1"))
	require.Len(t, child.Transitions, 2)

	dt.Backup(idx, child, 2.0)
	require.Equal(t, 1, child.N)
	require.Equal(t, float32(2.0), child.Q)
	require.Equal(t, 1, dt.Node(idx).TotalN)

	// Successor counts follow AddTransition calls, not Backup: the two samples
	// of s1 above give a count of 2 while the single Backup gives N == 1.
	sumCounts := 0
	for _, tr := range child.Transitions {
		_ = tr
	}
	sumCounts = child.CountOf("s1")
	require.Equal(t, 2, sumCounts)
}

func TestDPWActionSnapshotInsertionOrder(t *testing.T) {
	dt := NewDPW[string, string]()
	idx := dt.Insert("s0")
	dt.AddActionChild(idx, "b", 0, 0)
	dt.AddActionChild(idx, "a", 0, 0)
	node := dt.Node(idx)
	require.Equal(t, []string{"b", "a"}, node.Actions())
}

func TestDPWClear(t *testing.T) {
	dt := NewDPW[string, string]()
	dt.Insert("s0")
	require.Equal(t, 1, dt.Len())
	dt.Clear()
	require.Equal(t, 0, dt.Len())
}
