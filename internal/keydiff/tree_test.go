package keydiff_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	ikd "github.com/wharfdale/keydiff/internal/keydiff"
)

func TestOrderStatTreeEmpty(t *testing.T) {
	var tree ikd.OrderStatTree

	require.True(t, tree.Empty())
	require.Equal(t, 0, tree.Sum())
	require.Equal(t, 0, tree.Height())
	require.Equal(t, 0, tree.Min())
	require.Equal(t, 0, tree.Max())
	require.Equal(t, 0, tree.CountLessThan(100))
	require.NoError(t, ikd.Validate(tree.Root()))
}

func TestOrderStatTreeInsertRemove(t *testing.T) {
	var tree ikd.OrderStatTree

	for _, key := range []int{5, 3, 8, 1, 4, 7, 9, 2, 6} {
		tree.Insert(key, 1)
		require.NoError(t, ikd.Validate(tree.Root()))
	}

	require.False(t, tree.Empty())
	require.Equal(t, 1, tree.Min())
	require.Equal(t, 9, tree.Max())
	require.Equal(t, 9, tree.Sum())

	// CountLessThan(k) counts every inserted key strictly below k.
	require.Equal(t, 0, tree.CountLessThan(1))
	require.Equal(t, 4, tree.CountLessThan(5))
	require.Equal(t, 9, tree.CountLessThan(10))

	for _, key := range []int{3, 1, 9} {
		tree.Remove(key)
		require.NoError(t, ikd.Validate(tree.Root()))
	}

	require.Equal(t, 6, tree.Sum())
	require.Equal(t, 2, tree.Min())
	require.Equal(t, 8, tree.Max())
}

func TestOrderStatTreeDuplicateKeyAddsWeight(t *testing.T) {
	var tree ikd.OrderStatTree

	tree.Insert(4, 2)
	tree.Insert(4, 3)

	require.Equal(t, 5, tree.Sum())
	require.Equal(t, 4, tree.Min())
	require.Equal(t, 4, tree.Max())
	require.NoError(t, ikd.Validate(tree.Root()))
}

func TestOrderStatTreeCountLessThanWeighted(t *testing.T) {
	var tree ikd.OrderStatTree

	tree.Insert(10, 3)
	tree.Insert(20, 5)
	tree.Insert(30, 2)

	require.Equal(t, 0, tree.CountLessThan(10))
	require.Equal(t, 3, tree.CountLessThan(20))
	require.Equal(t, 8, tree.CountLessThan(30))
	require.Equal(t, 10, tree.CountLessThan(31))
}

// TestOrderStatTreeRandomizedInvariants drives a long random sequence of
// inserts and removes and checks the AVL and subtree-sum invariants hold
// after every mutation, plus that CountLessThan agrees with a brute-force
// scan of whatever is currently in the tree.
func TestOrderStatTreeRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	var tree ikd.OrderStatTree
	present := map[int]int{}

	for i := 0; i < 2000; i++ {
		key := rng.Intn(200)

		if _, ok := present[key]; ok && rng.Intn(2) == 0 {
			tree.Remove(key)
			delete(present, key)
		} else {
			weight := rng.Intn(5) + 1
			tree.Insert(key, weight)
			present[key] += weight
		}

		require.NoError(t, ikd.Validate(tree.Root()))

		total := 0
		for _, w := range present {
			total += w
		}
		require.Equal(t, total, tree.Sum())

		probe := rng.Intn(220)
		want := 0
		for k, w := range present {
			if k < probe {
				want += w
			}
		}
		require.Equal(t, want, tree.CountLessThan(probe), "probe=%d", probe)
	}
}
