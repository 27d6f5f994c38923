package keydiff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	require.Equal(t, "Null", Null.String())
	require.Equal(t, "Insert", Insert.String())
	require.Equal(t, "Remove", Remove.String())
	require.Equal(t, "Move", Move.String())
	require.Equal(t, "Update", Update.String())
}

func TestAppendPatchMerges(t *testing.T) {
	type testCase struct {
		name string
		seed []Patch
		next Patch
		want []Patch
	}

	for _, tc := range []testCase{
		{
			name: "adjacent removes merge",
			seed: []Patch{{Kind: Remove, From: 2, To: 2, Count: 1}},
			next: Patch{Kind: Remove, From: 3, To: 3, Count: 1},
			want: []Patch{{Kind: Remove, From: 2, To: 3, Count: 2}},
		},
		{
			name: "non-adjacent removes do not merge",
			seed: []Patch{{Kind: Remove, From: 2, To: 2, Count: 1}},
			next: Patch{Kind: Remove, From: 5, To: 5, Count: 1},
			want: []Patch{
				{Kind: Remove, From: 2, To: 2, Count: 1},
				{Kind: Remove, From: 5, To: 5, Count: 1},
			},
		},
		{
			name: "inserts at the same point merge in order",
			seed: []Patch{{Kind: Insert, From: 3, To: 3, Count: 1, Data: []interface{}{"a"}}},
			next: Patch{Kind: Insert, From: 3, To: 3, Count: 1, Data: []interface{}{"b"}},
			want: []Patch{{Kind: Insert, From: 3, To: 4, Count: 2, Data: []interface{}{"a", "b"}}},
		},
		{
			name: "inserts at adjacent points merge",
			seed: []Patch{{Kind: Insert, From: 3, To: 3, Count: 1, Data: []interface{}{"a"}}},
			next: Patch{Kind: Insert, From: 4, To: 4, Count: 1, Data: []interface{}{"b"}},
			want: []Patch{{Kind: Insert, From: 3, To: 4, Count: 2, Data: []interface{}{"a", "b"}}},
		},
		{
			name: "adjacent moves with matching strides merge",
			seed: []Patch{{Kind: Move, From: 10, To: 0, Count: 1}},
			next: Patch{Kind: Move, From: 11, To: 1, Count: 1},
			want: []Patch{{Kind: Move, From: 10, To: 0, Count: 2}},
		},
		{
			name: "moves with mismatched stride do not merge",
			seed: []Patch{{Kind: Move, From: 10, To: 0, Count: 1}},
			next: Patch{Kind: Move, From: 20, To: 1, Count: 1},
			want: []Patch{
				{Kind: Move, From: 10, To: 0, Count: 1},
				{Kind: Move, From: 20, To: 1, Count: 1},
			},
		},
		{
			name: "updates never merge",
			seed: []Patch{{Kind: Update, From: 1, To: 1, Count: 1, Fields: map[string]interface{}{"a": 1}}},
			next: Patch{Kind: Update, From: 2, To: 2, Count: 1, Fields: map[string]interface{}{"a": 2}},
			want: []Patch{
				{Kind: Update, From: 1, To: 1, Count: 1, Fields: map[string]interface{}{"a": 1}},
				{Kind: Update, From: 2, To: 2, Count: 1, Fields: map[string]interface{}{"a": 2}},
			},
		},
		{
			name: "different kinds never merge",
			seed: []Patch{{Kind: Insert, From: 2, To: 2, Count: 1, Data: []interface{}{"a"}}},
			next: Patch{Kind: Remove, From: 3, To: 3, Count: 1},
			want: []Patch{
				{Kind: Insert, From: 2, To: 2, Count: 1, Data: []interface{}{"a"}},
				{Kind: Remove, From: 3, To: 3, Count: 1},
			},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := appendPatch(append([]Patch{}, tc.seed...), tc.next)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCanMergeRejectsCrossKindPairs(t *testing.T) {
	remove := Patch{Kind: Remove, From: 2, To: 2, Count: 1}
	insert := Patch{Kind: Insert, From: 3, To: 3, Count: 1}
	require.False(t, remove.canMerge(insert))
	require.False(t, insert.canMerge(remove))
}
