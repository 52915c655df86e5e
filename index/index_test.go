package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsStableCoordinates(t *testing.T) {
	idx := New[string](nil)
	c0, err := idx.Add("AAPL")
	require.NoError(t, err)
	c1, err := idx.Add("ORCL")
	require.NoError(t, err)
	assert.Equal(t, 0, c0)
	assert.Equal(t, 1, c1)
}

func TestAddRejectsDuplicateKey(t *testing.T) {
	idx := New[string](nil)
	_, err := idx.Add("AAPL")
	require.NoError(t, err)
	_, err = idx.Add("AAPL")
	assert.Error(t, err)
}

func TestAddAllIgnoreDuplicatesSkipsRepeats(t *testing.T) {
	idx := New[string](nil)
	err := idx.AddAll([]string{"A", "B", "A", "C"}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestReplaceKeepsCoordinateStable(t *testing.T) {
	idx := New[string](nil)
	idx.Add("A")
	idx.Add("B")
	require.NoError(t, idx.Replace("A", "Z"))
	coord, ok := idx.Coordinate("Z")
	require.True(t, ok)
	assert.Equal(t, 0, coord)
	assert.False(t, idx.Contains("A"))
}

func TestFilterViewCannotMutate(t *testing.T) {
	idx := New[string](nil)
	idx.AddAll([]string{"A", "B", "C"}, false)
	view := idx.Filter([]string{"A", "C"})
	_, err := view.Add("D")
	assert.Error(t, err)
}

func TestFilterViewPreservesCoordinatesNotOrdinals(t *testing.T) {
	idx := New[string](nil)
	idx.AddAll([]string{"A", "B", "C"}, false)
	view := idx.Filter([]string{"C", "A"})
	assert.Equal(t, "C", view.KeyAt(0))
	assert.Equal(t, "A", view.KeyAt(1))
	coord, ok := view.Coordinate("A")
	require.True(t, ok)
	assert.Equal(t, 0, coord) // coordinate is the root's slot, not the view's ordinal
}

func TestPreviousAndNextKeyWalkSortedOrder(t *testing.T) {
	less := func(a, b int) bool { return a < b }
	idx := New[int](less)
	idx.AddAll([]int{5, 1, 3}, false)

	prev, ok := idx.PreviousKey(3)
	require.True(t, ok)
	assert.Equal(t, 1, prev)

	next, ok := idx.NextKey(3)
	require.True(t, ok)
	assert.Equal(t, 5, next)

	_, ok = idx.PreviousKey(1)
	assert.False(t, ok)

	_, ok = idx.NextKey(5)
	assert.False(t, ok)
}

func TestCopyDeepAllowsFurtherMutation(t *testing.T) {
	idx := New[string](nil)
	idx.AddAll([]string{"A", "B"}, false)
	deep := idx.Copy(true)
	_, err := deep.Add("C")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, deep.Len())
}

func TestIntersectRetainsOnlySharedKeys(t *testing.T) {
	a := New[string](nil)
	a.AddAll([]string{"A", "B", "C"}, false)
	b := New[string](nil)
	b.AddAll([]string{"B", "C", "D"}, false)
	shared := a.Intersect(b)
	assert.Equal(t, 2, shared.Len())
	assert.True(t, shared.Contains("B"))
	assert.True(t, shared.Contains("C"))
}
