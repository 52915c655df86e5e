package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myplant-io/d3x-morpheus/array"
)

func TestOfBuildsFrameWithTypedColumns(t *testing.T) {
	f, err := Of[string, string]([]string{"A", "B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	assert.Equal(t, 2, f.RowCount())
	assert.Equal(t, 1, f.ColCount())
}

func TestEmptyFrameHasNoRowsOrColumns(t *testing.T) {
	f := Empty[string, string]()
	assert.Equal(t, 0, f.RowCount())
	assert.Equal(t, 0, f.ColCount())
}

func TestCombineFirstFillsMissingValuesFromLaterFrames(t *testing.T) {
	base, err := Of[string, string]([]string{"A", "B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	require.NoError(t, base.Content().Set("A", "price", 10.0))

	fallback, err := Of[string, string]([]string{"A", "B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	require.NoError(t, fallback.Content().Set("A", "price", 99.0))
	require.NoError(t, fallback.Content().Set("B", "price", 20.0))

	less := func(a, b string) bool { return a < b }
	combined, err := CombineFirst(less, base, fallback)
	require.NoError(t, err)

	a, _ := combined.Content().Get("A", "price")
	b, _ := combined.Content().Get("B", "price")
	assert.Equal(t, 10.0, a)
	assert.Equal(t, 20.0, b)
	assert.Equal(t, []string{"A", "B"}, combined.RowKeys())
}

func TestConcatRowsStacksFramesWithMatchingColumns(t *testing.T) {
	top, err := Of[string, string]([]string{"A"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	require.NoError(t, top.Content().Set("A", "price", 1.0))

	bottom, err := Of[string, string]([]string{"B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	require.NoError(t, bottom.Content().Set("B", "price", 2.0))

	combined, err := ConcatRows(top, bottom)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, combined.RowKeys())
	v, _ := combined.Content().Get("B", "price")
	assert.Equal(t, 2.0, v)
}

func TestConcatColumnsPlacesFramesSideBySide(t *testing.T) {
	left, err := Of[string, string]([]string{"A", "B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	right, err := Of[string, string]([]string{"A", "B"}, []string{"volume"}, array.Long)
	require.NoError(t, err)
	require.NoError(t, right.Content().Set("A", "volume", int64(5)))

	combined, err := ConcatColumns(left, right)
	require.NoError(t, err)
	assert.Equal(t, []string{"price", "volume"}, combined.ColKeys())
	v, _ := combined.Content().Get("A", "volume")
	assert.Equal(t, int64(5), v)
}

func TestConcatColumnsRejectsMismatchedRowKeys(t *testing.T) {
	left, err := Of[string, string]([]string{"A", "B"}, []string{"price"}, array.Double)
	require.NoError(t, err)
	right, err := Of[string, string]([]string{"A", "C"}, []string{"volume"}, array.Long)
	require.NoError(t, err)

	_, err = ConcatColumns(left, right)
	assert.Error(t, err)
}
