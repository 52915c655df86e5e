package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myplant-io/d3x-morpheus/array"
	"github.com/myplant-io/d3x-morpheus/internal/config"
)

func buildWideTestFrame(t *testing.T, rows int) *Frame[int, string] {
	t.Helper()
	content := New[int, string](nil, nil)
	keys := make([]int, rows)
	for i := range keys {
		keys[i] = i
	}
	require.NoError(t, content.AddRows(keys))
	require.NoError(t, content.AddColumn("price", array.Create(array.Double, rows)))
	f := NewFrame(content)
	for i := 0; i < rows; i++ {
		require.NoError(t, content.Set(i, "price", float64(i)))
	}
	return f
}

// withSmallSplitThresholds lowers the global split thresholds for the
// duration of a test so a modest row/column count is enough to exercise
// the engine's fork path, restoring the previous config on cleanup.
func withSmallSplitThresholds(t *testing.T) {
	t.Helper()
	prev := config.Global()
	cfg := prev
	cfg.RowSplitThreshold = 4
	cfg.ColSplitThreshold = 1
	config.SetGlobal(cfg)
	t.Cleanup(func() { config.SetGlobal(prev) })
}

func buildTestFrame(t *testing.T) *Frame[string, string] {
	t.Helper()
	content := New[string, string](nil, nil)
	require.NoError(t, content.AddRows([]string{"AAPL", "ORCL", "MSFT"}))

	price := array.Create(array.Double, content.RowCount())
	volume := array.Create(array.Long, content.RowCount())
	require.NoError(t, content.AddColumn("price", price))
	require.NoError(t, content.AddColumn("volume", volume))

	f := NewFrame(content)
	prices := map[string]float64{"AAPL": 150.0, "ORCL": 42.0, "MSFT": 300.0}
	volumes := map[string]int64{"AAPL": 1000, "ORCL": 500, "MSFT": 2000}
	for k, v := range prices {
		require.NoError(t, content.Set(k, "price", v))
	}
	for k, v := range volumes {
		require.NoError(t, content.Set(k, "volume", v))
	}
	return f
}

func TestGetSetRoundTripsThroughKeys(t *testing.T) {
	f := buildTestFrame(t)
	v, err := f.Content().Get("AAPL", "price")
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)
}

func TestSortOrdersRowsByColumnAscending(t *testing.T) {
	f := buildTestFrame(t)
	sorted := f.Sort([]SortKey[string]{{Column: "price", Direction: 1}})
	keys := sorted.RowKeys()
	assert.Equal(t, []string{"ORCL", "AAPL", "MSFT"}, keys)
}

func TestSortDoesNotMutateOriginalFrame(t *testing.T) {
	f := buildTestFrame(t)
	original := f.RowKeys()
	f.Sort([]SortKey[string]{{Column: "price", Direction: 1}})
	assert.Equal(t, original, f.RowKeys())
}

func TestHeadAndTailSliceRows(t *testing.T) {
	f := buildTestFrame(t)
	sorted := f.Sort([]SortKey[string]{{Column: "price", Direction: 1}})
	head := sorted.Head(2)
	assert.Equal(t, []string{"ORCL", "AAPL"}, head.RowKeys())
	tail := sorted.Tail(1)
	assert.Equal(t, []string{"MSFT"}, tail.RowKeys())
}

func TestCopyProducesIndependentStorage(t *testing.T) {
	f := buildTestFrame(t)
	copyFrame := f.Copy()
	require.NoError(t, copyFrame.Content().Set("AAPL", "price", 999.0))

	v, err := f.Content().Get("AAPL", "price")
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)
}

func TestMapToDoublesAppliesAcrossVisibleRows(t *testing.T) {
	f := buildTestFrame(t)
	err := f.MapToDoubles("price", func(row *Row[string, string]) float64 {
		return row.GetDouble(0) * 2
	})
	require.NoError(t, err)
	v, _ := f.Content().Get("AAPL", "price")
	assert.Equal(t, 300.0, v)
}

func TestSignReturnsNewIntFrameAndLeavesSourceUntouched(t *testing.T) {
	f := buildTestFrame(t)
	require.NoError(t, f.Content().Set("AAPL", "price", -5.0))

	signs := f.Sign()

	signValue, err := signs.Content().Get("AAPL", "price")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), signValue)

	v, _ := f.Content().Get("AAPL", "price")
	assert.Equal(t, -5.0, v, "Sign must not mutate the source frame")
}

func TestSignAppliesAcrossEveryColumn(t *testing.T) {
	f := buildTestFrame(t)
	signs := f.Sign()

	v, err := signs.Content().Get("MSFT", "volume")
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
}

func TestUpdateSkipsUnknownKeysWhenNotGrowing(t *testing.T) {
	dst := buildTestFrame(t)
	src := buildTestFrame(t)
	require.NoError(t, src.Content().Set("AAPL", "price", 1.0))
	_, err := src.Content().AddRow("NVDA")
	require.NoError(t, err)
	require.NoError(t, src.Content().Set("NVDA", "price", 500.0))

	require.NoError(t, dst.Update(src, false, false))

	v, _ := dst.Content().Get("AAPL", "price")
	assert.Equal(t, 1.0, v)
	assert.False(t, dst.Content().rows.Contains("NVDA"))
}

func TestUpdateGrowsRowsAndColumnsWhenRequested(t *testing.T) {
	dst := buildTestFrame(t)
	src := buildTestFrame(t)
	_, err := src.Content().AddRow("NVDA")
	require.NoError(t, err)
	require.NoError(t, src.Content().Set("NVDA", "price", 500.0))
	require.NoError(t, src.Content().AddColumn("sector", array.Create(array.String, src.RowCount())))
	require.NoError(t, src.Content().Set("AAPL", "sector", "Tech"))

	require.NoError(t, dst.Update(src, true, true))

	v, err := dst.Content().Get("NVDA", "price")
	require.NoError(t, err)
	assert.Equal(t, 500.0, v)

	sector, err := dst.Content().Get("AAPL", "sector")
	require.NoError(t, err)
	assert.Equal(t, "Tech", sector)
}

func TestMapToDoublesAllAppliesToEveryColumn(t *testing.T) {
	f := buildTestFrame(t)
	require.NoError(t, f.MapToDoublesAll(func(row *Row[string, string], colKey string) float64 {
		colOrd, _ := f.Content().Cols().OrdinalOf(colKey)
		return row.GetDouble(colOrd) + 1
	}))

	price, _ := f.Content().Get("AAPL", "price")
	assert.Equal(t, 151.0, price)
	volume, _ := f.Content().Get("AAPL", "volume")
	assert.Equal(t, 1001.0, volume)
}

func TestMinFindsSmallestMatchingCell(t *testing.T) {
	f := buildTestFrame(t)
	cur, ok := f.Min(func(cur *Cursor[string, string]) bool { return cur.ColKey() == "price" })
	require.True(t, ok)
	assert.Equal(t, "ORCL", cur.RowKey())
	assert.Equal(t, 42.0, cur.GetDouble())
}

func TestMaxFindsLargestMatchingCell(t *testing.T) {
	f := buildTestFrame(t)
	cur, ok := f.Max(func(cur *Cursor[string, string]) bool { return cur.ColKey() == "price" })
	require.True(t, ok)
	assert.Equal(t, "MSFT", cur.RowKey())
	assert.Equal(t, 300.0, cur.GetDouble())
}

func TestMinReportsNotFoundWhenPredicateMatchesNothing(t *testing.T) {
	f := buildTestFrame(t)
	_, ok := f.Min(func(cur *Cursor[string, string]) bool { return false })
	assert.False(t, ok)
}

func TestBoundsReturnsBothExtremesForMatchingCells(t *testing.T) {
	f := buildTestFrame(t)
	bounds := f.Bounds(func(cur *Cursor[string, string]) bool { return cur.ColKey() == "price" })
	require.True(t, bounds.Found)
	assert.Equal(t, 42.0, bounds.Min.GetDouble())
	assert.Equal(t, 300.0, bounds.Max.GetDouble())
}

func TestParallelMinMatchesSequentialMin(t *testing.T) {
	withSmallSplitThresholds(t)
	f := buildWideTestFrame(t, 40)
	f.Parallel()

	cur, ok := f.Min(func(cur *Cursor[int, string]) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 0.0, cur.GetDouble())
}

func TestCursorReadsAndWritesCurrentCell(t *testing.T) {
	f := buildTestFrame(t)
	cur := f.Cursor()
	cur.MoveToRow(0)
	cur.MoveToCol(0)
	cur.Set(7.0)
	assert.Equal(t, 7.0, cur.Get())
}

func TestEqualsComparesAcrossKeyOrder(t *testing.T) {
	f := buildTestFrame(t)
	reordered := f.Sort([]SortKey[string]{{Column: "price", Direction: -1}})
	assert.True(t, f.Equals(reordered))
}

func TestParallelFlagDefaultsToSequential(t *testing.T) {
	f := buildTestFrame(t)
	assert.False(t, f.IsParallel())
	f.Parallel()
	assert.True(t, f.IsParallel())
	f.Sequential()
	assert.False(t, f.IsParallel())
}

func TestParallelMapToDoublesMatchesSequentialResult(t *testing.T) {
	withSmallSplitThresholds(t)

	seq := buildWideTestFrame(t, 40)
	par := buildWideTestFrame(t, 40)
	par.Parallel()

	double := func(row *Row[int, string]) float64 { return row.GetDouble(0) * 2 }
	require.NoError(t, seq.MapToDoubles("price", double))
	require.NoError(t, par.MapToDoubles("price", double))

	assert.True(t, seq.Equals(par))
}

func TestParallelSortProducesSameOrderAsSequentialSort(t *testing.T) {
	withSmallSplitThresholds(t)

	content := New[int, string](nil, nil)
	const n = 40
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	require.NoError(t, content.AddRows(keys))
	require.NoError(t, content.AddColumn("price", array.Create(array.Double, n)))
	for i := 0; i < n; i++ {
		require.NoError(t, content.Set(i, "price", float64((i*37)%n)))
	}

	seq := NewFrame(content)
	par := NewFrame(content).Parallel()

	sortKeys := []SortKey[string]{{Column: "price", Direction: 1}}
	seqSorted := seq.Sort(sortKeys)
	parSorted := par.Sort(sortKeys)

	assert.Equal(t, seqSorted.RowKeys(), parSorted.RowKeys())
}

func TestParallelEqualsDetectsMismatch(t *testing.T) {
	withSmallSplitThresholds(t)

	a := buildWideTestFrame(t, 40)
	b := buildWideTestFrame(t, 40)
	require.NoError(t, b.Content().Set(39, "price", -1.0))

	a.Parallel()
	assert.False(t, a.Equals(b))
}

func TestFilterViewMutationVisibleInParent(t *testing.T) {
	f := buildTestFrame(t)
	view := f.Select([]string{"AAPL", "ORCL"}, []string{"price"})
	require.NoError(t, view.Content().Set("AAPL", "price", 1.0))

	v, _ := f.Content().Get("AAPL", "price")
	assert.Equal(t, 1.0, v)
}
