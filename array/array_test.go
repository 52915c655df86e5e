package array

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseIntSetGetRoundTrip(t *testing.T) {
	a := Create(Int, 5)
	for i := 0; i < 5; i++ {
		a.SetInt(i, int32(i*10))
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, int32(i*10), a.GetInt(i))
	}
}

func TestDenseDoubleNullReadsNaN(t *testing.T) {
	a := Create(Double, 3)
	a.SetNull(1)
	assert.True(t, math.IsNaN(a.GetDouble(1)))
	assert.True(t, a.IsNull(1))
}

func TestSwapIsIdempotentUnderDoubleSwap(t *testing.T) {
	a := Create(Int, 4)
	for i := 0; i < 4; i++ {
		a.SetInt(i, int32(i))
	}
	a.Swap(1, 2)
	a.Swap(1, 2)
	for i := 0; i < 4; i++ {
		assert.Equal(t, int32(i), a.GetInt(i))
	}
}

func TestFillSetsEveryOrdinalInRange(t *testing.T) {
	a := Create(Long, 6)
	a.Fill(int64(42), 1, 4)
	assert.Equal(t, int64(0), a.GetLong(0))
	assert.Equal(t, int64(42), a.GetLong(1))
	assert.Equal(t, int64(42), a.GetLong(3))
	assert.Equal(t, int64(0), a.GetLong(4))
}

func TestSortAscendingOrdersValues(t *testing.T) {
	a := Create(Int, 5)
	vals := []int32{5, 3, 4, 1, 2}
	for i, v := range vals {
		a.SetInt(i, v)
	}
	a.Sort(0, 5, 1)
	for i := 0; i < 5; i++ {
		assert.Equal(t, int32(i+1), a.GetInt(i))
	}
}

func TestSortZeroRestoresInsertionOrder(t *testing.T) {
	a := Create(Int, 5)
	vals := []int32{5, 3, 4, 1, 2}
	for i, v := range vals {
		a.SetInt(i, v)
	}
	a.Sort(0, 5, 1)
	a.Sort(0, 5, -1)
	a.Sort(0, 5, 0)
	for i, v := range vals {
		assert.Equal(t, v, a.GetInt(i))
	}
}

func TestBinarySearchFindsPresentValue(t *testing.T) {
	a := Create(Int, 5)
	for i, v := range []int32{1, 2, 3, 4, 5} {
		a.SetInt(i, v)
	}
	idx := a.BinarySearch(0, 5, int32(4))
	assert.Equal(t, 3, idx)
}

func TestBinarySearchReportsInsertionPointWhenAbsent(t *testing.T) {
	a := Create(Int, 4)
	for i, v := range []int32{1, 3, 5, 7} {
		a.SetInt(i, v)
	}
	idx := a.BinarySearch(0, 4, int32(4))
	assert.Equal(t, -3, idx)
}

func TestDoubleArraySerializeRoundTrip(t *testing.T) {
	a := Create(Double, 3).(*denseDouble)
	a.SetDouble(0, 1.5)
	a.SetNull(1)
	a.SetDouble(2, -2.25)

	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)

	out := Create(Double, 0).(*denseDouble)
	_, err = out.ReadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, 1.5, out.GetDouble(0))
	assert.True(t, out.IsNull(1))
	assert.Equal(t, -2.25, out.GetDouble(2))
}

func TestSparseArrayReadsDefaultForUnsetSlots(t *testing.T) {
	a := Create(Double, 10, WithStyle(StyleSparse), WithDefault(0.0))
	a.SetDouble(3, 9.5)
	assert.Equal(t, 0.0, a.GetDouble(0))
	assert.Equal(t, 9.5, a.GetDouble(3))
}

func TestCodedDenseReusesCodesForRepeatedValues(t *testing.T) {
	a := Create(Enum, 5).(*CodedDense[string])
	a.SetString(0, "BUY")
	a.SetString(1, "SELL")
	a.SetString(2, "BUY")
	assert.Equal(t, a.codes.GetInt(0), a.codes.GetInt(2))
	assert.NotEqual(t, a.codes.GetInt(0), a.codes.GetInt(1))
	assert.Equal(t, 2, a.coding.size())
}

func TestFilterPreservesRelativeOrder(t *testing.T) {
	a := Create(Int, 5)
	for i, v := range []int32{10, 20, 30, 40, 50} {
		a.SetInt(i, v)
	}
	out := a.Filter(func(i int) bool { return i%2 == 0 })
	require.Equal(t, 3, out.Len())
	assert.Equal(t, int32(10), out.GetInt(0))
	assert.Equal(t, int32(30), out.GetInt(1))
	assert.Equal(t, int32(50), out.GetInt(2))
}

func TestDistinctReturnsFirstOccurrenceOrdinals(t *testing.T) {
	a := Create(String, 5)
	for i, v := range []string{"a", "b", "a", "c", "b"} {
		a.SetString(i, v)
	}
	assert.Equal(t, []int{0, 1, 3}, a.Distinct())
}

func TestCumSumAccumulatesOverRange(t *testing.T) {
	a := Create(Double, 4)
	for i, v := range []float64{1, 2, 3, 4} {
		a.SetDouble(i, v)
	}
	sums := a.CumSum(0, 4)
	assert.Equal(t, []float64{1, 3, 6, 10}, sums)
}

func TestDoublesEqualToleratesRelativeEpsilon(t *testing.T) {
	assert.True(t, doublesEqual(1000000.0, 1000000.0+1e-5))
	assert.False(t, doublesEqual(1.0, 1.1))
}

func TestMappedWidensOnOffsetOverflow(t *testing.T) {
	a := newMapped(2, LocalDate)
	a.SetLong(0, 0)
	far := (int64(maxInt32) + 10) * millisPerDay
	a.SetLong(1, far)
	assert.NotNil(t, a.widened)
	assert.Equal(t, far, a.GetLong(1))
}

func TestSparseZonedArrayKeepsZoneOutOfEqualityOnlyWhenMatching(t *testing.T) {
	const wallClockMillis = int64(1577836800000) // 2020-01-01T00:00 local wall time
	def := Zoned{Millis: wallClockMillis, Zone: "UTC"}
	a := Create(ZonedDateTime, 4, WithStyle(StyleSparse), WithDefault(def))

	a.SetValue(1, Zoned{Millis: wallClockMillis, Zone: "+05:00"})

	assert.Equal(t, StyleSparse, a.Style())
	assert.False(t, a.IsEqualTo(1, a, 3))
	assert.Equal(t, def, a.GetValue(3))
}

func TestDenseObjectSortOrdersNonStringValuesByRenderedString(t *testing.T) {
	a := Create(Object, 3)
	a.SetValue(0, int64(30))
	a.SetValue(1, int64(5))
	a.SetValue(2, int64(100))

	a.Sort(0, 3, 1)

	assert.Equal(t, int64(100), a.GetValue(0))
	assert.Equal(t, int64(30), a.GetValue(1))
	assert.Equal(t, int64(5), a.GetValue(2))
}

func TestDenseObjectCompareDistinguishesNonStringValues(t *testing.T) {
	a := Create(Object, 2)
	a.SetValue(0, int64(1))
	a.SetValue(1, int64(2))
	assert.NotEqual(t, 0, a.Compare(0, 1))
}
