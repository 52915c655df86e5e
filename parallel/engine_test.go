package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myplant-io/d3x-morpheus/internal/config"
)

func newTestEngine() *Engine {
	return NewEngine(config.NewConfig())
}

func TestForEachRowsVisitsEveryOrdinalExactlyOnce(t *testing.T) {
	e := newTestEngine()
	n := 10000
	var hits [10000]int32
	err := e.ForEachRows(context.Background(), n, 97, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	require.NoError(t, err)
	for i, h := range hits {
		require.Equal(t, int32(1), h, "ordinal %d visited %d times", i, h)
	}
}

func TestForEachRowsBelowThresholdRunsOneRange(t *testing.T) {
	e := newTestEngine()
	var calls int32
	err := e.ForEachRows(context.Background(), 5, 1000, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)
}

func TestForEachRowsRecoversPanicAsError(t *testing.T) {
	e := newTestEngine()
	err := e.ForEachRows(context.Background(), 100, 10, func(start, end int) {
		if start == 50 {
			panic("boom")
		}
	})
	assert.Error(t, err)
}

func TestParallelAndSequentialScansAgree(t *testing.T) {
	e := newTestEngine()
	n := 5000
	vals := make([]int, n)
	for i := range vals {
		vals[i] = (i * 7919) % 10007
	}
	less := func(i, j int) bool { return vals[i] < vals[j] }

	seqBest := 0
	for i := 1; i < n; i++ {
		if less(i, seqBest) {
			seqBest = i
		}
	}

	parBounds, err := e.Min(context.Background(), n, 37, less)
	require.NoError(t, err)
	require.True(t, parBounds.Found)
	assert.Equal(t, vals[seqBest], vals[parBounds.Ordinal])
}

func TestForkRunsEveryTaskExactlyOnce(t *testing.T) {
	e := newTestEngine()
	var calls int32
	err := e.Fork(context.Background(),
		func() { atomic.AddInt32(&calls, 1) },
		func() { atomic.AddInt32(&calls, 1) },
		func() { atomic.AddInt32(&calls, 1) },
	)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls)
}

func TestForkRecoversPanicAsError(t *testing.T) {
	e := newTestEngine()
	err := e.Fork(context.Background(),
		func() {},
		func() { panic("boom") },
	)
	assert.Error(t, err)
}

func TestSelectKeysConcatenatesInRangeOrder(t *testing.T) {
	perRange := [][]string{{"a", "b"}, {}, {"c"}}
	assert.Equal(t, []string{"a", "b", "c"}, SelectKeys(perRange))
}

func TestValueStreamSplitIsColumnMajor(t *testing.T) {
	assert.Equal(t, 0, ValueStreamSplit(0, 0, 10))
	assert.Equal(t, 9, ValueStreamSplit(9, 0, 10))
	assert.Equal(t, 10, ValueStreamSplit(0, 1, 10))
}
