package frame

import (
	"context"
	"sort"

	"github.com/myplant-io/d3x-morpheus/internal/config"
	"github.com/myplant-io/d3x-morpheus/parallel"
)

// SortKey names a column and the direction to sort it in: 1 ascending,
// -1 descending, matching array.Array.Sort's direction convention.
type SortKey[C comparable] struct {
	Column    C
	Direction int
}

// Comparator is a caller-supplied row comparator, used instead of
// SortKeys when the default per-column Compare ordering isn't what the
// caller wants.
type Comparator[R comparable, C comparable] func(a, b *Row[R, C]) int

// Sort returns a new FrameContent sharing fc's column storage with its
// row axis reordered by keys, left-to-right with later keys breaking
// ties among earlier ones. The reordering is a row index Filter, not an
// array mutation, so it's O(rowCount) regardless of how many columns fc
// has, and every filter-view invariant from content.go still holds.
//
// engine is consulted only when useParallel is true; a nil engine forces
// the sequential path regardless of useParallel.
func Sort[R comparable, C comparable](fc *FrameContent[R, C], keys []SortKey[C], engine *parallel.Engine, useParallel bool) *FrameContent[R, C] {
	cmp := func(i, j int) int {
		for _, k := range keys {
			col, err := fc.Column(k.Column)
			if err != nil {
				continue
			}
			ci, cj := fc.rowCoordAt(i), fc.rowCoordAt(j)
			c := col.Compare(ci, cj)
			if k.Direction < 0 {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
	return sortByComparator(fc, cmp, engine, useParallel)
}

// SortWith sorts fc's rows using a caller-supplied Comparator instead of
// a column/direction list.
func SortWith[R comparable, C comparable](fc *FrameContent[R, C], cmp Comparator[R, C], engine *parallel.Engine, useParallel bool) *FrameContent[R, C] {
	row := &Row[R, C]{content: fc}
	other := &Row[R, C]{content: fc}
	return sortByComparator(fc, func(i, j int) int {
		row.ordinal, other.ordinal = i, j
		return cmp(row, other)
	}, engine, useParallel)
}

func sortByComparator[R comparable, C comparable](fc *FrameContent[R, C], cmp func(i, j int) int, engine *parallel.Engine, useParallel bool) *FrameContent[R, C] {
	n := fc.RowCount()
	ordinals := make([]int, n)
	for i := range ordinals {
		ordinals[i] = i
	}
	mergeSortOrdinals(ordinals, cmp, engine, useParallel)

	keys := make([]R, n)
	for i, ord := range ordinals {
		keys[i] = fc.rows.KeyAt(ord)
	}
	return fc.FilterRows(keys)
}

// mergeSortOrdinals stable-sorts ordinals by cmp. Above
// config.DefaultRowSplitThreshold elements, with useParallel true and a
// non-nil engine, it splits the range in half, forks the two halves
// through engine.Fork, and merges the sorted halves sequentially; with
// useParallel false (or no engine) it still splits and merges the same
// way but runs both halves inline on the calling goroutine. Below the
// threshold it falls back to sort.SliceStable directly. All three paths
// compare with the same cmp and merge deterministically, so sequential
// and parallel runs over the same input always produce the same order.
func mergeSortOrdinals(ordinals []int, cmp func(i, j int) int, engine *parallel.Engine, useParallel bool) {
	if len(ordinals) <= config.DefaultRowSplitThreshold {
		sort.SliceStable(ordinals, func(a, b int) bool { return cmp(ordinals[a], ordinals[b]) < 0 })
		return
	}
	mid := len(ordinals) / 2
	left := make([]int, mid)
	right := make([]int, len(ordinals)-mid)
	copy(left, ordinals[:mid])
	copy(right, ordinals[mid:])

	sortLeft := func() { mergeSortOrdinals(left, cmp, engine, useParallel) }
	sortRight := func() { mergeSortOrdinals(right, cmp, engine, useParallel) }

	if useParallel && engine != nil {
		if err := engine.Fork(context.Background(), sortLeft, sortRight); err != nil {
			panic(err)
		}
	} else {
		sortLeft()
		sortRight()
	}

	merge(ordinals, left, right, cmp)
}

func merge(dst, left, right []int, cmp func(i, j int) int) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		dst[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		dst[k] = right[j]
		j++
		k++
	}
}
