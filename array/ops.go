package array

import "golang.org/x/exp/constraints"

// The helpers in this file are shared by every slice-backed concrete
// array type (denseString, denseObject, Sparse[T]'s materialized views)
// so Filter/Gather/CopyRange/Distinct/BinarySearch are written once
// against a plain []T instead of once per concrete type.

func filterGeneric[T any](vals []T, keep func(ordinal int) bool) []T {
	out := make([]T, 0, len(vals))
	for i, v := range vals {
		if keep(i) {
			out = append(out, v)
		}
	}
	return out
}

func gatherGeneric[T any](vals []T, ordinals []int) []T {
	out := make([]T, len(ordinals))
	for i, ord := range ordinals {
		out[i] = vals[ord]
	}
	return out
}

func copyRangeGeneric[T any](vals []T, start, end int) []T {
	out := make([]T, end-start)
	copy(out, vals[start:end])
	return out
}

// distinctGeneric returns the ordinals of the first occurrence of each
// unique value, in original order.
func distinctGeneric[T comparable](vals []T) []int {
	seen := make(map[T]struct{}, len(vals))
	out := make([]int, 0, len(vals))
	for i, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, i)
	}
	return out
}

// binarySearchGeneric looks up target in vals[start:end], which must
// already be sorted ascending. It returns the matching ordinal, or
// -(insertion point)-1 if target is absent, matching sort.Search
// conventions.
func binarySearchGeneric[T constraints.Ordered](vals []T, start, end int, target T) int {
	lo, hi := start, end
	for lo < hi {
		mid := lo + (hi-lo)/2
		switch {
		case vals[mid] < target:
			lo = mid + 1
		case vals[mid] > target:
			hi = mid
		default:
			return mid
		}
	}
	return -lo - 1
}

func cumSumGeneric[T constraints.Integer | constraints.Float](vals []T, start, end int) []float64 {
	out := make([]float64, end-start)
	var running float64
	for i := start; i < end; i++ {
		running += float64(vals[i])
		out[i-start] = running
	}
	return out
}
