// Package memutil provides the shared Arrow allocator used by the array
// package's Dense storage, and a memory estimation helper.
//
// One process-wide allocator and a reflection-based size estimator for
// non-Arrow-backed storage (Sparse maps, Coded tables) that Arrow's own
// accounting doesn't cover.
package memutil

import (
	"reflect"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

var (
	sharedAllocator memory.Allocator
	allocatorOnce   sync.Once
)

// SharedAllocator returns the process-wide Arrow allocator used by every
// Dense array unless a caller supplies its own via Create's options.
func SharedAllocator() memory.Allocator {
	allocatorOnce.Do(func() {
		sharedAllocator = memory.NewGoAllocator()
	})
	return sharedAllocator
}

// EstimateSize estimates the in-memory footprint of a non-Arrow-backed
// value (a Sparse backing map, a Coding table, ...) via reflection. It is
// a best-effort estimate, not an exact accounting.
func EstimateSize(v any) int64 {
	if v == nil {
		return 0
	}
	return estimate(reflect.ValueOf(v))
}

func estimate(rv reflect.Value) int64 {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var total int64
		for i := 0; i < rv.Len(); i++ {
			total += estimate(rv.Index(i))
		}
		return total + int64(rv.Len())*8 // slice header / pointer overhead amortized
	case reflect.Map:
		var total int64
		iter := rv.MapRange()
		for iter.Next() {
			total += estimate(iter.Key()) + estimate(iter.Value())
		}
		return total + int64(rv.Len())*16 // bucket overhead estimate
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return 8
		}
		return 8 + estimate(rv.Elem())
	case reflect.String:
		return int64(rv.Len()) + 16
	default:
		return int64(rv.Type().Size())
	}
}
