package array

import (
	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// Sparse[T] backs a column where most slots hold the same default value
// a sparse, map-backed storage style. Rather than one concrete type per element type, a
// single generic type covers every comparable element, grounded on
// SparseArrayOfInts.java/SparseArrayOfStrings.java: storage is a map
// keyed by ordinal, so memory is proportional to the number of
// non-default entries rather than array length. Value-level hashing (for
// Enum coding tables, where the expected cardinality is known and
// collisions matter for lookup speed) uses xxhash instead of Go's native
// map; see coded.go.
type Sparse[T comparable] struct {
	length       int
	defaultValue T
	elemType     Type
	values       map[int]T
	nulls        map[int]bool
	orderTracker
}

func newSparse[T comparable](n int, t Type, def T, capacityHint int) *Sparse[T] {
	if capacityHint <= 0 {
		capacityHint = n / 8
		if capacityHint < 8 {
			capacityHint = 8
		}
	}
	return &Sparse[T]{
		length: n, defaultValue: def, elemType: t,
		values: make(map[int]T, capacityHint), nulls: make(map[int]bool),
		orderTracker: newOrderTracker(n),
	}
}

func (a *Sparse[T]) Len() int          { return a.length }
func (a *Sparse[T]) Type() Type        { return a.elemType }
func (a *Sparse[T]) Style() Style      { return StyleSparse }
func (a *Sparse[T]) DefaultValue() any { return a.defaultValue }

func (a *Sparse[T]) checkBounds(op string, i int) {
	if i < 0 || i >= a.length {
		panic(xerrors.NewOutOfBoundsError(op, i, a.length))
	}
}

func (a *Sparse[T]) get(i int) T {
	if v, ok := a.values[i]; ok {
		return v
	}
	return a.defaultValue
}

func (a *Sparse[T]) set(i int, v T) {
	delete(a.nulls, i)
	if v == a.defaultValue {
		delete(a.values, i)
		return
	}
	a.values[i] = v
}

func (a *Sparse[T]) GetValue(i int) any {
	a.checkBounds("GetValue", i)
	if a.nulls[i] {
		return nil
	}
	return a.get(i)
}

func (a *Sparse[T]) SetValue(i int, v any) {
	a.checkBounds("SetValue", i)
	if v == nil {
		a.SetNull(i)
		return
	}
	a.set(i, v.(T))
}

func (a *Sparse[T]) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *Sparse[T]) SetNull(i int) {
	a.checkBounds("SetNull", i)
	delete(a.values, i)
	a.nulls[i] = true
}

func (a *Sparse[T]) GetBoolean(i int) bool {
	v, _ := any(a.get(i)).(bool)
	return v
}
func (a *Sparse[T]) GetInt(i int) int32 {
	v, _ := any(a.get(i)).(int32)
	return v
}
func (a *Sparse[T]) GetLong(i int) int64 {
	v, _ := any(a.get(i)).(int64)
	return v
}
func (a *Sparse[T]) GetDouble(i int) float64 {
	v, _ := any(a.get(i)).(float64)
	return v
}
func (a *Sparse[T]) GetString(i int) string {
	v, _ := any(a.get(i)).(string)
	return v
}
func (a *Sparse[T]) SetBoolean(i int, v bool)    { a.SetValue(i, v) }
func (a *Sparse[T]) SetInt(i int, v int32)       { a.SetValue(i, v) }
func (a *Sparse[T]) SetLong(i int, v int64)      { a.SetValue(i, v) }
func (a *Sparse[T]) SetDouble(i int, v float64)  { a.SetValue(i, v) }
func (a *Sparse[T]) SetString(i int, v string)   { a.SetValue(i, v) }

func (a *Sparse[T]) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	if a.elemType == Double {
		return doublesEqual(a.GetDouble(i), other.GetDouble(j))
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *Sparse[T]) Fill(value any, start, end int) {
	v := value.(T)
	for i := start; i < end; i++ {
		a.set(i, v)
		delete(a.nulls, i)
	}
}

func (a *Sparse[T]) Swap(i, j int) {
	vi, iok := a.values[i]
	vj, jok := a.values[j]
	ni, nj := a.nulls[i], a.nulls[j]

	delete(a.values, i)
	delete(a.values, j)
	delete(a.nulls, i)
	delete(a.nulls, j)

	if jok {
		a.values[i] = vj
	}
	if iok {
		a.values[j] = vi
	}
	if nj {
		a.nulls[i] = true
	}
	if ni {
		a.nulls[j] = true
	}
	a.orderTracker.swap(i, j)
}

func (a *Sparse[T]) Compare(i, j int) int {
	if a.elemType == Double {
		return compareDoubles(a.GetDouble(i), a.GetDouble(j))
	}
	vi, vj := a.GetValue(i), a.GetValue(j)
	return compareAny(vi, vj)
}

func compareAny(a, b any) int {
	switch av := a.(type) {
	case int32:
		return compareOrdered(av, b.(int32))
	case int64:
		return compareOrdered(av, b.(int64))
	case float64:
		return compareDoubles(av, b.(float64))
	case string:
		return compareOrdered(av, b.(string))
	case bool:
		bb := b.(bool)
		if av == bb {
			return 0
		} else if !av {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (a *Sparse[T]) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *Sparse[T]) materialize() ([]T, []bool) {
	vals := make([]T, a.length)
	nulls := make([]bool, a.length)
	for i := 0; i < a.length; i++ {
		vals[i] = a.get(i)
		nulls[i] = a.nulls[i]
	}
	return vals, nulls
}

func (a *Sparse[T]) buildFrom(vals []T, nulls []bool) *Sparse[T] {
	out := newSparse[T](len(vals), a.elemType, a.defaultValue, len(a.values))
	for i, v := range vals {
		if nulls[i] {
			out.SetNull(i)
		} else {
			out.set(i, v)
		}
	}
	return out
}

func (a *Sparse[T]) Filter(keep func(int) bool) Array {
	vals, nulls := a.materialize()
	return a.buildFrom(filterGeneric(vals, keep), filterGeneric(nulls, keep))
}

func (a *Sparse[T]) Copy() Array { return a.CopyRange(0, a.length) }

func (a *Sparse[T]) CopyRange(start, end int) Array {
	vals, nulls := a.materialize()
	out := a.buildFrom(copyRangeGeneric(vals, start, end), copyRangeGeneric(nulls, start, end))
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}

func (a *Sparse[T]) Gather(ordinals []int) Array {
	vals, nulls := a.materialize()
	out := a.buildFrom(gatherGeneric(vals, ordinals), gatherGeneric(nulls, ordinals))
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *Sparse[T]) Expand(newLen int) {
	if newLen <= a.length {
		return
	}
	a.length = newLen
	a.orderTracker.expand(newLen)
}

// BinarySearch assumes [start,end) is already sorted ascending by
// Compare. Sparse arrays are small in the number of distinct values but
// may be long, so this still walks ordinals rather than indexing the
// values map directly.
func (a *Sparse[T]) BinarySearch(start, end int, value any) int {
	lo, hi := start, end
	for lo < hi {
		mid := lo + (hi-lo)/2
		c := compareAny(a.GetValue(mid), value)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid
		}
	}
	return -lo - 1
}

func (a *Sparse[T]) Distinct() []int {
	vals, _ := a.materialize()
	return distinctGeneric(vals)
}

func (a *Sparse[T]) CumSum(start, end int) []float64 {
	if !a.elemType.IsNumeric() {
		panic(xerrors.NewUnsupportedOperationError("CumSum", a.elemType.String()))
	}
	vals, _ := a.materialize()
	out := make([]float64, end-start)
	var running float64
	for i := start; i < end; i++ {
		running += toFloat(vals[i])
		out[i-start] = running
	}
	return out
}

func toFloat[T comparable](v T) float64 {
	switch x := any(v).(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func (a *Sparse[T]) WriteTo(w ArraySink) (int64, error) {
	return writeSparse(a, w)
}

func (a *Sparse[T]) ReadFrom(r ArraySource) (int64, error) {
	return readSparse(a, r)
}
