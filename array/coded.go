package array

import (
	"github.com/cespare/xxhash/v2"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// Coding[T] is the code<->value bimap backing CodedDense/CodedSparse,
// grounded on DenseArrayWithIntCoding.java/SparseArrayWithIntCoding.java.
// Codes are assigned densely starting at 0 in first-seen order; -1 is
// reserved to mean null.
//
// When T is string (the common Enum case), lookups go through an
// xxhash-backed open-addressed table instead of Go's native map, the
// the same open-addressed linear-probing scheme used for string-keyed
// joins/groupings in internal/dataframe/join_optimizer.go.
type Coding[T comparable] struct {
	values   []T
	codeOf   map[T]int32
	strTable *stringCodeTable
}

// NewCoding creates an empty coding table for element type T.
func NewCoding[T comparable]() *Coding[T] {
	c := &Coding[T]{codeOf: make(map[T]int32)}
	var zero T
	if _, ok := any(zero).(string); ok {
		c.strTable = newStringCodeTable(64)
	}
	return c
}

func (c *Coding[T]) codeFor(v T) int32 {
	if c.strTable != nil {
		s := any(v).(string)
		if code, ok := c.strTable.lookup(s); ok {
			return code
		}
		code := int32(len(c.values))
		c.values = append(c.values, v)
		c.strTable.insert(s, code)
		return code
	}
	if code, ok := c.codeOf[v]; ok {
		return code
	}
	code := int32(len(c.values))
	c.values = append(c.values, v)
	c.codeOf[v] = code
	return code
}

func (c *Coding[T]) valueAt(code int32) T {
	var zero T
	if code < 0 || int(code) >= len(c.values) {
		return zero
	}
	return c.values[code]
}

func (c *Coding[T]) size() int { return len(c.values) }

// stringCodeTable is a small open-addressed hash table keyed by xxhash of
// the string, used by Coding[string]. Linear probing with tombstone-free
// deletion (codes are append-only, so no deletion is needed).
type stringCodeTable struct {
	buckets []stringCodeBucket
	count   int
}

type stringCodeBucket struct {
	key  string
	code int32
	used bool
}

func newStringCodeTable(capacity int) *stringCodeTable {
	if capacity < 8 {
		capacity = 8
	}
	return &stringCodeTable{buckets: make([]stringCodeBucket, nextPow2(capacity))}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (t *stringCodeTable) lookup(key string) (int32, bool) {
	mask := uint64(len(t.buckets) - 1)
	i := xxhash.Sum64String(key) & mask
	for {
		b := &t.buckets[i]
		if !b.used {
			return 0, false
		}
		if b.key == key {
			return b.code, true
		}
		i = (i + 1) & mask
	}
}

func (t *stringCodeTable) insert(key string, code int32) {
	if t.count*2 >= len(t.buckets) {
		t.grow()
	}
	mask := uint64(len(t.buckets) - 1)
	i := xxhash.Sum64String(key) & mask
	for t.buckets[i].used {
		i = (i + 1) & mask
	}
	t.buckets[i] = stringCodeBucket{key: key, code: code, used: true}
	t.count++
}

func (t *stringCodeTable) grow() {
	old := t.buckets
	t.buckets = make([]stringCodeBucket, len(old)*2)
	t.count = 0
	for _, b := range old {
		if b.used {
			t.insert(b.key, b.code)
		}
	}
}

// CodedDense[T] stores an int32 code per ordinal in a dense buffer and
// resolves values through a shared Coding[T] table; used for Enum
// columns and any String/Int column whose distinct cardinality is low
// enough that storing codes beats storing values directly.
type CodedDense[T comparable] struct {
	codes    *denseInt
	coding   *Coding[T]
	elemType Type
}

const nullCode int32 = -1

func newCodedDense[T comparable](n int, t Type, coding *Coding[T]) *CodedDense[T] {
	codes := newDenseInt(n, nil)
	for i := 0; i < n; i++ {
		codes.SetInt(i, nullCode)
	}
	if coding == nil {
		coding = NewCoding[T]()
	}
	return &CodedDense[T]{codes: codes, coding: coding, elemType: t}
}

func (a *CodedDense[T]) Len() int          { return a.codes.Len() }
func (a *CodedDense[T]) Type() Type        { return a.elemType }
func (a *CodedDense[T]) Style() Style      { return StyleCodedDense }
func (a *CodedDense[T]) DefaultValue() any { var zero T; return zero }

func (a *CodedDense[T]) GetValue(i int) any {
	code := a.codes.GetInt(i)
	if code == nullCode {
		return nil
	}
	return a.coding.valueAt(code)
}

func (a *CodedDense[T]) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.codes.SetInt(i, a.coding.codeFor(v.(T)))
}

func (a *CodedDense[T]) IsNull(i int) bool { return a.codes.GetInt(i) == nullCode }
func (a *CodedDense[T]) SetNull(i int)     { a.codes.SetInt(i, nullCode) }

func (a *CodedDense[T]) GetBoolean(i int) bool {
	v, _ := any(a.GetValue(i)).(bool)
	return v
}
func (a *CodedDense[T]) GetInt(i int) int32 {
	v, _ := any(a.GetValue(i)).(int32)
	return v
}
func (a *CodedDense[T]) GetLong(i int) int64 {
	v, _ := any(a.GetValue(i)).(int64)
	return v
}
func (a *CodedDense[T]) GetDouble(i int) float64 {
	v, _ := any(a.GetValue(i)).(float64)
	return v
}
func (a *CodedDense[T]) GetString(i int) string {
	v, _ := any(a.GetValue(i)).(string)
	return v
}
func (a *CodedDense[T]) SetBoolean(i int, v bool)   { a.SetValue(i, v) }
func (a *CodedDense[T]) SetInt(i int, v int32)      { a.SetValue(i, v) }
func (a *CodedDense[T]) SetLong(i int, v int64)     { a.SetValue(i, v) }
func (a *CodedDense[T]) SetDouble(i int, v float64) { a.SetValue(i, v) }
func (a *CodedDense[T]) SetString(i int, v string)  { a.SetValue(i, v) }

func (a *CodedDense[T]) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *CodedDense[T]) Fill(value any, start, end int) {
	code := a.coding.codeFor(value.(T))
	for i := start; i < end; i++ {
		a.codes.SetInt(i, code)
	}
}

func (a *CodedDense[T]) Swap(i, j int) { a.codes.Swap(i, j) }

func (a *CodedDense[T]) Compare(i, j int) int {
	return compareAny(a.GetValue(i), a.GetValue(j))
}

func (a *CodedDense[T]) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *CodedDense[T]) orderLess(i, j int) bool { return a.codes.orderLess(i, j) }

func (a *CodedDense[T]) Filter(keep func(int) bool) Array {
	out := newCodedDense[T](0, a.elemType, a.coding)
	for i := 0; i < a.Len(); i++ {
		if keep(i) {
			out.codes.Expand(out.Len() + 1)
			out.codes.SetInt(out.Len()-1, a.codes.GetInt(i))
		}
	}
	return out
}

func (a *CodedDense[T]) Copy() Array { return a.CopyRange(0, a.Len()) }

func (a *CodedDense[T]) CopyRange(start, end int) Array {
	out := newCodedDense[T](end-start, a.elemType, a.coding)
	out.codes = a.codes.CopyRange(start, end).(*denseInt)
	return out
}

func (a *CodedDense[T]) Gather(ordinals []int) Array {
	out := newCodedDense[T](len(ordinals), a.elemType, a.coding)
	out.codes = a.codes.Gather(ordinals).(*denseInt)
	return out
}

func (a *CodedDense[T]) Expand(newLen int) { a.codes.Expand(newLen) }

func (a *CodedDense[T]) BinarySearch(start, end int, value any) int {
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

func (a *CodedDense[T]) Distinct() []int {
	seen := make(map[int32]struct{})
	var out []int
	for i := 0; i < a.Len(); i++ {
		code := a.codes.GetInt(i)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, i)
	}
	return out
}

func (a *CodedDense[T]) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "Coded"))
}

func (a *CodedDense[T]) WriteTo(w ArraySink) (int64, error)   { return a.codes.WriteTo(w) }
func (a *CodedDense[T]) ReadFrom(r ArraySource) (int64, error) { return a.codes.ReadFrom(r) }

// CodedSparse[T] is CodedDense[T]'s sparse-storage counterpart: codes are
// kept in a Sparse[int32] instead of a dense buffer, for Enum columns
// that are mostly one value.
type CodedSparse[T comparable] struct {
	codes    *Sparse[int32]
	coding   *Coding[T]
	elemType Type
}

func newCodedSparse[T comparable](n int, t Type, coding *Coding[T]) *CodedSparse[T] {
	if coding == nil {
		coding = NewCoding[T]()
	}
	return &CodedSparse[T]{codes: newSparse[int32](n, Int, nullCode, 0), coding: coding, elemType: t}
}

func (a *CodedSparse[T]) Len() int          { return a.codes.Len() }
func (a *CodedSparse[T]) Type() Type        { return a.elemType }
func (a *CodedSparse[T]) Style() Style      { return StyleCodedSparse }
func (a *CodedSparse[T]) DefaultValue() any { var zero T; return zero }

func (a *CodedSparse[T]) GetValue(i int) any {
	if a.codes.IsNull(i) {
		return nil
	}
	code := a.codes.get(i)
	if code == nullCode {
		return a.coding.valueAt(a.codes.defaultValue)
	}
	return a.coding.valueAt(code)
}

func (a *CodedSparse[T]) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.codes.set(i, a.coding.codeFor(v.(T)))
}

func (a *CodedSparse[T]) IsNull(i int) bool { return a.codes.IsNull(i) }
func (a *CodedSparse[T]) SetNull(i int)     { a.codes.SetNull(i) }

func (a *CodedSparse[T]) GetBoolean(i int) bool   { v, _ := any(a.GetValue(i)).(bool); return v }
func (a *CodedSparse[T]) GetInt(i int) int32      { v, _ := any(a.GetValue(i)).(int32); return v }
func (a *CodedSparse[T]) GetLong(i int) int64     { v, _ := any(a.GetValue(i)).(int64); return v }
func (a *CodedSparse[T]) GetDouble(i int) float64 { v, _ := any(a.GetValue(i)).(float64); return v }
func (a *CodedSparse[T]) GetString(i int) string  { v, _ := any(a.GetValue(i)).(string); return v }
func (a *CodedSparse[T]) SetBoolean(i int, v bool)   { a.SetValue(i, v) }
func (a *CodedSparse[T]) SetInt(i int, v int32)      { a.SetValue(i, v) }
func (a *CodedSparse[T]) SetLong(i int, v int64)     { a.SetValue(i, v) }
func (a *CodedSparse[T]) SetDouble(i int, v float64) { a.SetValue(i, v) }
func (a *CodedSparse[T]) SetString(i int, v string)  { a.SetValue(i, v) }

func (a *CodedSparse[T]) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *CodedSparse[T]) Fill(value any, start, end int) {
	code := a.coding.codeFor(value.(T))
	a.codes.Fill(code, start, end)
}

func (a *CodedSparse[T]) Swap(i, j int)                     { a.codes.Swap(i, j) }
func (a *CodedSparse[T]) Compare(i, j int) int              { return compareAny(a.GetValue(i), a.GetValue(j)) }
func (a *CodedSparse[T]) Sort(start, end, direction int)    { sortArray(a, start, end, direction) }
func (a *CodedSparse[T]) orderLess(i, j int) bool           { return a.codes.orderLess(i, j) }

func (a *CodedSparse[T]) Filter(keep func(int) bool) Array {
	out := &CodedSparse[T]{codes: a.codes.Filter(keep).(*Sparse[int32]), coding: a.coding, elemType: a.elemType}
	return out
}
func (a *CodedSparse[T]) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *CodedSparse[T]) CopyRange(start, end int) Array {
	return &CodedSparse[T]{codes: a.codes.CopyRange(start, end).(*Sparse[int32]), coding: a.coding, elemType: a.elemType}
}
func (a *CodedSparse[T]) Gather(ordinals []int) Array {
	return &CodedSparse[T]{codes: a.codes.Gather(ordinals).(*Sparse[int32]), coding: a.coding, elemType: a.elemType}
}
func (a *CodedSparse[T]) Expand(newLen int) { a.codes.Expand(newLen) }

func (a *CodedSparse[T]) BinarySearch(start, end int, value any) int {
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

func (a *CodedSparse[T]) Distinct() []int {
	seen := make(map[int32]struct{})
	var out []int
	for i := 0; i < a.Len(); i++ {
		code := a.codes.get(i)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, i)
	}
	return out
}

func (a *CodedSparse[T]) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "Coded"))
}

func (a *CodedSparse[T]) WriteTo(w ArraySink) (int64, error)   { return a.codes.WriteTo(w) }
func (a *CodedSparse[T]) ReadFrom(r ArraySource) (int64, error) { return a.codes.ReadFrom(r) }
