package array

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// denseBool, denseInt, denseLong and denseDouble back every primitive
// Dense array with a primBuffer (bytes allocated through Arrow's
// memory.Allocator) instead of a []T slice, so a million-row boolean
// column costs roughly a million bytes rather than a million interface
// words. denseString and denseObject stay slice-backed: strings and
// arbitrary objects are already heap pointers in Go, so boxing them in a
// []byte buffer would buy nothing.
//
// LocalDate, LocalTime and LocalDateTime reuse denseLong with their Type
// tag set accordingly, since all three are stored as an
// epoch-millisecond int64 payload.

type denseBool struct {
	buf   *primBuffer
	nulls []bool
	orderTracker
}

func newDenseBool(n int, alloc memory.Allocator) *denseBool {
	return &denseBool{buf: newPrimBuffer(alloc, 1, n), nulls: make([]bool, n), orderTracker: newOrderTracker(n)}
}

func (a *denseBool) Len() int          { return a.buf.len() }
func (a *denseBool) Type() Type        { return Boolean }
func (a *denseBool) Style() Style      { return StyleDense }
func (a *denseBool) DefaultValue() any { return false }

func (a *denseBool) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseBool) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetBoolean(i)
}

func (a *denseBool) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetBoolean(i, v.(bool))
}

func (a *denseBool) IsNull(i int) bool    { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseBool) SetNull(i int)        { a.checkBounds("SetNull", i); a.nulls[i] = true; a.buf.setByte(i, 0) }
func (a *denseBool) GetBoolean(i int) bool {
	a.checkBounds("GetBoolean", i)
	if a.nulls[i] {
		return false
	}
	return a.buf.getByte(i) != 0
}
func (a *denseBool) SetBoolean(i int, v bool) {
	a.checkBounds("SetBoolean", i)
	a.nulls[i] = false
	if v {
		a.buf.setByte(i, 1)
	} else {
		a.buf.setByte(i, 0)
	}
}
func (a *denseBool) GetInt(i int) int32       { return boolToInt32(a.GetBoolean(i)) }
func (a *denseBool) GetLong(i int) int64      { return int64(boolToInt32(a.GetBoolean(i))) }
func (a *denseBool) GetDouble(i int) float64  { return float64(boolToInt32(a.GetBoolean(i))) }
func (a *denseBool) GetString(i int) string   { return strconv.FormatBool(a.GetBoolean(i)) }
func (a *denseBool) SetInt(i int, v int32)    { a.SetBoolean(i, v != 0) }
func (a *denseBool) SetLong(i int, v int64)   { a.SetBoolean(i, v != 0) }
func (a *denseBool) SetDouble(i int, v float64) { a.SetBoolean(i, v != 0) }
func (a *denseBool) SetString(i int, v string) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(xerrors.NewParseError("Boolean", v, err))
	}
	a.SetBoolean(i, b)
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (a *denseBool) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetBoolean(i) == other.GetBoolean(j)
}

func (a *denseBool) Fill(value any, start, end int) {
	v, _ := value.(bool)
	for i := start; i < end; i++ {
		a.SetBoolean(i, v)
	}
}

func (a *denseBool) Swap(i, j int) {
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.buf.swap(i, j)
	a.orderTracker.swap(i, j)
}

func (a *denseBool) Compare(i, j int) int {
	bi, bj := a.GetBoolean(i), a.GetBoolean(j)
	switch {
	case bi == bj:
		return 0
	case !bi:
		return -1
	default:
		return 1
	}
}

func (a *denseBool) Sort(start, end, direction int) {
	sortArray(a, start, end, direction)
}

func (a *denseBool) Filter(keep func(int) bool) Array {
	out := newDenseBool(0, a.buf.alloc)
	for i := 0; i < a.Len(); i++ {
		if keep(i) {
			out.appendFrom(a, i)
		}
	}
	return out
}

func (a *denseBool) appendFrom(src *denseBool, i int) {
	n := a.Len()
	a.Expand(n + 1)
	a.orderTracker.order[n] = int32(n)
	if src.nulls[i] {
		a.SetNull(n)
	} else {
		a.SetBoolean(n, src.GetBoolean(i))
	}
}

func (a *denseBool) Copy() Array { return a.CopyRange(0, a.Len()) }

func (a *denseBool) CopyRange(start, end int) Array {
	out := newDenseBool(end-start, a.buf.alloc)
	for i := start; i < end; i++ {
		if a.nulls[i] {
			out.SetNull(i - start)
		} else {
			out.SetBoolean(i-start, a.GetBoolean(i))
		}
	}
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}

func (a *denseBool) Gather(ordinals []int) Array {
	out := newDenseBool(len(ordinals), a.buf.alloc)
	for k, ord := range ordinals {
		if a.nulls[ord] {
			out.SetNull(k)
		} else {
			out.SetBoolean(k, a.GetBoolean(ord))
		}
	}
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseBool) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	a.buf.expand(newLen)
	grown := make([]bool, newLen)
	copy(grown, a.nulls)
	a.nulls = grown
	a.orderTracker.expand(newLen)
}

func (a *denseBool) BinarySearch(start, end int, value any) int {
	target, _ := value.(bool)
	for i := start; i < end; i++ {
		c := a.GetBoolean(i)
		if c == target {
			return i
		}
		if !c && target {
			continue
		}
		return -i - 1
	}
	return -end - 1
}

func (a *denseBool) Distinct() []int {
	seenFalse, seenTrue := false, false
	var out []int
	for i := 0; i < a.Len(); i++ {
		v := a.GetBoolean(i)
		if v && !seenTrue {
			seenTrue = true
			out = append(out, i)
		} else if !v && !seenFalse {
			seenFalse = true
			out = append(out, i)
		}
	}
	return out
}

func (a *denseBool) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "Boolean"))
}

func (a *denseBool) WriteTo(w ArraySink) (int64, error) { return writeDenseBool(a, w) }
func (a *denseBool) ReadFrom(r ArraySource) (int64, error) { return readDenseBool(a, r) }

// denseInt stores int32 values in a 4-byte-per-element primBuffer.
type denseInt struct {
	buf   *primBuffer
	nulls []bool
	orderTracker
}

func newDenseInt(n int, alloc memory.Allocator) *denseInt {
	return &denseInt{buf: newPrimBuffer(alloc, 4, n), nulls: make([]bool, n), orderTracker: newOrderTracker(n)}
}

func (a *denseInt) Len() int          { return a.buf.len() }
func (a *denseInt) Type() Type        { return Int }
func (a *denseInt) Style() Style      { return StyleDense }
func (a *denseInt) DefaultValue() any { return int32(0) }

func (a *denseInt) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseInt) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetInt(i)
}
func (a *denseInt) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetInt(i, v.(int32))
}
func (a *denseInt) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseInt) SetNull(i int)     { a.checkBounds("SetNull", i); a.nulls[i] = true; a.buf.setUint32(i, 0) }
func (a *denseInt) GetInt(i int) int32 {
	a.checkBounds("GetInt", i)
	if a.nulls[i] {
		return 0
	}
	return int32(a.buf.getUint32(i))
}
func (a *denseInt) SetInt(i int, v int32) {
	a.checkBounds("SetInt", i)
	a.nulls[i] = false
	a.buf.setUint32(i, uint32(v))
}
func (a *denseInt) GetBoolean(i int) bool      { return a.GetInt(i) != 0 }
func (a *denseInt) GetLong(i int) int64        { return int64(a.GetInt(i)) }
func (a *denseInt) GetDouble(i int) float64    { return float64(a.GetInt(i)) }
func (a *denseInt) GetString(i int) string     { return strconv.FormatInt(int64(a.GetInt(i)), 10) }
func (a *denseInt) SetBoolean(i int, v bool)   { a.SetInt(i, boolToInt32(v)) }
func (a *denseInt) SetLong(i int, v int64)     { a.SetInt(i, int32(v)) }
func (a *denseInt) SetDouble(i int, v float64) { a.SetInt(i, int32(v)) }
func (a *denseInt) SetString(i int, v string) {
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		panic(xerrors.NewParseError("Int", v, err))
	}
	a.SetInt(i, int32(n))
}

func (a *denseInt) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetInt(i) == other.GetInt(j)
}

func (a *denseInt) Fill(value any, start, end int) {
	v, _ := value.(int32)
	for i := start; i < end; i++ {
		a.SetInt(i, v)
	}
}

func (a *denseInt) Swap(i, j int) {
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.buf.swap(i, j)
	a.orderTracker.swap(i, j)
}

func (a *denseInt) Compare(i, j int) int { return compareOrdered(a.GetInt(i), a.GetInt(j)) }
func (a *denseInt) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *denseInt) Filter(keep func(int) bool) Array {
	vals := a.materialize()
	kept := filterGeneric(vals, keep)
	keptNulls := filterGeneric(a.nulls, keep)
	return buildDenseInt(kept, keptNulls, a.buf.alloc)
}

func (a *denseInt) materialize() []int32 {
	out := make([]int32, a.Len())
	for i := range out {
		out[i] = a.GetInt(i)
	}
	return out
}

func buildDenseInt(vals []int32, nulls []bool, alloc memory.Allocator) *denseInt {
	out := newDenseInt(len(vals), alloc)
	for i, v := range vals {
		if nulls[i] {
			out.SetNull(i)
		} else {
			out.SetInt(i, v)
		}
	}
	return out
}

func (a *denseInt) Copy() Array { return a.CopyRange(0, a.Len()) }

func (a *denseInt) CopyRange(start, end int) Array {
	vals := copyRangeGeneric(a.materialize(), start, end)
	nulls := copyRangeGeneric(a.nulls, start, end)
	out := buildDenseInt(vals, nulls, a.buf.alloc)
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}

func (a *denseInt) Gather(ordinals []int) Array {
	vals := gatherGeneric(a.materialize(), ordinals)
	nulls := gatherGeneric(a.nulls, ordinals)
	out := buildDenseInt(vals, nulls, a.buf.alloc)
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseInt) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	a.buf.expand(newLen)
	grown := make([]bool, newLen)
	copy(grown, a.nulls)
	a.nulls = grown
	a.orderTracker.expand(newLen)
}

func (a *denseInt) BinarySearch(start, end int, value any) int {
	return binarySearchGeneric(a.materialize(), start, end, value.(int32))
}

func (a *denseInt) Distinct() []int { return distinctGeneric(a.materialize()) }

func (a *denseInt) CumSum(start, end int) []float64 {
	return cumSumGeneric(a.materialize(), start, end)
}

func (a *denseInt) WriteTo(w ArraySink) (int64, error)   { return writeDenseInt(a, w) }
func (a *denseInt) ReadFrom(r ArraySource) (int64, error) { return readDenseInt(a, r) }

// denseLong stores int64 values (and doubles as the backing storage for
// LocalDate/LocalTime/LocalDateTime's epoch-millisecond payload; those
// types construct a denseLong whose elemType field Type() reports).
type denseLong struct {
	buf      *primBuffer
	nulls    []bool
	elemType Type
	orderTracker
}

func newDenseLong(n int, alloc memory.Allocator, t Type) *denseLong {
	return &denseLong{buf: newPrimBuffer(alloc, 8, n), nulls: make([]bool, n), elemType: t, orderTracker: newOrderTracker(n)}
}

func (a *denseLong) Len() int          { return a.buf.len() }
func (a *denseLong) Type() Type        { return a.elemType }
func (a *denseLong) Style() Style      { return StyleDense }
func (a *denseLong) DefaultValue() any { return int64(0) }

func (a *denseLong) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseLong) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetLong(i)
}
func (a *denseLong) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetLong(i, v.(int64))
}
func (a *denseLong) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseLong) SetNull(i int)     { a.checkBounds("SetNull", i); a.nulls[i] = true; a.buf.setUint64(i, 0) }
func (a *denseLong) GetLong(i int) int64 {
	a.checkBounds("GetLong", i)
	if a.nulls[i] {
		return 0
	}
	return int64(a.buf.getUint64(i))
}
func (a *denseLong) SetLong(i int, v int64) {
	a.checkBounds("SetLong", i)
	a.nulls[i] = false
	a.buf.setUint64(i, uint64(v))
}
func (a *denseLong) GetBoolean(i int) bool      { return a.GetLong(i) != 0 }
func (a *denseLong) GetInt(i int) int32         { return int32(a.GetLong(i)) }
func (a *denseLong) GetDouble(i int) float64    { return float64(a.GetLong(i)) }
func (a *denseLong) GetString(i int) string     { return strconv.FormatInt(a.GetLong(i), 10) }
func (a *denseLong) SetBoolean(i int, v bool)   { a.SetLong(i, int64(boolToInt32(v))) }
func (a *denseLong) SetInt(i int, v int32)      { a.SetLong(i, int64(v)) }
func (a *denseLong) SetDouble(i int, v float64) { a.SetLong(i, int64(v)) }
func (a *denseLong) SetString(i int, v string) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(xerrors.NewParseError(a.elemType.String(), v, err))
	}
	a.SetLong(i, n)
}

func (a *denseLong) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetLong(i) == other.GetLong(j)
}

func (a *denseLong) Fill(value any, start, end int) {
	v, _ := value.(int64)
	for i := start; i < end; i++ {
		a.SetLong(i, v)
	}
}

func (a *denseLong) Swap(i, j int) {
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.buf.swap(i, j)
	a.orderTracker.swap(i, j)
}

func (a *denseLong) Compare(i, j int) int { return compareOrdered(a.GetLong(i), a.GetLong(j)) }
func (a *denseLong) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *denseLong) materialize() []int64 {
	out := make([]int64, a.Len())
	for i := range out {
		out[i] = a.GetLong(i)
	}
	return out
}

func (a *denseLong) buildFrom(vals []int64, nulls []bool) *denseLong {
	out := newDenseLong(len(vals), a.buf.alloc, a.elemType)
	for i, v := range vals {
		if nulls[i] {
			out.SetNull(i)
		} else {
			out.SetLong(i, v)
		}
	}
	return out
}

func (a *denseLong) Filter(keep func(int) bool) Array {
	return a.buildFrom(filterGeneric(a.materialize(), keep), filterGeneric(a.nulls, keep))
}
func (a *denseLong) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *denseLong) CopyRange(start, end int) Array {
	out := a.buildFrom(copyRangeGeneric(a.materialize(), start, end), copyRangeGeneric(a.nulls, start, end))
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}
func (a *denseLong) Gather(ordinals []int) Array {
	out := a.buildFrom(gatherGeneric(a.materialize(), ordinals), gatherGeneric(a.nulls, ordinals))
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseLong) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	a.buf.expand(newLen)
	grown := make([]bool, newLen)
	copy(grown, a.nulls)
	a.nulls = grown
	a.orderTracker.expand(newLen)
}

func (a *denseLong) BinarySearch(start, end int, value any) int {
	return binarySearchGeneric(a.materialize(), start, end, value.(int64))
}
func (a *denseLong) Distinct() []int { return distinctGeneric(a.materialize()) }
func (a *denseLong) CumSum(start, end int) []float64 {
	if !a.elemType.IsNumeric() {
		panic(xerrors.NewUnsupportedOperationError("CumSum", a.elemType.String()))
	}
	return cumSumGeneric(a.materialize(), start, end)
}

func (a *denseLong) WriteTo(w ArraySink) (int64, error)   { return writeDenseLong(a, w) }
func (a *denseLong) ReadFrom(r ArraySource) (int64, error) { return readDenseLong(a, r) }

// denseDouble stores float64 values in an 8-byte-per-element primBuffer.
type denseDouble struct {
	buf   *primBuffer
	nulls []bool
	orderTracker
}

func newDenseDouble(n int, alloc memory.Allocator) *denseDouble {
	return &denseDouble{buf: newPrimBuffer(alloc, 8, n), nulls: make([]bool, n), orderTracker: newOrderTracker(n)}
}

func (a *denseDouble) Len() int          { return a.buf.len() }
func (a *denseDouble) Type() Type        { return Double }
func (a *denseDouble) Style() Style      { return StyleDense }
func (a *denseDouble) DefaultValue() any { return math.NaN() }

func (a *denseDouble) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseDouble) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetDouble(i)
}
func (a *denseDouble) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetDouble(i, v.(float64))
}
func (a *denseDouble) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseDouble) SetNull(i int) {
	a.checkBounds("SetNull", i)
	a.nulls[i] = true
	a.buf.setUint64(i, math.Float64bits(math.NaN()))
}
func (a *denseDouble) GetDouble(i int) float64 {
	a.checkBounds("GetDouble", i)
	if a.nulls[i] {
		return math.NaN()
	}
	return math.Float64frombits(a.buf.getUint64(i))
}
func (a *denseDouble) SetDouble(i int, v float64) {
	a.checkBounds("SetDouble", i)
	a.nulls[i] = false
	a.buf.setUint64(i, math.Float64bits(v))
}
func (a *denseDouble) GetBoolean(i int) bool    { return a.GetDouble(i) != 0 }
func (a *denseDouble) GetInt(i int) int32       { return int32(a.GetDouble(i)) }
func (a *denseDouble) GetLong(i int) int64      { return int64(a.GetDouble(i)) }
func (a *denseDouble) GetString(i int) string   { return strconv.FormatFloat(a.GetDouble(i), 'g', -1, 64) }
func (a *denseDouble) SetBoolean(i int, v bool) { a.SetDouble(i, float64(boolToInt32(v))) }
func (a *denseDouble) SetInt(i int, v int32)    { a.SetDouble(i, float64(v)) }
func (a *denseDouble) SetLong(i int, v int64)   { a.SetDouble(i, float64(v)) }
func (a *denseDouble) SetString(i int, v string) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(xerrors.NewParseError("Double", v, err))
	}
	a.SetDouble(i, f)
}

func (a *denseDouble) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return doublesEqual(a.GetDouble(i), other.GetDouble(j))
}

func (a *denseDouble) Fill(value any, start, end int) {
	v, _ := value.(float64)
	for i := start; i < end; i++ {
		a.SetDouble(i, v)
	}
}

func (a *denseDouble) Swap(i, j int) {
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.buf.swap(i, j)
	a.orderTracker.swap(i, j)
}

func (a *denseDouble) Compare(i, j int) int { return compareDoubles(a.GetDouble(i), a.GetDouble(j)) }
func (a *denseDouble) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *denseDouble) materialize() []float64 {
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = a.GetDouble(i)
	}
	return out
}

func (a *denseDouble) buildFrom(vals []float64, nulls []bool) *denseDouble {
	out := newDenseDouble(len(vals), a.buf.alloc)
	for i, v := range vals {
		if nulls[i] {
			out.SetNull(i)
		} else {
			out.SetDouble(i, v)
		}
	}
	return out
}

func (a *denseDouble) Filter(keep func(int) bool) Array {
	return a.buildFrom(filterGeneric(a.materialize(), keep), filterGeneric(a.nulls, keep))
}
func (a *denseDouble) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *denseDouble) CopyRange(start, end int) Array {
	out := a.buildFrom(copyRangeGeneric(a.materialize(), start, end), copyRangeGeneric(a.nulls, start, end))
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}
func (a *denseDouble) Gather(ordinals []int) Array {
	out := a.buildFrom(gatherGeneric(a.materialize(), ordinals), gatherGeneric(a.nulls, ordinals))
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseDouble) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	a.buf.expand(newLen)
	grown := make([]bool, newLen)
	copy(grown, a.nulls)
	a.nulls = grown
	a.orderTracker.expand(newLen)
}

func (a *denseDouble) BinarySearch(start, end int, value any) int {
	target := value.(float64)
	lo, hi := start, end
	vals := a.materialize()
	for lo < hi {
		mid := lo + (hi-lo)/2
		c := compareDoubles(vals[mid], target)
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

func (a *denseDouble) Distinct() []int {
	seen := make(map[float64]struct{}, a.Len())
	var out []int
	for i := 0; i < a.Len(); i++ {
		v := a.GetDouble(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, i)
	}
	return out
}

func (a *denseDouble) CumSum(start, end int) []float64 {
	vals := a.materialize()
	out := make([]float64, end-start)
	var running float64
	for i := start; i < end; i++ {
		running += vals[i]
		out[i-start] = running
	}
	return out
}

func (a *denseDouble) WriteTo(w ArraySink) (int64, error)   { return writeDenseDouble(a, w) }
func (a *denseDouble) ReadFrom(r ArraySource) (int64, error) { return readDenseDouble(a, r) }

// denseString and denseObject are plain []T slices with a parallel null
// bitmap; boxing a string or interface{} into a byte buffer buys nothing.

type denseString struct {
	vals  []string
	nulls []bool
	orderTracker
}

func newDenseString(n int) *denseString {
	return &denseString{vals: make([]string, n), nulls: make([]bool, n), orderTracker: newOrderTracker(n)}
}

func (a *denseString) Len() int          { return len(a.vals) }
func (a *denseString) Type() Type        { return String }
func (a *denseString) Style() Style      { return StyleDense }
func (a *denseString) DefaultValue() any { return "" }

func (a *denseString) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseString) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetString(i)
}
func (a *denseString) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetString(i, v.(string))
}
func (a *denseString) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseString) SetNull(i int)     { a.checkBounds("SetNull", i); a.nulls[i] = true; a.vals[i] = "" }
func (a *denseString) GetString(i int) string {
	a.checkBounds("GetString", i)
	return a.vals[i]
}
func (a *denseString) SetString(i int, v string) {
	a.checkBounds("SetString", i)
	a.nulls[i] = false
	a.vals[i] = v
}
func (a *denseString) GetBoolean(i int) bool {
	b, err := strconv.ParseBool(a.GetString(i))
	if err != nil {
		panic(xerrors.NewParseError("Boolean", a.GetString(i), err))
	}
	return b
}
func (a *denseString) GetInt(i int) int32 {
	n, err := strconv.ParseInt(a.GetString(i), 10, 32)
	if err != nil {
		panic(xerrors.NewParseError("Int", a.GetString(i), err))
	}
	return int32(n)
}
func (a *denseString) GetLong(i int) int64 {
	n, err := strconv.ParseInt(a.GetString(i), 10, 64)
	if err != nil {
		panic(xerrors.NewParseError("Long", a.GetString(i), err))
	}
	return n
}
func (a *denseString) GetDouble(i int) float64 {
	f, err := strconv.ParseFloat(a.GetString(i), 64)
	if err != nil {
		panic(xerrors.NewParseError("Double", a.GetString(i), err))
	}
	return f
}
func (a *denseString) SetBoolean(i int, v bool)   { a.SetString(i, strconv.FormatBool(v)) }
func (a *denseString) SetInt(i int, v int32)      { a.SetString(i, strconv.FormatInt(int64(v), 10)) }
func (a *denseString) SetLong(i int, v int64)     { a.SetString(i, strconv.FormatInt(v, 10)) }
func (a *denseString) SetDouble(i int, v float64) { a.SetString(i, strconv.FormatFloat(v, 'g', -1, 64)) }

func (a *denseString) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetString(i) == other.GetString(j)
}

func (a *denseString) Fill(value any, start, end int) {
	v, _ := value.(string)
	for i := start; i < end; i++ {
		a.SetString(i, v)
	}
}

func (a *denseString) Swap(i, j int) {
	a.vals[i], a.vals[j] = a.vals[j], a.vals[i]
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.orderTracker.swap(i, j)
}

func (a *denseString) Compare(i, j int) int { return compareOrdered(a.vals[i], a.vals[j]) }
func (a *denseString) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *denseString) buildFrom(vals []string, nulls []bool) *denseString {
	out := newDenseString(len(vals))
	copy(out.vals, vals)
	copy(out.nulls, nulls)
	return out
}

func (a *denseString) Filter(keep func(int) bool) Array {
	return a.buildFrom(filterGeneric(a.vals, keep), filterGeneric(a.nulls, keep))
}
func (a *denseString) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *denseString) CopyRange(start, end int) Array {
	out := a.buildFrom(copyRangeGeneric(a.vals, start, end), copyRangeGeneric(a.nulls, start, end))
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}
func (a *denseString) Gather(ordinals []int) Array {
	out := a.buildFrom(gatherGeneric(a.vals, ordinals), gatherGeneric(a.nulls, ordinals))
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseString) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	grownVals := make([]string, newLen)
	copy(grownVals, a.vals)
	a.vals = grownVals
	grownNulls := make([]bool, newLen)
	copy(grownNulls, a.nulls)
	a.nulls = grownNulls
	a.orderTracker.expand(newLen)
}

func (a *denseString) BinarySearch(start, end int, value any) int {
	return binarySearchGeneric(a.vals, start, end, value.(string))
}
func (a *denseString) Distinct() []int { return distinctGeneric(a.vals) }
func (a *denseString) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "String"))
}

func (a *denseString) WriteTo(w ArraySink) (int64, error)   { return writeDenseString(a, w) }
func (a *denseString) ReadFrom(r ArraySource) (int64, error) { return readDenseString(a, r) }

// denseObject stores arbitrary Go values, the Object element type
// for columns that don't fit any other primitive.
type denseObject struct {
	vals  []any
	nulls []bool
	orderTracker
}

func newDenseObject(n int) *denseObject {
	return &denseObject{vals: make([]any, n), nulls: make([]bool, n), orderTracker: newOrderTracker(n)}
}

func (a *denseObject) Len() int          { return len(a.vals) }
func (a *denseObject) Type() Type        { return Object }
func (a *denseObject) Style() Style      { return StyleDense }
func (a *denseObject) DefaultValue() any { return nil }

func (a *denseObject) checkBounds(op string, i int) {
	if i < 0 || i >= a.Len() {
		panic(xerrors.NewOutOfBoundsError(op, i, a.Len()))
	}
}

func (a *denseObject) GetValue(i int) any { a.checkBounds("GetValue", i); return a.vals[i] }
func (a *denseObject) SetValue(i int, v any) {
	a.checkBounds("SetValue", i)
	a.vals[i] = v
	a.nulls[i] = v == nil
}
func (a *denseObject) IsNull(i int) bool { a.checkBounds("IsNull", i); return a.nulls[i] }
func (a *denseObject) SetNull(i int)     { a.SetValue(i, nil) }

func (a *denseObject) GetBoolean(i int) bool   { v, _ := a.vals[i].(bool); return v }
func (a *denseObject) GetInt(i int) int32      { v, _ := a.vals[i].(int32); return v }
func (a *denseObject) GetLong(i int) int64     { v, _ := a.vals[i].(int64); return v }
func (a *denseObject) GetDouble(i int) float64 { v, _ := a.vals[i].(float64); return v }
func (a *denseObject) GetString(i int) string {
	if a.vals[i] == nil {
		return ""
	}
	if s, ok := a.vals[i].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", a.vals[i])
}
func (a *denseObject) SetBoolean(i int, v bool)   { a.SetValue(i, v) }
func (a *denseObject) SetInt(i int, v int32)      { a.SetValue(i, v) }
func (a *denseObject) SetLong(i int, v int64)     { a.SetValue(i, v) }
func (a *denseObject) SetDouble(i int, v float64) { a.SetValue(i, v) }
func (a *denseObject) SetString(i int, v string)  { a.SetValue(i, v) }

func (a *denseObject) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *denseObject) Fill(value any, start, end int) {
	for i := start; i < end; i++ {
		a.SetValue(i, value)
	}
}

func (a *denseObject) Swap(i, j int) {
	a.vals[i], a.vals[j] = a.vals[j], a.vals[i]
	a.nulls[i], a.nulls[j] = a.nulls[j], a.nulls[i]
	a.orderTracker.swap(i, j)
}

// Compare falls back to string comparison of fmt-formatted values;
// Object columns don't otherwise have a natural total order.
func (a *denseObject) Compare(i, j int) int {
	return compareOrdered(a.GetString(i), a.GetString(j))
}
func (a *denseObject) Sort(start, end, direction int) { sortArray(a, start, end, direction) }

func (a *denseObject) buildFrom(vals []any, nulls []bool) *denseObject {
	out := newDenseObject(len(vals))
	copy(out.vals, vals)
	copy(out.nulls, nulls)
	return out
}

func (a *denseObject) Filter(keep func(int) bool) Array {
	return a.buildFrom(filterGeneric(a.vals, keep), filterGeneric(a.nulls, keep))
}
func (a *denseObject) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *denseObject) CopyRange(start, end int) Array {
	out := a.buildFrom(copyRangeGeneric(a.vals, start, end), copyRangeGeneric(a.nulls, start, end))
	out.orderTracker = a.orderTracker.copyRange(start, end)
	return out
}
func (a *denseObject) Gather(ordinals []int) Array {
	out := a.buildFrom(gatherGeneric(a.vals, ordinals), gatherGeneric(a.nulls, ordinals))
	out.orderTracker = a.orderTracker.gather(ordinals)
	return out
}

func (a *denseObject) Expand(newLen int) {
	if newLen <= a.Len() {
		return
	}
	grownVals := make([]any, newLen)
	copy(grownVals, a.vals)
	a.vals = grownVals
	grownNulls := make([]bool, newLen)
	copy(grownNulls, a.nulls)
	a.nulls = grownNulls
	a.orderTracker.expand(newLen)
}

func (a *denseObject) BinarySearch(start, end int, value any) int {
	target, ok := value.(string)
	if !ok && value != nil {
		target = fmt.Sprintf("%v", value)
	}
	lo, hi := start, end
	for lo < hi {
		mid := lo + (hi-lo)/2
		c := compareOrdered(a.GetString(mid), target)
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

func (a *denseObject) Distinct() []int {
	seen := make(map[any]struct{}, a.Len())
	var out []int
	for i, v := range a.vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, i)
	}
	return out
}

func (a *denseObject) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "Object"))
}

func (a *denseObject) WriteTo(w ArraySink) (int64, error)   { return writeDenseObject(a, w) }
func (a *denseObject) ReadFrom(r ArraySource) (int64, error) { return readDenseObject(a, r) }

// sortArray implements the shared Sort contract for any Array: direction
// > 0 sorts ascending by Compare, direction < 0 descending, and direction
// == 0 restores insertion order via the embedded orderTracker. It is
// called by every concrete type's Sort method with itself as the
// receiver so Swap keeps the order tracker and null bitmap consistent.
func sortArray(a interface {
	Compare(i, j int) int
	Swap(i, j int)
}, start, end, direction int) {
	var less func(i, j int) bool
	if t, ok := a.(interface{ orderLess(i, j int) bool }); ok && direction == 0 {
		less = t.orderLess
	} else if direction < 0 {
		less = func(i, j int) bool { return a.Compare(i, j) > 0 }
	} else {
		less = func(i, j int) bool { return a.Compare(i, j) < 0 }
	}
	sortRange(start, end, less, a.Swap)
}
