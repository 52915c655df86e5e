package array

import "github.com/myplant-io/d3x-morpheus/internal/xerrors"

// Mapped stores a date-like column as an int32 day offset from a base
// epoch day instead of a full int64 millisecond payload, halving the
// per-element footprint for LocalDate columns that span a bounded range
// (a calendar year of daily bars, a week of intraday bars bucketed to
// the day, ...). No Java source for a range-compressed date style was
// retrieved from original_source/, so the offset-from-base scheme and
// the dense-fallback overflow behavior below are this module's own
// design decision rather than a direct port.
//
// Overflow: the base day is taken from the first value SetLong stores.
// If SetLong is later asked to store a timestamp whose day offset from
// that base doesn't fit in int32 (days more than ~5.8 million years
// apart), Mapped transparently widens itself into a denseLong and every
// subsequent op is delegated there. Once widened, it never narrows back.
type Mapped struct {
	elemType Type
	baseDay  int64 // epoch day of the first value stored, established on first SetLong
	baseSet  bool
	offsets  *denseInt
	widened  *denseLong
}

const millisPerDay = 86400000

func newMapped(n int, t Type) *Mapped {
	return &Mapped{elemType: t, offsets: newDenseInt(n, nil)}
}

func (a *Mapped) dayOf(millis int64) int64 {
	if millis >= 0 {
		return millis / millisPerDay
	}
	return (millis - millisPerDay + 1) / millisPerDay
}

func (a *Mapped) Len() int {
	if a.widened != nil {
		return a.widened.Len()
	}
	return a.offsets.Len()
}
func (a *Mapped) Type() Type   { return a.elemType }
func (a *Mapped) Style() Style { return StyleMapped }
func (a *Mapped) DefaultValue() any {
	if a.widened != nil {
		return a.widened.DefaultValue()
	}
	return int64(0)
}

func (a *Mapped) widen() {
	if a.widened != nil {
		return
	}
	n := a.offsets.Len()
	w := newDenseLong(n, a.offsets.buf.alloc, a.elemType)
	for i := 0; i < n; i++ {
		if a.offsets.IsNull(i) {
			w.SetNull(i)
			continue
		}
		w.SetLong(i, (a.baseDay+int64(a.offsets.GetInt(i)))*millisPerDay)
	}
	a.widened = w
}

func (a *Mapped) GetLong(i int) int64 {
	if a.widened != nil {
		return a.widened.GetLong(i)
	}
	if a.offsets.IsNull(i) {
		return 0
	}
	return (a.baseDay + int64(a.offsets.GetInt(i))) * millisPerDay
}

func (a *Mapped) SetLong(i int, millis int64) {
	if a.widened != nil {
		a.widened.SetLong(i, millis)
		return
	}
	day := a.dayOf(millis)
	if !a.baseSet {
		a.baseDay = day
		a.baseSet = true
	}
	offset := day - a.baseDay
	if offset < int64(minInt32) || offset > int64(maxInt32) {
		a.widen()
		a.widened.SetLong(i, millis)
		return
	}
	a.offsets.SetInt(i, int32(offset))
}

const minInt32 = -1 << 31
const maxInt32 = 1<<31 - 1

func (a *Mapped) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return a.GetLong(i)
}
func (a *Mapped) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	a.SetLong(i, v.(int64))
}
func (a *Mapped) IsNull(i int) bool {
	if a.widened != nil {
		return a.widened.IsNull(i)
	}
	return a.offsets.IsNull(i)
}
func (a *Mapped) SetNull(i int) {
	if a.widened != nil {
		a.widened.SetNull(i)
		return
	}
	a.offsets.SetNull(i)
}

func (a *Mapped) GetBoolean(i int) bool   { return a.GetLong(i) != 0 }
func (a *Mapped) GetInt(i int) int32      { return int32(a.GetLong(i)) }
func (a *Mapped) GetDouble(i int) float64 { return float64(a.GetLong(i)) }
func (a *Mapped) GetString(i int) string  { return a.asArray().GetString(i) }
func (a *Mapped) SetBoolean(i int, v bool)   { a.SetLong(i, int64(boolToInt32(v))) }
func (a *Mapped) SetInt(i int, v int32)      { a.SetLong(i, int64(v)) }
func (a *Mapped) SetDouble(i int, v float64) { a.SetLong(i, int64(v)) }
func (a *Mapped) SetString(i int, v string)  { a.widen(); a.widened.SetString(i, v) }

// asArray exposes the widened denseLong representation for operations
// this type doesn't want to duplicate (string formatting, Filter/Copy/
// Gather, BinarySearch, Distinct, serialization); calling it widens the
// array for good.
func (a *Mapped) asArray() Array {
	a.widen()
	return a.widened
}

func (a *Mapped) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetLong(i) == other.GetLong(j)
}

func (a *Mapped) Fill(value any, start, end int) {
	v, _ := value.(int64)
	for i := start; i < end; i++ {
		a.SetLong(i, v)
	}
}

func (a *Mapped) Swap(i, j int) {
	if a.widened != nil {
		a.widened.Swap(i, j)
		return
	}
	a.offsets.Swap(i, j)
}

func (a *Mapped) Compare(i, j int) int { return compareOrdered(a.GetLong(i), a.GetLong(j)) }
func (a *Mapped) Sort(start, end, direction int) { sortArray(a, start, end, direction) }
func (a *Mapped) orderLess(i, j int) bool {
	if a.widened != nil {
		return a.widened.orderLess(i, j)
	}
	return a.offsets.orderLess(i, j)
}

func (a *Mapped) Filter(keep func(int) bool) Array { return a.asArray().Filter(keep) }
func (a *Mapped) Copy() Array                      { return a.asArray().Copy() }
func (a *Mapped) CopyRange(start, end int) Array    { return a.asArray().CopyRange(start, end) }
func (a *Mapped) Gather(ordinals []int) Array       { return a.asArray().Gather(ordinals) }

func (a *Mapped) Expand(newLen int) {
	if a.widened != nil {
		a.widened.Expand(newLen)
		return
	}
	a.offsets.Expand(newLen)
}

func (a *Mapped) BinarySearch(start, end int, value any) int {
	return a.asArray().BinarySearch(start, end, value)
}
func (a *Mapped) Distinct() []int { return a.asArray().Distinct() }
func (a *Mapped) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", a.elemType.String()))
}

func (a *Mapped) WriteTo(w ArraySink) (int64, error)   { return a.asArray().WriteTo(w) }
func (a *Mapped) ReadFrom(r ArraySource) (int64, error) { return a.asArray().ReadFrom(r) }
