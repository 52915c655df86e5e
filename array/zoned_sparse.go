package array

import (
	"strconv"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// sparseZonedArray is zonedArray's sparse-backed sibling: the instant and
// zone-id columns are each map-backed Sparse stores instead of dense
// buffers, grounded on the same SparseArrayOfZonedDateTimes.java pairing,
// for zoned timestamp columns where most slots hold the column's default
// instant and zone.
type sparseZonedArray struct {
	instants *Sparse[int64]
	zones    *Sparse[string]
}

func newSparseZonedArray(n int, def Zoned, capacityHint int) *sparseZonedArray {
	return &sparseZonedArray{
		instants: newSparse[int64](n, ZonedDateTime, def.Millis, capacityHint),
		zones:    newSparse[string](n, String, def.Zone, capacityHint),
	}
}

func (a *sparseZonedArray) Len() int          { return a.instants.Len() }
func (a *sparseZonedArray) Type() Type        { return ZonedDateTime }
func (a *sparseZonedArray) Style() Style      { return StyleSparse }
func (a *sparseZonedArray) DefaultValue() any {
	return Zoned{Millis: a.instants.defaultValue, Zone: a.zones.defaultValue}
}

func (a *sparseZonedArray) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return Zoned{Millis: a.instants.get(i), Zone: a.zones.get(i)}
}

func (a *sparseZonedArray) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	z := v.(Zoned)
	a.instants.set(i, z.Millis)
	a.zones.set(i, z.Zone)
}

func (a *sparseZonedArray) IsNull(i int) bool { return a.instants.IsNull(i) }
func (a *sparseZonedArray) SetNull(i int) {
	a.instants.SetNull(i)
	a.zones.SetNull(i)
}

func (a *sparseZonedArray) GetBoolean(i int) bool   { return a.instants.get(i) != 0 }
func (a *sparseZonedArray) GetInt(i int) int32      { return int32(a.instants.get(i)) }
func (a *sparseZonedArray) GetLong(i int) int64     { return a.instants.get(i) }
func (a *sparseZonedArray) GetDouble(i int) float64 { return float64(a.instants.get(i)) }
func (a *sparseZonedArray) GetString(i int) string {
	return strconv.FormatInt(a.instants.get(i), 10) + "@" + a.zones.get(i)
}
func (a *sparseZonedArray) SetBoolean(i int, v bool) {
	if v {
		a.instants.set(i, 1)
	} else {
		a.instants.set(i, 0)
	}
}
func (a *sparseZonedArray) SetInt(i int, v int32)      { a.instants.set(i, int64(v)) }
func (a *sparseZonedArray) SetLong(i int, v int64)     { a.instants.set(i, v) }
func (a *sparseZonedArray) SetDouble(i int, v float64) { a.instants.set(i, int64(v)) }
func (a *sparseZonedArray) SetString(i int, v string)  { a.zones.set(i, v) }

func (a *sparseZonedArray) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *sparseZonedArray) Fill(value any, start, end int) {
	z, _ := value.(Zoned)
	a.instants.Fill(z.Millis, start, end)
	a.zones.Fill(z.Zone, start, end)
}

func (a *sparseZonedArray) Swap(i, j int) {
	a.instants.Swap(i, j)
	a.zones.Swap(i, j)
}

func (a *sparseZonedArray) Compare(i, j int) int {
	return compareOrdered(a.instants.get(i), a.instants.get(j))
}
func (a *sparseZonedArray) Sort(start, end, direction int) { sortArray(a, start, end, direction) }
func (a *sparseZonedArray) orderLess(i, j int) bool        { return a.instants.orderLess(i, j) }

func (a *sparseZonedArray) Filter(keep func(int) bool) Array {
	return &sparseZonedArray{
		instants: a.instants.Filter(keep).(*Sparse[int64]),
		zones:    a.zones.Filter(keep).(*Sparse[string]),
	}
}
func (a *sparseZonedArray) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *sparseZonedArray) CopyRange(start, end int) Array {
	return &sparseZonedArray{
		instants: a.instants.CopyRange(start, end).(*Sparse[int64]),
		zones:    a.zones.CopyRange(start, end).(*Sparse[string]),
	}
}
func (a *sparseZonedArray) Gather(ordinals []int) Array {
	return &sparseZonedArray{
		instants: a.instants.Gather(ordinals).(*Sparse[int64]),
		zones:    a.zones.Gather(ordinals).(*Sparse[string]),
	}
}
func (a *sparseZonedArray) Expand(newLen int) {
	a.instants.Expand(newLen)
	a.zones.Expand(newLen)
}

func (a *sparseZonedArray) BinarySearch(start, end int, value any) int {
	target := value.(Zoned)
	return a.instants.BinarySearch(start, end, target.Millis)
}
func (a *sparseZonedArray) Distinct() []int { return a.instants.Distinct() }
func (a *sparseZonedArray) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "ZonedDateTime"))
}

func (a *sparseZonedArray) WriteTo(w ArraySink) (int64, error) {
	n, err := a.instants.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := a.zones.WriteTo(w)
	return n + m, err
}

func (a *sparseZonedArray) ReadFrom(r ArraySource) (int64, error) {
	n, err := a.instants.ReadFrom(r)
	if err != nil {
		return n, err
	}
	m, err := a.zones.ReadFrom(r)
	return n + m, err
}
