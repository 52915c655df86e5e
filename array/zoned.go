package array

import "github.com/myplant-io/d3x-morpheus/internal/xerrors"

// zonedArray pairs an epoch-millisecond payload with a parallel zone-id
// code column, grounded on SparseArrayOfZonedDateTimes.java: the instant
// and the zone it should render in are stored separately so the zone-id
// strings (typically few distinct values across a whole column) are
// deduplicated the same way Enum values are. It implements the ZonedDateTime
// element type declared in types.go; the struct can't be named
// ZonedDateTime itself since that identifier already names the Type
// constant.
type zonedArray struct {
	instants *denseLong
	zones    *CodedDense[string]
}

func newZonedArray(n int, zoning *Coding[string]) *zonedArray {
	return &zonedArray{
		instants: newDenseLong(n, nil, ZonedDateTime),
		zones:    newCodedDense[string](n, String, zoning),
	}
}

// Zoned pairs an instant with the IANA zone id it should be rendered in.
type Zoned struct {
	Millis int64
	Zone   string
}

func (a *zonedArray) Len() int          { return a.instants.Len() }
func (a *zonedArray) Type() Type        { return ZonedDateTime }
func (a *zonedArray) Style() Style      { return StyleDense }
func (a *zonedArray) DefaultValue() any { return Zoned{} }

func (a *zonedArray) GetValue(i int) any {
	if a.IsNull(i) {
		return nil
	}
	return Zoned{Millis: a.instants.GetLong(i), Zone: a.zones.GetString(i)}
}

func (a *zonedArray) SetValue(i int, v any) {
	if v == nil {
		a.SetNull(i)
		return
	}
	z := v.(Zoned)
	a.instants.SetLong(i, z.Millis)
	a.zones.SetString(i, z.Zone)
}

func (a *zonedArray) IsNull(i int) bool { return a.instants.IsNull(i) }
func (a *zonedArray) SetNull(i int) {
	a.instants.SetNull(i)
	a.zones.SetNull(i)
}

func (a *zonedArray) GetBoolean(i int) bool   { return a.instants.GetLong(i) != 0 }
func (a *zonedArray) GetInt(i int) int32      { return a.instants.GetInt(i) }
func (a *zonedArray) GetLong(i int) int64     { return a.instants.GetLong(i) }
func (a *zonedArray) GetDouble(i int) float64 { return a.instants.GetDouble(i) }
func (a *zonedArray) GetString(i int) string  { return a.instants.GetString(i) + "@" + a.zones.GetString(i) }
func (a *zonedArray) SetBoolean(i int, v bool)   { a.instants.SetBoolean(i, v) }
func (a *zonedArray) SetInt(i int, v int32)      { a.instants.SetInt(i, v) }
func (a *zonedArray) SetLong(i int, v int64)     { a.instants.SetLong(i, v) }
func (a *zonedArray) SetDouble(i int, v float64) { a.instants.SetDouble(i, v) }
func (a *zonedArray) SetString(i int, v string)  { a.instants.SetString(i, v) }

func (a *zonedArray) IsEqualTo(i int, other Array, j int) bool {
	if a.IsNull(i) || other.IsNull(j) {
		return a.IsNull(i) == other.IsNull(j)
	}
	return a.GetValue(i) == other.GetValue(j)
}

func (a *zonedArray) Fill(value any, start, end int) {
	z, _ := value.(Zoned)
	for i := start; i < end; i++ {
		a.instants.SetLong(i, z.Millis)
		a.zones.SetString(i, z.Zone)
	}
}

func (a *zonedArray) Swap(i, j int) {
	a.instants.Swap(i, j)
	a.zones.Swap(i, j)
}

func (a *zonedArray) Compare(i, j int) int {
	return compareOrdered(a.instants.GetLong(i), a.instants.GetLong(j))
}
func (a *zonedArray) Sort(start, end, direction int) { sortArray(a, start, end, direction) }
func (a *zonedArray) orderLess(i, j int) bool        { return a.instants.orderLess(i, j) }

func (a *zonedArray) Filter(keep func(int) bool) Array {
	return &zonedArray{
		instants: a.instants.Filter(keep).(*denseLong),
		zones:    a.zones.Filter(keep).(*CodedDense[string]),
	}
}
func (a *zonedArray) Copy() Array { return a.CopyRange(0, a.Len()) }
func (a *zonedArray) CopyRange(start, end int) Array {
	return &zonedArray{
		instants: a.instants.CopyRange(start, end).(*denseLong),
		zones:    a.zones.CopyRange(start, end).(*CodedDense[string]),
	}
}
func (a *zonedArray) Gather(ordinals []int) Array {
	return &zonedArray{
		instants: a.instants.Gather(ordinals).(*denseLong),
		zones:    a.zones.Gather(ordinals).(*CodedDense[string]),
	}
}
func (a *zonedArray) Expand(newLen int) {
	a.instants.Expand(newLen)
	a.zones.Expand(newLen)
}

func (a *zonedArray) BinarySearch(start, end int, value any) int {
	target := value.(Zoned)
	return a.instants.BinarySearch(start, end, target.Millis)
}
func (a *zonedArray) Distinct() []int { return a.instants.Distinct() }
func (a *zonedArray) CumSum(start, end int) []float64 {
	panic(xerrors.NewUnsupportedOperationError("CumSum", "ZonedDateTime"))
}

func (a *zonedArray) WriteTo(w ArraySink) (int64, error) {
	n, err := a.instants.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := a.zones.WriteTo(w)
	return n + m, err
}

func (a *zonedArray) ReadFrom(r ArraySource) (int64, error) {
	n, err := a.instants.ReadFrom(r)
	if err != nil {
		return n, err
	}
	m, err := a.zones.ReadFrom(r)
	return n + m, err
}
