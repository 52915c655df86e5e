package frame

import "math"

// Vector is the uniform read/write contract Row and Column both
// implement: one vector abstraction reused by both axes rather than
// separate row/column value accessors.
type Vector interface {
	Len() int
	GetValue(ordinal int) any
	SetValue(ordinal int, value any)
	GetBoolean(ordinal int) bool
	GetInt(ordinal int) int32
	GetLong(ordinal int) int64
	GetDouble(ordinal int) float64
	GetString(ordinal int) string
	IsNull(ordinal int) bool
	Stats() Stats
}

// Stats summarizes a Vector's numeric values in one pass, skipping
// nulls. NaN fields indicate "no numeric values present." Variance is
// the population variance, accumulated with Welford's algorithm rather
// than a naive sum-of-squares so it stays numerically stable over long
// vectors.
type Stats struct {
	Count     int
	NullCount int
	Min       float64
	Max       float64
	Sum       float64
	Mean      float64
	Variance  float64
	StdDev    float64
}

func computeStats(v Vector) Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var m2 float64
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			s.NullCount++
			continue
		}
		x := v.GetDouble(i)
		if math.IsNaN(x) {
			continue
		}
		s.Count++
		s.Sum += x
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - s.Mean
		s.Mean += delta / float64(s.Count)
		m2 += delta * (x - s.Mean)
	}
	if s.Count == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
	} else {
		s.Variance = m2 / float64(s.Count)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s
}

// Row is a reusable, non-allocating view of one row across every visible
// column. Cursor.MoveToRow repositions an existing Row in place so a
// caller iterating every row never allocates per row.
type Row[R comparable, C comparable] struct {
	content *FrameContent[R, C]
	ordinal int
}

func (r *Row[R, C]) Len() int                   { return r.content.ColCount() }
func (r *Row[R, C]) GetValue(colOrd int) any     { return r.content.GetAt(r.ordinal, colOrd) }
func (r *Row[R, C]) SetValue(colOrd int, v any)  { r.content.SetAt(r.ordinal, colOrd, v) }
func (r *Row[R, C]) GetBoolean(colOrd int) bool  { return r.content.ColumnAt(colOrd).GetBoolean(r.content.rowCoordAt(r.ordinal)) }
func (r *Row[R, C]) GetInt(colOrd int) int32     { return r.content.ColumnAt(colOrd).GetInt(r.content.rowCoordAt(r.ordinal)) }
func (r *Row[R, C]) GetLong(colOrd int) int64    { return r.content.ColumnAt(colOrd).GetLong(r.content.rowCoordAt(r.ordinal)) }
func (r *Row[R, C]) GetDouble(colOrd int) float64 {
	return r.content.ColumnAt(colOrd).GetDouble(r.content.rowCoordAt(r.ordinal))
}
func (r *Row[R, C]) GetString(colOrd int) string {
	return r.content.ColumnAt(colOrd).GetString(r.content.rowCoordAt(r.ordinal))
}
func (r *Row[R, C]) IsNull(colOrd int) bool {
	return r.content.ColumnAt(colOrd).IsNull(r.content.rowCoordAt(r.ordinal))
}
func (r *Row[R, C]) Stats() Stats { return computeStats(r) }

// Key returns the row's key.
func (r *Row[R, C]) Key() R { return r.content.rows.KeyAt(r.ordinal) }

// Ordinal returns the row's current visible ordinal.
func (r *Row[R, C]) Ordinal() int { return r.ordinal }

// Column is a reusable, non-allocating view of one column across every
// visible row.
type Column[R comparable, C comparable] struct {
	content *FrameContent[R, C]
	ordinal int
}

func (c *Column[R, C]) array() interface {
	GetValue(int) any
	SetValue(int, any)
	GetBoolean(int) bool
	GetInt(int) int32
	GetLong(int) int64
	GetDouble(int) float64
	GetString(int) string
	IsNull(int) bool
} {
	return c.content.ColumnAt(c.ordinal)
}

func (c *Column[R, C]) Len() int { return c.content.RowCount() }
func (c *Column[R, C]) GetValue(rowOrd int) any {
	return c.array().GetValue(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) SetValue(rowOrd int, v any) {
	c.array().SetValue(c.content.rowCoordAt(rowOrd), v)
}
func (c *Column[R, C]) GetBoolean(rowOrd int) bool {
	return c.array().GetBoolean(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) GetInt(rowOrd int) int32 {
	return c.array().GetInt(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) GetLong(rowOrd int) int64 {
	return c.array().GetLong(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) GetDouble(rowOrd int) float64 {
	return c.array().GetDouble(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) GetString(rowOrd int) string {
	return c.array().GetString(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) IsNull(rowOrd int) bool {
	return c.array().IsNull(c.content.rowCoordAt(rowOrd))
}
func (c *Column[R, C]) Stats() Stats { return computeStats(c) }

// Key returns the column's key.
func (c *Column[R, C]) Key() C { return c.content.cols.KeyAt(c.ordinal) }

// Cursor repositions a single Row and Column pair in place across a
// FrameContent, a reusable iteration handle so a full-frame scan
// allocates one Row/Column rather than one per cell.
type Cursor[R comparable, C comparable] struct {
	content *FrameContent[R, C]
	row     Row[R, C]
	col     Column[R, C]
}

// NewCursor creates a Cursor positioned at (0, 0).
func NewCursor[R comparable, C comparable](content *FrameContent[R, C]) *Cursor[R, C] {
	cur := &Cursor[R, C]{content: content}
	cur.row.content = content
	cur.col.content = content
	return cur
}

// MoveToRow repositions the cursor's Row view to rowOrdinal and returns
// it; no allocation occurs.
func (cur *Cursor[R, C]) MoveToRow(rowOrdinal int) *Row[R, C] {
	cur.row.ordinal = rowOrdinal
	return &cur.row
}

// MoveToCol repositions the cursor's Column view to colOrdinal and
// returns it; no allocation occurs.
func (cur *Cursor[R, C]) MoveToCol(colOrdinal int) *Column[R, C] {
	cur.col.ordinal = colOrdinal
	return &cur.col
}

// Get reads the value at the cursor's current (row, col) position.
func (cur *Cursor[R, C]) Get() any {
	return cur.content.GetAt(cur.row.ordinal, cur.col.ordinal)
}

// Set writes value at the cursor's current (row, col) position.
func (cur *Cursor[R, C]) Set(value any) {
	cur.content.SetAt(cur.row.ordinal, cur.col.ordinal, value)
}

// GetDouble reads the value at the cursor's current position as a
// double, the typed accessor a Min/Max/Bounds predicate and comparator
// use to rank candidate cells.
func (cur *Cursor[R, C]) GetDouble() float64 {
	return cur.content.ColumnAt(cur.col.ordinal).GetDouble(cur.content.rowCoordAt(cur.row.ordinal))
}

// IsNull reports whether the cursor's current cell holds no value.
func (cur *Cursor[R, C]) IsNull() bool {
	return cur.content.ColumnAt(cur.col.ordinal).IsNull(cur.content.rowCoordAt(cur.row.ordinal))
}

// RowKey and ColKey return the keys at the cursor's current position.
func (cur *Cursor[R, C]) RowKey() R { return cur.row.Key() }
func (cur *Cursor[R, C]) ColKey() C { return cur.col.Key() }

// RowOrdinal and ColOrdinal return the cursor's current ordinals.
func (cur *Cursor[R, C]) RowOrdinal() int { return cur.row.ordinal }
func (cur *Cursor[R, C]) ColOrdinal() int { return cur.col.ordinal }
