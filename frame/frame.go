package frame

import (
	"context"
	"sync/atomic"

	"github.com/myplant-io/d3x-morpheus/array"
	"github.com/myplant-io/d3x-morpheus/index"
	"github.com/myplant-io/d3x-morpheus/internal/config"
	"github.com/myplant-io/d3x-morpheus/parallel"
)

// Frame is the user-facing façade over a FrameContent. Most callers
// never touch FrameContent, Cursor, Row or Column directly, they call
// Frame methods, which is where bulk operations, equality and the
// Head/Tail/Left/Right/Select slicing sugar live.
//
// parallel gates whether eligible bulk operations (mapColumn, Sign,
// Equals, ForEachRow, ForEachColumn, Sort/SortWith, Min/Max/Bounds)
// submit a fork/join task tree to engine or run the same loop inline on
// the calling goroutine. It defaults to false: a fresh Frame always runs
// sequentially until Parallel is called.
type Frame[R comparable, C comparable] struct {
	content  *FrameContent[R, C]
	parallel bool
	engine   *parallel.Engine
}

// NewFrame wraps content in a Frame façade. The result runs sequentially
// until Parallel is called.
func NewFrame[R comparable, C comparable](content *FrameContent[R, C]) *Frame[R, C] {
	return &Frame[R, C]{content: content}
}

// Content exposes the underlying FrameContent for callers that need the
// lower-level Cursor/Row/Column API.
func (f *Frame[R, C]) Content() *FrameContent[R, C] { return f.content }

func (f *Frame[R, C]) RowCount() int { return f.content.RowCount() }
func (f *Frame[R, C]) ColCount() int { return f.content.ColCount() }

// Parallel switches f to fork/join execution for its bulk operations,
// lazily sizing a parallel.Engine from the process-wide config if one
// isn't already attached, and returns f.
func (f *Frame[R, C]) Parallel() *Frame[R, C] {
	if f.engine == nil {
		f.engine = parallel.NewEngine(config.Global())
	}
	f.parallel = true
	return f
}

// Sequential switches f back to inline execution for its bulk
// operations and returns f. The engine, if any, stays attached so a
// later Parallel call doesn't need to rebuild it.
func (f *Frame[R, C]) Sequential() *Frame[R, C] {
	f.parallel = false
	return f
}

// IsParallel reports whether f currently runs its bulk operations
// through the fork/join engine.
func (f *Frame[R, C]) IsParallel() bool { return f.parallel }

// Copy returns a Frame over an independent deep copy of the content.
// The copy starts sequential regardless of f's mode.
func (f *Frame[R, C]) Copy() *Frame[R, C] { return NewFrame(f.content.Copy()) }

// Update writes src's values into f at every (row, col) key pair src and
// f both have, matching DataFrame.update(other, addRows, addColumns):
// keys f doesn't recognize are skipped unless addRows/addColumns grow f
// to cover them first, in which case the grown cells also get copied.
func (f *Frame[R, C]) Update(src *Frame[R, C], addRows, addColumns bool) error {
	if addRows {
		var newKeys []R
		for rOrd := 0; rOrd < src.RowCount(); rOrd++ {
			rowKey := src.content.rows.KeyAt(rOrd)
			if !f.content.rows.Contains(rowKey) {
				newKeys = append(newKeys, rowKey)
			}
		}
		if len(newKeys) > 0 {
			if err := f.content.AddRows(newKeys); err != nil {
				return err
			}
		}
	}
	if addColumns {
		for cOrd := 0; cOrd < src.ColCount(); cOrd++ {
			colKey := src.content.cols.KeyAt(cOrd)
			if f.content.cols.Contains(colKey) {
				continue
			}
			srcCol := src.content.ColumnAt(cOrd)
			if err := f.content.AddColumn(colKey, array.Create(srcCol.Type(), f.RowCount())); err != nil {
				return err
			}
		}
	}
	for rOrd := 0; rOrd < src.RowCount(); rOrd++ {
		rowKey := src.content.rows.KeyAt(rOrd)
		if !f.content.rows.Contains(rowKey) {
			continue
		}
		for cOrd := 0; cOrd < src.ColCount(); cOrd++ {
			colKey := src.content.cols.KeyAt(cOrd)
			if !f.content.cols.Contains(colKey) {
				continue
			}
			v := src.content.GetAt(rOrd, cOrd)
			if err := f.content.Set(rowKey, colKey, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sign returns a new Int frame over f's row/column keys holding -1, 0 or
// +1 for each cell according to its sign; f itself is left untouched,
// matching DataFrame.sign()'s DataFrame.ofInts(...) allocation rather
// than an in-place rewrite. Each column's cells are independent of every
// other's, so when f is parallel the per-column work is split across
// the engine's column axis.
func (f *Frame[R, C]) Sign() *Frame[R, C] {
	result, err := Of[R, C](f.RowKeys(), f.ColKeys(), array.Int)
	if err != nil {
		panic(err)
	}
	signColumn := func(cOrd int) {
		src := f.content.ColumnAt(cOrd)
		dst := result.content.ColumnAt(cOrd)
		for rOrd := 0; rOrd < f.RowCount(); rOrd++ {
			v := src.GetDouble(f.content.rowCoordAt(rOrd))
			switch {
			case v > 0:
				dst.SetInt(result.content.rowCoordAt(rOrd), 1)
			case v < 0:
				dst.SetInt(result.content.rowCoordAt(rOrd), -1)
			default:
				dst.SetInt(result.content.rowCoordAt(rOrd), 0)
			}
		}
	}
	if f.parallel && f.engine != nil {
		threshold := config.Global().ColSplitThreshold
		if err := f.engine.ForEachCols(context.Background(), f.ColCount(), threshold, func(start, end int) {
			for cOrd := start; cOrd < end; cOrd++ {
				signColumn(cOrd)
			}
		}); err != nil {
			panic(err)
		}
	} else {
		for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
			signColumn(cOrd)
		}
	}
	result.parallel, result.engine = f.parallel, f.engine
	return result
}

// MapToBooleans/Ints/Longs/Doubles/Objects overwrite colKey's values in
// place by applying fn to the row's current Vector. fn receives the
// Row so it can
// read other columns on the same row while producing colKey's new value.

func (f *Frame[R, C]) MapToBooleans(colKey C, fn func(row *Row[R, C]) bool) error {
	return f.mapColumn(colKey, func(row *Row[R, C], coord int, col array.Array) {
		col.SetBoolean(coord, fn(row))
	})
}

func (f *Frame[R, C]) MapToInts(colKey C, fn func(row *Row[R, C]) int32) error {
	return f.mapColumn(colKey, func(row *Row[R, C], coord int, col array.Array) {
		col.SetInt(coord, fn(row))
	})
}

func (f *Frame[R, C]) MapToLongs(colKey C, fn func(row *Row[R, C]) int64) error {
	return f.mapColumn(colKey, func(row *Row[R, C], coord int, col array.Array) {
		col.SetLong(coord, fn(row))
	})
}

func (f *Frame[R, C]) MapToDoubles(colKey C, fn func(row *Row[R, C]) float64) error {
	return f.mapColumn(colKey, func(row *Row[R, C], coord int, col array.Array) {
		col.SetDouble(coord, fn(row))
	})
}

func (f *Frame[R, C]) MapToObjects(colKey C, fn func(row *Row[R, C]) any) error {
	return f.mapColumn(colKey, func(row *Row[R, C], coord int, col array.Array) {
		col.SetValue(coord, fn(row))
	})
}

// MapToBooleansAll/IntsAll/LongsAll/DoublesAll/ObjectsAll apply fn to
// every column in turn, reusing mapColumn's per-column row/parallel-
// split machinery for each; fn receives the column key alongside the
// row so behavior can still vary per column.

func (f *Frame[R, C]) MapToBooleansAll(fn func(row *Row[R, C], colKey C) bool) error {
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		if err := f.MapToBooleans(colKey, func(row *Row[R, C]) bool { return fn(row, colKey) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame[R, C]) MapToIntsAll(fn func(row *Row[R, C], colKey C) int32) error {
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		if err := f.MapToInts(colKey, func(row *Row[R, C]) int32 { return fn(row, colKey) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame[R, C]) MapToLongsAll(fn func(row *Row[R, C], colKey C) int64) error {
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		if err := f.MapToLongs(colKey, func(row *Row[R, C]) int64 { return fn(row, colKey) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame[R, C]) MapToDoublesAll(fn func(row *Row[R, C], colKey C) float64) error {
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		if err := f.MapToDoubles(colKey, func(row *Row[R, C]) float64 { return fn(row, colKey) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame[R, C]) MapToObjectsAll(fn func(row *Row[R, C], colKey C) any) error {
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		if err := f.MapToObjects(colKey, func(row *Row[R, C]) any { return fn(row, colKey) }); err != nil {
			return err
		}
	}
	return nil
}

func (f *Frame[R, C]) mapColumn(colKey C, apply func(row *Row[R, C], coord int, col array.Array)) error {
	col, err := f.content.Column(colKey)
	if err != nil {
		return err
	}
	if f.parallel && f.engine != nil {
		threshold := config.Global().RowSplitThreshold
		return f.engine.ForEachRows(context.Background(), f.RowCount(), threshold, func(start, end int) {
			row := &Row[R, C]{content: f.content}
			for ord := start; ord < end; ord++ {
				row.ordinal = ord
				apply(row, f.content.rowCoordAt(ord), col)
			}
		})
	}
	row := &Row[R, C]{content: f.content}
	for ord := 0; ord < f.RowCount(); ord++ {
		row.ordinal = ord
		apply(row, f.content.rowCoordAt(ord), col)
	}
	return nil
}

// Head returns a Frame view of the first n rows.
func (f *Frame[R, C]) Head(n int) *Frame[R, C] { return f.sliceRows(0, n) }

// Tail returns a Frame view of the last n rows.
func (f *Frame[R, C]) Tail(n int) *Frame[R, C] {
	total := f.RowCount()
	if n > total {
		n = total
	}
	return f.sliceRows(total-n, total)
}

func (f *Frame[R, C]) sliceRows(start, end int) *Frame[R, C] {
	if end > f.RowCount() {
		end = f.RowCount()
	}
	if start < 0 {
		start = 0
	}
	keys := make([]R, 0, end-start)
	for i := start; i < end; i++ {
		keys = append(keys, f.content.rows.KeyAt(i))
	}
	return NewFrame(f.content.FilterRows(keys))
}

// Left returns a Frame view of the first n columns.
func (f *Frame[R, C]) Left(n int) *Frame[R, C] { return f.sliceCols(0, n) }

// Right returns a Frame view of the last n columns.
func (f *Frame[R, C]) Right(n int) *Frame[R, C] {
	total := f.ColCount()
	if n > total {
		n = total
	}
	return f.sliceCols(total-n, total)
}

func (f *Frame[R, C]) sliceCols(start, end int) *Frame[R, C] {
	if end > f.ColCount() {
		end = f.ColCount()
	}
	if start < 0 {
		start = 0
	}
	keys := make([]C, 0, end-start)
	for i := start; i < end; i++ {
		keys = append(keys, f.content.cols.KeyAt(i))
	}
	return NewFrame(f.content.FilterCols(keys))
}

// Select returns a Frame view restricted to the given row and column
// keys, in the order supplied.
func (f *Frame[R, C]) Select(rowKeys []R, colKeys []C) *Frame[R, C] {
	return NewFrame(f.content.FilterRows(rowKeys).FilterCols(colKeys))
}

// Sort reorders f's rows by keys, returning a new Frame view; f itself
// is left untouched. The returned view starts in the same parallel mode
// as f.
func (f *Frame[R, C]) Sort(keys []SortKey[C]) *Frame[R, C] {
	sorted := NewFrame(Sort(f.content, keys, f.engine, f.parallel))
	sorted.parallel, sorted.engine = f.parallel, f.engine
	return sorted
}

// SortWith reorders f's rows by cmp, returning a new Frame view.
func (f *Frame[R, C]) SortWith(cmp Comparator[R, C]) *Frame[R, C] {
	sorted := NewFrame(SortWith(f.content, cmp, f.engine, f.parallel))
	sorted.parallel, sorted.engine = f.parallel, f.engine
	return sorted
}

// Equals reports whether f and other have the same row/column keys (in
// any order) and every corresponding cell compares equal via the
// column's own array.Array.IsEqualTo.
func (f *Frame[R, C]) Equals(other *Frame[R, C]) bool {
	if f.RowCount() != other.RowCount() || f.ColCount() != other.ColCount() {
		return false
	}
	for cOrd := 0; cOrd < f.ColCount(); cOrd++ {
		colKey := f.content.cols.KeyAt(cOrd)
		otherCol, err := other.content.Column(colKey)
		if err != nil {
			return false
		}
		col := f.content.ColumnAt(cOrd)
		if !f.columnsEqual(col, otherCol, cOrd, other) {
			return false
		}
	}
	return true
}

// columnsEqual compares col (f's column at ordinal cOrd) against
// otherCol cell by cell. When f is parallel the row range is split
// across the engine; each leaf checks the shared mismatch flag before
// doing any comparison so a mismatch found in one leaf stops wasted
// work in the leaves that haven't started yet.
func (f *Frame[R, C]) columnsEqual(col array.Array, otherCol array.Array, cOrd int, other *Frame[R, C]) bool {
	if !(f.parallel && f.engine != nil) {
		for rOrd := 0; rOrd < f.RowCount(); rOrd++ {
			rowKey := f.content.rows.KeyAt(rOrd)
			otherCoord, ok := other.content.rows.Coordinate(rowKey)
			if !ok || !col.IsEqualTo(f.content.rowCoordAt(rOrd), otherCol, otherCoord) {
				return false
			}
		}
		return true
	}

	var mismatched atomic.Bool
	threshold := config.Global().RowSplitThreshold
	err := f.engine.ForEachRows(context.Background(), f.RowCount(), threshold, func(start, end int) {
		for rOrd := start; rOrd < end; rOrd++ {
			if mismatched.Load() {
				return
			}
			rowKey := f.content.rows.KeyAt(rOrd)
			otherCoord, ok := other.content.rows.Coordinate(rowKey)
			if !ok || !col.IsEqualTo(f.content.rowCoordAt(rOrd), otherCol, otherCoord) {
				mismatched.Store(true)
				return
			}
		}
	})
	if err != nil {
		panic(err)
	}
	return !mismatched.Load()
}

// ForEachRow visits every visible row via a single reused Row, matching
// Cursor's non-allocating iteration contract. When f is parallel the
// row range is split across the engine instead, one reused Row per
// leaf; visit order across leaves is then unspecified, matching the
// no-ordering-guarantee contract a parallel frame gives forEachValue.
func (f *Frame[R, C]) ForEachRow(fn func(row *Row[R, C])) {
	if f.parallel && f.engine != nil {
		threshold := config.Global().RowSplitThreshold
		err := f.engine.ForEachRows(context.Background(), f.RowCount(), threshold, func(start, end int) {
			row := &Row[R, C]{content: f.content}
			for ord := start; ord < end; ord++ {
				row.ordinal = ord
				fn(row)
			}
		})
		if err != nil {
			panic(err)
		}
		return
	}
	row := &Row[R, C]{content: f.content}
	for ord := 0; ord < f.RowCount(); ord++ {
		row.ordinal = ord
		fn(row)
	}
}

// ForEachColumn visits every visible column via a single reused Column.
// When f is parallel the column range is split across the engine, one
// reused Column per leaf.
func (f *Frame[R, C]) ForEachColumn(fn func(col *Column[R, C])) {
	if f.parallel && f.engine != nil {
		threshold := config.Global().ColSplitThreshold
		err := f.engine.ForEachCols(context.Background(), f.ColCount(), threshold, func(start, end int) {
			col := &Column[R, C]{content: f.content}
			for ord := start; ord < end; ord++ {
				col.ordinal = ord
				fn(col)
			}
		})
		if err != nil {
			panic(err)
		}
		return
	}
	col := &Column[R, C]{content: f.content}
	for ord := 0; ord < f.ColCount(); ord++ {
		col.ordinal = ord
		fn(col)
	}
}

// Cursor returns a new Cursor positioned at (0, 0) over f's content, the
// movable (rowOrdinal, colOrdinal) pointer the façade exposes alongside
// the fixed Row/Column views ForEachRow/ForEachColumn hand out.
func (f *Frame[R, C]) Cursor() *Cursor[R, C] {
	return NewCursor(f.content)
}

// ValueBounds pairs the smallest and largest matching cell from a
// Frame.Bounds scan; Found is false when predicate matched nothing.
type ValueBounds[R comparable, C comparable] struct {
	Min   *Cursor[R, C]
	Max   *Cursor[R, C]
	Found bool
}

// Min scans every (row, col) cell for which predicate reports true and
// returns a Cursor positioned at the one with the smallest GetDouble(),
// matching DataFrame.min(predicate). ok is false when no cell matches.
func (f *Frame[R, C]) Min(predicate func(cur *Cursor[R, C]) bool) (cur *Cursor[R, C], ok bool) {
	return f.extremum(predicate, true)
}

// Max scans for the cell with the largest GetDouble() among those
// predicate accepts, matching DataFrame.max(predicate).
func (f *Frame[R, C]) Max(predicate func(cur *Cursor[R, C]) bool) (cur *Cursor[R, C], ok bool) {
	return f.extremum(predicate, false)
}

// Bounds reports both the smallest and largest matching cell, matching
// DataFrame.bounds(predicate).
func (f *Frame[R, C]) Bounds(predicate func(cur *Cursor[R, C]) bool) ValueBounds[R, C] {
	min, ok := f.Min(predicate)
	if !ok {
		return ValueBounds[R, C]{}
	}
	max, _ := f.Max(predicate)
	return ValueBounds[R, C]{Min: min, Max: max, Found: true}
}

// extremum scans f's (row, col) cells as a single column-major value
// stream (matching parallel.ValueStreamSplit's layout) and reduces it
// with parallel.Engine.Min when f is parallel (less already ranks the
// wanted cell first for either direction), or an equivalent sequential
// pass otherwise. A cell accepted by predicate always beats
// one that isn't, regardless of wantMin; among cells predicate accepts,
// the comparison is by GetDouble().
func (f *Frame[R, C]) extremum(predicate func(cur *Cursor[R, C]) bool, wantMin bool) (*Cursor[R, C], bool) {
	rowCount, colCount := f.RowCount(), f.ColCount()
	n := rowCount * colCount
	if n == 0 {
		return nil, false
	}

	matches := func(i int) (bool, float64) {
		cur := f.cursorAt(i%rowCount, i/rowCount)
		if !predicate(cur) {
			return false, 0
		}
		return true, cur.GetDouble()
	}
	less := func(i, j int) bool {
		iMatch, iVal := matches(i)
		jMatch, jVal := matches(j)
		switch {
		case iMatch && !jMatch:
			return true
		case !iMatch:
			return false
		case wantMin:
			return iVal < jVal
		default:
			return iVal > jVal
		}
	}

	var bounds parallel.Bounds
	if f.parallel && f.engine != nil {
		threshold := config.Global().RowSplitThreshold
		var err error
		bounds, err = f.engine.Min(context.Background(), n, threshold, less)
		if err != nil {
			panic(err)
		}
	} else {
		best := 0
		for i := 1; i < n; i++ {
			if less(i, best) {
				best = i
			}
		}
		bounds = parallel.Bounds{Ordinal: best, Found: true}
	}

	winner := f.cursorAt(bounds.Ordinal%rowCount, bounds.Ordinal/rowCount)
	if !predicate(winner) {
		return nil, false
	}
	return winner, true
}

func (f *Frame[R, C]) cursorAt(rowOrdinal, colOrdinal int) *Cursor[R, C] {
	cur := NewCursor(f.content)
	cur.MoveToRow(rowOrdinal)
	cur.MoveToCol(colOrdinal)
	return cur
}

// AddColumn appends a new column backed by arr.
func (f *Frame[R, C]) AddColumn(colKey C, arr array.Array) error {
	return f.content.AddColumn(colKey, arr)
}

// AddRow appends a new row, expanding every column's storage.
func (f *Frame[R, C]) AddRow(rowKey R) error {
	_, err := f.content.AddRow(rowKey)
	return err
}

// RowKeys and ColKeys copy out the visible key order on each axis.
func (f *Frame[R, C]) RowKeys() []R { return axisKeys[R](f.content.rows) }
func (f *Frame[R, C]) ColKeys() []C { return axisKeys[C](f.content.cols) }

func axisKeys[K comparable](idx *index.Index[K]) []K {
	out := make([]K, idx.Len())
	for i := range out {
		out[i] = idx.KeyAt(i)
	}
	return out
}
