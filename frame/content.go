// Package frame implements FrameContent, Cursor/Row/Column/Vector, Sort
// and the Frame façade: a two-dimensional, row/column-keyed tabular
// structure built on array.Array columns and index.Index[K] row/column
// axes.
package frame

import (
	"github.com/myplant-io/d3x-morpheus/array"
	"github.com/myplant-io/d3x-morpheus/index"
	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// FrameContent is the shared, mutable backing store a Frame wraps.
// Multiple Frame façades (a parent and its filter views) can point at
// the same FrameContent: row/column Index filter views forbid
// structural mutation while still allowing element writes, visible in
// the parent, because they share the same underlying array.Array slices.
type FrameContent[R comparable, C comparable] struct {
	rows    *index.Index[R]
	cols    *index.Index[C]
	columns []array.Array // parallel to cols' coordinate space
}

// New creates an empty FrameContent. rowLess/colLess are optional and
// enable PreviousKey/NextKey on the respective axis.
func New[R comparable, C comparable](rowLess index.LessFunc[R], colLess index.LessFunc[C]) *FrameContent[R, C] {
	return &FrameContent[R, C]{
		rows: index.New[R](rowLess),
		cols: index.New[C](colLess),
	}
}

// Rows returns the row axis index.
func (fc *FrameContent[R, C]) Rows() *index.Index[R] { return fc.rows }

// Cols returns the column axis index.
func (fc *FrameContent[R, C]) Cols() *index.Index[C] { return fc.cols }

// RowCount and ColCount report the visible extent of each axis.
func (fc *FrameContent[R, C]) RowCount() int { return fc.rows.Len() }
func (fc *FrameContent[R, C]) ColCount() int { return fc.cols.Len() }

// AddRow appends rowKey to the row axis, expanding every column's
// storage to match. Returns xerrors.NewDuplicateKeyError if rowKey
// already exists.
func (fc *FrameContent[R, C]) AddRow(rowKey R) (int, error) {
	coord, err := fc.rows.Add(rowKey)
	if err != nil {
		return 0, err
	}
	for _, col := range fc.columns {
		col.Expand(coord + 1)
	}
	return coord, nil
}

// AddRows appends every key in rowKeys.
func (fc *FrameContent[R, C]) AddRows(rowKeys []R) error {
	for _, k := range rowKeys {
		if _, err := fc.AddRow(k); err != nil {
			return err
		}
	}
	return nil
}

// AddColumn appends colKey bound to arr, first expanding arr to
// fc.RowCount() if it is shorter. Returns xerrors.NewDuplicateKeyError if colKey
// already exists.
func (fc *FrameContent[R, C]) AddColumn(colKey C, arr array.Array) error {
	if arr.Len() < fc.RowCount() {
		arr.Expand(fc.RowCount())
	}
	if _, err := fc.cols.Add(colKey); err != nil {
		return err
	}
	fc.columns = append(fc.columns, arr)
	return nil
}

// Column returns the array.Array bound to colKey.
func (fc *FrameContent[R, C]) Column(colKey C) (array.Array, error) {
	coord, ok := fc.cols.Coordinate(colKey)
	if !ok {
		return nil, xerrors.NewUnknownColumnError("Column", colKey)
	}
	return fc.columns[coord], nil
}

// ColumnAt returns the array.Array bound to the column at visible
// ordinal colOrdinal, resolving through the column index so a filtered
// view sees only its own visible columns.
func (fc *FrameContent[R, C]) ColumnAt(colOrdinal int) array.Array {
	key := fc.cols.KeyAt(colOrdinal)
	coord, _ := fc.cols.Coordinate(key)
	return fc.columns[coord]
}

// rowCoordAt resolves a visible row ordinal to its physical coordinate
// in every column's backing array.Array.
func (fc *FrameContent[R, C]) rowCoordAt(rowOrdinal int) int {
	key := fc.rows.KeyAt(rowOrdinal)
	coord, _ := fc.rows.Coordinate(key)
	return coord
}

// Get reads the value at (rowKey, colKey), boxed.
func (fc *FrameContent[R, C]) Get(rowKey R, colKey C) (any, error) {
	rowCoord, ok := fc.rows.Coordinate(rowKey)
	if !ok {
		return nil, xerrors.NewUnknownRowError("Get", rowKey)
	}
	col, err := fc.Column(colKey)
	if err != nil {
		return nil, err
	}
	return col.GetValue(rowCoord), nil
}

// Set writes value at (rowKey, colKey).
func (fc *FrameContent[R, C]) Set(rowKey R, colKey C, value any) error {
	rowCoord, ok := fc.rows.Coordinate(rowKey)
	if !ok {
		return xerrors.NewUnknownRowError("Set", rowKey)
	}
	col, err := fc.Column(colKey)
	if err != nil {
		return err
	}
	col.SetValue(rowCoord, value)
	return nil
}

// GetAt reads the value at (rowOrdinal, colOrdinal) using visible
// ordinals rather than keys, the fast path Cursor/Row/Column use.
func (fc *FrameContent[R, C]) GetAt(rowOrdinal, colOrdinal int) any {
	return fc.ColumnAt(colOrdinal).GetValue(fc.rowCoordAt(rowOrdinal))
}

// SetAt writes value at (rowOrdinal, colOrdinal).
func (fc *FrameContent[R, C]) SetAt(rowOrdinal, colOrdinal int, value any) {
	fc.ColumnAt(colOrdinal).SetValue(fc.rowCoordAt(rowOrdinal), value)
}

// FilterRows returns a new FrameContent sharing this one's column
// storage but restricted to rowKeys. The returned content's row index
// refuses Add/AddAll/Replace,
// but element writes through it remain visible in fc.
func (fc *FrameContent[R, C]) FilterRows(rowKeys []R) *FrameContent[R, C] {
	return &FrameContent[R, C]{rows: fc.rows.Filter(rowKeys), cols: fc.cols, columns: fc.columns}
}

// FilterRowsPredicate returns a view retaining rows for which pred
// reports true over (rowOrdinal, rowKey).
func (fc *FrameContent[R, C]) FilterRowsPredicate(pred func(rowOrdinal int, rowKey R) bool) *FrameContent[R, C] {
	kept := make([]R, 0, fc.RowCount())
	for ord := 0; ord < fc.RowCount(); ord++ {
		k := fc.rows.KeyAt(ord)
		if pred(ord, k) {
			kept = append(kept, k)
		}
	}
	return fc.FilterRows(kept)
}

// FilterCols returns a new FrameContent sharing this one's row axis and
// column storage but restricted to colKeys.
func (fc *FrameContent[R, C]) FilterCols(colKeys []C) *FrameContent[R, C] {
	return &FrameContent[R, C]{rows: fc.rows, cols: fc.cols.Filter(colKeys), columns: fc.columns}
}

// Copy returns an independent deep copy: new row/column indexes and new
// array.Array column storage, so writes through the copy never affect
// fc.
func (fc *FrameContent[R, C]) Copy() *FrameContent[R, C] {
	out := &FrameContent[R, C]{rows: index.New[R](nil), cols: index.New[C](nil)}
	for ord := 0; ord < fc.RowCount(); ord++ {
		out.rows.Add(fc.rows.KeyAt(ord))
	}
	for ord := 0; ord < fc.ColCount(); ord++ {
		out.cols.Add(fc.cols.KeyAt(ord))
		out.columns = append(out.columns, fc.ColumnAt(ord).Copy())
	}
	return out
}

// Transpose swaps the row and column axes, returning a new
// FrameContent[C, R]. Every resulting column is an Object array built
// from the original row's boxed values, since a transposed frame's
// "columns" mix whatever element types the original rows held.
func (fc *FrameContent[R, C]) Transpose() *FrameContent[C, R] {
	out := &FrameContent[C, R]{rows: index.New[C](nil), cols: index.New[R](nil)}
	for ord := 0; ord < fc.ColCount(); ord++ {
		out.rows.Add(fc.cols.KeyAt(ord))
	}
	for rOrd := 0; rOrd < fc.RowCount(); rOrd++ {
		rowKey := fc.rows.KeyAt(rOrd)
		out.cols.Add(rowKey)
		col := array.Create(array.Object, fc.ColCount())
		for cOrd := 0; cOrd < fc.ColCount(); cOrd++ {
			col.SetValue(cOrd, fc.GetAt(rOrd, cOrd))
		}
		out.columns = append(out.columns, col)
	}
	return out
}
