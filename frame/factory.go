package frame

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/myplant-io/d3x-morpheus/array"
	"github.com/myplant-io/d3x-morpheus/index"
	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// Empty returns a Frame with no rows and no columns.
func Empty[R comparable, C comparable]() *Frame[R, C] {
	return NewFrame(New[R, C](nil, nil))
}

// Of builds a Frame over rowKeys/colKeys with every column created via
// elementType.
func Of[R comparable, C comparable](rowKeys []R, colKeys []C, elementType array.Type) (*Frame[R, C], error) {
	content := New[R, C](nil, nil)
	if err := content.AddRows(rowKeys); err != nil {
		return nil, err
	}
	for _, c := range colKeys {
		if err := content.AddColumn(c, array.Create(elementType, len(rowKeys))); err != nil {
			return nil, err
		}
	}
	return NewFrame(content), nil
}

// ColumnSpec names a column key and the array.Type its values will be
// created with; OfConfigured takes a list of them.
type ColumnSpec[C comparable] struct {
	Key  C
	Type array.Type
}

// OfConfigured builds a Frame over rowKeys with columns described by
// specs, a concrete column list already resolved by the caller.
func OfConfigured[R comparable, C comparable](rowKeys []R, specs []ColumnSpec[C]) (*Frame[R, C], error) {
	content := New[R, C](nil, nil)
	if err := content.AddRows(rowKeys); err != nil {
		return nil, err
	}
	for _, spec := range specs {
		if err := content.AddColumn(spec.Key, array.Create(spec.Type, len(rowKeys))); err != nil {
			return nil, err
		}
	}
	return NewFrame(content), nil
}

// CombineFirst merges frames left to right: the first frame supplies the
// base row/column keys and values, and each subsequent frame fills in
// any (row, col) cell the base frame doesn't already have a non-null
// value for. The result is sorted by row key via rowLess when rowLess
// is non-nil; this function treats that ordering as part of its
// contract rather than an incidental side effect.
func CombineFirst[R comparable, C comparable](rowLess index.LessFunc[R], frames ...*Frame[R, C]) (*Frame[R, C], error) {
	if len(frames) == 0 {
		return Empty[R, C](), nil
	}
	rowSet := map[R]struct{}{}
	colSet := map[C]struct{}{}
	var rowKeys []R
	var colKeys []C
	for _, f := range frames {
		for _, rk := range f.RowKeys() {
			if _, ok := rowSet[rk]; !ok {
				rowSet[rk] = struct{}{}
				rowKeys = append(rowKeys, rk)
			}
		}
		for _, ck := range f.ColKeys() {
			if _, ok := colSet[ck]; !ok {
				colSet[ck] = struct{}{}
				colKeys = append(colKeys, ck)
			}
		}
	}
	content := New[R, C](nil, nil)
	if err := content.AddRows(rowKeys); err != nil {
		return nil, err
	}
	for _, ck := range colKeys {
		t := array.Object
		for _, f := range frames {
			if col, err := f.content.Column(ck); err == nil {
				t = col.Type()
				break
			}
		}
		if err := content.AddColumn(ck, array.Create(t, len(rowKeys))); err != nil {
			return nil, err
		}
	}
	filled := make(map[R]map[C]bool, len(rowKeys))
	for _, f := range frames {
		for _, rk := range f.RowKeys() {
			for _, ck := range f.ColKeys() {
				if filled[rk][ck] {
					continue
				}
				v, err := f.content.Get(rk, ck)
				if err != nil || v == nil {
					continue
				}
				if err := content.Set(rk, ck, v); err != nil {
					return nil, err
				}
				if filled[rk] == nil {
					filled[rk] = map[C]bool{}
				}
				filled[rk][ck] = true
			}
		}
	}
	if rowLess == nil {
		return NewFrame(content), nil
	}
	sortedKeys := make([]R, len(rowKeys))
	copy(sortedKeys, rowKeys)
	sort.Slice(sortedKeys, func(i, j int) bool { return rowLess(sortedKeys[i], sortedKeys[j]) })
	return NewFrame(content.FilterRows(sortedKeys)), nil
}

// ConcatRows stacks frames' rows in order, requiring the same column
// keys throughout; it returns xerrors.NewFrameError on a column
// mismatch, and the row index's xerrors.NewDuplicateKeyError on a
// duplicate row key across inputs.
func ConcatRows[R comparable, C comparable](frames ...*Frame[R, C]) (*Frame[R, C], error) {
	if len(frames) == 0 {
		return Empty[R, C](), nil
	}
	base := frames[0]
	colKeys := base.ColKeys()
	out, err := Of[R, C](nil, colKeys, array.Object)
	if err != nil {
		return nil, err
	}
	for ci := range colKeys {
		t := base.content.ColumnAt(ci).Type()
		out.content.columns[ci] = array.Create(t, 0)
	}
	for _, f := range frames {
		if f.ColCount() != len(colKeys) {
			return nil, xerrors.NewFrameError("ConcatRows", "", "column count mismatch across frames")
		}
		for i, ck := range f.ColKeys() {
			if ck != colKeys[i] {
				return nil, xerrors.NewFrameError("ConcatRows", fmt.Sprint(ck), "column key mismatch across frames")
			}
		}
		for _, rk := range f.RowKeys() {
			coord, err := out.content.AddRow(rk)
			if err != nil {
				return nil, err
			}
			for ci, ck := range colKeys {
				v, _ := f.content.Get(rk, ck)
				out.content.columns[ci].SetValue(coord, v)
			}
		}
	}
	return out, nil
}

// ConcatColumns places frames side by side, requiring the same row keys
// in the same order throughout; it returns xerrors.NewFrameError on a
// row mismatch, and the column index's xerrors.NewDuplicateKeyError on
// a duplicate column key across inputs.
func ConcatColumns[R comparable, C comparable](frames ...*Frame[R, C]) (*Frame[R, C], error) {
	if len(frames) == 0 {
		return Empty[R, C](), nil
	}
	rowKeys := frames[0].RowKeys()
	content := New[R, C](nil, nil)
	if err := content.AddRows(rowKeys); err != nil {
		return nil, err
	}
	for _, f := range frames {
		if f.RowCount() != len(rowKeys) {
			return nil, xerrors.NewFrameError("ConcatColumns", "", "row count mismatch across frames")
		}
		for i, rk := range f.RowKeys() {
			if rk != rowKeys[i] {
				return nil, xerrors.NewFrameError("ConcatColumns", fmt.Sprint(rk), "row key mismatch across frames")
			}
		}
		for ci, ck := range f.ColKeys() {
			if err := content.AddColumn(ck, f.content.ColumnAt(ci).Copy()); err != nil {
				return nil, err
			}
		}
	}
	return NewFrame(content), nil
}

// OfResultSet adapts a database/sql result set into a Frame: the caller
// supplies rowKeyFn to derive each row's key, and colType to map a
// result column's SQL type to an array.Type; this function maps
// SQL-driver scan targets (bool/int64/float64/string/time.Time) onto
// the same primitive set array.Create already supports.
func OfResultSet[R comparable](rs *sql.Rows, capacityHint int, rowKeyFn func(scanned []any) R, colType func(colName string) array.Type) (*Frame[R, string], error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, xerrors.NewFrameError("OfResultSet", "", err.Error())
	}
	content := New[R, string](nil, nil)
	arrays := make([]array.Array, len(cols))
	for i, name := range cols {
		t := colType(name)
		arr := array.Create(t, 0, array.WithCapacityHint(capacityHint))
		arrays[i] = arr
		if err := content.AddColumn(name, arr); err != nil {
			return nil, err
		}
	}
	scanTargets := make([]any, len(cols))
	scanValues := make([]any, len(cols))
	for i := range scanTargets {
		scanTargets[i] = &scanValues[i]
	}
	for rs.Next() {
		if err := rs.Scan(scanTargets...); err != nil {
			return nil, xerrors.NewFrameError("OfResultSet", "", err.Error())
		}
		rowKey := rowKeyFn(scanValues)
		coord, err := content.AddRow(rowKey)
		if err != nil {
			return nil, err
		}
		for i := range cols {
			arrays[i].SetValue(coord, scanValues[i])
		}
	}
	if err := rs.Err(); err != nil {
		return nil, xerrors.NewFrameError("OfResultSet", "", err.Error())
	}
	return NewFrame(content), nil
}
