package array

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"math"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// A Dense array writes its length, a
// packed null bitmap, and the raw value sequence; Sparse arrays (see
// sparse.go) write a count followed by (index, value) pairs instead of
// every slot. ArraySink/ArraySource satisfy io.Writer/io.Reader, so
// encoding/binary's helpers apply directly.

func writeNullBitmap(w io.Writer, nulls []bool) error {
	packed := make([]byte, (len(nulls)+7)/8)
	for i, n := range nulls {
		if n {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	return binary.Write(w, binary.LittleEndian, packed)
}

func readNullBitmap(r io.Reader, n int) ([]bool, error) {
	packed := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = packed[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}

func writeDenseBool(a *denseBool, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	if err := binary.Write(&buf, binary.LittleEndian, n); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	if err := writeNullBitmap(&buf, a.nulls); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	for i := 0; i < a.Len(); i++ {
		buf.WriteByte(a.buf.getByte(i))
	}
	return flushTo(w, &buf)
}

func readDenseBool(a *denseBool, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseBool(int(n), a.buf.alloc)
	a.nulls = nulls
	for i := int64(0); i < n; i++ {
		var b [1]byte
		if _, err := io.ReadFull(br, b[:]); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		a.buf.setByte(int(i), b[0])
	}
	return br.n, nil
}

func writeDenseInt(a *denseInt, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	binary.Write(&buf, binary.LittleEndian, n)
	writeNullBitmap(&buf, a.nulls)
	for i := 0; i < a.Len(); i++ {
		binary.Write(&buf, binary.LittleEndian, a.buf.getUint32(i))
	}
	return flushTo(w, &buf)
}

func readDenseInt(a *denseInt, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseInt(int(n), a.buf.alloc)
	a.nulls = nulls
	for i := int64(0); i < n; i++ {
		var v uint32
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		a.buf.setUint32(int(i), v)
	}
	return br.n, nil
}

func writeDenseLong(a *denseLong, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	binary.Write(&buf, binary.LittleEndian, n)
	binary.Write(&buf, binary.LittleEndian, int32(a.elemType))
	writeNullBitmap(&buf, a.nulls)
	for i := 0; i < a.Len(); i++ {
		binary.Write(&buf, binary.LittleEndian, a.buf.getUint64(i))
	}
	return flushTo(w, &buf)
}

func readDenseLong(a *denseLong, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	var t int32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &t); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseLong(int(n), a.buf.alloc, Type(t))
	a.nulls = nulls
	for i := int64(0); i < n; i++ {
		var v uint64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		a.buf.setUint64(int(i), v)
	}
	return br.n, nil
}

func writeDenseDouble(a *denseDouble, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	binary.Write(&buf, binary.LittleEndian, n)
	writeNullBitmap(&buf, a.nulls)
	for i := 0; i < a.Len(); i++ {
		binary.Write(&buf, binary.LittleEndian, math.Float64bits(a.GetDouble(i)))
	}
	return flushTo(w, &buf)
}

func readDenseDouble(a *denseDouble, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseDouble(int(n), a.buf.alloc)
	a.nulls = nulls
	for i := int64(0); i < n; i++ {
		var v uint64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		a.buf.setUint64(int(i), v)
	}
	return br.n, nil
}

func writeDenseString(a *denseString, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	binary.Write(&buf, binary.LittleEndian, n)
	writeNullBitmap(&buf, a.nulls)
	for _, s := range a.vals {
		b := []byte(s)
		binary.Write(&buf, binary.LittleEndian, int32(len(b)))
		buf.Write(b)
	}
	return flushTo(w, &buf)
}

func readDenseString(a *denseString, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseString(int(n))
	a.nulls = nulls
	for i := int64(0); i < n; i++ {
		var strLen int32
		if err := binary.Read(br, binary.LittleEndian, &strLen); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		b := make([]byte, strLen)
		if _, err := io.ReadFull(br, b); err != nil {
			return br.n, xerrors.NewSerializationError("ReadFrom", err)
		}
		a.vals[i] = string(b)
	}
	return br.n, nil
}

// writeDenseObject falls back to encoding/gob for arbitrary Go values;
// none of the pack's serialization libraries (Arrow IPC, yaml) round-trip
// an untyped interface{} slice, so this is the one place the array
// package reaches for the standard library's own generic encoder.
func writeDenseObject(a *denseObject, w ArraySink) (int64, error) {
	var buf bytes.Buffer
	n := int64(a.Len())
	binary.Write(&buf, binary.LittleEndian, n)
	writeNullBitmap(&buf, a.nulls)
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(a.vals); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	return flushTo(w, &buf)
}

func readDenseObject(a *denseObject, r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	nulls, err := readNullBitmap(br, int(n))
	if err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	dec := gob.NewDecoder(br)
	var vals []any
	if err := dec.Decode(&vals); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newDenseObject(int(n))
	a.nulls = nulls
	a.vals = vals
	return br.n, nil
}

// writeSparse/readSparse serialize a Sparse[T]'s length, element type and
// the (ordinal, value) pairs actually stored, via gob: a round trip needs
// for "count followed by (index, value) pairs," which is what gob's
// native map encoding already produces on the wire.
func writeSparse[T comparable](a *Sparse[T], w ArraySink) (int64, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int64(a.length))
	binary.Write(&buf, binary.LittleEndian, int32(a.elemType))
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(a.values); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	if err := enc.Encode(a.nulls); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	if err := enc.Encode(a.defaultValue); err != nil {
		return 0, xerrors.NewSerializationError("WriteTo", err)
	}
	return flushTo(w, &buf)
}

func readSparse[T comparable](a *Sparse[T], r ArraySource) (int64, error) {
	br := &countingReader{r: r}
	var n int64
	var t int32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &t); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	dec := gob.NewDecoder(br)
	var values map[int]T
	if err := dec.Decode(&values); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	var nulls map[int]bool
	if err := dec.Decode(&nulls); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	var def T
	if err := dec.Decode(&def); err != nil {
		return br.n, xerrors.NewSerializationError("ReadFrom", err)
	}
	*a = *newSparse[T](int(n), Type(t), def, len(values))
	a.values = values
	a.nulls = nulls
	return br.n, nil
}

func flushTo(w ArraySink, buf *bytes.Buffer) (int64, error) {
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), xerrors.NewSerializationError("WriteTo", err)
	}
	return int64(n), nil
}

// countingReader adapts an ArraySource to io.Reader while tracking bytes
// consumed, so Read methods can report their total back to the caller.
type countingReader struct {
	r ArraySource
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
