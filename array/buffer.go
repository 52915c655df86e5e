package array

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/myplant-io/d3x-morpheus/internal/memutil"
)

// primBuffer is a growable, fixed-width-element byte buffer allocated
// through an Arrow memory.Allocator, so Dense boolean/int/long/double
// arrays store their payload, reusing an Arrow allocator
// (memutil.SharedAllocator wraps memory.NewGoAllocator) for the bytes
// without boxing each element into an interface{} slot.
//
// Arrow's own array.Array type is immutable once built, which does not
// fit a SetValue/Swap/Sort-in-place contract; primBuffer
// borrows Arrow's allocator for the backing bytes while keeping them
// mutable, and encodes/decodes primitives with encoding/binary instead of
// unsafe pointer casts.
type primBuffer struct {
	alloc    memory.Allocator
	data     []byte
	elemSize int
}

func newPrimBuffer(alloc memory.Allocator, elemSize, n int) *primBuffer {
	if alloc == nil {
		alloc = memutil.SharedAllocator()
	}
	b := &primBuffer{alloc: alloc, elemSize: elemSize}
	if n > 0 {
		b.data = alloc.Allocate(n * elemSize)
	}
	return b
}

func (b *primBuffer) len() int {
	if b.elemSize == 0 {
		return 0
	}
	return len(b.data) / b.elemSize
}

// expand grows the buffer to hold newLen elements, copying existing
// bytes and zero-filling the rest (Allocate already returns zeroed
// memory for memory.NewGoAllocator).
func (b *primBuffer) expand(newLen int) {
	newSize := newLen * b.elemSize
	if newSize <= len(b.data) {
		return
	}
	newData := b.alloc.Allocate(newSize)
	copy(newData, b.data)
	if len(b.data) > 0 {
		b.alloc.Free(b.data)
	}
	b.data = newData
}

func (b *primBuffer) slot(i int) []byte {
	o := i * b.elemSize
	return b.data[o : o+b.elemSize]
}

func (b *primBuffer) getUint64(i int) uint64 { return binary.LittleEndian.Uint64(b.slot(i)) }
func (b *primBuffer) setUint64(i int, v uint64) {
	binary.LittleEndian.PutUint64(b.slot(i), v)
}

func (b *primBuffer) getUint32(i int) uint32 { return binary.LittleEndian.Uint32(b.slot(i)) }
func (b *primBuffer) setUint32(i int, v uint32) {
	binary.LittleEndian.PutUint32(b.slot(i), v)
}

func (b *primBuffer) getByte(i int) byte    { return b.slot(i)[0] }
func (b *primBuffer) setByte(i int, v byte) { b.slot(i)[0] = v }

func (b *primBuffer) swap(i, j int) {
	si, sj := b.slot(i), b.slot(j)
	for k := 0; k < b.elemSize; k++ {
		si[k], sj[k] = sj[k], si[k]
	}
}
