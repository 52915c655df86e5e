package array

import "github.com/apache/arrow-go/v18/arrow/memory"

// Array is the uniform, type-erased contract every TypedArray storage
// style implements. Concrete types (denseBool, denseInt, Sparse[T], ...)
// are never exposed directly; callers hold an Array and dispatch through
// it, one concrete type per (Type, Style) pair rather than a class hierarchy.
type Array interface {
	Len() int
	Type() Type
	Style() Style

	// DefaultValue is the value a sparse/mapped style returns for an
	// unset slot, distinct from a null read on a dense array.
	DefaultValue() any

	// GetValue/SetValue are the boxed, type-erased accessors every style
	// must support. Typed accessors below avoid the boxing overhead when
	// the caller already knows the element type.
	GetValue(ordinal int) any
	SetValue(ordinal int, value any)

	IsNull(ordinal int) bool
	SetNull(ordinal int)

	// IsEqualTo compares this array's value at ordinal i against other's
	// value at ordinal j, using an element-appropriate equality (exact
	// for ints/strings/bools, epsilon-tolerant for Double).
	IsEqualTo(i int, other Array, j int) bool

	GetBoolean(ordinal int) bool
	GetInt(ordinal int) int32
	GetLong(ordinal int) int64
	GetDouble(ordinal int) float64
	GetString(ordinal int) string

	SetBoolean(ordinal int, v bool)
	SetInt(ordinal int, v int32)
	SetLong(ordinal int, v int64)
	SetDouble(ordinal int, v float64)
	SetString(ordinal int, v string)

	// Fill sets every slot in [start, end) to value.
	Fill(value any, start, end int)

	// Swap exchanges the values (and any order-tracking state) at i and j.
	Swap(i, j int)

	// Compare orders the values at i and j; used by Sort and BinarySearch.
	Compare(i, j int) int

	// Sort orders [start, end) ascending if direction > 0, descending if
	// direction < 0, or restores original insertion order if direction
	// == 0.
	Sort(start, end, direction int)

	// Filter returns a new Array retaining only ordinals for which keep
	// reports true, preserving relative order.
	Filter(keep func(ordinal int) bool) Array

	// Copy returns an independent deep copy of the whole array.
	Copy() Array

	// CopyRange returns an independent deep copy of [start, end).
	CopyRange(start, end int) Array

	// Gather returns a new Array built by reading ordinals in the given
	// order, which may repeat or skip indices.
	Gather(ordinals []int) Array

	// Expand grows the array in place to newLen, filling new slots with
	// the style's default/null value.
	Expand(newLen int)

	// BinarySearch looks up value in [start,end), which must already be
	// sorted ascending, returning the matching ordinal or -(insertion
	// point)-1 if absent, matching sort.Search conventions used in the
	// teacher's comparator-based lookups.
	BinarySearch(start, end int, value any) int

	// Distinct returns the ordinals of first occurrences of each unique
	// value in the array, in original order.
	Distinct() []int

	// CumSum returns the cumulative sum over [start,end) for numeric
	// types; for non-numeric types it panics with the *xerrors.ArrayError
	// built by xerrors.NewUnsupportedOperationError.
	CumSum(start, end int) []float64

	WriteTo(w ArraySink) (int64, error)
	ReadFrom(r ArraySource) (int64, error)
}

// ArraySink and ArraySource are the minimal io.Writer/io.Reader-shaped
// contracts array serialization needs; defined here rather than reusing
// io.Writer/io.Reader directly keeps this file's doc comments scoped to
// what WriteTo/ReadFrom actually require.
type ArraySink interface {
	Write(p []byte) (n int, err error)
}

type ArraySource interface {
	Read(p []byte) (n int, err error)
}

// Option configures a newly created Array. Options are applied in order,
// so a later option can override an earlier one.
type Option func(*createOptions)

type createOptions struct {
	style         Style
	defaultValue  any
	fillFactor    float64
	allocator     memory.Allocator
	coding        any // *Coding[T], set by WithCoding; type-asserted by Create
	parallel      bool
	capacityHint  int
}

// WithStyle selects the backing storage style. Dense is the default.
func WithStyle(s Style) Option {
	return func(o *createOptions) { o.style = s }
}

// WithDefault sets the value a Sparse array reports for slots that have
// never been explicitly set; a Dense ZonedDateTime array is filled with it
// on creation. Other Dense arrays and the Mapped and Coded styles ignore it.
func WithDefault(v any) Option {
	return func(o *createOptions) { o.defaultValue = v }
}

// WithFillFactor hints the expected density of a Sparse array's backing
// map, sized against config.SparseFillFactorHint when omitted.
func WithFillFactor(f float64) Option {
	return func(o *createOptions) { o.fillFactor = f }
}

// WithAllocator overrides the Arrow allocator a Dense array uses for its
// primitive buffer. Most callers should omit this and let Create fall
// back to memutil.SharedAllocator.
func WithAllocator(a memory.Allocator) Option {
	return func(o *createOptions) { o.allocator = a }
}

// WithCoding attaches a pre-built Coding table to a CodedDense/CodedSparse
// array (or a Dense Enum array) instead of letting Create build a fresh,
// empty one when the array is constructed.
func WithCoding(c any) Option {
	return func(o *createOptions) { o.coding = c }
}

// WithCapacityHint pre-sizes a Sparse array's backing map.
func WithCapacityHint(n int) Option {
	return func(o *createOptions) { o.capacityHint = n }
}

func resolveOptions(opts []Option) createOptions {
	co := createOptions{style: StyleDense, fillFactor: -1}
	for _, opt := range opts {
		opt(&co)
	}
	return co
}
