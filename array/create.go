package array

import (
	"github.com/myplant-io/d3x-morpheus/internal/config"
	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// Create builds a new Array of the given element type, length and style
// (Dense by default), per the options supplied. It is the single entry
// point frame.FrameContent uses to allocate column storage, matching the
// factory-method shape, rather than exposing each
// concrete storage type directly.
func Create(t Type, length int, opts ...Option) Array {
	co := resolveOptions(opts)
	switch co.style {
	case StyleDense:
		return createDense(t, length, co)
	case StyleSparse:
		return createSparse(t, length, co)
	case StyleMapped:
		return createMapped(t, length, co)
	case StyleCodedDense:
		return createCodedDense(t, length, co)
	case StyleCodedSparse:
		return createCodedSparse(t, length, co)
	default:
		panic(xerrors.NewUnsupportedOperationError("Create", co.style.String()))
	}
}

func createDense(t Type, length int, co createOptions) Array {
	switch t {
	case Boolean:
		return newDenseBool(length, co.allocator)
	case Int:
		return newDenseInt(length, co.allocator)
	case Long, LocalDate, LocalTime, LocalDateTime:
		return newDenseLong(length, co.allocator, t)
	case Double:
		return newDenseDouble(length, co.allocator)
	case ZonedDateTime:
		arr := newZonedArray(length, nil)
		if def, ok := co.defaultValue.(Zoned); ok {
			arr.Fill(def, 0, length)
		}
		return arr
	case String:
		return newDenseString(length)
	case Enum:
		return newCodedDense[string](length, Enum, codingFromOption[string](co))
	case Object:
		return newDenseObject(length)
	default:
		panic(xerrors.NewUnsupportedOperationError("Create", t.String()))
	}
}

func createSparse(t Type, length int, co createOptions) Array {
	if co.capacityHint <= 0 {
		ff := co.fillFactor
		if ff <= 0 {
			ff = config.Global().SparseFillFactorHint
		}
		co.capacityHint = int(ff * float64(length))
	}
	switch t {
	case Boolean:
		def, _ := co.defaultValue.(bool)
		return newSparse[bool](length, t, def, co.capacityHint)
	case Int:
		def, _ := co.defaultValue.(int32)
		return newSparse[int32](length, t, def, co.capacityHint)
	case Long, LocalDate, LocalTime, LocalDateTime:
		def, _ := co.defaultValue.(int64)
		return newSparse[int64](length, t, def, co.capacityHint)
	case Double:
		def, ok := co.defaultValue.(float64)
		if !ok {
			def = 0
		}
		return newSparse[float64](length, t, def, co.capacityHint)
	case String, Enum:
		def, _ := co.defaultValue.(string)
		return newSparse[string](length, t, def, co.capacityHint)
	case ZonedDateTime:
		def, _ := co.defaultValue.(Zoned)
		return newSparseZonedArray(length, def, co.capacityHint)
	case Object:
		return newSparse[any](length, t, co.defaultValue, co.capacityHint)
	default:
		panic(xerrors.NewUnsupportedOperationError("Create", t.String()))
	}
}

func createMapped(t Type, length int, co createOptions) Array {
	if !t.IsDateLike() || t == ZonedDateTime {
		panic(xerrors.NewUnsupportedOperationError("Create", "Mapped style requires a date-like type"))
	}
	return newMapped(length, t)
}

func createCodedDense(t Type, length int, co createOptions) Array {
	switch t {
	case String, Enum:
		return newCodedDense[string](length, t, codingFromOption[string](co))
	case Int:
		return newCodedDense[int32](length, t, codingFromOption[int32](co))
	default:
		panic(xerrors.NewUnsupportedOperationError("Create", "CodedDense requires String, Enum or Int"))
	}
}

func createCodedSparse(t Type, length int, co createOptions) Array {
	switch t {
	case String, Enum:
		return newCodedSparse[string](length, t, codingFromOption[string](co))
	case Int:
		return newCodedSparse[int32](length, t, codingFromOption[int32](co))
	default:
		panic(xerrors.NewUnsupportedOperationError("Create", "CodedSparse requires String, Enum or Int"))
	}
}

func codingFromOption[T comparable](co createOptions) *Coding[T] {
	if co.coding == nil {
		return nil
	}
	if c, ok := co.coding.(*Coding[T]); ok {
		return c
	}
	return nil
}
