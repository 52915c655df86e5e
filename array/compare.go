package array

import "golang.org/x/exp/constraints"

// DoubleEpsilon is the default relative tolerance used when comparing two
// Double values for equality, applying a relative tolerance
// testable property. Grounded in util/DoubleComparator.java's mixed
// absolute/relative epsilon scheme.
const DoubleEpsilon = 1e-9

// doublesEqual reports whether a and b are equal within a tolerance that
// scales with their magnitude, so comparisons remain meaningful for both
// very small and very large values. NaN is only equal to NaN.
func doublesEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if isNaN(a) && isNaN(b) {
		return true
	}
	diff := abs(a - b)
	if diff < DoubleEpsilon {
		return true
	}
	largest := abs(a)
	if abs(b) > largest {
		largest = abs(b)
	}
	return diff <= largest*DoubleEpsilon
}

func isNaN(f float64) bool { return f != f }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// compareDoubles orders a and b for Sort/BinarySearch, treating NaN as
// greater than every other value (and equal to itself), matching the
// teacher's ordering of undefined/missing numeric values to the tail.
func compareDoubles(a, b float64) int {
	switch {
	case isNaN(a) && isNaN(b):
		return 0
	case isNaN(a):
		return 1
	case isNaN(b):
		return -1
	case doublesEqual(a, b):
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// compareOrdered is the shared generic comparator for Int/Long and any
// other cleanly-ordered numeric element type; Double uses compareDoubles
// instead so it gets epsilon tolerance and NaN handling.
func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
