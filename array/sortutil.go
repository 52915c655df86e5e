package array

// orderTracker records each slot's original insertion position so that
// Sort(start, end, 0) can restore insertion order after any number of
// prior sorts. Every concrete array type embeds one and keeps it in
// lockstep with its own Swap.
type orderTracker struct {
	order []int32
}

func newOrderTracker(n int) orderTracker {
	o := make([]int32, n)
	for i := range o {
		o[i] = int32(i)
	}
	return orderTracker{order: o}
}

func (t *orderTracker) swap(i, j int) {
	t.order[i], t.order[j] = t.order[j], t.order[i]
}

func (t *orderTracker) expand(newLen int) {
	old := len(t.order)
	if newLen <= old {
		return
	}
	grown := make([]int32, newLen)
	copy(grown, t.order)
	for i := old; i < newLen; i++ {
		grown[i] = int32(i)
	}
	t.order = grown
}

func (t *orderTracker) gather(ordinals []int) orderTracker {
	out := make([]int32, len(ordinals))
	for i, ord := range ordinals {
		out[i] = t.order[ord]
	}
	return orderTracker{order: out}
}

func (t *orderTracker) copyRange(start, end int) orderTracker {
	out := make([]int32, end-start)
	copy(out, t.order[start:end])
	return orderTracker{order: out}
}

// orderLess compares insertion order for direction==0 sorts. Embedding
// orderTracker by value in every concrete array type promotes this
// method, so sortArray's type-switch on the orderLess interface picks it
// up automatically.
func (t *orderTracker) orderLess(i, j int) bool { return t.order[i] < t.order[j] }

// sortRange orders [start, end) using less/swap closures. direction > 0
// sorts ascending by the caller-supplied less; direction < 0 sorts
// descending (less is inverted by the caller); direction == 0 is handled
// by the caller passing the orderTracker's own less. A quicksort with a
// Lomuto partition is used down to smallSortCutoff, below which insertion
// sort takes over, favoring simple
// sequential code at small sizes before any parallel/algorithmic overhead
// pays for itself.
const smallSortCutoff = 12

func sortRange(start, end int, less func(i, j int) bool, swap func(i, j int)) {
	quicksort(start, end-1, less, swap)
}

func quicksort(lo, hi int, less func(i, j int) bool, swap func(i, j int)) {
	for hi-lo > smallSortCutoff {
		p := partition(lo, hi, less, swap)
		if p-lo < hi-p {
			quicksort(lo, p-1, less, swap)
			lo = p + 1
		} else {
			quicksort(p+1, hi, less, swap)
			hi = p - 1
		}
	}
	insertionSort(lo, hi, less, swap)
}

func partition(lo, hi int, less func(i, j int) bool, swap func(i, j int)) int {
	mid := lo + (hi-lo)/2
	if less(mid, lo) {
		swap(mid, lo)
	}
	if less(hi, lo) {
		swap(hi, lo)
	}
	if less(hi, mid) {
		swap(hi, mid)
	}
	swap(mid, hi-1)
	pivot := hi - 1

	i := lo
	for j := lo; j < hi-1; j++ {
		if less(j, pivot) {
			swap(i, j)
			i++
		}
	}
	swap(i, pivot)
	return i
}

func insertionSort(lo, hi int, less func(i, j int) bool, swap func(i, j int)) {
	for i := lo + 1; i <= hi; i++ {
		for j := i; j > lo && less(j, j-1); j-- {
			swap(j, j-1)
		}
	}
}
