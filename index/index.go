// Package index implements Index[K], the keyed, insertion-ordered,
// bidirectional key<->coordinate index shared by a frame's row and
// column axes. Grounded on IndexOfStrings.java for Add/AddAll/Replace/
// Filter/duplicate-detection, and IndexOfLongs.java/IndexOfDoubles.java
// for the sorted-coordinate side table PreviousKey/NextKey walk.
package index

import (
	"sort"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// LessFunc orders two keys; supplying one at construction enables
// PreviousKey/NextKey. Indexes created without one support every other
// operation, but for those two they return the zero key and false.
type LessFunc[K comparable] func(a, b K) bool

// Index is a keyed, insertion-ordered bidirectional map between a key
// type K and a 0-based coordinate, the stable physical slot a key was
// first assigned. A Filter view shares its parent's coordinates and key
// storage but presents its own ordinal-to-coordinate mapping and refuses
// structural mutation (Add/AddAll/Replace), per the
// Coordinate/Ordinal distinction and §4.2's filter-view contract.
type Index[K comparable] struct {
	parent *Index[K]

	// Root-only state.
	keys    []K
	coordOf map[K]int
	less    LessFunc[K]
	sorted  []int // coordinates sorted by key, lazily built, invalidated on Add

	// Filter-view-only state: ordinals map 1:1 onto parent coordinates.
	// coordToOrdinal inverts that mapping so Coordinate/OrdinalOf stay
	// O(1) on a view instead of scanning ordinals.
	ordinals       []int
	coordToOrdinal map[int]int
}

// newFilterView builds a filter view over parent retaining ordinals (each
// a coordinate in parent's root), indexing them for O(1) lookup.
func newFilterView[K comparable](parent *Index[K], ordinals []int) *Index[K] {
	coordToOrdinal := make(map[int]int, len(ordinals))
	for ord, coord := range ordinals {
		coordToOrdinal[coord] = ord
	}
	return &Index[K]{parent: parent, ordinals: ordinals, coordToOrdinal: coordToOrdinal}
}

// New creates an empty root index. less is optional; pass nil if
// PreviousKey/NextKey will never be called.
func New[K comparable](less LessFunc[K]) *Index[K] {
	return &Index[K]{keys: make([]K, 0), coordOf: make(map[K]int), less: less}
}

// NewWithCapacity pre-sizes the backing slice/map, avoiding repeated
// growth when the final key count is known up front.
func NewWithCapacity[K comparable](capacity int, less LessFunc[K]) *Index[K] {
	return &Index[K]{keys: make([]K, 0, capacity), coordOf: make(map[K]int, capacity), less: less}
}

func (idx *Index[K]) isFilterView() bool { return idx.parent != nil }

// Len reports the number of visible entries: for a root index this is
// the key count; for a filter view, the number of ordinals it retains.
func (idx *Index[K]) Len() int {
	if idx.isFilterView() {
		return len(idx.ordinals)
	}
	return len(idx.keys)
}

// Add appends key at the next coordinate and returns it. Returns
// xerrors.NewDuplicateKeyError if key is already present, or
// xerrors.NewFilterViewMutationError on a filter view.
func (idx *Index[K]) Add(key K) (int, error) {
	if idx.isFilterView() {
		return 0, xerrors.NewFilterViewMutationError("Add")
	}
	if _, exists := idx.coordOf[key]; exists {
		return 0, xerrors.NewDuplicateKeyError("Add", key)
	}
	coord := len(idx.keys)
	idx.keys = append(idx.keys, key)
	idx.coordOf[key] = coord
	idx.sorted = nil
	return coord, nil
}

// AddAll appends every key in keys. If ignoreDuplicates is false, the
// first duplicate aborts the whole call, leaving previously-added keys
// from this call in place (matching IndexOfStrings.addAll's behavior of
// not rolling back partial progress). If true, duplicates are silently
// skipped.
func (idx *Index[K]) AddAll(keys []K, ignoreDuplicates bool) error {
	if idx.isFilterView() {
		return xerrors.NewFilterViewMutationError("AddAll")
	}
	for _, k := range keys {
		if _, err := idx.Add(k); err != nil {
			if ignoreDuplicates {
				continue
			}
			return err
		}
	}
	return nil
}

// Replace swaps the key stored at oldKey's coordinate for newKey,
// keeping the coordinate stable. Returns xerrors.NewUnknownKeyError if
// oldKey is absent, or xerrors.NewDuplicateKeyError if newKey already
// names a different coordinate.
func (idx *Index[K]) Replace(oldKey, newKey K) error {
	if idx.isFilterView() {
		return xerrors.NewFilterViewMutationError("Replace")
	}
	coord, ok := idx.coordOf[oldKey]
	if !ok {
		return xerrors.NewUnknownKeyError("Replace", oldKey)
	}
	if existing, exists := idx.coordOf[newKey]; exists && existing != coord {
		return xerrors.NewDuplicateKeyError("Replace", newKey)
	}
	delete(idx.coordOf, oldKey)
	idx.keys[coord] = newKey
	idx.coordOf[newKey] = coord
	idx.sorted = nil
	return nil
}

// Contains reports whether key is present (for a filter view, present
// among its retained ordinals).
func (idx *Index[K]) Contains(key K) bool {
	_, ok := idx.Coordinate(key)
	return ok
}

// ContainsAll reports whether every key in keys is present.
func (idx *Index[K]) ContainsAll(keys []K) bool {
	for _, k := range keys {
		if !idx.Contains(k) {
			return false
		}
	}
	return true
}

// Coordinate returns key's stable physical coordinate. A filter view
// only reports coordinates for keys among its retained ordinals.
func (idx *Index[K]) Coordinate(key K) (int, bool) {
	root := idx.root()
	coord, ok := root.coordOf[key]
	if !ok {
		return 0, false
	}
	if !idx.isFilterView() {
		return coord, true
	}
	if _, ok := idx.coordToOrdinal[coord]; !ok {
		return 0, false
	}
	return coord, true
}

// OrdinalOf returns key's 0-based visible position, which for a filter
// view differs from its coordinate.
func (idx *Index[K]) OrdinalOf(key K) (int, bool) {
	coord, ok := idx.Coordinate(key)
	if !ok {
		return 0, false
	}
	if !idx.isFilterView() {
		return coord, true
	}
	ord, ok := idx.coordToOrdinal[coord]
	return ord, ok
}

// KeyAt returns the key at the given visible ordinal.
func (idx *Index[K]) KeyAt(ordinal int) K {
	if idx.isFilterView() {
		if ordinal < 0 || ordinal >= len(idx.ordinals) {
			panic(xerrors.NewOutOfBoundsError("KeyAt", ordinal, len(idx.ordinals)))
		}
		return idx.root().keys[idx.ordinals[ordinal]]
	}
	if ordinal < 0 || ordinal >= len(idx.keys) {
		panic(xerrors.NewOutOfBoundsError("KeyAt", ordinal, len(idx.keys)))
	}
	return idx.keys[ordinal]
}

func (idx *Index[K]) root() *Index[K] {
	if idx.parent != nil {
		return idx.parent.root()
	}
	return idx
}

// First returns the key at ordinal 0, if any.
func (idx *Index[K]) First() (K, bool) {
	var zero K
	if idx.Len() == 0 {
		return zero, false
	}
	return idx.KeyAt(0), true
}

// Last returns the key at the final ordinal, if any.
func (idx *Index[K]) Last() (K, bool) {
	var zero K
	n := idx.Len()
	if n == 0 {
		return zero, false
	}
	return idx.KeyAt(n - 1), true
}

// Filter returns a view retaining only the given keys, in the order
// they're passed, sharing this index's coordinate space. Unknown keys
// are silently skipped, matching IndexOfStrings.filter's tolerance for a
// caller-supplied key list that doesn't exactly match the index.
func (idx *Index[K]) Filter(keys []K) *Index[K] {
	ordinals := make([]int, 0, len(keys))
	for _, k := range keys {
		if coord, ok := idx.Coordinate(k); ok {
			ordinals = append(ordinals, coord)
		}
	}
	return newFilterView(idx, ordinals)
}

// FilterPredicate returns a view retaining ordinals for which pred
// reports true, preserving relative order.
func (idx *Index[K]) FilterPredicate(pred func(key K) bool) *Index[K] {
	ordinals := make([]int, 0, idx.Len())
	for ord := 0; ord < idx.Len(); ord++ {
		k := idx.KeyAt(ord)
		coord, _ := idx.Coordinate(k)
		if pred(k) {
			ordinals = append(ordinals, coord)
		}
	}
	return newFilterView(idx, ordinals)
}

// Intersect returns a view of idx retaining only keys also present in
// other.
func (idx *Index[K]) Intersect(other *Index[K]) *Index[K] {
	return idx.FilterPredicate(func(k K) bool { return other.Contains(k) })
}

// Copy returns an independent index. When deep is false, the copy shares
// the root's key storage as a fresh filter view retaining every current
// ordinal (cheap, but still read-only like any filter view); when deep
// is true, it is a brand new root index with its own key storage that
// permits further Add/AddAll/Replace calls.
func (idx *Index[K]) Copy(deep bool) *Index[K] {
	if !deep {
		ordinals := make([]int, idx.Len())
		for ord := range ordinals {
			k := idx.KeyAt(ord)
			coord, _ := idx.Coordinate(k)
			ordinals[ord] = coord
		}
		return newFilterView(idx.root(), ordinals)
	}
	out := New[K](idx.less)
	for ord := 0; ord < idx.Len(); ord++ {
		out.Add(idx.KeyAt(ord))
	}
	return out
}

// ForEachEntry visits every visible (ordinal, key) pair in order.
func (idx *Index[K]) ForEachEntry(fn func(ordinal int, key K)) {
	for ord := 0; ord < idx.Len(); ord++ {
		fn(ord, idx.KeyAt(ord))
	}
}

// sortedCoordinates (re)builds the root's sorted-coordinate side table, used
// by PreviousKey/NextKey. A filter view always rebuilds against its own
// visible keys rather than sharing the root's table, since the two key
// sets can differ.
func (idx *Index[K]) sortedCoordinates() []int {
	if !idx.isFilterView() && idx.sorted != nil {
		return idx.sorted
	}
	n := idx.Len()
	coords := make([]int, n)
	for ord := 0; ord < n; ord++ {
		k := idx.KeyAt(ord)
		coord, _ := idx.Coordinate(k)
		coords[ord] = coord
	}
	root := idx.root()
	sort.Slice(coords, func(i, j int) bool {
		return root.less(root.keys[coords[i]], root.keys[coords[j]])
	})
	if !idx.isFilterView() {
		idx.sorted = coords
	}
	return coords
}

// PreviousKey returns the key immediately before key in sorted order, if
// any. Requires the index to have been constructed with a LessFunc.
func (idx *Index[K]) PreviousKey(key K) (K, bool) {
	var zero K
	if idx.root().less == nil {
		return zero, false
	}
	coords := idx.sortedCoordinates()
	root := idx.root()
	// pos is the first index whose key is >= key (a lower bound); every
	// coordinate before it sorts strictly less than key.
	pos := sort.Search(len(coords), func(i int) bool { return !root.less(root.keys[coords[i]], key) })
	if pos == 0 {
		return zero, false
	}
	return root.keys[coords[pos-1]], true
}

// NextKey returns the key immediately after key in sorted order, if any.
func (idx *Index[K]) NextKey(key K) (K, bool) {
	var zero K
	if idx.root().less == nil {
		return zero, false
	}
	coords := idx.sortedCoordinates()
	root := idx.root()
	pos := sort.Search(len(coords), func(i int) bool { return root.less(key, root.keys[coords[i]]) })
	if pos >= len(coords) {
		return zero, false
	}
	return root.keys[coords[pos]], true
}
