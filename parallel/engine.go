// Package parallel implements a fork/join engine: row and column axis
// operations recursively split at the midpoint until a range falls
// under config.RowSplitThreshold/ColSplitThreshold, then run
// sequentially, with results merged back in original order.
//
// The recursive range split lets nested sub-ranges keep splitting until
// they're worth running sequentially, rather than spawning one
// goroutine per item up front.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/myplant-io/d3x-morpheus/internal/config"
	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// Engine runs bulk range operations over a frame's rows or columns,
// splitting recursively at the midpoint while the range exceeds its
// axis's split threshold, and running the leaf ranges across a bounded
// worker pool sized from config.WorkerPoolSize (falling back to
// runtime.NumCPU()).
type Engine struct {
	workers int
	sem     chan struct{}
}

// NewEngine builds an Engine sized from cfg. A zero or negative
// WorkerPoolSize falls back to runtime.NumCPU().
func NewEngine(cfg config.Config) *Engine {
	n := cfg.Workers()
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Engine{workers: n, sem: make(chan struct{}, n)}
}

// Workers reports the engine's worker pool size.
func (e *Engine) Workers() int { return e.workers }

// acquire/release bound concurrent leaf execution to e.workers, a fixed
// goroutine ceiling.
func (e *Engine) acquire() { e.sem <- struct{}{} }
func (e *Engine) release() { <-e.sem }

// ForEachRows applies fn to every row ordinal in [0, rowCount), splitting
// recursively while a sub-range exceeds threshold. fn must be safe to
// call concurrently across disjoint ranges; any panic it raises is
// recovered and reported as a single xerrors-wrapped error from the
// call. Nothing is rolled back: writes fn made in leaves that already
// ran stay in place.
func (e *Engine) ForEachRows(ctx context.Context, rowCount, threshold int, fn func(start, end int)) error {
	return e.forEachRange(ctx, rowCount, threshold, fn)
}

// ForEachCols applies fn to every column ordinal in [0, colCount). Column
// ranges are typically much smaller than row ranges, so callers usually
// pass config.ColSplitThreshold here instead of RowSplitThreshold.
func (e *Engine) ForEachCols(ctx context.Context, colCount, threshold int, fn func(start, end int)) error {
	return e.forEachRange(ctx, colCount, threshold, fn)
}

func (e *Engine) forEachRange(ctx context.Context, n, threshold int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = 1
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	var once sync.Once
	reportErr := func(err error) {
		once.Do(func() { errCh <- err })
	}

	var split func(start, end int)
	split = func(start, end int) {
		if ctx.Err() != nil {
			return
		}
		if end-start <= threshold {
			wg.Add(1)
			e.acquire()
			go func() {
				defer wg.Done()
				defer e.release()
				defer func() {
					if r := recover(); r != nil {
						reportErr(xerrors.Wrap(xerrors.KindArray, "ForEachRange", r))
					}
				}()
				fn(start, end)
			}()
			return
		}
		mid := start + (end-start)/2
		split(start, mid)
		split(mid, end)
	}
	split(0, n)
	wg.Wait()
	close(errCh)
	return <-errCh
}

// SelectKeys merges per-range key slices produced by a parallel row scan
// back into a single order-preserving slice, the shape ForEachRows-based
// filtering operations need: each worker appends the keys it kept for
// its own range to results[rangeIndex], and SelectKeys concatenates them
// in range order rather than completion order.
func SelectKeys[K any](perRange [][]K) []K {
	total := 0
	for _, r := range perRange {
		total += len(r)
	}
	out := make([]K, 0, total)
	for _, r := range perRange {
		out = append(out, r...)
	}
	return out
}

// Bounds holds the result of a parallel Min/Max/predicate scan: the
// winning ordinal and whether any element satisfied the predicate at all.
type Bounds struct {
	Ordinal int
	Found   bool
}

// Min scans [0, n) for the smallest ordinal under less, splitting the
// same way ForEachRows does, and combining each leaf range's local
// winner sequentially once every goroutine reports back (the reduction
// itself is cheap, so it isn't worth parallelizing further). Ties go to
// the lowest ordinal, as in a sequential scan.
func (e *Engine) Min(ctx context.Context, n, threshold int, less func(i, j int) bool) (Bounds, error) {
	return e.extremum(ctx, n, threshold, less)
}

// Max scans [0, n) for the largest ordinal under less.
func (e *Engine) Max(ctx context.Context, n, threshold int, less func(i, j int) bool) (Bounds, error) {
	return e.extremum(ctx, n, threshold, func(i, j int) bool { return less(j, i) })
}

func (e *Engine) extremum(ctx context.Context, n, threshold int, less func(i, j int) bool) (Bounds, error) {
	if n <= 0 {
		return Bounds{}, nil
	}
	type leafResult struct {
		start int
		ord   int
	}
	var mu sync.Mutex
	var leaves []leafResult

	err := e.forEachRange(ctx, n, threshold, func(start, end int) {
		best := start
		for i := start + 1; i < end; i++ {
			if less(i, best) {
				best = i
			}
		}
		mu.Lock()
		leaves = append(leaves, leafResult{start: start, ord: best})
		mu.Unlock()
	})
	if err != nil {
		return Bounds{}, err
	}
	if len(leaves) == 0 {
		return Bounds{}, nil
	}
	best := leaves[0].ord
	for _, l := range leaves[1:] {
		if less(l.ord, best) || (!less(best, l.ord) && l.ord < best) {
			best = l.ord
		}
	}
	return Bounds{Ordinal: best, Found: true}, nil
}

// Fork runs tasks concurrently against the engine's worker pool, bounded
// by the same semaphore ForEachRows/ForEachCols leaves acquire, and waits
// for all of them. A task that finds every slot taken runs inline on the
// calling goroutine, so a Fork nested inside a forked task never waits
// on a slot its own ancestors hold. A panic in any task is recovered and reported as a
// single xerrors-wrapped error once every task has returned; Fork is the
// primitive the row-merge sort uses for its two-way split instead of
// spawning unbounded raw goroutines.
func (e *Engine) Fork(ctx context.Context, tasks ...func()) error {
	if len(tasks) == 0 || ctx.Err() != nil {
		return ctx.Err()
	}
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	var once sync.Once
	reportErr := func(err error) {
		once.Do(func() { errCh <- err })
	}
	for _, task := range tasks {
		task := task
		wg.Add(1)
		run := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					reportErr(xerrors.Wrap(xerrors.KindArray, "Fork", r))
				}
			}()
			task()
		}
		select {
		case e.sem <- struct{}{}:
			go func() {
				defer e.release()
				run()
			}()
		default:
			run()
		}
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// ValueStreamSplit computes the flat column-major index for (rowOrdinal,
// colOrdinal) in a frame with rowCount rows: i = rowOrdinal +
// colOrdinal*rowCount, matching storage locality over row-major order.
func ValueStreamSplit(rowOrdinal, colOrdinal, rowCount int) int {
	return rowOrdinal + colOrdinal*rowCount
}
