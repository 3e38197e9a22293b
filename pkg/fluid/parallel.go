package fluid

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// pool splits index ranges into contiguous chunks, one goroutine per chunk,
// and returns only after every chunk is done. Callers guarantee that each
// index writes only its own output cell.
type pool struct {
	workers int
}

func newPool(workers int) pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return pool{workers: workers}
}

// run executes fn(w, lo, hi) for the w-th chunk [lo,hi) of [start,end).
func (p pool) run(start, end int, fn func(w, lo, hi int)) {
	total := end - start
	if total <= 0 {
		return
	}
	workers := p.workers
	if workers > total {
		workers = total
	}
	if workers == 1 {
		fn(0, start, end)
		return
	}
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		s := start + w*chunk
		e := s + chunk
		if e > end {
			e = end
		}
		if s >= end {
			break
		}
		wg.Add(1)
		go func(w, ss, ee int) {
			fn(w, ss, ee)
			wg.Done()
		}(w, s, e)
	}
	wg.Wait()
}

// parallelRange executes fn for each i in [start,end).
func (p pool) parallelRange(start, end int, fn func(i int)) {
	p.run(start, end, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}

// cells executes fn for every flat cell index in [0,n).
func (p pool) cells(n int, fn func(c int)) {
	p.parallelRange(0, n, fn)
}

// maxCells executes fn for every cell in [0,n) and returns the largest
// result, or 0 when every result is smaller.
func (p pool) maxCells(n int, fn func(c int) float64) float64 {
	partial := make([]float64, p.workers)
	p.run(0, n, func(w, lo, hi int) {
		m := 0.0
		for c := lo; c < hi; c++ {
			if v := fn(c); v > m {
				m = v
			}
		}
		partial[w] = m
	})
	return floats.Max(partial)
}

// firstCell returns the smallest c in [0,n) with pred(c), or -1.
func (p pool) firstCell(n int, pred func(c int) bool) int {
	partial := make([]int, p.workers)
	fill(partial, -1)
	p.run(0, n, func(w, lo, hi int) {
		for c := lo; c < hi; c++ {
			if pred(c) {
				partial[w] = c
				return
			}
		}
	})
	// Chunks are ordered, so the first hit in chunk order is the smallest.
	for _, c := range partial {
		if c >= 0 {
			return c
		}
	}
	return -1
}
