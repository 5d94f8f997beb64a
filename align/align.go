// Package align finds approximate occurrences of short patterns inside
// longer sequences.
//
// The search is an infix (substring) alignment under unit-cost edit
// distance: any prefix and suffix of the text are free, and every
// substitution, insertion, or deletion inside the aligned span costs one.
// The scan keeps, per text column, only the pattern rows whose running
// distance is still within the error budget (Ukkonen's cutoff), so a
// typical search costs O(len(text) * (maxDist+1)) instead of
// O(len(text) * len(pattern)).
package align

import (
	"bytes"
	"math"
)

// Alignment places a pattern inside a text. Start and End delimit the
// matched span of the text (End exclusive) and Distance counts the edits
// inside the span.
type Alignment struct {
	Distance int
	Start    int
	End      int
}

// Span returns the length of the aligned text span.
func (a Alignment) Span() int { return a.End - a.Start }

const inf = math.MaxInt32

// Infix returns the best placement of pattern within text with at most
// maxDist edits. Placements compare by distance, then by leftmost start,
// then by shortest span, so the result is deterministic. When no
// placement fits the budget, ok is false and the returned Alignment has
// Start and End of -1 and Distance of maxDist+1.
//
// Infix holds no state and may be called from many goroutines.
func Infix(pattern, text []byte, maxDist int) (Alignment, bool) {
	m := len(pattern)
	if m == 0 {
		return Alignment{Distance: maxDist + 1, Start: -1, End: -1}, false
	}
	if maxDist < 0 {
		maxDist = 0
	}
	// Exact occurrences win every tie-break (distance 0, leftmost first,
	// and all spans equal the pattern length), so a substring search
	// settles the common case immediately.
	if j := bytes.Index(text, pattern); j >= 0 {
		return Alignment{Distance: 0, Start: j, End: j + m}, true
	}
	if maxDist == 0 {
		return Alignment{Distance: 1, Start: -1, End: -1}, false
	}

	// Row i holds the cost of aligning pattern[:i] ending at the current
	// text column; row 0 is free (the span may start at any column).
	// start[] carries the span's start column along the cheapest path,
	// preferring the leftmost on cost ties.
	var (
		prev      = make([]int, m+1)
		cur       = make([]int, m+1)
		prevStart = make([]int, m+1)
		curStart  = make([]int, m+1)

		best      Alignment
		bestFound bool
	)
	offer := func(dist, start, end int) {
		cand := Alignment{Distance: dist, Start: start, End: end}
		if !bestFound {
			best, bestFound = cand, true
			return
		}
		if cand.Distance != best.Distance {
			if cand.Distance < best.Distance {
				best = cand
			}
			return
		}
		if cand.Start != best.Start {
			if cand.Start < best.Start {
				best = cand
			}
			return
		}
		if cand.Span() < best.Span() {
			best = cand
		}
	}

	lastActive := maxDist
	if lastActive > m {
		lastActive = m
	}
	for i := 0; i <= lastActive; i++ {
		prev[i] = i // all deletions, span starts at column 0
	}
	if lastActive < m {
		prev[lastActive+1] = inf
	} else {
		offer(m, 0, 0)
	}

	for j := 1; j <= len(text); j++ {
		bound := lastActive + 1
		if bound > m {
			bound = m
		}
		cur[0], curStart[0] = 0, j
		tb := text[j-1]
		for i := 1; i <= bound; i++ {
			d, ds := prev[i-1], prevStart[i-1]
			if pattern[i-1] != tb {
				d++
			}
			if v := prev[i] + 1; v < d || (v == d && prevStart[i] < ds) {
				d, ds = v, prevStart[i]
			}
			if v := cur[i-1] + 1; v < d || (v == d && curStart[i-1] < ds) {
				d, ds = v, curStart[i-1]
			}
			cur[i], curStart[i] = d, ds
		}
		if bound < m {
			cur[bound+1] = inf
		}
		lastActive = bound
		for cur[lastActive] > maxDist {
			lastActive--
		}
		if lastActive == m {
			offer(cur[m], curStart[m], j)
		}
		prev, cur = cur, prev
		prevStart, curStart = curStart, prevStart
	}

	if !bestFound {
		return Alignment{Distance: maxDist + 1, Start: -1, End: -1}, false
	}
	return best, true
}

// Op is one column of an alignment path.
type Op byte

const (
	// OpMatch consumes one equal base from pattern and text.
	OpMatch Op = iota
	// OpSub consumes one differing base from pattern and text.
	OpSub
	// OpIns consumes a text base not present in the pattern.
	OpIns
	// OpDel consumes a pattern base missing from the text.
	OpDel
)

// Path reconstructs the column-by-column edit script of a found
// alignment. pattern and text must be the slices Infix was called with.
// Ties prefer match/substitution over deletion over insertion. Path
// panics if a does not place the pattern (Start < 0).
func Path(pattern, text []byte, a Alignment) []Op {
	if a.Start < 0 {
		panic("align.Path on an alignment that was not found")
	}
	var (
		m    = len(pattern)
		w    = text[a.Start:a.End]
		n    = len(w)
		ncol = n + 1
		dist = make([]int, (m+1)*ncol)
	)
	// Both endpoints are fixed here, so this is a plain global alignment
	// over the span the scan picked.
	for j := 1; j <= n; j++ {
		dist[j] = j
	}
	for i := 1; i <= m; i++ {
		dist[i*ncol] = i
		for j := 1; j <= n; j++ {
			c := dist[(i-1)*ncol+j-1]
			if pattern[i-1] != w[j-1] {
				c++
			}
			if v := dist[(i-1)*ncol+j] + 1; v < c {
				c = v
			}
			if v := dist[i*ncol+j-1] + 1; v < c {
				c = v
			}
			dist[i*ncol+j] = c
		}
	}

	ops := make([]Op, 0, m+n)
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && pattern[i-1] == w[j-1] && dist[i*ncol+j] == dist[(i-1)*ncol+j-1]:
			ops = append(ops, OpMatch)
			i--
			j--
		case i > 0 && j > 0 && pattern[i-1] != w[j-1] && dist[i*ncol+j] == dist[(i-1)*ncol+j-1]+1:
			ops = append(ops, OpSub)
			i--
			j--
		case i > 0 && dist[i*ncol+j] == dist[(i-1)*ncol+j]+1:
			ops = append(ops, OpDel)
			i--
		default:
			ops = append(ops, OpIns)
			j--
		}
	}
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}
