// Package bwt implements the online, zero-order compressed Burrows-Wheeler
// Transform that the LZ77 driver uses as its self-index: online append of
// symbols to the underlying text, plus backward-search (BS) interval
// lookups on the evolving transform (spec.md §4.5).
//
// Generalized from a one-shot F-column/LF-mapping construction over a
// fixed string into an incremental structure whose last column is a
// wavelet.DynamicString.
package bwt

import (
	"fmt"

	"github.com/bwtil-go/lz77bwt/alphabet"
	"github.com/bwtil-go/lz77bwt/huffman"
	"github.com/bwtil-go/lz77bwt/wavelet"
)

// Interval is a half-open row range [Lo, Hi) on the F column.
type Interval struct {
	Lo, Hi int
}

// Empty reports whether the interval contains no rows: BS found no match.
func (iv Interval) Empty() bool { return iv.Hi <= iv.Lo }

// Dynamic is an online BWT: L = BWT(T . #), where T grows one symbol at a
// time via Extend and # is the synthetic terminator reserved by the
// alphabet map.
type Dynamic struct {
	alphabet *alphabet.Map
	str      *wavelet.DynamicString
	fCounts  []uint64 // F_counts[c]: occurrences of symbol c in T.#, indexed by symbol
	p        int      // current row holding the terminator

	sampleRate  int
	samples     map[int]int // row -> text position, populated every sampleRate-th extend
	nextTextPos int
}

// New returns a Dynamic BWT initialized to the one-row state s=[#], p=0,
// F_counts[#]=1, per spec.md §4.5. sampleRate configures locate_right's
// LF-walk sampling; 0 disables locate_right entirely.
func New(am *alphabet.Map, shape *huffman.Tree, sampleRate int) *Dynamic {
	str := wavelet.New(shape)
	term := am.Terminator()
	str.Insert(0, term)

	fCounts := make([]uint64, am.Sigma()+1)
	fCounts[term] = 1

	bw := &Dynamic{
		alphabet:   am,
		str:        str,
		fCounts:    fCounts,
		p:          0,
		sampleRate: sampleRate,
	}
	if sampleRate > 0 {
		bw.samples = make(map[int]int)
	}
	return bw
}

// Size returns m = |L| = |T| + 1.
func (bw *Dynamic) Size() int { return bw.str.Len() }

// InitialInterval returns the full F-column range [0, size()), the
// starting point of a backward search.
func (bw *Dynamic) InitialInterval() Interval {
	return Interval{Lo: 0, Hi: bw.Size()}
}

// cCount returns C[c]: the number of symbols in T.# strictly less than c.
func (bw *Dynamic) cCount(c uint16) int {
	var sum uint64
	for d := uint16(0); d < c; d++ {
		sum += bw.fCounts[d]
	}
	return int(sum)
}

// BS performs one backward-search step: given [lo, hi) for suffix P,
// returns the interval for cP (spec.md §4.5).
func (bw *Dynamic) BS(iv Interval, c uint16) Interval {
	base := bw.cCount(c)
	return Interval{
		Lo: base + bw.str.Rank(c, iv.Lo),
		Hi: base + bw.str.Rank(c, iv.Hi),
	}
}

// lf is the LF-mapping step used by locate_right's sampled walk: moves
// from row i to the row of its textual predecessor.
func (bw *Dynamic) lf(i int) int {
	c := bw.str.Access(i)
	return bw.cCount(c) + bw.str.Rank(c, i)
}

// shiftInsertedAt adjusts sample row indices after a structural insert at
// position at: every recorded row >= at moves to row+1.
func (bw *Dynamic) shiftInsertedAt(at int) {
	if bw.samples == nil {
		return
	}
	updated := make(map[int]int, len(bw.samples))
	for row, pos := range bw.samples {
		if row >= at {
			row++
		}
		updated[row] = pos
	}
	bw.samples = updated
}

// shiftDeletedAt adjusts sample row indices after a structural delete at
// position at: every recorded row > at moves to row-1. The deleted row
// itself (the terminator) is never sampled, so no entry is ever dropped.
func (bw *Dynamic) shiftDeletedAt(at int) {
	if bw.samples == nil {
		return
	}
	updated := make(map[int]int, len(bw.samples))
	for row, pos := range bw.samples {
		if row > at {
			row--
		}
		updated[row] = pos
	}
	bw.samples = updated
}

// Extend appends symbol c to the front of the conceptual text (spec.md
// §4.5). The terminator physically moves in two steps: c is inserted
// where # currently sits (displacing # one row to the right), then # is
// deleted from that stale row and reinserted at the LF-computed row,
// since C[c] and rank_c only ever depend on c's own occurrences and are
// unaffected by where # itself lives.
func (bw *Dynamic) Extend(c uint16) {
	p := bw.p

	bw.str.Insert(p, c)
	bw.shiftInsertedAt(p)
	if bw.samples != nil && bw.nextTextPos%bw.sampleRate == 0 {
		bw.samples[p] = bw.nextTextPos
	}

	rankC := bw.str.Rank(c, p)
	cc := bw.cCount(c)
	bw.fCounts[c]++
	newP := cc + rankC

	bw.str.Delete(p + 1)
	bw.shiftDeletedAt(p + 1)

	bw.str.Insert(newP, bw.alphabet.Terminator())
	bw.shiftInsertedAt(newP)

	bw.p = newP
	bw.nextTextPos++
}

// LocateRight returns the text position associated with BWT row i, via a
// sampled LF walk: apply LF until a sampled row is hit, then add the
// number of steps taken (each LF step moves one position earlier in the
// text). Panics if sampling was disabled (sampleRate == 0 at New).
func (bw *Dynamic) LocateRight(i int) int {
	if bw.samples == nil {
		panic("bwt: LocateRight called with sampling disabled (sampleRate == 0)")
	}
	steps := 0
	for {
		if pos, ok := bw.samples[i]; ok {
			return pos + steps
		}
		i = bw.lf(i)
		steps++
		if steps > bw.Size() {
			panic(fmt.Sprintf("bwt: LocateRight(%d) did not converge within size()=%d LF steps", i, bw.Size()))
		}
	}
}

// Access returns the symbol stored at row i of L.
func (bw *Dynamic) Access(i int) uint16 { return bw.str.Access(i) }
