// Package lz77 implements the two-variant LZ77 factorization driver of
// spec.md §4.6: a state machine that feeds each input byte through
// backward-search and extend calls against a dynamic BWT index to
// discover phrase boundaries.
//
// Grounded on the original BWTIL lz77.cpp's main parse loop, generalized
// from the original's fixed, static suffix-array-backed index into one
// driven by bwt.Dynamic.
package lz77

import (
	"github.com/bwtil-go/lz77bwt/alphabet"
	"github.com/bwtil-go/lz77bwt/bwt"
)

// Variant selects which of the two phrase-boundary rules the driver
// applies on a backward-search mismatch.
type Variant int

const (
	// V1 emits phrase Wc on a mismatch and always starts the next
	// phrase empty.
	V1 Variant = iota
	// V2 emits phrase W (without the mismatching character) when
	// |W| > 0, then reprocesses the mismatching character against a
	// fresh interval to decide its own fate.
	V2
)

// Token is one parsed phrase, per spec.md §3 "Parse token".
type Token struct {
	Phrase        []byte
	StartPosition int
	StartDefined  bool
}

// Driver runs the LZ77 factorization over a stream of input bytes fed one
// at a time via Feed.
type Driver struct {
	alphabet *alphabet.Map
	bwt      *bwt.Dynamic
	variant  Variant

	collectTokens bool
	tokens        []Token

	interval    bwt.Interval
	phraseBuf   []byte
	phraseLen   int
	phraseCount int
}

// New returns a driver over the given alphabet-remapped, freshly
// initialized BWT index. collectTokens enables --print-parse's token
// storage (spec.md §6); LocateRight must not be called unless the
// backing bwt.Dynamic was constructed with a positive sample rate.
func New(am *alphabet.Map, bw *bwt.Dynamic, variant Variant, collectTokens bool) *Driver {
	return &Driver{
		alphabet:      am,
		bwt:           bw,
		variant:       variant,
		collectTokens: collectTokens,
		interval:      bw.InitialInterval(),
	}
}

// PhraseCount returns the number of phrases emitted so far.
func (d *Driver) PhraseCount() int { return d.phraseCount }

// Tokens returns the parse tokens emitted so far, in order. Empty unless
// the driver was constructed with collectTokens.
func (d *Driver) Tokens() []Token { return d.tokens }

// Feed processes one input byte, advancing the state machine per
// spec.md §4.6.
func (d *Driver) Feed(c byte) {
	switch d.variant {
	case V2:
		d.feedV2(c)
	default:
		d.feedV1(c)
	}
}

func (d *Driver) resetPhrase() {
	d.interval = d.bwt.InitialInterval()
	d.phraseBuf = d.phraseBuf[:0]
	d.phraseLen = 0
}

func (d *Driver) emit(phrase []byte, startPosition int, startDefined bool) {
	if !d.collectTokens {
		return
	}
	d.tokens = append(d.tokens, Token{
		Phrase:        append([]byte(nil), phrase...),
		StartPosition: startPosition,
		StartDefined:  startDefined,
	})
}

func (d *Driver) feedV1(c byte) {
	lo := d.interval.Lo
	sym := d.alphabet.MustSymbol(c)
	next := d.bwt.BS(d.interval, sym)
	d.phraseLen++

	if !next.Empty() {
		d.bwt.Extend(sym)
		next.Hi++
		d.interval = next
		d.phraseBuf = append(d.phraseBuf, c)
		return
	}

	var occ int
	if d.collectTokens && d.phraseLen > 1 {
		occ = d.bwt.LocateRight(lo)
	}
	d.phraseCount++
	d.bwt.Extend(sym)
	if d.phraseLen == 1 {
		d.emit([]byte{c}, occ, false)
	} else {
		phrase := append(append([]byte(nil), d.phraseBuf...), c)
		d.emit(phrase, occ-(d.phraseLen-1), true)
	}
	d.resetPhrase()
}

func (d *Driver) feedV2(c byte) {
	lo := d.interval.Lo
	sym := d.alphabet.MustSymbol(c)
	next := d.bwt.BS(d.interval, sym)
	d.phraseLen++

	if !next.Empty() {
		d.bwt.Extend(sym)
		next.Hi++
		d.interval = next
		d.phraseBuf = append(d.phraseBuf, c)
		return
	}

	var occ int
	if d.collectTokens && d.phraseLen > 1 {
		occ = d.bwt.LocateRight(lo)
	}

	if d.phraseLen == 1 {
		d.phraseCount++
		d.bwt.Extend(sym)
		d.emit([]byte{c}, occ, false)
		d.resetPhrase()
		return
	}

	// |W| > 0: flush W as its own phrase, then decide c's fate fresh.
	d.phraseCount++
	d.emit(d.phraseBuf, occ-(d.phraseLen-1), true)
	d.phraseBuf = d.phraseBuf[:0]
	d.phraseLen = 0

	fresh := d.bwt.InitialInterval()
	freshLo := fresh.Lo
	retried := d.bwt.BS(fresh, sym)
	if retried.Empty() {
		var occ2 int
		if d.collectTokens {
			occ2 = d.bwt.LocateRight(freshLo)
		}
		d.phraseCount++
		d.bwt.Extend(sym)
		d.emit([]byte{c}, occ2, false)
		d.resetPhrase()
		return
	}

	d.bwt.Extend(sym)
	retried.Hi++
	d.interval = retried
	d.phraseLen = 1
	d.phraseBuf = append(d.phraseBuf[:0], c)
}
