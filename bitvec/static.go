package bitvec

import (
	"fmt"
	"math/bits"
)

// DefaultD is the block-sampling parameter from spec.md: a first-level
// sample every D^2 bits, a second-level sample every D bits.
const DefaultD = 63

// StaticBitVector is an immutable bit-vector of length n supporting
// Access(i) and Rank1(i) in O(1) via two-level (Jacobson) sampling: a
// super-block sample every D^2 bits holding cumulative popcount since the
// start of the vector, and a block sample every D bits holding popcount
// since the start of the current super-block. In-block popcount falls out
// of a single hardware-popcount instruction over the D-bit window that
// contains the query position.
type StaticBitVector struct {
	bits   *WordVector // width 1, the raw bit content
	level1 *WordVector // cumulative popcount every D^2 bits
	level2 *WordVector // popcount-since-superblock-start every D bits
	n      int
	d      int
}

// NewStaticBitVector builds a StaticBitVector from an explicit bit slice.
func NewStaticBitVector(bitValues []bool) *StaticBitVector {
	return newStaticBitVectorWithD(bitValues, DefaultD)
}

func newStaticBitVectorWithD(bitValues []bool, d int) *StaticBitVector {
	n := len(bitValues)
	raw := NewWordVector(n, 1)
	for i, v := range bitValues {
		if v {
			raw.SetBit(i, true)
		}
	}
	return buildStaticBitVector(raw, n, d)
}

// newStaticBitVectorFromWordVector adapts an already-populated width-1
// WordVector (e.g. one built incrementally elsewhere) into a
// StaticBitVector without copying its bit content.
func newStaticBitVectorFromWordVector(raw *WordVector, d int) *StaticBitVector {
	return buildStaticBitVector(raw, raw.Len(), d)
}

func buildStaticBitVector(raw *WordVector, n, d int) *StaticBitVector {
	if d <= 0 {
		d = DefaultD
	}
	superblockSize := d * d
	numSuperblocks := ceilDiv(n, superblockSize)
	numBlocks := ceilDiv(n, d)

	level1 := NewWordVector(max(numSuperblocks, 1), BitsPerValue(n))
	level2 := NewWordVector(max(numBlocks, 1), BitsPerValue(d*d))

	var total, superblockLocal int
	for i := 0; i < n; i++ {
		if i%superblockSize == 0 {
			level1.Set(i/superblockSize, uint64(total))
			superblockLocal = 0
		}
		if i%d == 0 {
			level2.Set(i/d, uint64(superblockLocal))
		}
		if raw.BitAt(i) {
			total++
			superblockLocal++
		}
	}

	return &StaticBitVector{
		bits:   raw,
		level1: level1,
		level2: level2,
		n:      n,
		d:      d,
	}
}

// Len returns the number of bits in the vector.
func (sbv *StaticBitVector) Len() int { return sbv.n }

// Access returns the bit at position i.
func (sbv *StaticBitVector) Access(i int) bool {
	if i < 0 || i >= sbv.n {
		panic(fmt.Sprintf("bitvec: StaticBitVector access index %d out of range [0, %d)", i, sbv.n))
	}
	return sbv.bits.BitAt(i)
}

// Rank1 returns the number of 1-bits in b[0..i). i may range over [0, n].
func (sbv *StaticBitVector) Rank1(i int) int {
	if i < 0 || i > sbv.n {
		panic(fmt.Sprintf("bitvec: StaticBitVector rank index %d out of range [0, %d]", i, sbv.n))
	}
	if i == 0 {
		return 0
	}

	superblockSize := sbv.d * sbv.d
	superblockIdx := (i - 1) / superblockSize
	level1Rank := int(sbv.level1.Get(superblockIdx))

	blockIdx := (i - 1) / sbv.d
	level2Rank := int(sbv.level2.Get(blockIdx))

	blockStart := blockIdx * sbv.d
	inBlockOffset := i - blockStart

	window := sbv.windowAt(blockStart)
	inBlockRank := bits.OnesCount64(window & maskFor(uint(inBlockOffset)))

	return level1Rank + level2Rank + inBlockRank
}

// Rank0 returns the number of 0-bits in b[0..i).
func (sbv *StaticBitVector) Rank0(i int) int {
	return i - sbv.Rank1(i)
}

// windowAt returns the up-to-D raw bits starting at position start, packed
// into the low bits of a uint64, zero-padded past the end of the vector.
func (sbv *StaticBitVector) windowAt(start int) uint64 {
	var window uint64
	end := start + sbv.d
	if end > sbv.n {
		end = sbv.n
	}
	for k := start; k < end; k++ {
		if sbv.bits.BitAt(k) {
			window |= 1 << uint(k-start)
		}
	}
	return window
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
