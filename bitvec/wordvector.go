// Package bitvec implements the immutable, succinct building blocks of the
// dynamic BWT index: a packed array of fixed-width words and, on top of it,
// a rank-capable static bit-vector.
package bitvec

import "fmt"

const machineWordBits = 64

// WordVector is a packed array of m unsigned integers of width w <= 64 bits,
// stored in a backing array of 64-bit machine words. It is also addressable
// one raw bit at a time via BitAt/SetBit, which ignore the word width and
// index directly into the backing bit stream; StaticBitVector uses both
// views of the same storage, one for its packed rank samples (word-sized
// slots) and one for the bit content itself (single-bit slots, i.e. a
// WordVector of width 1).
type WordVector struct {
	words  []uint64
	width  uint
	length int
}

// NewWordVector returns a WordVector holding length words of the given bit
// width. width must be in [1, 64].
func NewWordVector(length int, width uint) *WordVector {
	if width == 0 || width > machineWordBits {
		panic(fmt.Sprintf("bitvec: word width %d out of range [1, 64]", width))
	}
	if length < 0 {
		panic("bitvec: negative WordVector length")
	}
	totalBits := length * int(width)
	return &WordVector{
		words:  make([]uint64, wordsNeeded(totalBits)),
		width:  width,
		length: length,
	}
}

func wordsNeeded(totalBits int) int {
	if totalBits <= 0 {
		return 0
	}
	return (totalBits + machineWordBits - 1) / machineWordBits
}

// Len returns the number of width-sized words held by the vector.
func (wv *WordVector) Len() int { return wv.length }

// Width returns the configured word width in bits.
func (wv *WordVector) Width() uint { return wv.width }

func (wv *WordVector) checkWordIndex(i int) {
	if i < 0 || i >= wv.length {
		panic(fmt.Sprintf("bitvec: word index %d out of range [0, %d)", i, wv.length))
	}
}

// Get returns the i-th width-bit word.
func (wv *WordVector) Get(i int) uint64 {
	wv.checkWordIndex(i)
	return wv.getBits(i*int(wv.width), wv.width)
}

// Set stores v as the i-th width-bit word. v must be < 2^width.
func (wv *WordVector) Set(i int, v uint64) {
	wv.checkWordIndex(i)
	if wv.width < machineWordBits && v>>wv.width != 0 {
		panic(fmt.Sprintf("bitvec: value %d does not fit in %d bits", v, wv.width))
	}
	wv.setBits(i*int(wv.width), wv.width, v)
}

// BitAt returns the raw bit at position i of the backing bit stream,
// independent of the configured word width.
func (wv *WordVector) BitAt(i int) bool {
	wv.checkBitIndex(i)
	return wv.getBits(i, 1) != 0
}

// SetBit sets the raw bit at position i of the backing bit stream,
// independent of the configured word width.
func (wv *WordVector) SetBit(i int, v bool) {
	wv.checkBitIndex(i)
	if v {
		wv.setBits(i, 1, 1)
	} else {
		wv.setBits(i, 1, 0)
	}
}

func (wv *WordVector) checkBitIndex(i int) {
	if i < 0 || i >= wv.length*int(wv.width) {
		panic(fmt.Sprintf("bitvec: bit index %d out of range [0, %d)", i, wv.length*int(wv.width)))
	}
}

// getBits reads a run of `width` bits starting at raw bit offset `start`,
// spanning at most two backing 64-bit words.
func (wv *WordVector) getBits(start int, width uint) uint64 {
	wordIdx := start / machineWordBits
	bitOffset := uint(start % machineWordBits)

	mask := maskFor(width)
	low := wv.words[wordIdx] >> bitOffset
	if bitOffset+width <= machineWordBits {
		return low & mask
	}

	high := wv.words[wordIdx+1] << (machineWordBits - bitOffset)
	return (low | high) & mask
}

// setBits writes the low `width` bits of v starting at raw bit offset
// `start`, spanning at most two backing 64-bit words.
func (wv *WordVector) setBits(start int, width uint, v uint64) {
	wordIdx := start / machineWordBits
	bitOffset := uint(start % machineWordBits)
	mask := maskFor(width)
	v &= mask

	wv.words[wordIdx] &^= mask << bitOffset
	wv.words[wordIdx] |= v << bitOffset

	if bitOffset+width > machineWordBits {
		spill := bitOffset + width - machineWordBits
		spillMask := maskFor(spill)
		wv.words[wordIdx+1] &^= spillMask
		wv.words[wordIdx+1] |= v >> (width - spill)
	}
}

func maskFor(width uint) uint64 {
	if width >= machineWordBits {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// BitsPerValue returns ceil(log2(n+1)), the number of bits needed to store
// any value in [0, n] (n itself included), which is how StaticBitVector
// sizes its packed rank samples.
func BitsPerValue(n int) uint {
	if n <= 0 {
		return 1
	}
	var bits uint
	for v := uint64(n); v > 0; v >>= 1 {
		bits++
	}
	return bits
}
