// Package wavelet implements a Huffman-shaped dynamic wavelet sequence:
// a mutable string over a small alphabet supporting access, rank, and
// insert, each in O(log sigma * log m) time by descending a fixed
// Huffman tree shape and recursing into a dynbitvec.DynamicBitVector at
// every internal node visited.
//
// Generalized from a one-shot static build over a sorted bit-vector into
// an online structure backed by dynbitvec.DynamicBitVector.
package wavelet

import (
	"fmt"

	"github.com/bwtil-go/lz77bwt/dynbitvec"
	"github.com/bwtil-go/lz77bwt/huffman"
)

// DynamicString is a mutable sequence s[0..m) of symbols from
// {0,...,sigma}, shaped by a fixed huffman.Tree. Internally, each
// internal Huffman node owns one dynbitvec.DynamicBitVector recording,
// for every symbol routed through it in textual order, which child it
// descended to (spec.md §3, "Dynamic string").
type DynamicString struct {
	shape *huffman.Tree
	bits  []*dynbitvec.DynamicBitVector // indexed by huffman.Tree internal node id
	// singleLeaf is set when the alphabet degenerates to one symbol
	// (huffman.Tree.Root() is itself a leaf); length is then tracked
	// directly since there is no bit-vector to route through.
	singleLeaf   bool
	leafSymbol   uint16
	singleLength int
}

// New returns an empty DynamicString shaped by the given Huffman tree.
func New(shape *huffman.Tree) *DynamicString {
	ds := &DynamicString{shape: shape}
	root := shape.Root()
	if root.Leaf {
		ds.singleLeaf = true
		ds.leafSymbol = root.Symbol
		return ds
	}
	ds.bits = make([]*dynbitvec.DynamicBitVector, shape.NodeCount())
	for i := range ds.bits {
		ds.bits[i] = dynbitvec.New()
	}
	return ds
}

// Len returns the number of symbols currently stored.
func (ds *DynamicString) Len() int {
	if ds.singleLeaf {
		return ds.singleLength
	}
	return ds.bits[ds.shape.Root().Node].Len()
}

// Access returns the symbol at position i, per spec.md §4.4: walk from
// the root, at each internal node v read b_v.Access(i), descend to the
// corresponding child, and set i <- rank_b(i) on b_v; terminate at a leaf.
func (ds *DynamicString) Access(i int) uint16 {
	if ds.singleLeaf {
		if i < 0 || i >= ds.singleLength {
			panic(fmt.Sprintf("wavelet: index %d out of range [0, %d)", i, ds.singleLength))
		}
		return ds.leafSymbol
	}

	link := ds.shape.Root()
	for !link.Leaf {
		bv := ds.bits[link.Node]
		bit := bv.Access(i)
		if bit {
			i = bv.Rank1(i)
			_, link = ds.shape.Children(link.Node)
		} else {
			i = bv.Rank0(i)
			link, _ = ds.shape.Children(link.Node)
		}
	}
	return link.Symbol
}

// Rank returns the number of occurrences of c in s[0..i), by walking the
// Huffman path for c from the root and pushing i through each node's
// bit-vector rank, per spec.md §4.4.
func (ds *DynamicString) Rank(c uint16, i int) int {
	if ds.singleLeaf {
		if c != ds.leafSymbol {
			return 0
		}
		return i
	}

	code, ok := ds.shape.Code(c)
	if !ok {
		panic(fmt.Sprintf("wavelet: symbol %d not in alphabet", c))
	}

	link := ds.shape.Root()
	for _, bit := range code {
		bv := ds.bits[link.Node]
		if bit {
			i = bv.Rank1(i)
			_, link = ds.shape.Children(link.Node)
		} else {
			i = bv.Rank0(i)
			link, _ = ds.shape.Children(link.Node)
		}
	}
	return i
}

// Insert inserts symbol c at position i, pushing a bit into every
// bit-vector along c's root-to-leaf code path, in root-to-leaf order. The
// child's position is rank_bit(i) taken on the just-updated vector; it
// counts only bits before i, so the new bit at i does not change it
// (spec.md §4.4 invariants (i) and (ii)).
func (ds *DynamicString) Insert(i int, c uint16) {
	if ds.singleLeaf {
		if c != ds.leafSymbol {
			panic(fmt.Sprintf("wavelet: symbol %d does not match the single-leaf alphabet symbol %d", c, ds.leafSymbol))
		}
		if i < 0 || i > ds.singleLength {
			panic(fmt.Sprintf("wavelet: index %d out of range [0, %d]", i, ds.singleLength))
		}
		ds.singleLength++
		return
	}

	code, ok := ds.shape.Code(c)
	if !ok {
		panic(fmt.Sprintf("wavelet: symbol %d not in alphabet", c))
	}

	link := ds.shape.Root()
	for _, bit := range code {
		bv := ds.bits[link.Node]
		bv.Insert(i, bit)
		if bit {
			i = bv.Rank1(i)
			_, link = ds.shape.Children(link.Node)
		} else {
			i = bv.Rank0(i)
			link, _ = ds.shape.Children(link.Node)
		}
	}
}

// Delete removes the symbol at position i and returns it, walking the
// same root-to-leaf path Access would, deleting one bit per internal
// node visited (the mirror image of Insert).
func (ds *DynamicString) Delete(i int) uint16 {
	if ds.singleLeaf {
		if i < 0 || i >= ds.singleLength {
			panic(fmt.Sprintf("wavelet: index %d out of range [0, %d)", i, ds.singleLength))
		}
		ds.singleLength--
		return ds.leafSymbol
	}

	link := ds.shape.Root()
	for !link.Leaf {
		bv := ds.bits[link.Node]
		bit := bv.Access(i)
		var next int
		if bit {
			next = bv.Rank1(i)
		} else {
			next = bv.Rank0(i)
		}
		bv.Delete(i)
		i = next
		if bit {
			_, link = ds.shape.Children(link.Node)
		} else {
			link, _ = ds.shape.Children(link.Node)
		}
	}
	return link.Symbol
}

// Shape returns the Huffman tree driving this string's encoding.
func (ds *DynamicString) Shape() *huffman.Tree { return ds.shape }
