// Package huffman builds the prefix-code shape that drives the dynamic
// BWT's wavelet-tree-like encoding, so that the overall space the index
// uses is bounded by the zero-order empirical entropy of the text.
//
// Grounded on the original BWTIL HuffmanTree (original_source/data_structures/HuffmanTree.h):
// a full binary tree built by repeatedly merging the two lowest-weight
// subtrees out of a multiset keyed by weight, ties broken by insertion
// order. We replicate that tie-break with the classic linear-time
// two-queue Huffman construction (one FIFO of leaves pre-sorted by
// weight, one FIFO of merged internal nodes, always produced in
// increasing weight order), rather than a heap, so ties resolve exactly
// the way repeated "pop two smallest, push their union" does in the
// original.
package huffman

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrEmptyAlphabet is returned by Build when every symbol frequency is
// zero, per spec.md §4.7: "Empty-alphabet (total frequency 0) is a fatal
// input error."
var ErrEmptyAlphabet = errors.New("huffman: empty alphabet (all frequencies zero)")

// Link is a tagged child reference: either a leaf (a symbol) or another
// internal node. DESIGN NOTES calls for exactly this shape to avoid
// owning-pointer cycles in the tree representation.
type Link struct {
	Leaf   bool
	Symbol uint16 // valid when Leaf
	Node   int    // valid when !Leaf, indexes Tree.nodes
}

type internalNode struct {
	Left, Right Link
}

// Tree is a full binary prefix code over an alphabet of sigma real
// symbols plus a terminator symbol numbered sigma. Only symbols with a
// nonzero frequency become leaves, and the terminator is always one, so
// with k such symbols the tree has k+1 leaves and k internal nodes: sigma
// internal nodes when every frequency is nonzero. A zero-frequency symbol
// has no code.
type Tree struct {
	nodes       []internalNode
	codes       map[uint16][]bool
	root        Link
	sigma       int // number of real symbols (excludes terminator)
	frequencies []uint64
}

// Terminator returns the synthetic terminator symbol, numerically sigma.
func (t *Tree) Terminator() uint16 { return uint16(t.sigma) }

type candidate struct {
	symbol uint16
	freq   uint64
}

// Build constructs the Huffman shape for real symbols 0..len(freq)-1 with
// the given (possibly zero) frequencies, plus a synthetic terminator
// symbol numbered len(freq) with weight 1, exactly as spec.md §3
// requires. It is a fatal error for every real frequency to be zero.
func Build(freq []uint64) (*Tree, error) {
	sigma := len(freq)

	var total uint64
	for _, f := range freq {
		total += f
	}
	if total == 0 {
		return nil, ErrEmptyAlphabet
	}

	candidates := make([]candidate, 0, sigma+1)
	for s, f := range freq {
		if f > 0 {
			candidates = append(candidates, candidate{symbol: uint16(s), freq: f})
		}
	}
	candidates = append(candidates, candidate{symbol: uint16(sigma), freq: 1})

	slices.SortFunc(candidates, func(a, b candidate) bool {
		if a.freq == b.freq {
			return a.symbol < b.symbol
		}
		return a.freq < b.freq
	})

	t := &Tree{sigma: sigma, frequencies: append([]uint64(nil), freq...)}

	if len(candidates) == 1 {
		// Degenerate single-leaf alphabet: the only symbol is the
		// terminator, there is nothing to branch on.
		t.root = Link{Leaf: true, Symbol: candidates[0].symbol}
		t.codes = map[uint16][]bool{candidates[0].symbol: {}}
		return t, nil
	}

	t.buildFromCandidates(candidates)
	t.storeCodes()
	return t, nil
}

type queueItem struct {
	link Link
	freq uint64
}

// buildFromCandidates runs the two-queue linear-time Huffman merge: queue
// of not-yet-merged leaves (pre-sorted ascending by weight) and a queue of
// merged internal nodes (always produced in non-decreasing weight order),
// always popping the two globally smallest items next.
func (t *Tree) buildFromCandidates(candidates []candidate) {
	leaves := make([]queueItem, len(candidates))
	for i, c := range candidates {
		leaves[i] = queueItem{link: Link{Leaf: true, Symbol: c.symbol}, freq: c.freq}
	}
	var merged []queueItem

	popMin := func() queueItem {
		if len(leaves) == 0 {
			item := merged[0]
			merged = merged[1:]
			return item
		}
		if len(merged) == 0 {
			item := leaves[0]
			leaves = leaves[1:]
			return item
		}
		if leaves[0].freq <= merged[0].freq {
			item := leaves[0]
			leaves = leaves[1:]
			return item
		}
		item := merged[0]
		merged = merged[1:]
		return item
	}

	for len(leaves)+len(merged) > 1 {
		a := popMin()
		b := popMin()
		t.nodes = append(t.nodes, internalNode{Left: a.link, Right: b.link})
		nodeID := len(t.nodes) - 1
		merged = append(merged, queueItem{
			link: Link{Leaf: false, Node: nodeID},
			freq: a.freq + b.freq,
		})
	}

	t.root = popMin().link
}

func (t *Tree) storeCodes() {
	t.codes = make(map[uint16][]bool)
	var walk func(link Link, code []bool)
	walk = func(link Link, code []bool) {
		if link.Leaf {
			t.codes[link.Symbol] = code
			return
		}
		n := t.nodes[link.Node]

		left := make([]bool, len(code)+1)
		copy(left, code)
		left[len(code)] = false
		walk(n.Left, left)

		right := make([]bool, len(code)+1)
		copy(right, code)
		right[len(code)] = true
		walk(n.Right, right)
	}
	walk(t.root, nil)
}

// Root returns the tagged link to the tree's root.
func (t *Tree) Root() Link { return t.root }

// Children returns the left and right children of internal node id.
func (t *Tree) Children(id int) (left, right Link) {
	n := t.nodes[id]
	return n.Left, n.Right
}

// NodeCount returns the number of internal nodes: the number of real
// symbols with a nonzero frequency (sigma when none is zero), or 0 for a
// single-leaf tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Code returns the root-to-leaf bit path for symbol, MSB (root bit) first.
func (t *Tree) Code(symbol uint16) ([]bool, bool) {
	c, ok := t.codes[symbol]
	return c, ok
}

// Entropy returns the tree's average code length in bits per symbol,
// weighted by frequency -- the same quantity as the original
// HuffmanTree::entropy().
func (t *Tree) Entropy() float64 {
	var total uint64
	for _, f := range t.frequencies {
		total += f
	}
	total++ // the terminator occurs exactly once
	if total == 0 {
		return 0
	}

	var bitsPerSymbol float64
	for s, f := range t.frequencies {
		if f == 0 {
			continue
		}
		code := t.codes[uint16(s)]
		bitsPerSymbol += float64(len(code)) * float64(f) / float64(total)
	}
	if code, ok := t.codes[uint16(t.sigma)]; ok {
		bitsPerSymbol += float64(len(code)) * 1 / float64(total)
	}
	return bitsPerSymbol
}

// String renders the symbol -> code table, in the spirit of the
// original's HuffmanTree::debug().
func (t *Tree) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "huffman tree: %d real symbols, entropy=%.4f bits/symbol\n", t.sigma, t.Entropy())
	for s := 0; s <= t.sigma; s++ {
		code, ok := t.codes[uint16(s)]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%3d -> ", s)
		for _, b := range code {
			if b {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ExpectedCodeLengthBits returns sum(f_i * |code_i|), the quantity the
// construction's tie-breaking choice never changes even though it can
// change individual code lengths for equal-weight symbols (spec.md §4.7).
func (t *Tree) ExpectedCodeLengthBits() uint64 {
	var bits uint64
	for s, f := range t.frequencies {
		bits += f * uint64(len(t.codes[uint16(s)]))
	}
	bits += uint64(len(t.codes[uint16(t.sigma)]))
	return bits
}

// MaxCodeLength returns the longest root-to-leaf path, i.e. the tree's
// height. Bounded by ceil(log2(sigma+1))..sigma in the worst (Fibonacci
// frequency) case, always <= 256 for a byte alphabet.
func (t *Tree) MaxCodeLength() int {
	max := 0
	for _, c := range t.codes {
		if len(c) > max {
			max = len(c)
		}
	}
	return max
}
