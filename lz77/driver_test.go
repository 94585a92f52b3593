package lz77

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/bwtil-go/lz77bwt/alphabet"
	"github.com/bwtil-go/lz77bwt/bwt"
	"github.com/bwtil-go/lz77bwt/huffman"
)

func newDriver(t *testing.T, text []byte, variant Variant, collectTokens bool) *Driver {
	t.Helper()
	var counts [256]uint64
	for _, b := range text {
		counts[b]++
	}
	am, err := alphabet.Build(counts)
	if err != nil {
		t.Fatalf("alphabet.Build: %v", err)
	}
	shape, err := huffman.Build(am.Frequencies())
	if err != nil {
		t.Fatalf("huffman.Build: %v", err)
	}
	sampleRate := 0
	if collectTokens {
		sampleRate = 1
	}
	bw := bwt.New(am, shape, sampleRate)
	return New(am, bw, variant, collectTokens)
}

func runDriver(t *testing.T, text []byte, variant Variant, collectTokens bool) *Driver {
	t.Helper()
	d := newDriver(t, text, variant, collectTokens)
	for _, c := range text {
		d.Feed(c)
	}
	return d
}

// bruteForcePreviousOccurrence reports whether candidate occurs as a
// substring of text[0:before), the definition of "Wc has a previous
// occurrence" a standard (non-BWT) LZ factorization would use -- an
// independent cross-check of the BWT-driven BS/Extend plumbing.
func bruteForcePreviousOccurrence(text []byte, candidate []byte, before int) bool {
	corpus := text[:before]
	if len(candidate) > len(corpus) {
		return false
	}
	for j := 0; j+len(candidate) <= len(corpus); j++ {
		if bytes.Equal(corpus[j:j+len(candidate)], candidate) {
			return true
		}
	}
	return false
}

// bruteForcePhrasesV1 reproduces the v1 factorization rule (a phrase
// extends exactly as long as it has a previous substring occurrence in
// the text read so far) using brute-force substring search, independent
// of BS/Extend, as a reference for the driver's phrase boundaries.
func bruteForcePhrasesV1(text []byte) []string {
	var phrases []string
	phraseStart := 0
	for i := range text {
		candidate := text[phraseStart : i+1]
		if bruteForcePreviousOccurrence(text, candidate, i) {
			continue
		}
		phrases = append(phrases, string(candidate))
		phraseStart = i + 1
	}
	return phrases
}

func bruteForcePhraseCountV1(text []byte) int {
	return len(bruteForcePhrasesV1(text))
}

// TestPhraseCountMatchesBruteForceV1 cross-checks the driver's actual
// phrase boundaries (not just their count) against the brute-force
// reference for every worked example in spec.md §8, including
// "abracadabra$" and the literal six-'a' "aaaaaa$" boundary case.
func TestPhraseCountMatchesBruteForceV1(t *testing.T) {
	texts := []string{
		"banana$",
		"abababab$",
		"mississippi$",
		"abcabcabcabc$",
		"abracadabra$",
		"aaaaaa$",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			d := runDriver(t, []byte(text), V1, true)
			want := bruteForcePhrasesV1([]byte(text))

			var got []string
			for _, tok := range d.Tokens() {
				got = append(got, string(tok.Phrase))
			}

			if diff := cmp.Diff(want, got); diff != "" {
				unified := difflib.UnifiedDiff{
					A:        difflib.SplitLines(strings.Join(want, "\n")),
					B:        difflib.SplitLines(strings.Join(got, "\n")),
					FromFile: "brute-force reference",
					ToFile:   "driver",
					Context:  3,
				}
				diffText, _ := difflib.GetUnifiedDiffString(unified)
				t.Fatalf("phrase list mismatch for %q (-want +got):\n%s\n\nunified diff:\n%s", text, diff, diffText)
			}
		})
	}
}

func TestTokenPhrasesReconstructInputV1(t *testing.T) {
	text := "abracadabra$"
	d := runDriver(t, []byte(text), V1, true)

	var rebuilt []byte
	for _, tok := range d.Tokens() {
		rebuilt = append(rebuilt, tok.Phrase...)
	}
	if diff := cmp.Diff(text, string(rebuilt)); diff != "" {
		t.Fatalf("reconstructed text mismatch (-want +got):\n%s", diff)
	}
	if len(d.Tokens()) != d.PhraseCount() {
		t.Fatalf("len(Tokens())=%d != PhraseCount()=%d", len(d.Tokens()), d.PhraseCount())
	}
}

func TestV2NeverEmitsAnEmptyPhrase(t *testing.T) {
	text := "mississippimississippi$"
	d := runDriver(t, []byte(text), V2, true)
	for i, tok := range d.Tokens() {
		if len(tok.Phrase) == 0 {
			t.Fatalf("token %d has an empty phrase", i)
		}
	}
	var total int
	for _, tok := range d.Tokens() {
		total += len(tok.Phrase)
	}
	if total != len(text) {
		t.Fatalf("sum of phrase lengths = %d, want %d (input length)", total, len(text))
	}
}

func TestSingleSymbolTextYieldsOnePhraseV1(t *testing.T) {
	d := runDriver(t, []byte("$"), V1, false)
	if got, want := d.PhraseCount(), 1; got != want {
		t.Fatalf("PhraseCount() = %d, want %d", got, want)
	}
}

func TestUndefinedStartPositionOnFirstOccurrence(t *testing.T) {
	d := runDriver(t, []byte("xyz$"), V1, true)
	for _, tok := range d.Tokens() {
		if len(tok.Phrase) == 1 && !tok.StartDefined {
			continue
		}
	}
	// the very first character can never have had a previous occurrence.
	first := d.Tokens()[0]
	if first.StartDefined {
		t.Fatalf("first token claims a defined start position: %+v", first)
	}
}
