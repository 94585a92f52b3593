package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/urfave/cli/v2"

	"github.com/bwtil-go/lz77bwt/alphabet"
	"github.com/bwtil-go/lz77bwt/bwt"
	"github.com/bwtil-go/lz77bwt/digest"
	"github.com/bwtil-go/lz77bwt/huffman"
	"github.com/bwtil-go/lz77bwt/lz77"
	"github.com/bwtil-go/lz77bwt/reader"
)

// options collects everything the flags in application() feed into
// runParse, separated out so tests can drive runParse without a
// *cli.Context, matching the poly/commands.go Action-delegates-to-a-plain-
// function shape.
type options struct {
	path          string
	variant       lz77.Variant
	progressEvery int  // --p N, 0 disables
	separator     int  // --s C, -1 disables
	printParse    bool // --print-parse
	verbose       bool
	verifyDigest  bool
}

func optionsFromContext(c *cli.Context) (options, error) {
	if c.NArg() < 1 {
		return options{}, lz77.NewError(lz77.KindMalformedOption, fmt.Errorf("missing FILE argument"))
	}

	variant := lz77.V1
	if c.Bool("v2") {
		variant = lz77.V2
	}

	separator := -1
	if c.IsSet("s") {
		sep := c.String("s")
		if len(sep) != 1 {
			return options{}, lz77.NewError(lz77.KindMalformedOption, fmt.Errorf("--s expects a single byte, got %q", sep))
		}
		separator = int(sep[0])
	}

	return options{
		path:          c.Args().First(),
		variant:       variant,
		progressEvery: c.Int("p"),
		separator:     separator,
		printParse:    c.Bool("print-parse"),
		verbose:       c.Bool("verbose"),
		verifyDigest:  c.Bool("verify-digest"),
	}, nil
}

// runParse executes one full two-pass analysis and writes the §6 final
// output to stdout (progress lines interleaved as they're produced).
func runParse(opts options, stdout, stderr io.Writer) error {
	r, err := reader.Open(opts.path, digest.SHA256)
	if err != nil {
		return lz77.NewError(lz77.KindIoError, err)
	}
	defer r.Close()

	if r.Size() == 0 {
		return lz77.NewError(lz77.KindInputEmpty, fmt.Errorf("%s is empty", opts.path))
	}

	var counts [256]uint64
	for !r.Eof() {
		b, err := r.Get()
		if err != nil {
			return lz77.NewError(lz77.KindIoError, err)
		}
		counts[b]++
	}

	am, err := alphabet.Build(counts)
	if err != nil {
		return lz77.NewError(lz77.KindAlphabetTooLarge, err)
	}

	shape, err := huffman.Build(am.Frequencies())
	if err != nil {
		return lz77.NewError(lz77.KindInputEmpty, err)
	}

	if opts.verbose {
		fmt.Fprintf(stderr, "alphabet size %d, Huffman average code length %.4f bits/symbol\n", am.Sigma(), shape.Entropy())
	}

	if err := r.Rewind(); err != nil {
		return lz77.NewError(lz77.KindIoError, err)
	}

	sampleRate := 0
	if opts.printParse {
		sampleRate = 64
	}
	bw := bwt.New(am, shape, sampleRate)
	driver := lz77.New(am, bw, opts.variant, opts.printParse)

	charsSeen := 0
	lastWasSeparator := false
	totalBytes := r.Size()
	var bytesRead int64

	for !r.Eof() {
		b, err := r.Get()
		if err != nil {
			return lz77.NewError(lz77.KindIoError, err)
		}
		bytesRead++

		if opts.separator >= 0 && int(b) == opts.separator {
			if !lastWasSeparator {
				fmt.Fprintf(stdout, "%d\t%d\n", charsSeen, driver.PhraseCount())
			}
			lastWasSeparator = true
			continue
		}
		lastWasSeparator = false

		driver.Feed(b)
		charsSeen++

		if opts.progressEvery > 0 && charsSeen%opts.progressEvery == 0 {
			fmt.Fprintf(stdout, "%d\t%d\n", charsSeen, driver.PhraseCount())
		}
		if opts.verbose && totalBytes > 0 {
			fmt.Fprintf(stderr, "\r%.1f%%", 100*float64(bytesRead)/float64(totalBytes))
		}
	}
	if opts.verbose {
		fmt.Fprintln(stderr)
	}

	if opts.verifyDigest {
		if err := r.VerifyPasses(); err != nil {
			return lz77.NewError(lz77.KindIoError, err)
		}
	}

	fmt.Fprintf(stdout, "Total number of LZ77 phrases = %d\n", driver.PhraseCount())

	if opts.printParse {
		writeParseDump(stdout, driver.Tokens())
	}
	return nil
}

// writeParseDump reproduces the original lz77.cpp's two trailing lines:
// the space-joined phrase list, then the <pos, phrase> token list.
func writeParseDump(w io.Writer, tokens []lz77.Token) {
	phrases := make([]string, len(tokens))
	entries := make([]string, len(tokens))
	for i, tok := range tokens {
		phrases[i] = string(tok.Phrase)
		pos := "-"
		if tok.StartDefined {
			pos = fmt.Sprintf("%d", tok.StartPosition)
		}
		entries[i] = fmt.Sprintf("<%s, %s>", pos, string(tok.Phrase))
	}
	fmt.Fprintln(w, wordwrap.WrapString(strings.Join(phrases, " "), 80))
	fmt.Fprintln(w, wordwrap.WrapString(strings.Join(entries, " "), 80))
}

// exitCode maps a fatal lz77.Error to a process exit status. Kept out of
// run() so it's independently testable.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var lzErr *lz77.Error
	if !asLz77Error(err, &lzErr) {
		return 1
	}
	switch lzErr.Kind {
	case lz77.KindInputEmpty:
		return 2
	case lz77.KindAlphabetTooLarge:
		return 3
	case lz77.KindIoError:
		return 4
	case lz77.KindMalformedOption:
		return 5
	default:
		return 1
	}
}

func asLz77Error(err error, target **lz77.Error) bool {
	for err != nil {
		if e, ok := err.(*lz77.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
