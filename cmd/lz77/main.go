// Command lz77 is the glue layer of spec.md §6: it drives reader.Sequential
// over two passes of an input file, builds the alphabet and Huffman shape
// from the first pass, then feeds the second pass through lz77.Driver
// against a bwt.Dynamic index, printing the phrase count (and, with
// --print-parse, the full token dump).
//
// Initial arg parsing and app definition is done entirely through
// "github.com/urfave/cli/v2"; see application() in app.go for the flag list.
package main

import (
	"log"
	"os"
)

func main() {
	os.Exit(run(os.Args))
}

// run is separated from main for testability, the same split poly/main.go
// uses between main() and run(args).
func run(args []string) int {
	app := application()
	if err := app.Run(args); err != nil {
		log.Print(err)
		return exitCode(err)
	}
	return 0
}
