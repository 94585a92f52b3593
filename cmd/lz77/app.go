package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

// application defines the single instance of our app. It's where we
// template flags and where the Action delegates into commands.go, mirroring
// poly/main.go's application() constructor 1:1.
func application() *cli.App {
	return &cli.App{
		Name:      "lz77",
		Usage:     "Parse a file into its dynamic-BWT-indexed LZ77 factorization.",
		ArgsUsage: "FILE",

		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "v1",
				Value: true,
				Usage: "Use the v1 phrase-boundary rule (default).",
			},
			&cli.BoolFlag{
				Name:  "v2",
				Usage: "Use the v2 phrase-boundary rule instead of v1.",
			},
			&cli.IntFlag{
				Name:  "p",
				Usage: "After every N input characters, print \"<i>\\t<phrases>\".",
			},
			&cli.StringFlag{
				Name:  "s",
				Usage: "Treat this single byte as a separator between records.",
			},
			&cli.BoolFlag{
				Name:  "print-parse",
				Usage: "Store and print the full phrase/token parse.",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print progress percentages and alphabet entropy to stderr.",
			},
			&cli.BoolFlag{
				Name:  "verify-digest",
				Usage: "Re-hash the input on the parse pass and fail if it differs from the frequency pass.",
			},
		},

		Action: func(c *cli.Context) error {
			opts, err := optionsFromContext(c)
			if err != nil {
				return err
			}
			return runParse(opts, os.Stdout, os.Stderr)
		},
	}
}
