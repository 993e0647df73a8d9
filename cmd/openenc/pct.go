package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/pkg/iri"
)

func pctCommand() *cli.Command {
	return &cli.Command{
		Name:  "pct",
		Usage: "IRI percent encoding",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Escape everything but unreserved IRI characters as %XX",
				ArgsUsage: "[text...|-]",
				Action: runInputs(func(ctx context.Context, in string) (string, error) {
					return iri.Encode(in)
				}),
			},
			{
				Name:      "decode",
				Usage:     "Decode %XX escapes and '+'; malformed input becomes U+FFFD",
				ArgsUsage: "[encoded...|-]",
				Action: runInputs(func(ctx context.Context, in string) (string, error) {
					return iri.Decode(in), nil
				}),
			},
		},
	}
}
