package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/internal/debug"
	"github.com/standardbeagle/openenc/internal/encoding"
	"github.com/standardbeagle/openenc/internal/fileset"
	"github.com/standardbeagle/openenc/pkg/binary"
	"github.com/standardbeagle/openenc/pkg/text"
)

func b64Command() *cli.Command {
	return &cli.Command{
		Name:  "b64",
		Usage: "Padding-free base64url",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode each argument (or stdin line) as base64url",
				ArgsUsage: "[text...|-]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "hex", Usage: "Inputs are hex digits, not text"},
					&cli.BoolFlag{Name: "utf16", Usage: "Encode the UTF-16BE form of the text"},
					&cli.StringSliceFlag{Name: "glob", Aliases: []string{"g"}, Usage: "Encode the contents of files matching a doublestar pattern"},
					&cli.StringSliceFlag{Name: "exclude", Aliases: []string{"x"}, Usage: "Skip --glob matches whose root-relative path matches this pattern"},
					&cli.StringFlag{Name: "root", Usage: "Directory --glob patterns and printed paths are relative to (default: working directory)"},
				},
				Action: b64EncodeCommand,
			},
			{
				Name:      "decode",
				Usage:     "Decode base64url; invalid UTF-8 is shown as U+FFFD unless --hex",
				ArgsUsage: "[encoded...|-]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "hex", Usage: "Print the decoded bytes as hex"},
				},
				Action: b64DecodeCommand,
			},
			{
				Name:      "check",
				Usage:     "Report whether each input is canonical base64url",
				ArgsUsage: "[encoded...|-]",
				Action: func(c *cli.Context) error {
					return checkAll(c, func(in string) error {
						if binary.IsBinary(in) {
							return nil
						}
						// Parse names the offending character when there is one
						if _, err := binary.Parse(in); err != nil {
							return err
						}
						return encoding.ErrInvalidPadding
					})
				},
			},
		},
	}
}

func b64EncodeCommand(c *cli.Context) error {
	if patterns := c.StringSlice("glob"); len(patterns) > 0 {
		files, err := fileset.Expand(c.String("root"), patterns, c.StringSlice("exclude"))
		if err != nil {
			return err
		}
		return convertAll(c, files, func(ctx context.Context, f fileset.File) (string, error) {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return "", err
			}
			return f.Rel + "\t" + binary.Encode(data), nil
		})
	}

	if c.Bool("hex") && c.Bool("utf16") {
		return fmt.Errorf("--hex and --utf16 cannot be combined")
	}
	asHex, asUTF16 := c.Bool("hex"), c.Bool("utf16")

	return runInputs(func(ctx context.Context, in string) (string, error) {
		switch {
		case asHex:
			data, err := encoding.DecodeHex(in)
			if err != nil {
				return "", err
			}
			return binary.Encode(data), nil
		case asUTF16:
			return binary.Encode(text.FromString(in).UTF16()), nil
		default:
			return binary.Encode([]byte(in)), nil
		}
	})(c)
}

func b64DecodeCommand(c *cli.Context) error {
	asHex := c.Bool("hex")
	return runInputs(func(ctx context.Context, in string) (string, error) {
		data, err := binary.Decode(in)
		if err != nil {
			return "", err
		}
		if asHex {
			return encoding.EncodeHex(data), nil
		}
		if !utf8.Valid(data) {
			debug.Printf("decoded %d bytes are not valid UTF-8\n", len(data))
		}
		return text.FromBytes(data).String(), nil
	})(c)
}
