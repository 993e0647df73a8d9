package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/internal/config"
	"github.com/standardbeagle/openenc/pkg/id"
)

func uuidCommand() *cli.Command {
	return &cli.Command{
		Name:  "uuid",
		Usage: "Convert between UUID forms and derive name-based UUIDs",
		Subcommands: []*cli.Command{
			{
				Name:      "compact",
				Usage:     "Print the 21-character compact form (22 for non-RFC 4122 variants)",
				ArgsUsage: "[uuid...|-]",
				Action:    runInputs(mapID(func(i id.ID) string { return i.String() })),
			},
			{
				Name:      "canonical",
				Usage:     "Print the 36-character hyphenated form",
				ArgsUsage: "[uuid...|-]",
				Action:    runInputs(mapID(func(i id.ID) string { return i.UUID().String() })),
			},
			{
				Name:      "uri",
				Usage:     "Print the urn:uuid: URI",
				ArgsUsage: "[uuid...|-]",
				Action:    runInputs(mapID(func(i id.ID) string { return i.URI() })),
			},
			{
				Name:      "format",
				Usage:     "Print each UUID in the configured --format",
				ArgsUsage: "[uuid...|-]",
				Action: func(c *cli.Context) error {
					cfg := configFrom(c)
					return runInputs(mapID(func(i id.ID) string { return cfg.FormatUUID(i.UUID()) }))(c)
				},
			},
			{
				Name:      "name",
				Usage:     "Derive a name-based UUID from each name (version 5 with the default sha1)",
				ArgsUsage: "[name...|-]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "Namespace UUID or URI (default from config)"},
					&cli.StringFlag{Name: "hash", Usage: "Digest: " + strings.Join(config.HashNames(), ", ") + " (default from config). sha1 gives RFC version 5, md5 version 3; sha256 and sha512 give non-standard UUIDs stamped version 5"},
				},
				Action: uuidNameCommand,
			},
			{
				Name:      "check",
				Usage:     "Report whether each input is a UUID in compact, full base64url or canonical form",
				ArgsUsage: "[uuid...|-]",
				Action: func(c *cli.Context) error {
					return checkAll(c, func(in string) error {
						if !id.LooksLikeUUID(in) {
							return id.ErrUnrecognizedFormat
						}
						_, err := id.FromCompact(in)
						return err
					})
				},
			},
			{
				Name:  "new",
				Usage: "Print random (version 4) UUIDs in the configured --format",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "How many to print"},
				},
				Action: uuidNewCommand,
			},
		},
	}
}

// mapID parses each input with id.ParseAny and renders it with fn.
func mapID(fn func(id.ID) string) func(ctx context.Context, in string) (string, error) {
	return func(ctx context.Context, in string) (string, error) {
		i, err := id.ParseAny(in)
		if err != nil {
			return "", err
		}
		return fn(i), nil
	}
}

func uuidNameCommand(c *cli.Context) error {
	cfg := configFrom(c)

	hashName := cfg.UUID.Hash
	if c.IsSet("hash") {
		hashName = strings.ToLower(c.String("hash"))
	}
	hash, ok := config.Hashes[hashName]
	if !ok {
		if s, found := config.Suggest(hashName, config.HashNames()); found {
			return fmt.Errorf("unknown hash %q, did you mean %q?", hashName, s)
		}
		return fmt.Errorf("unknown hash %q (want one of %s)", hashName, strings.Join(config.HashNames(), ", "))
	}

	namespace := cfg.NamespaceUUID()
	if c.IsSet("namespace") {
		ns, err := id.ParseAny(c.String("namespace"))
		if err != nil {
			return fmt.Errorf("namespace: %w", err)
		}
		namespace = ns.UUID()
	}

	gen := id.Generator{Hash: hash}
	return runInputs(func(ctx context.Context, name string) (string, error) {
		u, err := gen.New(namespace, id.NameString(name))
		if err != nil {
			return "", err
		}
		return cfg.FormatUUID(u), nil
	})(c)
}

func uuidNewCommand(c *cli.Context) error {
	count := c.Int("count")
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}

	cfg := configFrom(c)
	for n := 0; n < count; n++ {
		u, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate UUID: %w", err)
		}
		fmt.Fprintln(c.App.Writer, cfg.FormatUUID(u))
	}
	return nil
}
