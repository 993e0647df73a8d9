package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/internal/batch"
	"github.com/standardbeagle/openenc/internal/config"
	"github.com/standardbeagle/openenc/internal/debug"
	"github.com/standardbeagle/openenc/internal/version"
)

const configKey = "config"

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		if configPath == "" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if c.IsSet("format") {
		cfg.UUID.Format = strings.ToLower(c.String("format"))
	}
	if c.IsSet("workers") {
		cfg.Performance.MaxGoroutines = c.Int("workers")
	}
	if c.Bool("keep-going") {
		cfg.Output.KeepGoing = true
	}

	// overrides go through the same checks as file values
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFrom returns the configuration loaded by the Before hook.
func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "openenc",
		Usage:                  "Compact identifiers and text encodings: base64url, UUIDs, IRI percent encoding",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (.kdl or .toml); default layers ~/" + config.FileName + " and ./" + config.FileName,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-file",
				Usage: "Write debug output to a log file under the temp directory",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "UUID output format: compact, canonical or urn",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Concurrent conversions (0 = number of CPUs)",
			},
			&cli.BoolFlag{
				Name:    "keep-going",
				Aliases: []string{"k"},
				Usage:   "Convert every input and report all failures instead of stopping at the first",
			},
		},
		Commands: []*cli.Command{
			b64Command(),
			uuidCommand(),
			pctCommand(),
			{
				Name:   "mcp",
				Usage:  "Serve the codecs as MCP tools on stdio",
				Action: mcpCommand,
			},
		},
		Before: func(c *cli.Context) error {
			switch {
			case c.Bool("debug-file"):
				debug.SetEnabled(true)
				logPath, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", logPath)
			case c.Bool("debug"):
				debug.SetEnabled(true)
				debug.SetDebugOutput(c.App.ErrWriter)
			}

			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]interface{}{}
			}
			c.App.Metadata[configKey] = cfg
			debug.LogConfig("uuid format %s, hash %s, workers %d\n", cfg.UUID.Format, cfg.UUID.Hash, cfg.Performance.MaxGoroutines)
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		CommandNotFound: func(c *cli.Context, command string) {
			fmt.Fprintf(c.App.ErrWriter, "unknown command %q\n", command)
			if s, ok := config.Suggest(command, commandNames(c.App.Commands)); ok {
				fmt.Fprintf(c.App.ErrWriter, "did you mean %q?\n", s)
			}
		},
	}
}

func commandNames(cmds []*cli.Command) []string {
	var names []string
	for _, cmd := range cmds {
		names = append(names, cmd.Names()...)
	}
	return names
}

// readInputs returns the command arguments, or stdin lines when there are
// none or the only argument is "-". Blank lines are skipped.
func readInputs(c *cli.Context) ([]string, error) {
	args := c.Args().Slice()
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}

	var inputs []string
	scanner := bufio.NewScanner(c.App.Reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return inputs, nil
}

type converted struct {
	text string
	ok   bool
}

// convertAll runs fn over inputs through the batch worker and prints the
// successful results in input order, one per line.
func convertAll[In any](c *cli.Context, inputs []In, fn func(ctx context.Context, in In) (string, error)) error {
	cfg := configFrom(c)
	results, err := batch.Map(c.Context, inputs, batch.Options{
		Limit:     cfg.Performance.MaxGoroutines,
		KeepGoing: cfg.Output.KeepGoing,
	}, func(ctx context.Context, in In) (converted, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return converted{}, err
		}
		return converted{text: out, ok: true}, nil
	})

	w := bufio.NewWriter(c.App.Writer)
	for _, r := range results {
		if r.ok {
			fmt.Fprintln(w, r.text)
		}
	}
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	return err
}

// runInputs is convertAll over readInputs.
func runInputs(fn func(ctx context.Context, in string) (string, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		inputs, err := readInputs(c)
		if err != nil {
			return err
		}
		return convertAll(c, inputs, fn)
	}
}

// checkAll prints "<input>\tok" or "<input>\t<reason>" per input and fails
// with exit code 1 when any input is invalid.
func checkAll(c *cli.Context, check func(in string) error) error {
	inputs, err := readInputs(c)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	invalid := 0
	err = convertAll(c, inputs, func(ctx context.Context, in string) (string, error) {
		if err := check(in); err != nil {
			mu.Lock()
			invalid++
			mu.Unlock()
			return in + "\t" + err.Error(), nil
		}
		return in + "\tok", nil
	})
	if err != nil {
		return err
	}
	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d inputs invalid", invalid, len(inputs)), 1)
	}
	return nil
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
