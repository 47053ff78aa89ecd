package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Path to a YAML config file. Defaults to ./config/config.yaml or ./config.yaml when present." type:"path"`
	LogLevel string `name:"log-level" help:"Log level for offline commands (debug, info, warn, error)." default:"warn"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// CLI is the command line of cantonese-split.
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Serve POST /cantonese_split (default)."`
	Analyze AnalyzeCmd `cmd:"" help:"Split texts offline and print the JSON response."`
	Dict    DictGroup  `cmd:"" help:"Dictionary tools."`
}

// DictGroup contains dictionary operations.
type DictGroup struct {
	Import DictImportCmd `cmd:"" help:"Convert a TSV dictionary (optionally .xz) into a SQLite database."`
	Info   DictInfoCmd   `cmd:"" help:"Print size and fingerprint of a dictionary."`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("cantonese-split"),
		kong.Description("Cantonese character and jyutping splitting service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)

	return kong.New(cli, options...)
}

func main() {
	cli := CLI{Globals: Globals{Stdout: os.Stdout, Stderr: os.Stderr}}

	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
