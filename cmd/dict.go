package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angeloszaimis/cantonese-split/internal/dictionary"
	"github.com/angeloszaimis/cantonese-split/pkg/logger"
)

type DictImportCmd struct {
	From string `required:"" help:"Source dictionary (.tsv, .txt or .tsv.xz)." type:"existingfile"`
	To   string `required:"" help:"Destination SQLite database." type:"path"`
}

func (c *DictImportCmd) Run(g *Globals) error {
	log := logger.NewWithWriter(g.Stderr, g.LogLevel, false, "dev")
	ctx := context.Background()

	d, err := dictionary.Open(ctx, c.From)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.From, err)
	}

	if err := dictionary.WriteSQLite(ctx, c.To, d); err != nil {
		return fmt.Errorf("write %s: %w", c.To, err)
	}

	log.Info("Imported dictionary",
		slog.String("from", c.From),
		slog.String("to", c.To),
		slog.Int("entries", d.Len()))

	_, err = fmt.Fprintf(g.Stdout, "imported %d entries into %s (fingerprint %s)\n", d.Len(), c.To, d.Fingerprint())
	return err
}

type DictInfoCmd struct {
	Source string `help:"Dictionary source: embedded, a .tsv/.tsv.xz file, a Rime .dict.yaml table or a SQLite database." default:"embedded"`
}

func (c *DictInfoCmd) Run(g *Globals) error {
	d, err := dictionary.Open(context.Background(), c.Source)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Source, err)
	}

	_, err = fmt.Fprintf(g.Stdout,
		"source:       %s\nentries:      %d\nmax word len: %d\nfingerprint:  %s\n",
		d.Source(), d.Len(), d.MaxWordLen(), d.Fingerprint())
	return err
}
