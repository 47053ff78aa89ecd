package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/angeloszaimis/cantonese-split/internal/analyzer"
	"github.com/angeloszaimis/cantonese-split/internal/split"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
	"github.com/angeloszaimis/cantonese-split/pkg/logger"
)

type AnalyzeCmd struct {
	Texts      []string `arg:"" help:"Texts to split. Each text is also its key in the output."`
	Dictionary string   `help:"Dictionary source: embedded, a .tsv/.tsv.xz file, a Rime .dict.yaml table or a SQLite database." default:"embedded"`
	Normalize  string   `help:"Fallback normalization for unknown characters." enum:"none,s2hk" default:"none"`
	ReadDigits bool     `help:"Read ASCII digits as Cantonese numerals."`
	Indent     bool     `help:"Indent the JSON output."`
}

func (c *AnalyzeCmd) Run(g *Globals) error {
	log := logger.NewWithWriter(g.Stderr, g.LogLevel, false, "dev")
	ctx := context.Background()

	a, err := analyzer.Load(ctx, analyzer.Options{
		Dictionary: c.Dictionary,
		Normalize:  c.Normalize,
		ReadDigits: c.ReadDigits,
	})
	if err != nil {
		return fmt.Errorf("load analyzer: %w", err)
	}

	batch := make(split.Batch, 0, len(c.Texts))
	seen := make(map[string]bool, len(c.Texts))
	for _, text := range c.Texts {
		if seen[text] {
			continue
		}
		seen[text] = true
		batch = append(batch, split.Entry{Key: text, Text: text})
	}

	splitter := split.New(log, a, workerpool.New(runtime.NumCPU()))
	resp, err := splitter.Split(ctx, batch)
	if err != nil {
		return err
	}

	var out []byte
	if c.Indent {
		out, err = json.MarshalIndent(resp, "", "  ")
	} else {
		out, err = json.Marshal(resp)
	}
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	_, err = fmt.Fprintln(g.Stdout, string(out))
	return err
}
