package dictionary

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// SourceEmbedded selects the lexicon compiled into the binary.
const SourceEmbedded = "embedded"

//go:embed data/jyutping.tsv.xz
var embeddedTSV []byte

// Embedded returns the built-in lexicon.
func Embedded() (*Dictionary, error) {
	r, err := xz.NewReader(bytes.NewReader(embeddedTSV))
	if err != nil {
		return nil, fmt.Errorf("embedded lexicon: %w", err)
	}
	return ReadTSV(r, SourceEmbedded)
}

// Open loads a dictionary from source, dispatching on its file extension.
func Open(ctx context.Context, source string) (*Dictionary, error) {
	lower := strings.ToLower(source)

	switch {
	case source == "" || source == SourceEmbedded:
		return Embedded()
	case strings.HasSuffix(lower, ".dict.yaml"):
		return readRimeFile(source, false)
	case strings.HasSuffix(lower, ".dict.yaml.xz"):
		return readRimeFile(source, true)
	case strings.HasSuffix(lower, ".xz"):
		return readTSVFile(source, true)
	case strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		return readTSVFile(source, false)
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return ReadSQLite(ctx, source)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
}

func readTSVFile(path string, compressed bool) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		r = xzr
	}

	return ReadTSV(r, path)
}

// ReadTSV parses "<headword>\t<jyutping>" lines. Blank lines and lines
// starting with '#' are skipped.
func ReadTSV(r io.Reader, source string) (*Dictionary, error) {
	b := NewBuilder()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		headword, reading, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%s:%d: missing tab separator", source, lineNo)
		}

		if _, err := b.Add(headword, reading); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	return b.Build(source), nil
}

// WriteTSV writes the dictionary in the format ReadTSV accepts.
func WriteTSV(w io.Writer, d *Dictionary) error {
	bw := bufio.NewWriter(w)
	err := d.Each(func(headword, reading string) error {
		_, err := fmt.Fprintf(bw, "%s\t%s\n", headword, reading)
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
