package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

// rimeEntry is the best reading seen so far for one headword.
type rimeEntry struct {
	reading string
	weight  float64
}

// ReadRime parses a Rime dictionary (the *.dict.yaml format used by
// rime-cantonese). Only the table after the "..." line is read; the YAML
// header contributes its "columns" list, if any. A headword with several
// readings keeps the one with the highest weight, ties going to the first.
// Rows whose code is not valid Jyutping, or whose syllable count does not
// match the headword, are skipped.
func ReadRime(r io.Reader, source string) (*Dictionary, error) {
	columns := []string{"text", "code", "weight"}
	inHeader, inColumns := true, false

	best := make(map[string]rimeEntry)
	var order []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if inHeader {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "...":
				inHeader = false
			case strings.HasPrefix(trimmed, "columns:"):
				inColumns = true
				columns = columns[:0]
			case inColumns && strings.HasPrefix(trimmed, "- "):
				columns = append(columns, strings.TrimSpace(strings.TrimPrefix(trimmed, "- ")))
			default:
				inColumns = false
			}
			continue
		}

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, code, weight := rimeRow(columns, strings.Split(line, "\t"))
		if text == "" || code == "" {
			continue
		}

		prev, seen := best[text]
		if !seen {
			order = append(order, text)
		}
		if !seen || weight > prev.weight {
			best[text] = rimeEntry{reading: code, weight: weight}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	b := NewBuilder()
	for _, text := range order {
		// Rime tables carry romanized and punctuation rows that are not
		// Jyutping; those are not an error for the table as a whole.
		_, _ = b.Add(text, best[text].reading)
	}

	return b.Build(source), nil
}

func rimeRow(columns, fields []string) (text, code string, weight float64) {
	weight = 100
	for i, col := range columns {
		if i >= len(fields) {
			break
		}
		value := strings.TrimSpace(fields[i])
		switch col {
		case "text":
			text = value
		case "code":
			code = value
		case "weight":
			if w, ok := parseRimeWeight(value); ok {
				weight = w
			}
		}
	}
	return text, code, weight
}

// parseRimeWeight accepts both percentage ("5%") and absolute ("1200")
// weights. An empty weight marks the default reading.
func parseRimeWeight(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return w, true
}

func readRimeFile(path string, compressed bool) (*Dictionary, error) {
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

	return ReadRime(r, path)
}
