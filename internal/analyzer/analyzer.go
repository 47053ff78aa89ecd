package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ZingYao/chinese_number"
	"github.com/liuzl/gocc"

	"github.com/angeloszaimis/cantonese-split/internal/dictionary"
	"github.com/angeloszaimis/cantonese-split/internal/jyutping"
)

const (
	NormalizeNone = "none"
	NormalizeS2HK = "s2hk"

	DefaultWarmupText = "不"
)

var (
	ErrWarmup              = errors.New("warm-up failed")
	ErrInconsistentReading = errors.New("reading does not align with headword")
)

// Pair is one character of the input with its reading. Romanization is empty
// when the dictionary has no reading for the character.
type Pair struct {
	Char         string
	Romanization string
}

// Converter rewrites text into the script the dictionary is keyed on. It
// must preserve character count to be used for lookups.
type Converter interface {
	Convert(in string) (string, error)
}

type Options struct {
	// Dictionary is passed to dictionary.Open.
	Dictionary string
	// Normalize is NormalizeNone or NormalizeS2HK.
	Normalize string
	// Converter overrides the converter Normalize would create.
	Converter  Converter
	ReadDigits bool
	WarmupText string
}

// Analyzer is safe for concurrent use. All state is fixed by New.
type Analyzer struct {
	dict       *dictionary.Dictionary
	converter  Converter
	readDigits bool
	warmupText string
	warmedUp   atomic.Bool
}

// Load opens the configured dictionary and builds an Analyzer over it.
func Load(ctx context.Context, opts Options) (*Analyzer, error) {
	dict, err := dictionary.Open(ctx, opts.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return New(dict, opts)
}

// New builds an Analyzer over an already loaded dictionary. opts.Dictionary
// is ignored.
func New(dict *dictionary.Dictionary, opts Options) (*Analyzer, error) {
	a := &Analyzer{
		dict:       dict,
		converter:  opts.Converter,
		readDigits: opts.ReadDigits,
		warmupText: opts.WarmupText,
	}
	if a.warmupText == "" {
		a.warmupText = DefaultWarmupText
	}

	if a.converter == nil {
		switch strings.ToLower(opts.Normalize) {
		case "", NormalizeNone:
		case NormalizeS2HK:
			cc, err := gocc.New(NormalizeS2HK)
			if err != nil {
				return nil, fmt.Errorf("load s2hk converter: %w", err)
			}
			a.converter = cc
		default:
			return nil, fmt.Errorf("unknown normalization %q", opts.Normalize)
		}
	}

	return a, nil
}

// Warmup segments the warm-up text once and checks that the dictionary
// produced at least one reading.
func (a *Analyzer) Warmup() error {
	pairs, err := a.Segment(a.warmupText)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWarmup, err)
	}

	for _, p := range pairs {
		if p.Romanization != "" {
			a.warmedUp.Store(true)
			return nil
		}
	}

	return fmt.Errorf("%w: no reading for %q in %s", ErrWarmup, a.warmupText, a.dict.Source())
}

func (a *Analyzer) WarmedUp() bool {
	return a.warmedUp.Load()
}

func (a *Analyzer) Dictionary() *dictionary.Dictionary {
	return a.dict
}

// Segment returns one pair per character of text, in textual order.
func (a *Analyzer) Segment(text string) ([]Pair, error) {
	runes := []rune(text)
	pairs := make([]Pair, 0, len(runes))
	if len(runes) == 0 {
		return pairs, nil
	}

	alt, err := a.normalized(text, len(runes))
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(runes); {
		n, readings, err := a.longestMatch(runes, alt, i)
		if err != nil {
			return nil, err
		}

		if n == 0 {
			pairs = append(pairs, Pair{Char: string(runes[i]), Romanization: a.digitReading(runes[i])})
			i++
			continue
		}

		for j := 0; j < n; j++ {
			pairs = append(pairs, Pair{Char: string(runes[i+j]), Romanization: readings[j]})
		}
		i += n
	}

	return pairs, nil
}

// Decompose parses a Jyutping reading into its syllables.
func (a *Analyzer) Decompose(romanization string) ([]jyutping.Syllable, error) {
	return jyutping.Parse(romanization)
}

// normalized returns the converted text as runes, or nil when there is no
// converter or the conversion changed the character count.
func (a *Analyzer) normalized(text string, n int) ([]rune, error) {
	if a.converter == nil {
		return nil, nil
	}

	out, err := a.converter.Convert(text)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	alt := []rune(out)
	if len(alt) != n {
		return nil, nil
	}
	return alt, nil
}

func (a *Analyzer) longestMatch(runes, alt []rune, start int) (int, []string, error) {
	maxLen := a.dict.MaxWordLen()
	if rest := len(runes) - start; rest < maxLen {
		maxLen = rest
	}

	for n := maxLen; n >= 1; n-- {
		headword := string(runes[start : start+n])
		reading, ok := a.dict.Lookup(headword)
		if !ok && alt != nil {
			headword = string(alt[start : start+n])
			reading, ok = a.dict.Lookup(headword)
		}
		if !ok {
			continue
		}

		readings := strings.Fields(reading)
		if len(readings) != n {
			return 0, nil, fmt.Errorf("%w: %q => %q", ErrInconsistentReading, headword, reading)
		}
		return n, readings, nil
	}

	return 0, nil, nil
}

func (a *Analyzer) digitReading(r rune) string {
	if !a.readDigits || r < '0' || r > '9' {
		return ""
	}

	numeral := chinese_number.Number2Simplified(int64(r - '0'))
	reading, ok := a.dict.Lookup(numeral)
	if !ok || strings.Contains(reading, " ") {
		return ""
	}
	return reading
}
