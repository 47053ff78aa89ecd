package dictionary

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/blake3"

	"github.com/angeloszaimis/cantonese-split/internal/jyutping"
)

var (
	ErrEmptyHeadword     = errors.New("empty headword")
	ErrSyllableMismatch  = errors.New("syllable count does not match headword length")
	ErrUnsupportedSource = errors.New("unsupported dictionary source")
)

// Dictionary is an immutable headword to Jyutping lexicon.
type Dictionary struct {
	source      string
	entries     map[string]string
	maxWordLen  int
	fingerprint string
}

// Lookup returns the space-separated Jyutping for a headword.
func (d *Dictionary) Lookup(headword string) (string, bool) {
	jp, ok := d.entries[headword]
	return jp, ok
}

// MaxWordLen is the length in characters of the longest headword.
func (d *Dictionary) MaxWordLen() int {
	return d.maxWordLen
}

// Len returns the number of headwords.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Source describes where the dictionary was loaded from.
func (d *Dictionary) Source() string {
	return d.source
}

// Fingerprint is the hex BLAKE3 digest of the sorted entries. Two
// dictionaries with the same content share a fingerprint regardless of
// source format or line order.
func (d *Dictionary) Fingerprint() string {
	return d.fingerprint
}

// Each calls fn for every entry in headword order and stops at the first
// error.
func (d *Dictionary) Each(fn func(headword, jyutping string) error) error {
	for _, hw := range d.sortedHeadwords() {
		if err := fn(hw, d.entries[hw]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dictionary) sortedHeadwords() []string {
	headwords := make([]string, 0, len(d.entries))
	for hw := range d.entries {
		headwords = append(headwords, hw)
	}
	sort.Strings(headwords)
	return headwords
}

// Builder accumulates entries for a Dictionary.
type Builder struct {
	entries    map[string]string
	maxWordLen int
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]string)}
}

// Add validates and records an entry. The reading must parse as Jyutping and
// carry exactly one syllable per character. If the headword is already
// present the earlier reading is kept and Add reports false.
func (b *Builder) Add(headword, reading string) (bool, error) {
	headword = strings.TrimSpace(headword)
	if headword == "" {
		return false, ErrEmptyHeadword
	}

	syllables, err := jyutping.Parse(reading)
	if err != nil {
		return false, err
	}

	n := utf8.RuneCountInString(headword)
	if len(syllables) != n {
		return false, fmt.Errorf("%w: %q has %d characters, %q has %d syllables",
			ErrSyllableMismatch, headword, n, reading, len(syllables))
	}

	if _, exists := b.entries[headword]; exists {
		return false, nil
	}

	parts := make([]string, len(syllables))
	for i, s := range syllables {
		parts[i] = s.String()
	}
	b.entries[headword] = strings.Join(parts, " ")

	if n > b.maxWordLen {
		b.maxWordLen = n
	}

	return true, nil
}

// Build freezes the accumulated entries. The builder must not be used
// afterwards.
func (b *Builder) Build(source string) *Dictionary {
	d := &Dictionary{
		source:     source,
		entries:    b.entries,
		maxWordLen: b.maxWordLen,
	}

	h := blake3.New()
	for _, hw := range d.sortedHeadwords() {
		io.WriteString(h, hw+"\t"+d.entries[hw]+"\n")
	}
	d.fingerprint = hex.EncodeToString(h.Sum(nil))

	b.entries = nil
	return d
}
