package jyutping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned for input that is not well-formed Jyutping.
var ErrInvalid = errors.New("invalid jyutping")

// Syllable is one parsed Jyutping syllable. Onset and Coda are empty when the
// syllable has none.
type Syllable struct {
	Onset   string
	Nucleus string
	Coda    string
	Tone    int
}

// String renders the syllable back into Jyutping.
func (s Syllable) String() string {
	return fmt.Sprintf("%s%s%s%d", s.Onset, s.Nucleus, s.Coda, s.Tone)
}

// Longest alternatives first.
var (
	onsets = []string{"ng", "gw", "kw", "b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h", "w", "z", "c", "s", "j"}
	nuclei = []string{"aa", "oe", "eo", "yu", "a", "e", "i", "o", "u"}
	codas  = map[string]bool{"": true, "p": true, "t": true, "k": true, "m": true, "n": true, "ng": true, "i": true, "u": true}
)

// Parse splits a Jyutping string into syllables. Case is ignored and
// whitespace between syllables is allowed. An empty string yields no
// syllables and no error.
func Parse(romanization string) ([]Syllable, error) {
	s := strings.ToLower(strings.Join(strings.Fields(romanization), ""))

	syllables := make([]Syllable, 0, 2)
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		if c < '1' || c > '6' {
			return nil, fmt.Errorf("%w: tone %q out of range in %q", ErrInvalid, c, romanization)
		}

		syl, err := parseSyllable(s[start:i], int(c-'0'))
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, romanization)
		}
		syllables = append(syllables, syl)
		start = i + 1
	}

	if start != len(s) {
		return nil, fmt.Errorf("%w: %q has no tone in %q", ErrInvalid, s[start:], romanization)
	}

	return syllables, nil
}

// Count returns the number of syllables in a Jyutping string without
// validating them.
func Count(romanization string) int {
	n := 0
	for _, r := range romanization {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func parseSyllable(body string, tone int) (Syllable, error) {
	syl := Syllable{Tone: tone}
	if body == "" {
		return syl, fmt.Errorf("%w: tone %d without syllable", ErrInvalid, tone)
	}

	if isSyllabicNasal(body) {
		syl.Nucleus = body
		return syl, nil
	}

	rest := body
	for _, o := range onsets {
		if strings.HasPrefix(rest, o) {
			syl.Onset = o
			rest = rest[len(o):]
			break
		}
	}

	// hm4, hng6
	if isSyllabicNasal(rest) {
		syl.Nucleus = rest
		return syl, nil
	}

	for _, n := range nuclei {
		if strings.HasPrefix(rest, n) {
			syl.Nucleus = n
			rest = rest[len(n):]
			break
		}
	}
	if syl.Nucleus == "" {
		return Syllable{}, fmt.Errorf("%w: no nucleus in %q", ErrInvalid, body)
	}

	if !codas[rest] {
		return Syllable{}, fmt.Errorf("%w: bad coda %q in %q", ErrInvalid, rest, body)
	}
	syl.Coda = rest

	return syl, nil
}

func isSyllabicNasal(s string) bool {
	return s == "m" || s == "ng"
}
