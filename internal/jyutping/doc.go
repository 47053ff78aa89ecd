// Package jyutping parses Jyutping romanization into its phonological parts.
//
// A Jyutping string is one or more syllables, each terminated by a tone digit
// from 1 to 6. Every syllable is split into an onset (initial consonant), a
// nucleus (vowel core or syllabic nasal), a coda (final consonant or glide)
// and the tone:
//
//	syllables, err := jyutping.Parse("nei5hou2")
//	// [{Onset:n Nucleus:e Coda:i Tone:5} {Onset:h Nucleus:o Coda:u Tone:2}]
package jyutping
