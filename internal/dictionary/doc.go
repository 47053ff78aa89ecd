// Package dictionary holds the Cantonese lexicon used for segmentation.
//
// A Dictionary maps headwords (single characters or multi-character words) to
// space-separated Jyutping, one syllable per character. It is immutable once
// built, so lookups are safe from any number of goroutines.
//
// Sources:
//   - "embedded": the lexicon compiled into the binary
//   - *.tsv, *.txt: tab-separated headword/jyutping lines
//   - *.tsv.xz, *.xz: the same, xz-compressed
//   - *.dict.yaml, *.dict.yaml.xz: a Rime table such as rime-cantonese's
//     jyut6ping3.chars.dict.yaml
//   - *.db, *.sqlite, *.sqlite3: a SQLite database written by WriteSQLite
package dictionary
