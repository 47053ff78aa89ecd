// Package analyzer provides the two analysis capabilities the split service
// is built on: Segment, which maps text to per-character Jyutping, and
// Decompose, which breaks a Jyutping reading into onset, nucleus, coda and
// tone.
//
// Segmentation uses forward maximum matching against a dictionary so that
// words resolve polyphonic characters (銀行 ngan4 hong4, 行人 hang4 jan4),
// then emits one pair per character.
//
// The process-wide instance has an explicit lifecycle: Init loads the
// dictionary and runs the warm-up once at startup, Acquire hands out the
// ready instance afterwards. Nothing is loaded lazily on the request path.
package analyzer
