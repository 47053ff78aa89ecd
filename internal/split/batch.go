package split

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Entry is one key of a request with its text.
type Entry struct {
	Key  string
	Text string
}

// Batch is a request in the key order it was received.
type Batch []Entry

// Keys returns the keys in order.
func (b Batch) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// DecodeBatch reads a JSON object of string values, preserving key order.
// A repeated key keeps the position of its first occurrence and the value of
// its last. Anything other than a single object of strings is a
// KindBadRequest error.
func DecodeBatch(r io.Reader) (Batch, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, decodeError(err, false)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, badRequest("", "request body must be a JSON object, got %s", describe(tok))
	}

	batch := Batch{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, decodeError(err, true)
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, decodeError(err, true)
		}

		var text string
		if err := json.Unmarshal(raw, &text); err != nil || bytes.Equal(raw, []byte("null")) {
			return nil, badRequest(key, "value must be a string, got %s", describeRaw(raw))
		}

		if i, seen := index[key]; seen {
			batch[i].Text = text
			continue
		}
		index[key] = len(batch)
		batch = append(batch, Entry{Key: key, Text: text})
	}

	if _, err := dec.Token(); err != nil {
		return nil, decodeError(err, true)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			return nil, badRequest("", "request body too large: %w", err)
		}
		return nil, badRequest("", "unexpected data after JSON object")
	}

	return batch, nil
}

// decodeError classifies a decoder failure. opened reports whether the
// object's opening brace had already been read.
func decodeError(err error, opened bool) *Error {
	switch {
	case tooLarge(err):
		return badRequest("", "request body too large: %w", err)
	case errors.Is(err, io.EOF) && !opened:
		return badRequest("", "request body is empty")
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return badRequest("", "invalid JSON: unexpected end of input")
	default:
		return badRequest("", "invalid JSON: %w", err)
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return string(v)
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

func describeRaw(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "invalid value"
	}
	switch describe(tok) {
	case "{":
		return "object"
	default:
		return describe(tok)
	}
}
