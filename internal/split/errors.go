package split

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at the request boundary.
type Kind string

const (
	KindBadRequest      Kind = "bad_request"
	KindAnalysisFailure Kind = "analysis_failure"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// Error is a classified failure, optionally tied to one request key.
type Error struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: key %q: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func badRequest(key string, format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Key: key, Err: fmt.Errorf(format, args...)}
}
