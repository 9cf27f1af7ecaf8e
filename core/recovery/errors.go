package recovery

import (
	"errors"
	"fmt"
)

// ExcerptLength is the default and maximum number of characters of failing
// text attached to an [Error].
const ExcerptLength = 300

var (
	// ErrNoJSONFound is matched by errors for responses that contain no '{'
	// at all. No repair is attempted for them.
	ErrNoJSONFound = errors.New("jsonrescue: no JSON object found in response")

	// ErrAllRepairAttemptsFailed is matched by errors for candidates that no
	// strategy could turn into parseable JSON.
	ErrAllRepairAttemptsFailed = errors.New("jsonrescue: all repair attempts failed")
)

// ErrorKind names a recovery failure.
type ErrorKind string

const (
	KindNoJSONFound             ErrorKind = "NoJsonFound"
	KindAllRepairAttemptsFailed ErrorKind = "AllRepairAttemptsFailed"
)

// Error is the failure returned by the pipeline. It unwraps to the sentinel
// for its Kind and, when present, to the last parse error.
//
//	var rerr *recovery.Error
//	if errors.As(err, &rerr) {
//	    log.Printf("recovery failed (%s): %q", rerr.Kind, rerr.Excerpt)
//	}
type Error struct {
	Kind ErrorKind

	// Excerpt holds at most ExcerptLength characters of the text that failed:
	// the cleaned response for NoJsonFound, the last attempted candidate for
	// AllRepairAttemptsFailed.
	Excerpt string

	// Strategy is the last strategy attempted. Empty for NoJsonFound.
	Strategy string

	// Attempts is the number of parse attempts made before giving up.
	Attempts int

	// Cause is the last parse error, if any.
	Cause error
}

func (e *Error) Error() string {
	msg := e.sentinel().Error()
	if e.Strategy != "" {
		msg = fmt.Sprintf("%s (last strategy %s)", msg, e.Strategy)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Excerpt != "" {
		msg += fmt.Sprintf("; excerpt: %q", e.Excerpt)
	}
	return msg
}

// Unwrap exposes the kind sentinel and the parse cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Cause}
}

func (e *Error) sentinel() error {
	if e.Kind == KindNoJSONFound {
		return ErrNoJSONFound
	}
	return ErrAllRepairAttemptsFailed
}

// KindOf returns the ErrorKind of a recovery failure, or "" when err did not
// come from this package.
func KindOf(err error) ErrorKind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}
