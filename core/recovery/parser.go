package recovery

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/leofalp/jsonrescue/internal/utils"
)

var errTrailingData = errors.New("unexpected data after top-level JSON value")

// ParseProgressive tries each strategy in order and returns the first
// variant that parses. Strategies are applied cumulatively and never retried.
// When every attempt fails the error matches [ErrAllRepairAttemptsFailed] and
// carries an excerpt of the last attempted candidate.
//
// The returned value is an untyped tree; no schema validation happens here.
func ParseProgressive(c Candidate, opts ...Option) (*Result, error) {
	return parseProgressive(c, applyOptions(opts...), nil)
}

func parseProgressive(original Candidate, cfg *config, onAttempt func(Attempt)) (*Result, error) {
	var (
		previous = original
		lastErr  error
		lastName string
		attempts int
	)

	for _, strategy := range cfg.strategies() {
		attempts++
		candidate := strategy.Apply(original, previous)
		value, err := decode(candidate, cfg.useNumber)
		if onAttempt != nil {
			onAttempt(Attempt{Index: attempts, Strategy: strategy.Name, Candidate: candidate, Err: err})
		}
		if err == nil {
			return &Result{
				Value:     value,
				Strategy:  strategy.Name,
				Attempts:  attempts,
				Candidate: candidate,
			}, nil
		}
		previous, lastErr, lastName = candidate, err, strategy.Name
	}

	return nil, &Error{
		Kind:     KindAllRepairAttemptsFailed,
		Excerpt:  utils.Excerpt(string(previous), cfg.excerptLength),
		Strategy: lastName,
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// decode parses exactly one JSON value and rejects anything after it.
func decode(c Candidate, useNumber bool) (any, error) {
	dec := json.NewDecoder(strings.NewReader(string(c)))
	if useNumber {
		dec.UseNumber()
	}

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return value, nil
}
