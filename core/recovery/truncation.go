package recovery

import "regexp"

var danglingCommaPattern = regexp.MustCompile(`,\s*$`)

// CloseTruncated returns a candidate whose strings, arrays and objects are
// structurally closed.
//
// A terminated extraction from a response the provider did not flag as
// truncated is returned unchanged. Otherwise the candidate is scanned once;
// an unterminated string literal is closed first (a dangling escape
// backslash is dropped so the synthesized quote is not swallowed), one
// trailing comma is removed, and closers for every still-open container are
// appended in nesting order.
//
// CloseTruncated never fails: whether the result parses is decided later by
// [ParseProgressive].
func CloseTruncated(e Extraction, wasTruncated bool) Candidate {
	if !wasTruncated && e.Terminated {
		return e.Candidate
	}

	text := string(e.Candidate)
	state := Scan(e.Candidate)
	if state.InString {
		if state.Escaped {
			text = text[:len(text)-1]
		}
		text += `"`
	}
	text = danglingCommaPattern.ReplaceAllString(text, "")

	return Candidate(text + state.Closers())
}
