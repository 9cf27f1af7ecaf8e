package recovery

import (
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Strategy is one deterministic textual repair. Apply receives the candidate
// the parser started from and the output of the previous strategy (equal to
// original for the first strategy) and must always return a candidate.
type Strategy struct {
	Name  string
	Apply func(original, previous Candidate) Candidate
}

// Identity parses the candidate exactly as received.
var Identity = Strategy{
	Name: "identity",
	Apply: func(original, _ Candidate) Candidate {
		return original
	},
}

// NormalizeCommasAndControls removes commas directly followed by '}' or ']'
// and makes control characters legal: inside string literals newlines and
// tabs become \n and \t and other control characters are dropped; outside
// strings JSON whitespace is kept and other control characters are dropped.
var NormalizeCommasAndControls = Strategy{
	Name: "normalize",
	Apply: func(original, _ Candidate) Candidate {
		return normalizeCommasAndControls(original)
	},
}

// EscapeInnerQuotes builds on the previous strategy's output and escapes
// quotes inside object field values that cannot be the value's closing
// quote, such as the quotes around a word the model quoted in prose.
//
// This is a narrow heuristic and can misfire on text that was not a
// generator error, which is why it only runs after the strategies before it
// failed.
var EscapeInnerQuotes = Strategy{
	Name: "escape_quotes",
	Apply: func(_, previous Candidate) Candidate {
		return escapeInnerQuotes(previous)
	},
}

// RepairFallback hands the original candidate to the general-purpose
// jsonrepair library. It is not part of [DefaultStrategies] and is enabled
// with WithRepairFallback.
var RepairFallback = Strategy{
	Name: "jsonrepair",
	Apply: func(original, previous Candidate) Candidate {
		repaired, err := jsonrepair.JSONRepair(string(original))
		if err != nil {
			return previous
		}
		return Candidate(repaired)
	},
}

// DefaultStrategies returns the fixed repair order used by [ParseProgressive].
func DefaultStrategies() []Strategy {
	return []Strategy{Identity, NormalizeCommasAndControls, EscapeInnerQuotes}
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isJSONSpace(s[i]) {
		i++
	}
	return i
}

func normalizeCommasAndControls(c Candidate) Candidate {
	src := string(c)
	var b strings.Builder
	b.Grow(len(src))

	var state ScanState
	for i := 0; i < len(src); i++ {
		ch := src[i]

		if state.InString {
			if ch < 0x20 {
				switch ch {
				case '\n':
					b.WriteString(`\n`)
				case '\t':
					b.WriteString(`\t`)
				}
				state.Step(ch)
				continue
			}
			state.Step(ch)
			b.WriteByte(ch)
			continue
		}

		if ch < 0x20 && !isJSONSpace(ch) {
			continue
		}
		if ch == ',' {
			if j := skipSpace(src, i+1); j < len(src) && (src[j] == '}' || src[j] == ']') {
				continue
			}
		}
		state.Step(ch)
		b.WriteByte(ch)
	}
	return Candidate(b.String())
}

func escapeInnerQuotes(c Candidate) Candidate {
	src := string(c)
	var b strings.Builder
	b.Grow(len(src) + 16)

	inString, escaped, inValue := false, false, false
	var last byte // last significant byte outside strings
	for i := 0; i < len(src); i++ {
		ch := src[i]

		if !inString {
			if ch == '"' {
				inString = true
				inValue = last == ':'
			} else if !isJSONSpace(ch) {
				last = ch
			}
			b.WriteByte(ch)
			continue
		}

		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			if inValue && !closesFieldValue(src, i+1) {
				b.WriteString(`\"`)
				continue
			}
			inString = false
			last = '"'
		}
		b.WriteByte(ch)
	}
	return Candidate(b.String())
}

// closesFieldValue reports whether a quote immediately before src[i] can end
// an object field value: it must be followed by the end of the text, a
// closing '}' or ']', or a comma that introduces the next "key":.
func closesFieldValue(src string, i int) bool {
	j := skipSpace(src, i)
	if j == len(src) {
		return true
	}
	switch src[j] {
	case '}', ']':
		return true
	case ',':
		k := skipSpace(src, j+1)
		if k == len(src) || src[k] == '}' {
			return true
		}
		return src[k] == '"' && isKeyAt(src, k)
	}
	return false
}

// isKeyAt reports whether the string literal starting at src[i] is followed
// by a colon.
func isKeyAt(src string, i int) bool {
	escaped := false
	for j := i + 1; j < len(src); j++ {
		switch {
		case escaped:
			escaped = false
		case src[j] == '\\':
			escaped = true
		case src[j] == '"':
			k := skipSpace(src, j+1)
			return k < len(src) && src[k] == ':'
		}
	}
	return false
}
