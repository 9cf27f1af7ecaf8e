package recovery

// ScanState walks a candidate one byte at a time and tracks what is left
// open: string literals, objects and arrays.
//
// Inside a string literal a backslash escapes the following byte, so \" never
// terminates the string. Braces and brackets inside strings are content and
// are not counted. Structural characters are ASCII, so walking bytes is safe
// for UTF-8 input.
type ScanState struct {
	// InString is set while the scan position is inside a string literal.
	InString bool

	// Escaped is set when the previous byte was an unconsumed backslash
	// inside a string literal.
	Escaped bool

	// Braces is the net count of '{' minus '}' seen outside strings.
	Braces int

	// Brackets is the net count of '[' minus ']' seen outside strings.
	Brackets int

	// open holds the unclosed containers, innermost last.
	open []byte
}

// Scan runs a fresh ScanState over c.
func Scan(c Candidate) ScanState {
	var state ScanState
	for i := 0; i < len(c); i++ {
		state.Step(c[i])
	}
	return state
}

// Step advances the state machine by one byte.
func (s *ScanState) Step(ch byte) {
	if s.InString {
		switch {
		case s.Escaped:
			s.Escaped = false
		case ch == '\\':
			s.Escaped = true
		case ch == '"':
			s.InString = false
		}
		return
	}

	switch ch {
	case '"':
		s.InString = true
	case '{':
		s.Braces++
		s.open = append(s.open, '{')
	case '[':
		s.Brackets++
		s.open = append(s.open, '[')
	case '}':
		s.Braces--
		s.pop('{')
	case ']':
		s.Brackets--
		s.pop('[')
	}
}

// pop closes the innermost container opened by opener. Containers nested
// inside it that were never closed are discarded with it; a closer with no
// matching opener is ignored.
func (s *ScanState) pop(opener byte) {
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i] == opener {
			s.open = s.open[:i]
			return
		}
	}
}

// Depth is the number of containers still open.
func (s *ScanState) Depth() int {
	return len(s.open)
}

// Balanced reports whether the scan ended outside any string with nothing
// left open.
func (s *ScanState) Balanced() bool {
	return !s.InString && len(s.open) == 0
}

// Closers returns the characters that close every open container, innermost
// first.
func (s *ScanState) Closers() string {
	closers := make([]byte, 0, len(s.open))
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i] == '{' {
			closers = append(closers, '}')
		} else {
			closers = append(closers, ']')
		}
	}
	return string(closers)
}
