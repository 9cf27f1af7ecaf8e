package recovery

// RawResponse is the complete text a model returned for one request, plus
// the provider's report of whether generation stopped at the length limit.
type RawResponse struct {
	Text         string
	WasTruncated bool
}

// Candidate is text believed to hold a JSON object. When non-empty its first
// non-whitespace character is '{'. It is not guaranteed to parse.
type Candidate string

// String implements fmt.Stringer.
func (c Candidate) String() string {
	return string(c)
}

// Extraction is the output of [Extract].
type Extraction struct {
	Candidate Candidate

	// Terminated reports whether a '}' was found after the opening '{'.
	// When false the candidate runs to the end of the input and is treated
	// as a truncated fragment regardless of the caller's signal.
	Terminated bool
}

// Result is a successful recovery.
type Result struct {
	// Value is the parsed tree: map[string]any, []any, string, float64
	// (or json.Number with WithUseNumber), bool or nil.
	Value any

	// Strategy names the repair strategy whose output parsed.
	Strategy string

	// Attempts is the number of parse attempts made, including the
	// successful one.
	Attempts int

	// Closed reports whether truncation closure changed the candidate.
	Closed bool

	// Candidate is the exact text that parsed.
	Candidate Candidate
}

// Attempt describes one strategy application followed by a parse.
type Attempt struct {
	// Index is 1-based.
	Index     int
	Strategy  string
	Candidate Candidate
	// Err is nil when the parse succeeded.
	Err error
}
