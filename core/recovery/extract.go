package recovery

import (
	"regexp"
	"strings"

	"github.com/leofalp/jsonrescue/internal/utils"
)

// fencePattern matches labeled (```json) and bare (```) code-fence markers.
var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

// Extract isolates the JSON payload candidate in a model response.
//
// Code-fence markers are removed wherever they appear and the text is
// trimmed. The candidate spans from the first '{' to the last '}' inclusive,
// which drops any preamble and trailing commentary. When no '}' follows the
// first '{' the remainder of the text is returned unsliced with
// Terminated=false, the usual shape of output cut by a length limit.
//
// A response without any '{' fails with an error matching [ErrNoJSONFound].
func Extract(text string) (Extraction, error) {
	return extract(text, ExcerptLength)
}

func extract(text string, excerptLength int) (Extraction, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return Extraction{}, &Error{
			Kind:    KindNoJSONFound,
			Excerpt: utils.Excerpt(cleaned, excerptLength),
		}
	}

	if end := strings.LastIndexByte(cleaned, '}'); end > start {
		return Extraction{Candidate: Candidate(cleaned[start : end+1]), Terminated: true}, nil
	}
	return Extraction{Candidate: Candidate(cleaned[start:])}, nil
}
