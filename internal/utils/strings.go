package utils

import (
	"encoding/json"
	"unicode/utf8"
)

// JSONToString serialises object to its JSON representation and returns it as a
// string. When the optional indent argument is true the output is
// pretty-printed with two-space indentation. On marshalling failure it returns
// a JSON-formatted error string rather than panicking, so the result is always
// safe to use in log output.
func JSONToString(object interface{}, indent ...bool) string {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// Excerpt returns the first maxRunes characters of s. Unlike a byte slice it
// never cuts a multi-byte character in half, and unlike a log truncation it
// adds no suffix, so len([]rune(result)) <= maxRunes always holds.
// A non-positive maxRunes yields the empty string.
func Excerpt(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if len(s) <= maxRunes {
		return s
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// RuneCount is a shorthand for utf8.RuneCountInString.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}
