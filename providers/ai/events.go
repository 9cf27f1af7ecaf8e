package ai

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxEventLineSize bounds a single captured event line.
const maxEventLineSize = 16 * 1024 * 1024

// ReadEventStream decodes captured stream events from r, one JSON
// StreamEvent per line. Server-sent-event captures are accepted as well:
// "data:" prefixes are stripped, comments and other fields are skipped, and
// a [DONE] sentinel ends the stream. A malformed line ends the stream with
// an error carrying its line number.
func ReadEventStream(r io.Reader) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineSize)

		sawDone := false
		for n := 1; scanner.Scan(); n++ {
			line := strings.TrimSpace(scanner.Text())
			if data, ok := strings.CutPrefix(line, "data:"); ok {
				line = strings.TrimSpace(data)
			} else if isSSEMeta(line) {
				continue
			}
			if line == "" {
				continue
			}
			if line == "[DONE]" {
				if !sawDone {
					yield(StreamEvent{Type: StreamEventDone, FinishReason: FinishStop}, nil)
				}
				return
			}

			var event StreamEvent
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				yield(StreamEvent{}, fmt.Errorf("event line %d: %w", n, err))
				return
			}
			sawDone = sawDone || event.Type == StreamEventDone
			if !yield(event, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(StreamEvent{}, fmt.Errorf("read events: %w", err))
		}
	})
}

func isSSEMeta(line string) bool {
	if strings.HasPrefix(line, ":") {
		return true
	}
	for _, field := range []string{"event:", "id:", "retry:"} {
		if strings.HasPrefix(line, field) {
			return true
		}
	}
	return false
}
