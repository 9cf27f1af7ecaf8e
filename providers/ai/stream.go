package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the payload of a StreamEvent.
type StreamEventType string

const (
	StreamEventContent StreamEventType = "content"
	StreamEventUsage   StreamEventType = "usage"
	StreamEventDone    StreamEventType = "done"
	StreamEventError   StreamEventType = "error"
)

// StreamEvent is one delta of a streamed response.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// ChatStream assembles streamed deltas into a ChatResponse.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream wraps an iterator of events. A non-nil error from the
// iterator ends the stream.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewEventStream streams a fixed slice of events, as read back from a capture.
func NewEventStream(events []StreamEvent) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		for _, e := range events {
			if !yield(e, nil) {
				return
			}
		}
	})
}

// NewSingleEventStream replays a completed response as content followed by done.
func NewSingleEventStream(resp *ChatResponse) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		if resp.Content != "" && !yield(StreamEvent{Type: StreamEventContent, Content: resp.Content}, nil) {
			return
		}
		if resp.Usage != nil && !yield(StreamEvent{Type: StreamEventUsage, Usage: resp.Usage}, nil) {
			return
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: resp.FinishReason}, nil)
	})
}

// Iter exposes the events for range-over-func loops.
func (s *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return s.iterator
}

// Collect drains the stream. The returned response is never nil.
//
// A stream that stops without a done event yields FinishLength, since the
// text is cut short exactly as if the token budget had run out. An error
// event yields FinishError with the message in Error. An iterator error
// is returned together with whatever was accumulated before it.
func (s *ChatStream) Collect() (*ChatResponse, error) {
	resp := &ChatResponse{}
	var content strings.Builder
	done := false

	for event, err := range s.iterator {
		if err != nil {
			resp.Content = content.String()
			resp.FinishReason = FinishLength
			return resp, err
		}
		switch event.Type {
		case StreamEventContent:
			content.WriteString(event.Content)
		case StreamEventUsage:
			if event.Usage != nil {
				resp.Usage = event.Usage
			}
		case StreamEventDone:
			resp.FinishReason = event.FinishReason
			done = true
		case StreamEventError:
			resp.FinishReason = FinishError
			resp.Error = event.Error
			done = true
		}
	}

	resp.Content = content.String()
	if !done {
		resp.FinishReason = FinishLength
	}
	return resp, nil
}
