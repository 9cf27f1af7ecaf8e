package ai

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadEventStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ChatResponse
	}{
		{
			name: "json lines",
			input: `{"type":"content","content":"{\"a\":"}` + "\n\n" +
				`{"type":"content","content":"1}"}` + "\n" +
				`{"type":"done","finish_reason":"end_turn"}` + "\n",
			want: &ChatResponse{Content: `{"a":1}`, FinishReason: "end_turn"},
		},
		{
			name: "sse capture",
			input: ": keep-alive\n" +
				"event: delta\n" +
				`data: {"type":"content","content":"{\"b\":[2"}` + "\n\n" +
				"id: 7\n" +
				`data: {"type":"usage","usage":{"total_tokens":9}}` + "\n\n" +
				"data: [DONE]\n\n",
			want: &ChatResponse{Content: `{"b":[2`, FinishReason: FinishStop, Usage: &Usage{TotalTokens: 9}},
		},
		{
			name: "done sentinel keeps earlier finish reason",
			input: `data: {"type":"content","content":"x"}` + "\n" +
				`data: {"type":"done","finish_reason":"length"}` + "\n" +
				"data: [DONE]\n",
			want: &ChatResponse{Content: "x", FinishReason: "length"},
		},
		{
			name:  "capture cut short",
			input: `{"type":"content","content":"{\"c\":"}` + "\n",
			want:  &ChatResponse{Content: `{"c":`, FinishReason: FinishLength},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadEventStream(strings.NewReader(tt.input)).Collect()
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadEventStream_MalformedLine(t *testing.T) {
	input := `{"type":"content","content":"{\"d\":1"}` + "\nnot json\n" + `{"type":"content","content":"}"}` + "\n"
	got, err := ReadEventStream(strings.NewReader(input)).Collect()
	if err == nil || !strings.Contains(err.Error(), "event line 2") {
		t.Fatalf("Collect() error = %v, want an error naming line 2", err)
	}
	if got.Content != `{"d":1` {
		t.Errorf("Content = %q, want the text before the bad line", got.Content)
	}
}
