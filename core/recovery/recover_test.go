package recovery

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

var wellFormedDocuments = []string{
	`{}`,
	`{"a":1}`,
	`{"name":"Onboarding","stages":[{"name":"Sign up","meaningfulMoments":[{"type":"pain","severity":"high","description":"Form is \"too long\""}]}]}`,
	"{\n  \"nested\": {\"deep\": [[1, 2], [3, {\"x\": null}]]},\n  \"flag\": false\n}",
	`{"unicode":"日本語 ✓","escaped":"tab\there\\"}`,
}

func TestRecover_RoundTrip(t *testing.T) {
	for _, doc := range wellFormedDocuments {
		t.Run(doc, func(t *testing.T) {
			got, err := Recover(RawResponse{Text: doc})
			if err != nil {
				t.Fatalf("Recover() unexpected error: %v", err)
			}
			if diff := cmp.Diff(mustUnmarshal(t, doc), got.Value); diff != "" {
				t.Errorf("Recover() value mismatch (-want +got):\n%s", diff)
			}
			if got.Strategy != "identity" || got.Attempts != 1 {
				t.Errorf("Strategy = %q, Attempts = %d; want identity on the first attempt", got.Strategy, got.Attempts)
			}
			if got.Closed {
				t.Error("Closed = true for a complete document")
			}
		})
	}
}

func TestRecover_FenceStrippingIdempotence(t *testing.T) {
	wrappers := []func(string) string{
		func(doc string) string { return "```json\n" + doc + "\n```" },
		func(doc string) string { return "```\n" + doc + "\n```" },
		func(doc string) string { return "Here is your JSON:\n\n```json\n" + doc + "\n```\n\nLet me know!" },
		func(doc string) string { return "Of course. " + doc + " Hope this helps." },
	}

	for _, doc := range wellFormedDocuments {
		want := mustUnmarshal(t, doc)
		for i, wrap := range wrappers {
			got, err := Recover(RawResponse{Text: wrap(doc)})
			if err != nil {
				t.Fatalf("wrapper %d: Recover() unexpected error: %v", i, err)
			}
			if diff := cmp.Diff(want, got.Value); diff != "" {
				t.Errorf("wrapper %d: value mismatch (-want +got):\n%s", i, diff)
			}
		}
	}
}

func TestRecover_TruncationClosure(t *testing.T) {
	got, err := Recover(RawResponse{Text: `{"a":1,"b":[1,2,{"c":"x`, WasTruncated: true})
	if err != nil {
		t.Fatalf("Recover() unexpected error: %v", err)
	}

	want := mustUnmarshal(t, `{"a":1,"b":[1,2,{"c":"x"}]}`)
	if diff := cmp.Diff(want, got.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if !got.Closed {
		t.Error("Closed = false, want true")
	}
	if got.Candidate != `{"a":1,"b":[1,2,{"c":"x"}]}` {
		t.Errorf("Candidate = %q", got.Candidate)
	}
}

func TestRecover_EscapedQuoteAwareness(t *testing.T) {
	for _, truncated := range []bool{false, true} {
		got, err := Recover(RawResponse{Text: `{"a":"he said \"hi\""}`, WasTruncated: truncated})
		if err != nil {
			t.Fatalf("Recover(truncated=%v) unexpected error: %v", truncated, err)
		}
		if diff := cmp.Diff(map[string]any{"a": `he said "hi"`}, got.Value); diff != "" {
			t.Errorf("Recover(truncated=%v) value mismatch (-want +got):\n%s", truncated, diff)
		}
		if got.Closed {
			t.Errorf("Recover(truncated=%v) Closed = true, want false", truncated)
		}
	}
}

func TestRecover_TrailingComma(t *testing.T) {
	got, err := Recover(RawResponse{Text: `{"a":1,"b":2,}`})
	if err != nil {
		t.Fatalf("Recover() unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": 1.0, "b": 2.0}, got.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestRecover_TruncatedAndFenced(t *testing.T) {
	text := "```json\n{\"name\":\"Checkout\",\"stages\":[{\"name\":\"Cart\",\"meaningfulMoments\":[{\"type\":\"friction\",\"description\":\"Shipping costs appear la"

	got, err := Recover(RawResponse{Text: text, WasTruncated: true})
	if err != nil {
		t.Fatalf("Recover() unexpected error: %v", err)
	}
	want := mustUnmarshal(t, `{"name":"Checkout","stages":[{"name":"Cart","meaningfulMoments":[{"type":"friction","description":"Shipping costs appear la"}]}]}`)
	if diff := cmp.Diff(want, got.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestRecover_TruncatedAfterInnerObject(t *testing.T) {
	// The last '}' bounds the candidate, so the partial "c" field is dropped
	// and only the enclosing object needs closing.
	got, err := Recover(RawResponse{Text: `{"a":{"b":1},"c":"tru`, WasTruncated: true})
	if err != nil {
		t.Fatalf("Recover() unexpected error: %v", err)
	}
	if diff := cmp.Diff(mustUnmarshal(t, `{"a":{"b":1}}`), got.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestRecover_NoJSONFoundSkipsRepair(t *testing.T) {
	calls := 0
	_, err := recoverWith(RawResponse{Text: "Sorry, I can't help with that."}, applyOptions(), func(Attempt) {
		calls++
	})

	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("error = %v, want ErrNoJSONFound", err)
	}
	if calls != 0 {
		t.Errorf("%d repair attempts made, want 0", calls)
	}
}

func TestRecover_ExhaustiveFailureExcerptBound(t *testing.T) {
	text := "Result: {\"items\": [" + strings.Repeat("oops ", 2000) + "]}"

	_, err := Recover(RawResponse{Text: text})
	if !errors.Is(err, ErrAllRepairAttemptsFailed) {
		t.Fatalf("error = %v, want ErrAllRepairAttemptsFailed", err)
	}

	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %T, want *Error", err)
	}
	if n := utf8.RuneCountInString(rerr.Excerpt); n != ExcerptLength {
		t.Errorf("excerpt has %d characters, want %d", n, ExcerptLength)
	}
	if !strings.HasPrefix(rerr.Excerpt, `{"items": [oops`) {
		t.Errorf("excerpt = %q, want the start of the candidate", rerr.Excerpt[:40])
	}
}

func TestRecover_Deterministic(t *testing.T) {
	raw := RawResponse{Text: "```json\n{\"a\":\"say \"hi\"\",\n", WasTruncated: true}

	first, firstErr := Recover(raw)
	second, secondErr := Recover(raw)

	if (firstErr == nil) != (secondErr == nil) {
		t.Fatalf("errors differ: %v vs %v", firstErr, secondErr)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestRecover_Concurrent(t *testing.T) {
	inputs := []RawResponse{
		{Text: `{"a":1}`},
		{Text: `{"a":[1,2`, WasTruncated: true},
		{Text: "```json\n{\"a\":1,}\n```"},
		{Text: "no json here"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, raw := range inputs {
			wg.Add(1)
			go func(raw RawResponse) {
				defer wg.Done()
				want, wantErr := Recover(raw)
				got, err := Recover(raw)
				if (err == nil) != (wantErr == nil) || !cmp.Equal(want, got) {
					t.Errorf("concurrent Recover(%q) diverged", raw.Text)
				}
			}(raw)
		}
	}
	wg.Wait()
}
