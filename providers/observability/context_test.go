package observability

import (
	"context"
	"reflect"
	"testing"
)

type mockSpan struct {
	name string
}

func (m *mockSpan) End()                                          {}
func (m *mockSpan) SetAttributes(attrs ...Attribute)              {}
func (m *mockSpan) SetStatus(code StatusCode, description string) {}
func (m *mockSpan) RecordError(err error)                         {}
func (m *mockSpan) AddEvent(name string, attrs ...Attribute)      {}

// mockProvider carries a label so assertions can confirm the exact instance
// survived a context round trip.
type mockProvider struct {
	label string
}

func (m *mockProvider) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, nil
}
func (m *mockProvider) Counter(_ string) Counter                          { return nil }
func (m *mockProvider) Histogram(_ string) Histogram                      { return nil }
func (m *mockProvider) Trace(_ context.Context, _ string, _ ...Attribute) {}
func (m *mockProvider) Debug(_ context.Context, _ string, _ ...Attribute) {}
func (m *mockProvider) Info(_ context.Context, _ string, _ ...Attribute)  {}
func (m *mockProvider) Warn(_ context.Context, _ string, _ ...Attribute)  {}
func (m *mockProvider) Error(_ context.Context, _ string, _ ...Attribute) {}

func TestSpanFromContext_Empty(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("Expected nil span from empty context, got %v", span)
	}
}

func TestContextWithSpan_RoundTrip(t *testing.T) {
	span := &mockSpan{name: "recover"}
	ctx := ContextWithSpan(context.Background(), span)

	if got := SpanFromContext(ctx); got != span {
		t.Errorf("SpanFromContext() = %v, want %v", got, span)
	}
}

func TestSpanFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), spanContextKey, "not a span")

	if span := SpanFromContext(ctx); span != nil {
		t.Errorf("Expected nil when value is not a Span, got %v", span)
	}
}

func TestContextWithObserver_RoundTrip(t *testing.T) {
	observer := &mockProvider{label: "round-trip-observer"}
	ctx := ContextWithObserver(context.Background(), observer)

	retrieved, ok := ObserverFromContext(ctx).(*mockProvider)
	if !ok {
		t.Fatalf("ObserverFromContext() returned %T, want *mockProvider", ObserverFromContext(ctx))
	}
	if retrieved != observer || retrieved.label != "round-trip-observer" {
		t.Errorf("ObserverFromContext() returned a different instance")
	}
}

// TestContextKeys_Independent verifies that storing an observer does not
// shadow a span stored on the same context, and vice versa.
func TestContextKeys_Independent(t *testing.T) {
	span := &mockSpan{name: "s"}
	observer := &mockProvider{label: "o"}

	ctx := ContextWithSpan(context.Background(), span)
	ctx = ContextWithObserver(ctx, observer)

	if SpanFromContext(ctx) != span {
		t.Error("span lost after storing observer")
	}
	if ObserverFromContext(ctx) != observer {
		t.Error("observer not retrievable")
	}
}

func TestObserverFromContext_NilContext(t *testing.T) {
	//nolint:staticcheck // intentionally passing nil to verify defensive guard
	if observer := ObserverFromContext(nil); observer != nil {
		t.Errorf("Expected nil from nil context, got %v", observer)
	}
}

func TestStringSlice(t *testing.T) {
	input := []string{"identity", "normalize"}
	attr := StringSlice("strategies", input)

	value, ok := attr.Value.([]string)
	if !ok {
		t.Fatalf("Expected Value to be []string, got %T", attr.Value)
	}
	if !reflect.DeepEqual(value, input) {
		t.Errorf("Expected value %v, got %v", input, value)
	}
}
