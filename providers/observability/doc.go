// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout jsonrescue.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Callers propagate an active
// [Provider] and [Span] through a [context.Context] using [ContextWithObserver]
// and [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext].
//
// semconv.go holds the attribute keys, span, event and metric names emitted
// by the recovery pipeline.
package observability
