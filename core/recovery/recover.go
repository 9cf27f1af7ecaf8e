package recovery

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/leofalp/jsonrescue/internal/utils"
	"github.com/leofalp/jsonrescue/providers/observability"
)

// Recover runs the full pipeline on one response: [Extract], then
// [CloseTruncated], then [ParseProgressive].
//
//	res, err := recovery.Recover(recovery.RawResponse{
//	    Text:         completion.Content,
//	    WasTruncated: completion.FinishReason == "length",
//	})
//	if errors.Is(err, recovery.ErrNoJSONFound) {
//	    // the model answered in prose; retry the generation, not the recovery
//	}
func Recover(raw RawResponse, opts ...Option) (*Result, error) {
	return recoverWith(raw, applyOptions(opts...), nil)
}

func recoverWith(raw RawResponse, cfg *config, onAttempt func(Attempt)) (*Result, error) {
	extraction, err := extract(raw.Text, cfg.excerptLength)
	if err != nil {
		return nil, err
	}

	candidate := CloseTruncated(extraction, raw.WasTruncated)
	result, err := parseProgressive(candidate, cfg, onAttempt)
	if err != nil {
		return nil, err
	}
	result.Closed = candidate != extraction.Candidate
	return result, nil
}

// Recoverer runs [Recover] and reports each run to an observability
// provider: a span per run, an event and counter per parse attempt, success
// and failure counters, a duration histogram, and a warning carrying the
// diagnostic excerpt on failure. Every record of one run shares a random
// recovery.id.
//
// A Recoverer holds only configuration and is safe for concurrent use.
type Recoverer struct {
	cfg *config
}

// NewRecoverer creates a Recoverer. Without WithObserver it uses the
// observer found on the context passed to [Recoverer.Recover], if any.
func NewRecoverer(opts ...Option) *Recoverer {
	return &Recoverer{cfg: applyOptions(opts...)}
}

// Recover runs the pipeline on raw. The context carries observability only;
// recovery itself never blocks.
func (r *Recoverer) Recover(ctx context.Context, raw RawResponse) (*Result, error) {
	observer := r.cfg.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	if observer == nil {
		return recoverWith(raw, r.cfg, nil)
	}

	timer := utils.NewTimer()
	runID := observability.String(observability.AttrRecoveryID, uuid.NewString())
	ctx, span := observer.StartSpan(ctx, observability.SpanRecover,
		runID,
		observability.Int(observability.AttrRecoveryInputLength, len(raw.Text)),
		observability.Bool(observability.AttrRecoveryTruncated, raw.WasTruncated),
		observability.StringSlice(observability.AttrRecoveryStrategies, strategyNames(r.cfg.strategies())),
	)
	defer span.End()
	ctx = observability.ContextWithSpan(ctx, span)

	attempts := observer.Counter(observability.MetricRecoveryAttempts)
	result, err := recoverWith(raw, r.cfg, func(a Attempt) {
		attrs := []observability.Attribute{
			observability.String(observability.AttrRecoveryStrategy, a.Strategy),
			observability.Int(observability.AttrRecoveryAttempt, a.Index),
		}
		if a.Err != nil {
			attrs = append(attrs, observability.Error(a.Err))
		}
		span.AddEvent(observability.EventRecoveryAttempt, attrs...)
		attempts.Add(ctx, 1, observability.String(observability.AttrRecoveryStrategy, a.Strategy))
	})

	elapsed := timer.Stop()
	observer.Histogram(observability.MetricRecoveryDuration).Record(ctx, timer.Milliseconds())

	if err != nil {
		var kind ErrorKind
		var excerpt string
		var rerr *Error
		if errors.As(err, &rerr) {
			kind, excerpt = rerr.Kind, rerr.Excerpt
		}
		span.RecordError(err)
		span.SetStatus(observability.StatusError, string(kind))
		observer.Counter(observability.MetricRecoveryFailure).Add(ctx, 1,
			observability.String(observability.AttrRecoveryErrorKind, string(kind)),
		)
		observer.Warn(ctx, "JSON recovery failed",
			runID,
			observability.String(observability.AttrRecoveryErrorKind, string(kind)),
			observability.String(observability.AttrRecoveryExcerpt, excerpt),
			observability.Duration(observability.AttrDuration, elapsed),
			observability.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		observability.String(observability.AttrRecoveryStrategy, result.Strategy),
		observability.Int(observability.AttrRecoveryAttempts, result.Attempts),
		observability.Bool(observability.AttrRecoveryClosed, result.Closed),
	)
	span.SetStatus(observability.StatusOK, "")
	observer.Counter(observability.MetricRecoverySuccess).Add(ctx, 1,
		observability.String(observability.AttrRecoveryStrategy, result.Strategy),
	)
	observer.Debug(ctx, "JSON recovered",
		runID,
		observability.String(observability.AttrRecoveryStrategy, result.Strategy),
		observability.Int(observability.AttrRecoveryAttempts, result.Attempts),
		observability.Bool(observability.AttrRecoveryClosed, result.Closed),
	)
	return result, nil
}

func strategyNames(strategies []Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return names
}
