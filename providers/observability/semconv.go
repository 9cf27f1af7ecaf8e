package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Provider Response Attributes ---

const (
	// AttrLLMProvider is the name of the provider that produced the response
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"
)

// --- Recovery Attributes ---

const (
	// AttrRecoveryID correlates the records of one recovery run
	AttrRecoveryID = "recovery.id"

	// AttrRecoveryInputLength is the length in bytes of the raw response text
	AttrRecoveryInputLength = "recovery.input.length"

	// AttrRecoveryTruncated reports the caller's truncation signal
	AttrRecoveryTruncated = "recovery.truncated"

	// AttrRecoveryClosed reports whether truncation closure changed the candidate
	AttrRecoveryClosed = "recovery.closed"

	// AttrRecoveryStrategies lists the configured strategies in order
	AttrRecoveryStrategies = "recovery.strategies"

	// AttrRecoveryStrategy is the name of a repair strategy
	AttrRecoveryStrategy = "recovery.strategy"

	// AttrRecoveryAttempt is the 1-based index of a parse attempt
	AttrRecoveryAttempt = "recovery.attempt"

	// AttrRecoveryAttempts is the number of parse attempts made
	AttrRecoveryAttempts = "recovery.attempts"

	// AttrRecoveryErrorKind is the failure kind (NoJsonFound, AllRepairAttemptsFailed)
	AttrRecoveryErrorKind = "recovery.error.kind"

	// AttrRecoveryExcerpt is the bounded diagnostic excerpt of the failing text
	AttrRecoveryExcerpt = "recovery.excerpt"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanRecover wraps one run of the recovery pipeline
	SpanRecover = "jsonrescue.recover"
)

// --- Event Names ---

const (
	// EventRecoveryAttempt marks one strategy + parse attempt
	EventRecoveryAttempt = "recovery.attempt"
)

// --- Metric Names ---

const (
	// MetricRecoveryAttempts counts parse attempts, by strategy
	MetricRecoveryAttempts = "jsonrescue.recover.attempts"

	// MetricRecoverySuccess counts successful recoveries, by winning strategy
	MetricRecoverySuccess = "jsonrescue.recover.success"

	// MetricRecoveryFailure counts failed recoveries, by error kind
	MetricRecoveryFailure = "jsonrescue.recover.failure"

	// MetricRecoveryDuration records pipeline duration in milliseconds
	MetricRecoveryDuration = "jsonrescue.recover.duration_ms"
)
