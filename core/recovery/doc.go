// Package recovery turns the free-form text a model produced when it was
// asked for a single JSON object into a parsed JSON value.
//
// Recovery runs three pure stages in order:
//
//  1. [Extract] strips markdown code fences and surrounding prose and isolates
//     the span from the first '{' to the last '}'.
//  2. [CloseTruncated] uses the caller's truncation signal and a quote-aware
//     [ScanState] walk to close strings, arrays and objects left open when
//     generation hit its length limit.
//  3. [ParseProgressive] tries an ordered, fixed list of [Strategy] repairs
//     (identity, comma and control-character normalisation, defensive quote
//     escaping), returning the first variant that parses.
//
// [Recover] composes the stages. It performs no I/O and holds no state, so
// concurrent calls need no synchronisation and retrying it on the same input
// always yields the same outcome. [Recoverer] wraps the same pipeline with
// tracing, metrics and logging through an [observability.Provider].
//
// Failures are reported as *[Error] values that match [ErrNoJSONFound] or
// [ErrAllRepairAttemptsFailed] under [errors.Is] and carry a bounded excerpt
// of the text that could not be recovered.
package recovery
