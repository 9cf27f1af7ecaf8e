// Package parse coerces recovered JSON into Go types.
//
// [RecoverAs] runs the recovery pipeline on a raw model response and decodes
// the result into T. [DecodeAs] does the second half alone for values that
// were already recovered. Both tolerate the {"type": ..., "value": ...}
// envelopes that models emit when they echo a schema instead of filling it.
//
// [ParseStringAs] is the convenience entry for plain strings: primitive
// targets are converted with strconv, everything else goes through recovery.
package parse
