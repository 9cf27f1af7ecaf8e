// Package ai describes the boundary with the generation provider: the
// completed [ChatResponse], the finish-reason vocabulary of the supported
// providers, and the conversion of a response into a
// recovery.RawResponse. Responses delivered as a stream of deltas are
// assembled with [ChatStream.Collect] first.
package ai
