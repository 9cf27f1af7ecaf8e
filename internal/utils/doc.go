// Package utils provides small shared helpers for the jsonrescue internals:
// rune-safe diagnostic excerpts ([Excerpt]), JSON stringification for log
// and CLI output ([JSONToString]), and an elapsed-time [Timer] used to feed
// duration histograms.
package utils
