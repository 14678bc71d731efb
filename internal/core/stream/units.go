package stream

import (
	"iter"
	"strings"
)

// Units yields the whitespace-separated units of text in order.
// Whitespace itself is never emitted, so a blank answer yields nothing.
func Units(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, u := range strings.Fields(text) {
			if !yield(u) {
				return
			}
		}
	}
}
