// Package chunker splits document text into fixed-size, non-overlapping windows.
package chunker

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// window size used when none is configured, in characters
const DefaultWindowSize = 500

// Chunker cuts text purely by position. It never looks at sentence or word
// boundaries and never splits a UTF-8 encoded character.
type Chunker struct {
	size int
}

func New(size int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}

	return &Chunker{size: size}, nil
}

// returns a chunker with the default window size
func Default() *Chunker {
	return &Chunker{size: DefaultWindowSize}
}

func (c *Chunker) Size() int {
	return c.size
}

// Split returns the windows of text in order. Every window holds exactly
// Size() characters except possibly the last; concatenating them yields text
// byte for byte. The sequence is lazy and can be ranged over any number of times.
func (c *Chunker) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, n := 0, 0

		for i := range text {
			if n == c.size {
				if !yield(text[start:i]) {
					return
				}

				start, n = i, 0
			}

			n++
		}

		if start < len(text) {
			yield(text[start:])
		}
	}
}

// Count returns how many windows Split yields for text without producing them.
func (c *Chunker) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + c.size - 1) / c.size
}
