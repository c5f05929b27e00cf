// Package paragraph splits a raw transcript into fixed-size paragraphs.
package paragraph

import "strings"

// DefaultMaxWords is the paragraph size used when none is configured.
const DefaultMaxWords = 100

// Normalize collapses every run of whitespace into a single space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Format groups the words of text into paragraphs of exactly maxWords words,
// except the last one which may be shorter. Words are never split and keep
// their order. Empty or whitespace-only text yields an empty, non-nil slice.
// A maxWords below 1 is treated as 1.
func Format(text string, maxWords int) []string {
	if maxWords < 1 {
		maxWords = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	paragraphs := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	current := make([]string, 0, maxWords)

	for _, word := range words {
		current = append(current, word)
		if len(current) == maxWords {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return paragraphs
}

// WordCount returns the number of whitespace-separated words across all paragraphs.
func WordCount(paragraphs []string) int {
	total := 0
	for _, p := range paragraphs {
		total += len(strings.Fields(p))
	}
	return total
}
