package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateSentences returns s cut to at most maxSentences sentences when its
// word count exceeds maxWords. Sentence boundaries are ". " splits; a trailing
// period is restored on the kept portion.
func TruncateSentences(s string, maxWords, maxSentences int) string {
	if len(strings.Fields(s)) <= maxWords {
		return s
	}
	sentences := strings.Split(s, ". ")
	if len(sentences) <= maxSentences {
		return s
	}
	return strings.Join(sentences[:maxSentences], ". ") + "."
}
