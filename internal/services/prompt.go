package services

import "unicode/utf8"

const explainTemplate = "Please explain this content:\n\n"

// BuildPrompt wraps text in the explain template unless raw is set, then
// truncates the whole prompt to maxChars runes.
func BuildPrompt(text string, raw bool, maxChars int) string {
	prompt := text
	if !raw {
		prompt = explainTemplate + text
	}
	return truncateRunes(prompt, maxChars)
}

// truncateRunes cuts s to at most n runes without splitting a code point.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
