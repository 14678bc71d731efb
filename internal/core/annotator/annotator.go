// Package annotator marks headings and math tokens in generated answers so
// the client can render them in bold.
//
// Annotate is deterministic but not idempotent: running it on its own
// output wraps the marked tokens a second time.
package annotator

import (
	"regexp"
	"strings"
	"unicode"
)

// Category tags a token span.
type Category int

const (
	Plain Category = iota
	Heading
	MathNumber
	MathVariable
)

func (c Category) String() string {
	switch c {
	case Heading:
		return "heading"
	case MathNumber:
		return "math-numeric"
	case MathVariable:
		return "math-variable"
	default:
		return "plain"
	}
}

// Token is one span of the input with its category.
type Token struct {
	Text     string
	Category Category
}

const emphasis = "**"

var headingLine = regexp.MustCompile(`^(#{1,6}[ \t]+)(.*)$`)

// Annotate tokenizes text and renders emphasis markup.
func Annotate(text string) string {
	return Render(Tokenize(text))
}

// Render concatenates tokens, wrapping every non-plain token in emphasis.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Category == Plain {
			b.WriteString(t.Text)
			continue
		}
		b.WriteString(emphasis)
		b.WriteString(t.Text)
		b.WriteString(emphasis)
	}
	return b.String()
}

// Tokenize splits text into tagged spans in a single left-to-right pass.
// Heading lines win over math; an exponent after x, y or z leaves only the
// base letter tagged.
func Tokenize(text string) []Token {
	var tz tokenizer
	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		if m := headingLine.FindStringSubmatch(body); m != nil && strings.TrimSpace(m[2]) != "" {
			tz.add(m[1], Plain)
			tz.add(strings.TrimSpace(m[2]), Heading)
		} else {
			tz.scan([]rune(body), false)
		}
		if len(body) < len(line) {
			tz.add("\n", Plain)
		}
	}
	return tz.tokens
}

type tokenizer struct {
	tokens []Token
}

// add appends a token, merging neighbouring plain spans.
func (tz *tokenizer) add(s string, c Category) {
	if s == "" {
		return
	}
	if n := len(tz.tokens); n > 0 && c == Plain && tz.tokens[n-1].Category == Plain {
		tz.tokens[n-1].Text += s
		return
	}
	tz.tokens = append(tz.tokens, Token{Text: s, Category: c})
}

// scan tokenizes one line. Inside a $...$ expression (inMath) numbers may
// touch letters, e.g. 2x, and nested dollars are plain.
func (tz *tokenizer) scan(rs []rune, inMath bool) {
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '$' && !inMath:
			if end := closingDollar(rs, i); end > 0 {
				tz.add("$", Plain)
				tz.scan(rs[i+1:end], true)
				tz.add("$", Plain)
				i = end + 1
				continue
			}
			tz.add("$", Plain)
			i++

		case isDigit(r) && (inMath || !isWord(at(rs, i-1))):
			end := numberEnd(rs, i)
			if inMath || !isWord(at(rs, end)) {
				tz.add(string(rs[i:end]), MathNumber)
			} else {
				tz.add(string(rs[i:end]), Plain)
			}
			i = end

		case isVariable(r) && !isLetterLike(at(rs, i-1), inMath):
			next := at(rs, i+1)
			if exp := exponentEnd(rs, i+1); exp > i+1 {
				tz.add(string(r), MathVariable)
				tz.add(string(rs[i+1:exp]), Plain)
				i = exp
				continue
			}
			if !isLetterLike(next, inMath) {
				tz.add(string(r), MathVariable)
			} else {
				tz.add(string(r), Plain)
			}
			i++

		default:
			tz.add(string(r), Plain)
			i++
		}
	}
}

// closingDollar returns the index of the '$' closing the expression opened
// at open, or -1. Empty expressions ("$$") do not count.
func closingDollar(rs []rune, open int) int {
	for j := open + 1; j < len(rs); j++ {
		if rs[j] == '$' {
			if j == open+1 {
				return -1
			}
			return j
		}
	}
	return -1
}

// numberEnd consumes an integer, a decimal d+.d+ or a fraction d+/d+.
func numberEnd(rs []rune, i int) int {
	j := digitsEnd(rs, i)
	if sep := at(rs, j); (sep == '.' || sep == '/') && isDigit(at(rs, j+1)) {
		j = digitsEnd(rs, j+1)
	}
	return j
}

// exponentEnd returns the end of a "^digits" run starting at i, or i.
func exponentEnd(rs []rune, i int) int {
	if at(rs, i) != '^' || !isDigit(at(rs, i+1)) {
		return i
	}
	return digitsEnd(rs, i+1)
}

func digitsEnd(rs []rune, i int) int {
	for i < len(rs) && isDigit(rs[i]) {
		i++
	}
	return i
}

// at returns the rune at i, or 0 outside the slice.
func at(rs []rune, i int) rune {
	if i < 0 || i >= len(rs) {
		return 0
	}
	return rs[i]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isVariable(r rune) bool {
	switch r {
	case 'x', 'y', 'z', 'X', 'Y', 'Z':
		return true
	}
	return false
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isLetterLike decides whether r glues onto a variable. Outside math any
// word rune does; inside math digits are allowed to touch (2x).
func isLetterLike(r rune, inMath bool) bool {
	if inMath {
		return r == '_' || unicode.IsLetter(r)
	}
	return isWord(r)
}
