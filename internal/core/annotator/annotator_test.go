package annotator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate_HeadingAndExponent(t *testing.T) {
	got := Annotate("# Title\n\nx^2 + 3/4")
	assert.Equal(t, "# **Title**\n\n**x**^2 + **3/4**", got)
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain prose", "nothing to mark here", "nothing to mark here"},
		{"integer", "add 42 apples", "add **42** apples"},
		{"decimal", "pi is 3.14", "pi is **3.14**"},
		{"fraction", "half is 1/2.", "half is **1/2**."},
		{"digits glued to letters stay plain", "abc123 and 12px", "abc123 and 12px"},
		{"variables", "let x and Y be reals", "let **x** and **Y** be reals"},
		{"variable inside word", "a taxi and xylophone", "a taxi and xylophone"},
		{"exponent keeps power plain", "z^10 grows", "**z**^10 grows"},
		{"caret without digits", "x^n", "**x**^n"},
		{"deep heading", "###### Six", "###### **Six**"},
		{"heading marker needs space", "#hashtag 5", "#hashtag **5**"},
		{"heading skips math", "## Part 2 of x", "## **Part 2 of x**"},
		{"too many hashes", "####### 7", "####### **7**"},
		{"math delimiters", "solve $2x + 3 = y$ now", "solve $**2****x** + **3** = **y**$ now"},
		{"math exponent", "$x^2$", "$**x**^2$"},
		{"empty math", "costs $$ 5", "costs $$ **5**"},
		{"unclosed dollar", "pay $5 now", "pay $**5** now"},
		{"multiline", "1\n2", "**1**\n**2**"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Annotate(tc.in))
		})
	}
}

func TestTokenize_Categories(t *testing.T) {
	tokens := Tokenize("# Intro\ny = 2")
	require.Equal(t, []Token{
		{Text: "# ", Category: Plain},
		{Text: "Intro", Category: Heading},
		{Text: "\n", Category: Plain},
		{Text: "y", Category: MathVariable},
		{Text: " = ", Category: Plain},
		{Text: "2", Category: MathNumber},
	}, tokens)
}

func TestTokenize_PreservesText(t *testing.T) {
	in := "## Heading\n\nThe value x^2 + 3.5/y is $z/2$ over 10 items_2 and 7\n"
	var rebuilt string
	for _, tok := range Tokenize(in) {
		rebuilt += tok.Text
	}
	// heading titles are trimmed, everything else round-trips
	assert.Equal(t, in, rebuilt)
}

func TestAnnotate_NotIdempotent(t *testing.T) {
	once := Annotate("value 5")
	twice := Annotate(once)
	assert.Equal(t, "value **5**", once)
	assert.NotEqual(t, once, twice)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "heading", Heading.String())
	assert.Equal(t, "math-numeric", MathNumber.String())
	assert.Equal(t, "math-variable", MathVariable.String())
}
