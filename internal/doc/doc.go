package doc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token produced by Tokenize.
type Kind int

const (
	// Word is a maximal run of letters and digits.
	Word Kind = iota
	// Space is a single whitespace rune.
	Space
	// Special is a single rune that is neither a letter, a digit nor whitespace.
	Special
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Space:
		return "space"
	case Special:
		return "special"
	}
	return "unknown"
}

// Token is one piece of the input text. Concatenating the Text of all tokens
// returned by Tokenize yields the original input.
type Token struct {
	Text string
	Kind Kind
}

// Tokenize splits text into word, space and special-symbol tokens.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	tokens := make([]Token, 0, len(text)/4+1)
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: text[start:i], Kind: Word})
			start = -1
		}
		kind := Special
		if unicode.IsSpace(r) {
			kind = Space
		}
		// slice the input so invalid bytes survive Join unchanged
		_, size := utf8.DecodeRuneInString(text[i:])
		tokens = append(tokens, Token{Text: text[i : i+size], Kind: kind})
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Kind: Word})
	}
	return tokens
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
