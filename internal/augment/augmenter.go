// Package augment implements the text augmenters: keyboard typos, OCR
// confusions, random character edits and random word edits.
//
// Every augmenter is immutable after construction and safe for concurrent
// use; all per-call state lives on the stack of Augment and in the caller's
// random source.
package augment

import (
	"log/slog"
	"math/rand/v2"

	"textaug/internal/doc"
	"textaug/pkg/options"
)

// Augmenter produces one noisy variant of a text.
type Augmenter interface {
	// Name identifies the augmenter in logs and metrics.
	Name() string
	// Augment returns a perturbed copy of text. rng must not be shared with
	// concurrent callers.
	Augment(text string, rng *rand.Rand) string
}

// charEditor rewrites one selected word. picks are ascending rune indices.
type charEditor func(word []rune, picks []int, rng *rand.Rand) string

// augmentChars selects eligible words, then characters within each selected
// word, and lets edit rewrite every selected word. Words are rewritten as
// whole tokens, so edits that change length never shift other words.
func augmentChars(p Policy, text string, rng *rand.Rand, specialAsWords bool, edit charEditor) string {
	tokens := doc.Tokenize(text)
	var words []int
	for i, t := range tokens {
		isWord := t.Kind == doc.Word || (specialAsWords && t.Kind == doc.Special)
		if isWord && p.Eligible(t.Text) {
			words = append(words, i)
		}
	}
	picked := sample(rng, words, ResolveCount(len(words), p.Word))
	if len(picked) == 0 {
		return text
	}
	for _, ti := range picked {
		runes := []rune(tokens[ti].Text)
		chars := sample(rng, indexRange(len(runes)), ResolveCount(len(runes), p.Char))
		if len(chars) == 0 {
			continue
		}
		tokens[ti].Text = edit(runes, chars, rng)
	}
	return doc.Join(tokens)
}

func loggerFrom(o options.AugmentOptions) *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
