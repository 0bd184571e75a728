package augment

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"textaug/internal/doc"
	"textaug/pkg/options"
)

// RandomWord substitutes, swaps or deletes whole words.
type RandomWord struct {
	policy  Policy
	action  Action
	targets []string
	mapping map[string][]string
}

// NewRandomWord builds a random word augmenter. Substitution draws from the
// target word list, or, when a target map is set, from the entry of the
// selected word.
func NewRandomWord(opts ...options.Options) (*RandomWord, error) {
	o := options.Build(options.DefaultRandomWordOptions, opts...)
	p, err := NewPolicy(o)
	if err != nil {
		return nil, err
	}
	action, err := parseAction(o.Action, ActionSubstitute, ActionSwap, ActionDelete)
	if err != nil {
		return nil, err
	}
	a := &RandomWord{policy: p, action: action}
	if o.TargetMap != nil {
		a.mapping = make(map[string][]string, len(o.TargetMap))
		for k, v := range o.TargetMap {
			if len(v) > 0 {
				a.mapping[k] = append([]string(nil), v...)
			}
		}
	} else {
		a.targets = append([]string(nil), o.TargetWords...)
	}
	if action == ActionSubstitute && a.mapping == nil && len(a.targets) == 0 {
		return nil, fmt.Errorf("%w: substitute needs target words", ErrConfiguration)
	}
	loggerFrom(o).Debug("random word augmenter ready",
		slog.String("action", string(action)),
		slog.Int("targets", len(a.targets)),
		slog.Int("mapped", len(a.mapping)))
	return a, nil
}

func (a *RandomWord) Name() string { return "random_word" }

func (a *RandomWord) Augment(text string, rng *rand.Rand) string {
	tokens := doc.Tokenize(text)
	var words []int
	for i, t := range tokens {
		if t.Kind == doc.Word && a.policy.Eligible(t.Text) {
			words = append(words, i)
		}
	}
	// picks index into words, not into tokens
	picks := sample(rng, indexRange(len(words)), ResolveCount(len(words), a.policy.Word))
	if len(picks) == 0 {
		return text
	}
	switch a.action {
	case ActionSubstitute:
		for _, w := range picks {
			t := &tokens[words[w]]
			if pool := a.pool(t.Text); len(pool) > 0 {
				t.Text = pool[rng.IntN(len(pool))]
			}
		}
	case ActionSwap:
		if len(words) < 2 {
			return text
		}
		for _, w := range picks {
			other := w + 1
			switch {
			case w == len(words)-1:
				other = w - 1
			case w > 0 && rng.IntN(2) == 0:
				other = w - 1
			}
			x, y := words[w], words[other]
			tokens[x].Text, tokens[y].Text = tokens[y].Text, tokens[x].Text
		}
	case ActionDelete:
		return deleteWords(tokens, words, picks)
	}
	return doc.Join(tokens)
}

func (a *RandomWord) pool(word string) []string {
	if a.mapping != nil {
		return a.mapping[word]
	}
	return a.targets
}

// deleteWords drops the selected words together with the whitespace around
// them. Neighbours of a removed word are separated by a single space, and no
// whitespace is left at the ends of the text where a word was removed.
func deleteWords(tokens []doc.Token, words, picks []int) string {
	drop := make(map[int]bool, len(picks))
	for _, w := range picks {
		drop[words[w]] = true
	}
	out := make([]string, 0, len(tokens))
	gap, needSpace := false, false
	for i, t := range tokens {
		if drop[i] {
			for len(out) > 0 && isBlank(out[len(out)-1]) {
				out = out[:len(out)-1]
			}
			gap, needSpace = true, needSpace || len(out) > 0
			continue
		}
		if gap {
			if t.Kind == doc.Space {
				continue
			}
			if needSpace {
				out = append(out, " ")
			}
			gap, needSpace = false, false
		}
		out = append(out, t.Text)
	}
	return strings.Join(out, "")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
