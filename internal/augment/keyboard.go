package augment

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"textaug/internal/resource"
	"textaug/pkg/options"
)

// Keyboard substitutes characters with keys adjacent on a keyboard layout.
type Keyboard struct {
	policy  Policy
	table   *resource.KeyboardTable
	special bool
}

// NewKeyboard builds a keyboard augmenter. The adjacency table comes from
// options.WithModelPath if set, otherwise from the built-in layout for the
// configured lang.
func NewKeyboard(opts ...options.Options) (*Keyboard, error) {
	o := options.Build(options.DefaultKeyboardOptions, opts...)
	p, err := NewPolicy(o)
	if err != nil {
		return nil, err
	}
	table, err := resource.Keyboard(o.Lang, o.ModelPath, resource.KeyboardFlags{
		SpecialChar: o.IncludeSpecialChar,
		Numeric:     o.IncludeNumeric,
		UpperCase:   o.IncludeUpperCase,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: keyboard table: %w", ErrConfiguration, err)
	}
	loggerFrom(o).Debug("keyboard augmenter ready",
		slog.String("lang", o.Lang),
		slog.String("model_path", o.ModelPath),
		slog.Int("keys", table.Len()))
	return &Keyboard{policy: p, table: table, special: o.IncludeSpecialChar}, nil
}

func (k *Keyboard) Name() string { return "keyboard" }

// Augment replaces selected characters in place; characters without
// neighbours in the table are left as they are.
func (k *Keyboard) Augment(text string, rng *rand.Rand) string {
	return augmentChars(k.policy, text, rng, k.special, func(word []rune, picks []int, rng *rand.Rand) string {
		for _, i := range picks {
			c := k.table.Candidates(word[i])
			if len(c) == 0 {
				continue
			}
			word[i] = c[rng.IntN(len(c))]
		}
		return string(word)
	})
}
