package augment

import (
	"fmt"
	"math"
	"unicode/utf8"

	"textaug/pkg/options"
)

// Bounds controls how many units of one level (characters or words) are
// augmented.
type Bounds struct {
	Min int
	Max int // options.Unbounded for no upper limit
	P   float64
}

func (b Bounds) validate(level string) error {
	if b.Min < 0 {
		return fmt.Errorf("%w: %s min %d is negative", ErrConfiguration, level, b.Min)
	}
	if b.Max < options.Unbounded {
		return fmt.Errorf("%w: %s max %d is negative", ErrConfiguration, level, b.Max)
	}
	if b.Max != options.Unbounded && b.Min > b.Max {
		return fmt.Errorf("%w: %s min %d exceeds max %d", ErrConfiguration, level, b.Min, b.Max)
	}
	if math.IsNaN(b.P) || b.P < 0 || b.P > 1 {
		return fmt.Errorf("%w: %s p %v outside [0, 1]", ErrConfiguration, level, b.P)
	}
	return nil
}

// ResolveCount returns how many of n eligible units to augment:
// round(n*p) clamped to [min, max] (max defaults to n) and then to [0, n].
func ResolveCount(n int, b Bounds) int {
	if n <= 0 {
		return 0
	}
	hi := n
	if b.Max != options.Unbounded {
		hi = b.Max
	}
	k := int(math.Round(float64(n) * b.P))
	k = max(k, b.Min)
	k = min(k, hi, n)
	return max(k, 0)
}

// Policy holds the selection parameters shared by all augmenters. It is
// immutable after construction.
type Policy struct {
	Char      Bounds
	Word      Bounds
	MinChar   int
	stopwords map[string]struct{}
}

// NewPolicy validates the bounds in o and builds a Policy.
func NewPolicy(o options.AugmentOptions) (Policy, error) {
	p := Policy{
		Char:    Bounds{Min: o.CharMin, Max: o.CharMax, P: o.CharP},
		Word:    Bounds{Min: o.WordMin, Max: o.WordMax, P: o.WordP},
		MinChar: o.MinChar,
	}
	if err := p.Char.validate("char"); err != nil {
		return Policy{}, err
	}
	if err := p.Word.validate("word"); err != nil {
		return Policy{}, err
	}
	if o.MinChar < 0 {
		return Policy{}, fmt.Errorf("%w: min_char %d is negative", ErrConfiguration, o.MinChar)
	}
	if len(o.Stopwords) > 0 {
		p.stopwords = make(map[string]struct{}, len(o.Stopwords))
		for _, w := range o.Stopwords {
			p.stopwords[w] = struct{}{}
		}
	}
	return p, nil
}

// IsStopword reports whether w is excluded from augmentation.
func (p Policy) IsStopword(w string) bool {
	_, ok := p.stopwords[w]
	return ok
}

// Eligible reports whether a word may be selected: not a stopword and at
// least MinChar characters long.
func (p Policy) Eligible(w string) bool {
	return !p.IsStopword(w) && utf8.RuneCountInString(w) >= p.MinChar
}
