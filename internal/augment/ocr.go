package augment

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"textaug/internal/resource"
	"textaug/pkg/options"
)

// OCR substitutes characters with strings an OCR engine commonly confuses
// them with. A replacement may be longer than one character.
type OCR struct {
	policy Policy
	table  *resource.OCRTable
}

// NewOCR builds an OCR augmenter from options.WithModelPath or the embedded
// table for the configured lang.
func NewOCR(opts ...options.Options) (*OCR, error) {
	o := options.Build(options.DefaultOCROptions, opts...)
	p, err := NewPolicy(o)
	if err != nil {
		return nil, err
	}
	table, err := resource.OCR(o.Lang, o.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: ocr table: %w", ErrConfiguration, err)
	}
	loggerFrom(o).Debug("ocr augmenter ready",
		slog.String("lang", o.Lang),
		slog.String("model_path", o.ModelPath),
		slog.Int("keys", table.Len()))
	return &OCR{policy: p, table: table}, nil
}

func (a *OCR) Name() string { return "ocr" }

// Augment rebuilds every selected word in one left-to-right pass against its
// original runes, so multi-character replacements never overlap.
func (a *OCR) Augment(text string, rng *rand.Rand) string {
	return augmentChars(a.policy, text, rng, false, func(word []rune, picks []int, rng *rand.Rand) string {
		var sb strings.Builder
		next := 0
		for i, r := range word {
			if next < len(picks) && picks[next] == i {
				next++
				if c := a.table.Candidates(r); len(c) > 0 {
					sb.WriteString(c[rng.IntN(len(c))])
					continue
				}
			}
			sb.WriteRune(r)
		}
		return sb.String()
	})
}

// Predict returns the OCR confusions recorded for key.
func (a *OCR) Predict(key string) []string {
	return a.table.Predict(key)
}
