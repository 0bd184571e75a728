package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-playground/validator/v10"

	"textaug/internal/augment"
	"textaug/pkg/options"
)

// Spec declares an augmenter. Pointer fields are optional; nil keeps the
// augmenter's default.
type Spec struct {
	Type string `json:"type" yaml:"type" validate:"required,oneof=keyboard ocr random_char random_word"`
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`
	// ModelPath is the keyboard adjacency or OCR confusion file.
	ModelPath string `json:"model_path,omitempty" yaml:"model_path,omitempty"`

	CharMin *int     `json:"aug_char_min,omitempty" yaml:"aug_char_min,omitempty" validate:"omitempty,gte=0"`
	CharMax *int     `json:"aug_char_max,omitempty" yaml:"aug_char_max,omitempty" validate:"omitempty,gte=0"`
	CharP   *float64 `json:"aug_char_p,omitempty" yaml:"aug_char_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	WordMin *int     `json:"aug_word_min,omitempty" yaml:"aug_word_min,omitempty" validate:"omitempty,gte=0"`
	WordMax *int     `json:"aug_word_max,omitempty" yaml:"aug_word_max,omitempty" validate:"omitempty,gte=0"`
	WordP   *float64 `json:"aug_word_p,omitempty" yaml:"aug_word_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinChar *int     `json:"min_char,omitempty" yaml:"min_char,omitempty" validate:"omitempty,gte=0"`

	Stopwords []string `json:"stopwords,omitempty" yaml:"stopwords,omitempty"`

	IncludeUpperCase   *bool `json:"include_upper_case,omitempty" yaml:"include_upper_case,omitempty"`
	IncludeLowerCase   *bool `json:"include_lower_case,omitempty" yaml:"include_lower_case,omitempty"`
	IncludeNumeric     *bool `json:"include_numeric,omitempty" yaml:"include_numeric,omitempty"`
	IncludeSpecialChar *bool `json:"include_special_char,omitempty" yaml:"include_special_char,omitempty"`

	Action     string   `json:"action,omitempty" yaml:"action,omitempty" validate:"omitempty,oneof=insert substitute swap delete"`
	SwapMode   string   `json:"swap_mode,omitempty" yaml:"swap_mode,omitempty" validate:"omitempty,oneof=adjacent middle random"`
	SpecChar   string   `json:"spec_char,omitempty" yaml:"spec_char,omitempty"`
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	TargetWords []string            `json:"target_words,omitempty" yaml:"target_words,omitempty"`
	TargetMap   map[string][]string `json:"target_map,omitempty" yaml:"target_map,omitempty"`
}

var validate = validator.New()

// Validate checks field ranges and enumerations. Cross-field rules (min
// against max) are checked by the augmenter constructors.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", augment.ErrConfiguration, err)
	}
	return nil
}

// WithDefaults fills the unset fields of s from base. When s names a
// different augmenter than base only Lang is inherited, since the other
// fields are specific to base's type.
func (s Spec) WithDefaults(base Spec) Spec {
	if s.Type == "" {
		s.Type = base.Type
	}
	if s.Lang == "" {
		s.Lang = base.Lang
	}
	if s.Type != base.Type {
		return s
	}
	if s.ModelPath == "" {
		s.ModelPath = base.ModelPath
	}
	fillInt := func(v **int, b *int) {
		if *v == nil {
			*v = b
		}
	}
	fillFloat := func(v **float64, b *float64) {
		if *v == nil {
			*v = b
		}
	}
	fillBool := func(v **bool, b *bool) {
		if *v == nil {
			*v = b
		}
	}
	fillInt(&s.CharMin, base.CharMin)
	fillInt(&s.CharMax, base.CharMax)
	fillFloat(&s.CharP, base.CharP)
	fillInt(&s.WordMin, base.WordMin)
	fillInt(&s.WordMax, base.WordMax)
	fillFloat(&s.WordP, base.WordP)
	fillInt(&s.MinChar, base.MinChar)
	fillBool(&s.IncludeUpperCase, base.IncludeUpperCase)
	fillBool(&s.IncludeLowerCase, base.IncludeLowerCase)
	fillBool(&s.IncludeNumeric, base.IncludeNumeric)
	fillBool(&s.IncludeSpecialChar, base.IncludeSpecialChar)
	if s.Stopwords == nil {
		s.Stopwords = base.Stopwords
	}
	if s.Action == "" {
		s.Action = base.Action
	}
	if s.SwapMode == "" {
		s.SwapMode = base.SwapMode
	}
	if s.SpecChar == "" {
		s.SpecChar = base.SpecChar
	}
	if s.Candidates == nil {
		s.Candidates = base.Candidates
	}
	if s.TargetWords == nil && s.TargetMap == nil {
		s.TargetWords, s.TargetMap = base.TargetWords, base.TargetMap
	}
	return s
}

// Options converts the spec into augmenter options.
func (s Spec) Options() []options.Options {
	var opts []options.Options
	if s.Lang != "" {
		opts = append(opts, options.WithLang(s.Lang))
	}
	if s.ModelPath != "" {
		opts = append(opts, options.WithModelPath(s.ModelPath))
	}
	setInt := func(v *int, f func(int) options.Options) {
		if v != nil {
			opts = append(opts, f(*v))
		}
	}
	setFloat := func(v *float64, f func(float64) options.Options) {
		if v != nil {
			opts = append(opts, f(*v))
		}
	}
	setBool := func(v *bool, f func(bool) options.Options) {
		if v != nil {
			opts = append(opts, f(*v))
		}
	}
	setInt(s.CharMin, options.WithCharMin)
	setInt(s.CharMax, options.WithCharMax)
	setFloat(s.CharP, options.WithCharP)
	setInt(s.WordMin, options.WithWordMin)
	setInt(s.WordMax, options.WithWordMax)
	setFloat(s.WordP, options.WithWordP)
	setInt(s.MinChar, options.WithMinChar)
	setBool(s.IncludeUpperCase, options.WithIncludeUpperCase)
	setBool(s.IncludeLowerCase, options.WithIncludeLowerCase)
	setBool(s.IncludeNumeric, options.WithIncludeNumeric)
	setBool(s.IncludeSpecialChar, options.WithIncludeSpecialChar)
	if len(s.Stopwords) > 0 {
		opts = append(opts, options.WithStopwords(s.Stopwords...))
	}
	if s.Action != "" {
		opts = append(opts, options.WithAction(s.Action))
	}
	if s.SwapMode != "" {
		opts = append(opts, options.WithSwapMode(s.SwapMode))
	}
	if s.SpecChar != "" {
		opts = append(opts, options.WithSpecChar(s.SpecChar))
	}
	if len(s.Candidates) > 0 {
		opts = append(opts, options.WithCandidates(s.Candidates...))
	}
	switch {
	case s.TargetMap != nil:
		opts = append(opts, options.WithTargetMap(s.TargetMap))
	case len(s.TargetWords) > 0:
		opts = append(opts, options.WithTargetWords(s.TargetWords...))
	}
	return opts
}

// Factory builds an augmenter from options.
type Factory func(opts ...options.Options) (augment.Augmenter, error)

// Augmenters is the factory table, keyed by Spec.Type.
var Augmenters = map[string]Factory{
	"keyboard": func(opts ...options.Options) (augment.Augmenter, error) {
		return augment.NewKeyboard(opts...)
	},
	"ocr": func(opts ...options.Options) (augment.Augmenter, error) {
		return augment.NewOCR(opts...)
	},
	"random_char": func(opts ...options.Options) (augment.Augmenter, error) {
		return augment.NewRandomChar(opts...)
	},
	"random_word": func(opts ...options.Options) (augment.Augmenter, error) {
		return augment.NewRandomWord(opts...)
	},
}

// Names returns the registered augmenter types in sorted order.
func Names() []string {
	names := make([]string, 0, len(Augmenters))
	for n := range Augmenters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build validates spec and constructs its augmenter. extra are appended
// after the spec's own options (e.g. stopwords from a word store).
func Build(spec Spec, logger *slog.Logger, extra ...options.Options) (augment.Augmenter, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	f, ok := Augmenters[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown augmenter %q", augment.ErrConfiguration, spec.Type)
	}
	opts := append(spec.Options(), extra...)
	if logger != nil {
		opts = append(opts, options.WithLogger(logger))
	}
	return f(opts...)
}
