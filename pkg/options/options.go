package options

import "log/slog"

// Unbounded disables an upper bound (CharMax, WordMax).
const Unbounded = -1

// Defaults of every augmenter, applied before user options.
var (
	DefaultKeyboardOptions = AugmentOptions{
		CharMin: 1, CharMax: 10, CharP: 0.3,
		WordMin: 1, WordMax: 10, WordP: 0.3,
		MinChar:            4,
		Lang:               "en",
		IncludeUpperCase:   true,
		IncludeLowerCase:   true,
		IncludeNumeric:     true,
		IncludeSpecialChar: true,
	}

	DefaultOCROptions = AugmentOptions{
		CharMin: 2, CharMax: 10, CharP: 0.3,
		WordMin: 1, WordMax: 10, WordP: 0.3,
		MinChar: 1,
		Lang:    "en",
	}

	DefaultRandomCharOptions = AugmentOptions{
		CharMin: 1, CharMax: 10, CharP: 0.3,
		WordMin: 1, WordMax: 10, WordP: 0.3,
		MinChar:            4,
		Lang:               "en",
		Action:             "substitute",
		SwapMode:           "adjacent",
		SpecChar:           "!@#$%^&*()_+",
		IncludeUpperCase:   true,
		IncludeLowerCase:   true,
		IncludeNumeric:     true,
		IncludeSpecialChar: true,
	}

	DefaultRandomWordOptions = AugmentOptions{
		CharMin: 1, CharMax: Unbounded, CharP: 0.3,
		WordMin: 1, WordMax: 10, WordP: 0.3,
		Action:      "delete",
		TargetWords: []string{"_"},
	}
)

// AugmentOptions is the construction-time configuration of an augmenter.
// Fields that do not apply to a given augmenter are ignored by it.
type AugmentOptions struct {
	CharMin int
	CharMax int // Unbounded = no limit
	CharP   float64
	WordMin int
	WordMax int // Unbounded = no limit
	WordP   float64

	Stopwords []string
	MinChar   int

	Lang      string
	ModelPath string // keyboard adjacency or OCR confusion file, overrides Lang

	IncludeUpperCase   bool
	IncludeLowerCase   bool
	IncludeNumeric     bool
	IncludeSpecialChar bool

	Action     string
	SwapMode   string
	SpecChar   string
	Candidates []string

	TargetWords []string
	TargetMap   map[string][]string

	Logger *slog.Logger
}

type Options interface {
	Apply(options *AugmentOptions)
}

type FuncConfig struct {
	ops func(options *AugmentOptions)
}

func (w FuncConfig) Apply(conf *AugmentOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *AugmentOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Build applies opts on top of defaults. Slices and maps in defaults are
// copied so that options never alias the package-level defaults.
func Build(defaults AugmentOptions, opts ...Options) AugmentOptions {
	o := defaults
	o.Stopwords = append([]string(nil), defaults.Stopwords...)
	o.Candidates = append([]string(nil), defaults.Candidates...)
	o.TargetWords = append([]string(nil), defaults.TargetWords...)
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(&o)
		}
	}
	return o
}

func WithCharMin(n int) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.CharMin = n
	})
}

func WithCharMax(n int) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.CharMax = n
	})
}

func WithCharP(p float64) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.CharP = p
	})
}

// WithCharBounds sets min, max and percentage of characters per word.
func WithCharBounds(minN, maxN int, p float64) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.CharMin, options.CharMax, options.CharP = minN, maxN, p
	})
}

func WithWordMin(n int) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.WordMin = n
	})
}

func WithWordMax(n int) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.WordMax = n
	})
}

func WithWordP(p float64) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.WordP = p
	})
}

// WithWordBounds sets min, max and percentage of words per text.
func WithWordBounds(minN, maxN int, p float64) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.WordMin, options.WordMax, options.WordP = minN, maxN, p
	})
}

// WithStopwords adds words that are never augmented.
func WithStopwords(words ...string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.Stopwords = append(options.Stopwords, words...)
	})
}

func WithMinChar(n int) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.MinChar = n
	})
}

func WithLang(lang string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.Lang = lang
	})
}

func WithModelPath(path string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.ModelPath = path
	})
}

func WithIncludeUpperCase(v bool) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.IncludeUpperCase = v
	})
}

func WithIncludeLowerCase(v bool) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.IncludeLowerCase = v
	})
}

func WithIncludeNumeric(v bool) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.IncludeNumeric = v
	})
}

func WithIncludeSpecialChar(v bool) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.IncludeSpecialChar = v
	})
}

func WithAction(action string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.Action = action
	})
}

func WithSwapMode(mode string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.SwapMode = mode
	})
}

func WithSpecChar(chars string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.SpecChar = chars
	})
}

// WithCandidates replaces the class-based character pool entirely.
func WithCandidates(candidates ...string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.Candidates = candidates
	})
}

// WithTargetWords sets a flat pool of substitute words.
func WithTargetWords(words ...string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.TargetWords = words
		options.TargetMap = nil
	})
}

// WithTargetMap sets per-word substitutes. Words that are not keys are left
// unchanged.
func WithTargetMap(m map[string][]string) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.TargetMap = m
		options.TargetWords = nil
	})
}

func WithLogger(l *slog.Logger) Options {
	return NewFuncOption(func(options *AugmentOptions) {
		options.Logger = l
	})
}
