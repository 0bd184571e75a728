package augment

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode"

	"textaug/internal/resource"
	"textaug/pkg/options"
)

// Action is an edit applied to selected units.
type Action string

const (
	ActionInsert     Action = "insert"
	ActionSubstitute Action = "substitute"
	ActionSwap       Action = "swap"
	ActionDelete     Action = "delete"
)

func parseAction(s string, allowed ...Action) (Action, error) {
	for _, a := range allowed {
		if Action(s) == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrConfiguration, s)
}

// SwapMode selects the swap partner of a character.
type SwapMode string

const (
	// SwapAdjacent swaps with the left or right neighbour.
	SwapAdjacent SwapMode = "adjacent"
	// SwapMiddle swaps with any character except the first and the last one.
	SwapMiddle SwapMode = "middle"
	// SwapRandom swaps with any other character of the word.
	SwapRandom SwapMode = "random"
)

func parseSwapMode(s string) (SwapMode, error) {
	switch m := SwapMode(s); m {
	case SwapAdjacent, SwapMiddle, SwapRandom:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown swap_mode %q", ErrConfiguration, s)
}

// RandomChar inserts, substitutes, swaps or deletes random characters.
type RandomChar struct {
	policy   Policy
	action   Action
	swapMode SwapMode
	pool     []string
}

// NewRandomChar builds a random character augmenter. An explicit candidate
// list replaces the class-based pool.
func NewRandomChar(opts ...options.Options) (*RandomChar, error) {
	o := options.Build(options.DefaultRandomCharOptions, opts...)
	p, err := NewPolicy(o)
	if err != nil {
		return nil, err
	}
	action, err := parseAction(o.Action, ActionInsert, ActionSubstitute, ActionSwap, ActionDelete)
	if err != nil {
		return nil, err
	}
	mode, err := parseSwapMode(o.SwapMode)
	if err != nil {
		return nil, err
	}
	pool := o.Candidates
	if len(pool) == 0 {
		pool = resource.CharPool(o.Lang, resource.PoolFlags{
			UpperCase:   o.IncludeUpperCase,
			LowerCase:   o.IncludeLowerCase,
			Numeric:     o.IncludeNumeric,
			SpecialChar: o.IncludeSpecialChar,
		}, o.SpecChar)
	}
	if len(pool) == 0 && (action == ActionInsert || action == ActionSubstitute) {
		loggerFrom(o).Warn("random char pool is empty, augmenter is a no-op",
			slog.String("action", string(action)))
	}
	return &RandomChar{policy: p, action: action, swapMode: mode, pool: pool}, nil
}

func (a *RandomChar) Name() string { return "random_char" }

func (a *RandomChar) Augment(text string, rng *rand.Rand) string {
	var edit charEditor
	switch a.action {
	case ActionInsert:
		edit = a.insert
	case ActionSubstitute:
		edit = a.substitute
	case ActionSwap:
		edit = a.swap
	case ActionDelete:
		edit = a.delete
	}
	return augmentChars(a.policy, text, rng, false, edit)
}

// insert puts one pool draw in front of every selected character.
func (a *RandomChar) insert(word []rune, picks []int, rng *rand.Rand) string {
	if len(a.pool) == 0 {
		return string(word)
	}
	var sb strings.Builder
	next := 0
	for i, r := range word {
		if next < len(picks) && picks[next] == i {
			next++
			sb.WriteString(a.pool[rng.IntN(len(a.pool))])
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// substitute replaces every selected character with a pool draw different
// from it. Characters whose only candidate is themselves stay unchanged.
func (a *RandomChar) substitute(word []rune, picks []int, rng *rand.Rand) string {
	repl := make(map[int]string, len(picks))
	for _, i := range picks {
		orig := string(word[i])
		cands := make([]string, 0, len(a.pool))
		for _, c := range a.pool {
			if c != orig {
				cands = append(cands, c)
			}
		}
		if len(cands) > 0 {
			repl[i] = cands[rng.IntN(len(cands))]
		}
	}
	var sb strings.Builder
	for i, r := range word {
		if s, ok := repl[i]; ok {
			sb.WriteString(s)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// delete drops selected characters but always keeps at least one.
func (a *RandomChar) delete(word []rune, picks []int, _ *rand.Rand) string {
	drop := make(map[int]bool, len(picks))
	left := len(word)
	for _, i := range picks {
		if left == 1 {
			break
		}
		drop[i] = true
		left--
	}
	out := make([]rune, 0, left)
	for i, r := range word {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return string(out)
}

// swap exchanges every selected character with a partner chosen by the swap
// mode, in ascending order of position.
func (a *RandomChar) swap(word []rune, picks []int, rng *rand.Rand) string {
	if len(word) < 2 {
		return string(word)
	}
	for _, i := range picks {
		j, ok := a.partner(len(word), i, rng)
		if !ok {
			continue
		}
		swapKeepCase(word, i, j)
	}
	return string(word)
}

func (a *RandomChar) partner(n, pos int, rng *rand.Rand) (int, bool) {
	var cands []int
	switch a.swapMode {
	case SwapAdjacent:
		switch {
		case pos == 0:
			return 1, true
		case pos == n-1:
			return n - 2, true
		case rng.IntN(2) == 0:
			return pos - 1, true
		default:
			return pos + 1, true
		}
	case SwapMiddle:
		for j := 1; j < n-1; j++ {
			if j != pos {
				cands = append(cands, j)
			}
		}
	case SwapRandom:
		for j := 0; j < n; j++ {
			if j != pos {
				cands = append(cands, j)
			}
		}
	}
	if len(cands) == 0 {
		return 0, false
	}
	return cands[rng.IntN(len(cands))], true
}

// swapKeepCase swaps two runes but keeps the letter case of each position:
// "Hello" with positions 0 and 1 becomes "Ehllo".
func swapKeepCase(rs []rune, i, j int) {
	a, b := rs[i], rs[j]
	if unicode.IsLetter(a) && unicode.IsLetter(b) && unicode.IsUpper(a) != unicode.IsUpper(b) {
		if unicode.IsUpper(a) {
			rs[i], rs[j] = unicode.ToUpper(b), unicode.ToLower(a)
		} else {
			rs[i], rs[j] = unicode.ToLower(b), unicode.ToUpper(a)
		}
		return
	}
	rs[i], rs[j] = b, a
}
