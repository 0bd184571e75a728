package resource

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Раскладки: ряды клавиш сверху вниз, без Shift.
var keyboardRows = map[string][]string{
	"en": {
		"`1234567890-=",
		"qwertyuiop[]",
		"asdfghjkl;'",
		"zxcvbnm,./",
	},
	"ru": {
		"ё1234567890-=",
		"йцукенгшщзхъ",
		"фывапролджэ",
		"ячсмитьбю.",
	},
}

// adjacentDistance is the largest grid distance at which two keys count as
// neighbours (horizontal, vertical and diagonal).
const adjacentDistance = 1.5

func keyPositions(rows []string) map[rune][2]int {
	m := make(map[rune][2]int)
	for r, row := range rows {
		c := 0
		for _, ch := range row {
			m[ch] = [2]int{r, c}
			c++
		}
	}
	return m
}

func keyDistance(pa, pb [2]int) float64 {
	dr := float64(pa[0] - pb[0])
	dc := float64(pa[1] - pb[1])
	return math.Sqrt(dr*dr + dc*dc)
}

// LayoutMapping builds a keyboard adjacency mapping from the built-in row
// layout for lang. Candidates are listed in layout order.
func LayoutMapping(lang string) (Mapping, error) {
	rows, ok := keyboardRows[lang]
	if !ok {
		return nil, fmt.Errorf("%w: no keyboard layout for %q", ErrUnknownLang, lang)
	}
	pos := keyPositions(rows)
	m := make(Mapping, len(pos))
	for _, row := range rows {
		for _, a := range row {
			var near []string
			for _, row2 := range rows {
				for _, b := range row2 {
					if a != b && keyDistance(pos[a], pos[b]) <= adjacentDistance {
						near = append(near, string(b))
					}
				}
			}
			m[string(a)] = near
		}
	}
	return m, nil
}

// KeyboardFlags select which character classes a keyboard table keeps.
type KeyboardFlags struct {
	SpecialChar bool
	Numeric     bool
	UpperCase   bool
}

func (f KeyboardFlags) allows(r rune) bool {
	if unicode.IsDigit(r) {
		return f.Numeric
	}
	if !unicode.IsLetter(r) {
		return f.SpecialChar
	}
	return true
}

func (f KeyboardFlags) allowsString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !f.allows(r) {
			return false
		}
	}
	return true
}

// KeyboardTable holds keyboard-adjacent candidates per character.
type KeyboardTable struct {
	m map[rune][]rune
}

// NewKeyboardTable filters base by flags. Keys and candidates that are not
// a single rune are ignored. With UpperCase set, uppercase variants of the
// candidates are added and an uppercase key is derived for every lowercase key.
func NewKeyboardTable(base Mapping, flags KeyboardFlags) *KeyboardTable {
	t := &KeyboardTable{m: make(map[rune][]rune, len(base))}
	derived := make(map[rune][]rune)
	for _, k := range base.Keys() {
		kr := []rune(k)
		if len(kr) != 1 || !flags.allows(kr[0]) {
			continue
		}
		var vals []string
		for _, v := range base[k] {
			if utf8.RuneCountInString(v) == 1 && flags.allowsString(v) && v != k {
				vals = append(vals, v)
			}
		}
		if flags.UpperCase {
			n := len(vals)
			for _, v := range vals[:n] {
				if up := toUpper(v); up != v {
					vals = append(vals, up)
				}
			}
		}
		vals = dedupe(vals)
		if len(vals) == 0 {
			continue
		}
		cands := []rune(strings.Join(vals, ""))
		t.m[kr[0]] = cands
		if flags.UpperCase && unicode.IsLower(kr[0]) {
			derived[unicode.ToUpper(kr[0])] = cands
		}
	}
	for k, v := range derived {
		if _, ok := t.m[k]; !ok {
			t.m[k] = v
		}
	}
	return t
}

// Candidates returns the neighbours of r, or nil when r has no entry.
// Uppercase keys exist only when the table was built with UpperCase, so
// without it uppercase characters are never replaced.
func (t *KeyboardTable) Candidates(r rune) []rune {
	return t.m[r]
}

// Len returns the number of keys in the table.
func (t *KeyboardTable) Len() int { return len(t.m) }

func toUpper(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToUpper(r)
	}
	return string(rs)
}
