package resource

import (
	"embed"
	"fmt"
	"unicode/utf8"
)

//go:embed data/*.json
var builtin embed.FS

// BuiltinOCR returns the embedded OCR confusion mapping for lang.
func BuiltinOCR(lang string) (Mapping, error) {
	data, err := builtin.ReadFile("data/ocr_" + lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: no OCR table for %q", ErrUnknownLang, lang)
	}
	return ParseMapping(data)
}

// OCRTable maps a character to the strings an OCR engine may read instead.
// Candidates may be longer than one character ("m" -> "rn").
type OCRTable struct {
	m map[string][]string
}

// NewOCRTable builds a table from base. Every single-character candidate is
// also added in reverse (candidate -> key), then duplicates are removed.
func NewOCRTable(base Mapping) *OCRTable {
	m := make(map[string][]string, len(base)*2)
	for _, k := range base.Keys() {
		for _, v := range base[k] {
			if v == "" || v == k {
				continue
			}
			m[k] = append(m[k], v)
		}
	}
	for _, k := range base.Keys() {
		if utf8.RuneCountInString(k) != 1 {
			continue
		}
		for _, v := range base[k] {
			if v != k && utf8.RuneCountInString(v) == 1 {
				m[v] = append(m[v], k)
			}
		}
	}
	for k, v := range m {
		m[k] = dedupe(v)
	}
	return &OCRTable{m: m}
}

// Candidates returns the confusions for r.
func (t *OCRTable) Candidates(r rune) []string {
	return t.m[string(r)]
}

// Predict returns the confusions for an arbitrary key.
func (t *OCRTable) Predict(key string) []string {
	return t.m[key]
}

// Len returns the number of keys in the table.
func (t *OCRTable) Len() int { return len(t.m) }
