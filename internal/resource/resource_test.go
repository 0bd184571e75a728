package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]byte(`{"a":["b",1,null,"c"],"x":[],"y":"z","n":[2]}`))
	require.NoError(t, err)
	assert.Equal(t, Mapping{"a": {"b", "c"}}, m)

	_, err = ParseMapping([]byte(`["a","b"]`))
	assert.ErrorIs(t, err, ErrInvalidResource)

	_, err = ParseMapping([]byte(`{"a":`))
	assert.ErrorIs(t, err, ErrInvalidResource)

	_, err = ParseMapping([]byte(`null`))
	assert.ErrorIs(t, err, ErrInvalidResource)
}

func TestLoadMapping(t *testing.T) {
	path := writeFile(t, "kb.json", `{"a":["s","q"],"s":["a","d"]}`)
	m, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "q"}, m["a"])
	assert.Equal(t, []string{"a", "s"}, m.Keys())
}

func TestLoadMapping_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeFile(t, "empty.json", "") },
		},
		{
			name: "malformed json",
			path: func(t *testing.T) string { return writeFile(t, "bad.json", "{not json") },
		},
		{
			name: "null document",
			path: func(t *testing.T) string { return writeFile(t, "null.json", "null") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMapping(tt.path(t))
			assert.ErrorIs(t, err, ErrInvalidResource)
		})
	}
}

func TestLayoutMapping(t *testing.T) {
	m, err := LayoutMapping("en")
	require.NoError(t, err)
	assert.Equal(t, []string{"`", "1", "w", "a", "s"}, m["q"])
	assert.Contains(t, m["g"], "h")
	assert.Contains(t, m["g"], "t")
	assert.NotContains(t, m["g"], "g")

	ru, err := LayoutMapping("ru")
	require.NoError(t, err)
	assert.Contains(t, ru["ф"], "ы")
	assert.Contains(t, ru["ф"], "й")

	_, err = LayoutMapping("xx")
	assert.ErrorIs(t, err, ErrUnknownLang)
}

func TestKeyboardTable_Flags(t *testing.T) {
	base, err := LayoutMapping("en")
	require.NoError(t, err)

	plain := NewKeyboardTable(base, KeyboardFlags{})
	assert.Equal(t, []rune("was"), plain.Candidates('q'))
	assert.Nil(t, plain.Candidates('Q'), "no uppercase keys without UpperCase")
	assert.Nil(t, plain.Candidates('1'), "numeric keys are dropped")
	assert.Nil(t, plain.Candidates(';'), "special keys are dropped")

	upper := NewKeyboardTable(base, KeyboardFlags{UpperCase: true})
	assert.Equal(t, []rune("wasWAS"), upper.Candidates('q'))
	assert.Equal(t, []rune("wasWAS"), upper.Candidates('Q'))

	full := NewKeyboardTable(base, KeyboardFlags{UpperCase: true, Numeric: true, SpecialChar: true})
	assert.Equal(t, []rune("`1wasWAS"), full.Candidates('q'))
	assert.NotNil(t, full.Candidates('1'))
	assert.Greater(t, full.Len(), plain.Len())
}

func TestKeyboardTable_FromFile(t *testing.T) {
	base := Mapping{"a": {"s", "1", "!", "sd", "a"}, "7": {"8"}}
	tbl := NewKeyboardTable(base, KeyboardFlags{})
	assert.Equal(t, []rune("s"), tbl.Candidates('a'))
	assert.Nil(t, tbl.Candidates('7'))
	assert.Equal(t, 1, tbl.Len())
}

func TestOCRTable(t *testing.T) {
	base, err := BuiltinOCR("en")
	require.NoError(t, err)
	tbl := NewOCRTable(base)

	assert.Equal(t, []string{"rn"}, tbl.Candidates('m'))
	assert.Equal(t, []string{"u", "0"}, tbl.Candidates('o'), "reverse mapping appended")
	assert.Equal(t, []string{"s", "S", "@", "&", "0", "5"}, tbl.Candidates('8'))
	assert.Nil(t, tbl.Candidates('x'))
	assert.Nil(t, tbl.Predict("rn"), "multi-character candidates are not reversed")

	_, err = BuiltinOCR("zz")
	assert.ErrorIs(t, err, ErrUnknownLang)

	ru, err := BuiltinOCR("ru")
	require.NoError(t, err)
	assert.NotEmpty(t, NewOCRTable(ru).Candidates('ш'))
}

func TestOCRTable_Dedupe(t *testing.T) {
	tbl := NewOCRTable(Mapping{"a": {"b", "b", "a"}, "b": {"a"}})
	assert.Equal(t, []string{"b"}, tbl.Candidates('a'))
	assert.Equal(t, []string{"a"}, tbl.Candidates('b'))
}

func TestCharPool(t *testing.T) {
	all := PoolFlags{UpperCase: true, LowerCase: true, Numeric: true, SpecialChar: true}
	assert.Len(t, CharPool("en", all, ""), 74)
	assert.Len(t, CharPool("ru", PoolFlags{UpperCase: true, LowerCase: true, Numeric: true}, ""), 76)
	assert.Equal(t, CharPool("en", all, ""), CharPool("de", all, ""), "unknown locale falls back to en")
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "?", "!"},
		CharPool("en", PoolFlags{Numeric: true, SpecialChar: true}, "?!?"))
	assert.Empty(t, CharPool("en", PoolFlags{}, ""))
}

func TestCache(t *testing.T) {
	a, err := Keyboard("en", "", KeyboardFlags{Numeric: true})
	require.NoError(t, err)
	b, err := Keyboard("en", "", KeyboardFlags{Numeric: true})
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := Keyboard("en", "", KeyboardFlags{})
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	path := writeFile(t, "ocr.json", `{"m":["rn"]}`)
	o, err := OCR("en", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rn"}, o.Candidates('m'))
	assert.Nil(t, o.Candidates('0'), "explicit path takes precedence over lang")

	_, err = Keyboard("", filepath.Join(t.TempDir(), "missing.json"), KeyboardFlags{})
	assert.ErrorIs(t, err, ErrInvalidResource)
	_, err = OCR("xx", "")
	assert.ErrorIs(t, err, ErrUnknownLang)
}
