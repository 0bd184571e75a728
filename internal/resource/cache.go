package resource

import (
	"sync"
)

// Tables are cached for the lifetime of the process, keyed by source and
// flags. Built tables are never mutated.
var (
	keyboardCache sync.Map // map[keyboardKey]*KeyboardTable
	ocrCache      sync.Map // map[string]*OCRTable
)

type keyboardKey struct {
	source string
	flags  KeyboardFlags
}

// Keyboard returns the keyboard table read from path, or the built-in layout
// for lang when path is empty.
func Keyboard(lang, path string, flags KeyboardFlags) (*KeyboardTable, error) {
	key := keyboardKey{source: sourceKey(lang, path), flags: flags}
	if v, ok := keyboardCache.Load(key); ok {
		return v.(*KeyboardTable), nil
	}
	var (
		base Mapping
		err  error
	)
	if path != "" {
		base, err = LoadMapping(path)
	} else {
		base, err = LayoutMapping(lang)
	}
	if err != nil {
		return nil, err
	}
	v, _ := keyboardCache.LoadOrStore(key, NewKeyboardTable(base, flags))
	return v.(*KeyboardTable), nil
}

// OCR returns the OCR table read from path, or the embedded table for lang
// when path is empty.
func OCR(lang, path string) (*OCRTable, error) {
	key := sourceKey(lang, path)
	if v, ok := ocrCache.Load(key); ok {
		return v.(*OCRTable), nil
	}
	var (
		base Mapping
		err  error
	)
	if path != "" {
		base, err = LoadMapping(path)
	} else {
		base, err = BuiltinOCR(lang)
	}
	if err != nil {
		return nil, err
	}
	v, _ := ocrCache.LoadOrStore(key, NewOCRTable(base))
	return v.(*OCRTable), nil
}

func sourceKey(lang, path string) string {
	if path != "" {
		return "file:" + path
	}
	return "lang:" + lang
}
