// Package resource loads the candidate tables used by the augmenters:
// keyboard adjacency, OCR confusions and random character pools. Tables are
// built once and are safe for concurrent read-only use.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
)

var (
	// ErrInvalidResource reports an unreadable or malformed resource file.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrUnknownLang reports a locale without a built-in table.
	ErrUnknownLang = errors.New("unknown lang")
)

// Mapping maps a unit (usually a single character) to its candidates.
type Mapping map[string][]string

// Keys returns the mapping keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseMapping decodes a JSON object of the form {"key": ["candidate", ...]}.
// Non-string list entries are ignored and keys left without candidates are
// dropped. Any other top-level shape is an error.
func ParseMapping(data []byte) (Mapping, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResource, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidResource)
	}
	m := make(Mapping, len(raw))
	for k, v := range raw {
		var items []any
		if err := json.Unmarshal(v, &items); err != nil {
			continue
		}
		vals := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.(string); ok {
				vals = append(vals, s)
			}
		}
		if len(vals) > 0 {
			m[k] = vals
		}
	}
	return m, nil
}

// LoadMapping memory-maps the file at path and parses it with ParseMapping.
func LoadMapping(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidResource, path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrInvalidResource, path, err)
	}
	if st.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidResource, path)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrInvalidResource, path, err)
	}
	defer data.Unmap()

	m, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func dedupe(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := vals[:0:0]
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
