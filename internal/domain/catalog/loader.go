package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a known-skills JSON document: {"Role": ["skill", ...], ...}.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return LoadJSON(f)
}

// LoadJSON decodes the catalog keeping object key order, which becomes the
// tie-break order for ranking.
func LoadJSON(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidCatalog)
	}

	inputs := make([]RoleInput, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrInvalidCatalog, keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: role %q: %v", ErrInvalidCatalog, name, err)
		}

		skills, err := decodeSkills(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: role %q: %v", ErrInvalidCatalog, name, err)
		}
		inputs = append(inputs, RoleInput{Name: name, Skills: skills})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after catalog object", ErrInvalidCatalog)
	}

	return New(inputs)
}

func decodeSkills(raw json.RawMessage) ([]string, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.New("skills must be an array of strings")
	}
	if items == nil {
		return nil, errors.New("skills must be an array of strings")
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("skill at index %d is not a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}
