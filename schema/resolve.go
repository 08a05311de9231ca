package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// RESOLVER — Semantic field → concrete column
// ============================================================================
// Resolution is eager: every field a caller asks for is looked up once, at
// load time. A required field with no matching alias is an error right here
// rather than a failed lookup three steps later.
// ============================================================================

// Resolved maps semantic field keys to the concrete columns found in one table.
type Resolved struct {
	Columns map[string]string `json:"columns"`
	Fields  []Field           `json:"fields"` // resolved fields, in request order
}

// Column returns the concrete column for a field key, or "" if unresolved.
func (r Resolved) Column(key string) string {
	return r.Columns[key]
}

// Has reports whether key resolved to a column.
func (r Resolved) Has(key string) bool {
	_, ok := r.Columns[key]
	return ok
}

// MissingColumnError reports a required field none of whose aliases exist.
type MissingColumnError struct {
	Field     string
	Aliases   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column for field %q: tried [%s], table has [%s]",
		e.Field, strings.Join(e.Aliases, ", "), strings.Join(e.Available, ", "))
}

// PickColumn returns the first alias present among headers.
// Headers are compared after trimming surrounding whitespace; matching is
// case-sensitive so "Year" and "year" stay distinct aliases.
func PickColumn(headers []string, aliases []string) (string, bool) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	for _, a := range aliases {
		if present[a] {
			return a, true
		}
	}
	return "", false
}

// Resolve maps each requested field key to a column in headers.
// With no keys, every field in cfg is resolved. Unknown keys are an error.
// Optional fields that do not resolve are left out of the result.
func Resolve(headers []string, cfg Config, keys ...string) (Resolved, error) {
	if len(keys) == 0 {
		keys = cfg.Keys()
	}

	res := Resolved{Columns: make(map[string]string, len(keys))}
	for _, key := range keys {
		if _, done := res.Columns[key]; done {
			continue
		}
		f, ok := cfg.Field(key)
		if !ok {
			return Resolved{}, fmt.Errorf("unknown field %q", key)
		}
		col, ok := PickColumn(headers, f.Aliases)
		if !ok {
			if f.Required {
				return Resolved{}, &MissingColumnError{
					Field:     key,
					Aliases:   f.Aliases,
					Available: trimAll(headers),
				}
			}
			continue
		}
		res.Columns[key] = col
		res.Fields = append(res.Fields, f)
	}
	return res, nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
