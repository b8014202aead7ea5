// Package permdoc models permission documents: nested mappings from a
// resource type to its capability flags and visibility scopes.
//
// A role carries a baseline document and a principal may carry an override
// document. Both are stored serialized and may be malformed; Parse reports
// that so callers can degrade to an empty document.
//
//	{
//	  "candidates": {"view_scope": "team", "create": true, "edit_scope": "own"},
//	  "dashboard":  {"view_scope": "own", "view_financial": false}
//	}
package permdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotObject is returned by Parse when the payload is valid JSON but
// not an object.
var ErrNotObject = errors.New("permdoc: document is not an object")

// Document is a parsed permission document. The zero value is an empty
// document that grants nothing.
type Document map[string]any

// Parse decodes a serialized document. Empty input and JSON null decode
// to an empty document without error.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, nil
	}
	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Document{}, fmt.Errorf("permdoc: parse: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return Document{}, ErrNotObject
	}
	return Document(m), nil
}

// Encode serializes d. A nil document encodes as "{}".
func (d Document) Encode() (json.RawMessage, error) {
	if d == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(map[string]any(d))
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return Document(cloneMap(d))
}

// Lookup walks path through nested mappings. It reports false when any
// segment is missing or a non-terminal value is not a mapping.
func (d Document) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LookupPath is Lookup over a dotted path such as "dashboard.view_financial".
func (d Document) LookupPath(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	return d.Lookup(strings.Split(path, ".")...)
}

// Flag reports whether the top-level key is boolean true. A top-level
// "all": true grants every flag.
func (d Document) Flag(key string) bool {
	if v, ok := d["all"].(bool); ok && v {
		return true
	}
	v, ok := d[key].(bool)
	return ok && v
}

// Equal compares permission values. Numbers compare by value regardless
// of their Go type so callers may pass int where JSON decoded float64.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Document:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
