package domain

import (
	"encoding/json"
	"strconv"
)

// Record is one CRM record: a flat map of field name to value, where a value
// may itself be a nested related record (e.g. Opportunity -> Account).
// Accessors return an explicit presence flag instead of falling back to zero
// values, so callers can distinguish "absent" from "empty".
type Record struct {
	fields map[string]any
}

// NewRecord wraps a decoded JSON object. A nil map yields an empty record.
func NewRecord(fields map[string]any) Record {
	return Record{fields: fields}
}

// Has reports whether the field exists on the record, even with a null value.
func (r Record) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// Raw returns the untyped value of a field.
func (r Record) Raw(field string) (any, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// String returns the field as a string. Null and missing fields report false.
func (r Record) String(field string) (string, bool) {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the field as a boolean. Null and missing fields report false.
func (r Record) Bool(field string) (bool, bool) {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Number returns the field as a float64, accepting JSON numbers and numeric
// strings (amount fields come back as either depending on the org's
// multi-currency settings).
func (r Record) Number(field string) (float64, bool) {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// Truthy mirrors the population test used by the validation rules: true
// booleans, non-empty strings, and non-zero numbers count as populated.
func (r Record) Truthy(field string) bool {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	}
	return true
}

// Related returns a nested related record (a sub-object in the query result).
func (r Record) Related(field string) (Record, bool) {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return Record{}, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Record{}, false
	}
	return NewRecord(m), true
}

// Map returns a shallow copy of the underlying fields.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}
