package domain

import (
	"sort"
	"strings"

	"github.com/fatih/camelcase"
)

// CandidateMap maps a logical field key to its ranked list of physical field
// name candidates. Order encodes naming-convention priority: the first
// candidate present in the live schema wins.
type CandidateMap map[string][]string

// Keys returns the logical keys in sorted order for deterministic iteration.
func (m CandidateMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolvedField records whether a logical key is backed by a physical field.
type ResolvedField struct {
	Found bool
	Name  string
}

// ResolvedFields is the outcome of schema discovery for one validation run.
// Built once per run and read-only thereafter.
type ResolvedFields map[string]ResolvedField

// Resolve scans each logical key's candidate list in declared order and picks
// the first candidate present in available. Keys with no match resolve to
// not-found. Pure function of its inputs.
func Resolve(candidates CandidateMap, available []string) ResolvedFields {
	present := make(map[string]bool, len(available))
	for _, f := range available {
		present[f] = true
	}

	resolved := make(ResolvedFields, len(candidates))
	for key, names := range candidates {
		rf := ResolvedField{}
		for _, name := range names {
			if present[name] {
				rf = ResolvedField{Found: true, Name: name}
				break
			}
		}
		resolved[key] = rf
	}
	return resolved
}

// Lookup returns the physical field name backing a logical key, if any.
func (r ResolvedFields) Lookup(key string) (string, bool) {
	rf, ok := r[key]
	if !ok || !rf.Found {
		return "", false
	}
	return rf.Name, true
}

// FieldNames returns all resolved physical names, sorted, for building the
// record query's field projection.
func (r ResolvedFields) FieldNames() []string {
	names := make([]string, 0, len(r))
	for _, rf := range r {
		if rf.Found {
			names = append(names, rf.Name)
		}
	}
	sort.Strings(names)
	return names
}

// FoundCount returns how many logical keys resolved.
func (r ResolvedFields) FoundCount() int {
	n := 0
	for _, rf := range r {
		if rf.Found {
			n++
		}
	}
	return n
}

// Missing returns the logical keys that did not resolve, sorted.
func (r ResolvedFields) Missing() []string {
	var keys []string
	for k, rf := range r {
		if !rf.Found {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SuggestFields proposes schema fields that look like they could back an
// unresolved logical key, for operators diagnosing schema drift. A field is
// suggested when at least half of the key's words occur in the field name,
// comparing case-insensitively and ignoring separators. Substring matching
// keeps compound words like "netsuite" matching NetSuite_* fields, which a
// pure camel-case word split would break apart.
func SuggestFields(logicalKey string, available []string) []string {
	want := keyWords(logicalKey)
	if len(want) == 0 {
		return nil
	}

	var suggestions []string
	for _, f := range available {
		normalized := normalizeField(f)
		matched := 0
		for _, w := range want {
			if strings.Contains(normalized, w) {
				matched++
			}
		}
		if matched*2 >= len(want) {
			suggestions = append(suggestions, f)
		}
	}
	sort.Strings(suggestions)
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// keyWords splits a logical key into its significant words, handling both
// underscore and camel-case boundaries.
func keyWords(key string) []string {
	var words []string
	for _, part := range strings.Split(key, "_") {
		for _, w := range camelcase.Split(part) {
			w = strings.ToLower(w)
			if len(w) <= 1 || w == "id" || w == "is" {
				continue
			}
			words = append(words, w)
		}
	}
	return words
}

// normalizeField lowercases a physical field name and strips separators so
// word lookups are insensitive to the org's naming convention.
func normalizeField(name string) string {
	name = strings.TrimSuffix(name, "__c")
	name = strings.ReplaceAll(name, "_", "")
	return strings.ToLower(name)
}
