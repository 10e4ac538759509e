package domain

import "strings"

var soqlReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// SOQLEscape escapes a value for interpolation into a single-quoted SOQL
// string literal.
func SOQLEscape(s string) string {
	return soqlReplacer.Replace(s)
}
