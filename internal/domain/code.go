package domain

import "strings"

// CodeLength is the size of the human-shareable join code.
const CodeLength = 8

// NormalizeCode maps user input to the canonical join-code form.
// Codes are case-insensitive; the canonical form is upper case.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
