package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to snake_case while keeping initialisms as single
// words: userID becomes user_id, HTTPServer becomes http_server.
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var out strings.Builder
	out.Grow(len(s))

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && needsBoundary(runes, i) {
			out.WriteRune('_')
		}
		out.WriteRune(unicode.ToLower(r))
	}

	return out.String()
}

// needsBoundary reports whether an underscore belongs before runes[i]. A
// boundary sits after a lowercase letter or digit, or where an acronym run
// ends and a normal word begins.
func needsBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}

	return false
}
