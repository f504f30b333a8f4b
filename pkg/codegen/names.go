package codegen

import (
	"strings"
	"unicode"
)

// sanitizeName keeps the characters valid in a Go identifier. Spaces and
// dashes become underscores.
func sanitizeName(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' {
			result.WriteRune('_')
		}
	}
	return result.String()
}

func toPascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		runes := []rune(word)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}
