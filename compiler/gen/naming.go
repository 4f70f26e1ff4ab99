package gen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Pascal converts a snake_case name to PascalCase for exported Go
// identifiers.
func Pascal(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if strings.ToLower(p) == p {
			parts[i] = titleCaser.String(p)
		}
	}
	return strings.Join(parts, "")
}

// Snake converts a PascalCase or camelCase name to snake_case.
func Snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Pluralize derives a table-style plural from a singular noun. The rules are
// intentionally small and stable because the result is embedded in SQL text:
// sibilant endings take "es", a consonant followed by "y" becomes "ies" and
// everything else takes "s".
func Pluralize(s string) string {
	switch {
	case hasAnySuffix(s, "s", "sh", "ch", "x", "z"):
		return s + "es"
	case strings.HasSuffix(s, "y") && !hasAnySuffix(s, "ay", "ey", "oy"):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
