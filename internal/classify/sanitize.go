package classify

import (
	"sort"
	"strings"
)

// SanitizeText rewrites trigger vocabulary using the substitution table.
// Longer terms are applied first so overlapping entries behave
// deterministically.
func SanitizeText(text string, terms map[string]string) string {
	if len(terms) == 0 {
		return text
	}
	keys := make([]string, 0, len(terms))
	for k := range terms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, terms[k])
	}
	return text
}
