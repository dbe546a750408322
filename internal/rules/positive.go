package rules

import "strings"

// DefaultSynonyms is the accepted set of rule values treated as permitting.
// A ruleset manifest may narrow or extend it.
var DefaultSynonyms = []string{"SIM", "S", "PERMITIDO", "OK", "VERDADEIRO", "YES", "ADERENTE"}

// IsPositive reports whether a rule cell permits. The value is trimmed and
// uppercased and must equal one of the accepted synonyms exactly; anything
// else is negative, including empty and missing cells. An empty synonyms
// slice falls back to DefaultSynonyms.
func IsPositive(value string, synonyms []string) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	if len(synonyms) == 0 {
		synonyms = DefaultSynonyms
	}
	for _, s := range synonyms {
		if v == strings.ToUpper(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
