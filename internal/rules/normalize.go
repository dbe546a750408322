package rules

import "regexp"

var reNonDigit = regexp.MustCompile(`\D`)

// DigitsOnly strips everything but digits. Codes and tax IDs are compared in
// this form, so punctuation, letters and whitespace never affect matching.
func DigitsOnly(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}
