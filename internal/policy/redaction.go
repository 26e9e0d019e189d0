// Package policy holds the anonymity rules applied to participant free text.
package policy

import "regexp"

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`)
	cardPattern   = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)
	handlePattern = regexp.MustCompile(`(^|[\s(])@[A-Za-z0-9_.]{2,30}`)
	urlPattern    = regexp.MustCompile(`(?i)\bhttps?://\S+`)
)

// RedactPII masks contact details a participant may type into a free-text
// answer. changed reports whether anything was masked.
func RedactPII(input string) (redacted string, changed bool) {
	out := input

	replace := func(re *regexp.Regexp, repl string) {
		next := re.ReplaceAllString(out, repl)
		changed = changed || next != out
		out = next
	}

	replace(emailPattern, "[REDACTED_EMAIL]")
	replace(urlPattern, "[REDACTED_URL]")
	// Cards before phones, otherwise long digit runs are classified as phones.
	replace(cardPattern, "[REDACTED_CARD]")
	replace(phonePattern, "[REDACTED_PHONE]")
	replace(handlePattern, "${1}[REDACTED_HANDLE]")

	return out, changed
}
