package scoring

import "regexp"

// emailPattern is a loose address matcher, not an RFC 5322 validator.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the first address-looking substring of bio, verbatim.
func ExtractEmail(bio string) (string, bool) {
	m := emailPattern.FindString(bio)
	return m, m != ""
}
