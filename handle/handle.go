// Package handle provides string helpers for user-facing display names of the
// form "<name>.<discriminator>". It does not depend on the codec.
package handle

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SplitDisplayName splits s at its first '.' into a name and a 16-bit
// discriminator. The discriminator must consist of ASCII digits only: signs,
// base prefixes, extra dots and values above 65535 yield ok == false.
func SplitDisplayName(s string) (name string, disc uint16, ok bool) {
	name, digits, found := strings.Cut(s, ".")
	if !found || digits == "" {
		return "", 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return "", 0, false
	}
	return name, uint16(n), true
}

// StripDiacriticals removes combining marks after canonical decomposition, so
// "Äñ" becomes "An".
func StripDiacriticals(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// StripUnicodeWhitespace removes every rune for which unicode.IsSpace holds.
func StripUnicodeWhitespace(s string) string {
	out, _, err := transform.String(runes.Remove(runes.Predicate(unicode.IsSpace)), s)
	if err != nil {
		return s
	}
	return out
}
