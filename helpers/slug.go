package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify builds the url key of a product name: lower case, ascii letters and digits,
// everything else collapsed into single dashes
func Slugify(s string) string {
	var b strings.Builder
	dash := false

	for _, r := range norm.NFKD.String(strings.ToLower(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// accents dropped after decomposition (é -> e)
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
