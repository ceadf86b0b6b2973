package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s to lowercase base letters: "Élysée" becomes "elysee".
// Dotless i is folded to i so "kadıköy" and "kadikoy" compare equal.
func Normalize(s string) string {
	// transform.Chain keeps internal buffers, so build one per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(foldRune),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func foldRune(r rune) rune {
	if r == 'ı' {
		return 'i'
	}
	return r
}

// words replaces every non letter/digit with a space and pads both ends,
// so " kw " containment means kw occurs as whole words.
func words(normalized string) string {
	var b strings.Builder
	b.Grow(len(normalized) + 2)
	b.WriteByte(' ')
	prevSpace := true
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	if !prevSpace {
		b.WriteByte(' ')
	}
	return b.String()
}
