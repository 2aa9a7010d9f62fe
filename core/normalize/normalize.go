// ABOUTME: Turkish diacritic folding for locale-insensitive place name matching
// ABOUTME: The directory and URL slugs disagree on diacritics, so all comparisons go through here

package normalize

import "strings"

// foldTable maps Turkish-specific characters to their base Latin forms.
// ASCII case is preserved; lowering is the caller's explicit step.
var foldTable = map[rune]rune{
	'ç': 'c',
	'Ç': 'C',
	'ğ': 'g',
	'Ğ': 'G',
	'ı': 'i',
	'İ': 'I',
	'ö': 'o',
	'Ö': 'O',
	'ş': 's',
	'Ş': 'S',
	'ü': 'u',
	'Ü': 'U',
}

// combiningDotAbove is left behind when "i̇" is decomposed; lowercasing
// "İ" in some toolchains produces it. It folds away entirely.
const combiningDotAbove = '̇'

// Fold replaces Turkish-specific characters with their base Latin forms and
// leaves everything else untouched. Fold is idempotent.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == combiningDotAbove {
			continue
		}
		if folded, ok := foldTable[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Key returns the canonical comparison form of a place name: folded,
// lowercased and trimmed. Two place names refer to the same location
// iff their keys are equal.
func Key(s string) string {
	return strings.TrimSpace(strings.ToLower(Fold(s)))
}

// Equal reports whether two place names refer to the same location.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
