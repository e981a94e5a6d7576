// Package normalize canonicalizes company identifier strings so that names
// sourced from the daily report and from the ledger header row can be
// compared by plain equality. The normalized form is a join key only and is
// never written anywhere a user reads.
package normalize

import (
	"regexp"
	"strings"
)

// deaccent maps Greek accented/diaeresis letters to their bare bases.
// Runes outside the table pass through untouched.
var deaccent = map[rune]rune{
	'Ϊ': 'Ι', 'Ϋ': 'Υ',
	'ά': 'α', 'έ': 'ε', 'ί': 'ι', 'ό': 'ο', 'ύ': 'υ', 'ή': 'η', 'ώ': 'ω',
	'ϊ': 'ι', 'ϋ': 'υ', 'ΐ': 'ι', 'ΰ': 'υ',
	'Ά': 'Α', 'Έ': 'Ε', 'Ί': 'Ι', 'Ύ': 'Υ', 'Ό': 'Ο', 'Ή': 'Η', 'Ώ': 'Ω',
}

var (
	wsRun      = regexp.MustCompile(`\s+`)
	parenSpace = regexp.MustCompile(`\s*\(`)
	// Share-class suffixes appear in both Greek and Latin script depending on
	// the source; both collapse to the Latin two-letter form.
	ordinarySuffix  = regexp.MustCompile(`(?i)\((ΚΟ|KO)\)`)
	preferredSuffix = regexp.MustCompile(`(?i)\((ΚΑ|KA)\)`)
)

// Normalize returns the canonical form of a company name: accents stripped,
// whitespace collapsed, exactly one space before an opening parenthesis,
// share-class suffixes canonicalized, uppercased. Idempotent.
//
// The step order matters: accents must go before uppercasing so that the
// fixed table sees the spellings it was built for.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if base, ok := deaccent[r]; ok {
			return base
		}
		return r
	}, s)
	s = wsRun.ReplaceAllString(strings.TrimSpace(s), " ")
	s = parenSpace.ReplaceAllString(s, " (")
	s = ordinarySuffix.ReplaceAllString(s, "(KO)")
	s = preferredSuffix.ReplaceAllString(s, "(KA)")
	return strings.ToUpper(s)
}

// Deaccent strips Greek diacritics using the fixed table without any of the
// other canonicalization steps. The date extractor uses it to retry month
// names against the accent-free fallback table.
func Deaccent(s string) string {
	return strings.Map(func(r rune) rune {
		if base, ok := deaccent[r]; ok {
			return base
		}
		return r
	}, s)
}
