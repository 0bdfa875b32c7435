// Package textnorm canonicalizes question text before it is stored and
// compared for duplicates.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxChars is the default truncation length, counted in runes.
const MaxChars = 1500

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Only these five entities are decoded. Anything else, &nbsp; included, is
// kept verbatim.
var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// Normalize replaces markup tags with a space, then decodes the basic
// entities, composes the result to NFC, collapses whitespace runs to one
// space and trims both ends. It is a single pass: a decoded "&lt;" stays a
// literal "<", so "x &lt; 5 y x &gt; 3" keeps its text. Normalize is
// idempotent unless decoding produces new tags or entities.
func Normalize(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = entities.Replace(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Fold returns the caseless comparison key of an already normalized text.
func Fold(s string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Fold().String(s)
}

// Key is the duplicate-detection key: Fold(Normalize(s)).
func Key(s string) string {
	return Fold(Normalize(s))
}
