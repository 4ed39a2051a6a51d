package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unitSuffixes are the unit and type markers stripped from the end of a
// lowercased key. None is a suffix of another, so at most one can match.
var unitSuffixes = []string{
	"_c", "_f", "_k", // temperature units
	"_hz",          // frequency
	"_id",          // identifiers
	"_txt", "_str", // text markers
}

// NormalizeKey canonicalizes a field name for comparison:
//  1. lowercase the key;
//  2. strip one trailing unit/type suffix (_c, _f, _id, _txt, ...);
//  3. drop every character outside [a-z0-9].
//
// Separators and case only matter through step 3, so "cityId" stays
// "cityid" and "temp-c" becomes "tempc". Fully symbolic input, and a key
// that is nothing but a suffix ("_id"), normalize to "".
func NormalizeKey(key string) string {
	return keepAlnum(stripUnitSuffix(cases.Lower(language.Und).String(key)))
}

// stripUnitSuffix removes one known suffix anchored at the end of s.
func stripUnitSuffix(s string) string {
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}

	return s
}

func keepAlnum(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result.WriteByte(c)
		}
	}

	return result.String()
}
