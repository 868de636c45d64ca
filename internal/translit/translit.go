// package translit romanizes artist names written in Cyrillic so they can be
// searched against catalogs that index the Latin spelling.
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Func converts a string from one script to another.
type Func func(string) string

// table maps lowercase Russian Cyrillic letters to their Latin spelling.
var table = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "'", 'ы': "y", 'ь': "'",
	'э': "e", 'ю': "ju", 'я': "ja",
}

// Russian transliterates Cyrillic letters in s to Latin, preserving case and leaving every other rune untouched.
//
// Input is NFC-normalized first so a decomposed "й" or "ё" maps the same as a precomposed one.
func Russian(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lower := unicode.ToLower(r)
		latin, ok := table[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r {
			latin = capitalize(latin)
		}
		b.WriteString(latin)
	}
	return b.String()
}

// Identity returns s unchanged.
func Identity(s string) string { return s }

// HasCyrillic reports whether s contains any Cyrillic letter.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
