// Package keywords holds the bilingual (Arabic/English) keyword tables used
// to classify admin queries and extract filters from them. The tables are
// built once at package initialization and never modified afterwards.
package keywords

import (
	"strings"
	"unicode"
)

var arabicFolding = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ٱ", "ا",
	"ى", "ي",
	"ـ", "",
	"٪", "%",
)

// Normalize lowercases text, folds Arabic letter variants, strips Arabic
// diacritics and converts Arabic-Indic digits to ASCII digits. Keyword tables
// and query text are both normalized before matching.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = arabicFolding.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r == '٫':
			b.WriteRune('.')
		case r >= 0x064B && r <= 0x0652: // harakat
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsKeyword reports whether the normalized text contains kw. Keywords
// that start with an ASCII letter must begin at a word boundary so that
// "count" does not match inside "discount"; Arabic keywords match anywhere
// because Arabic attaches prefixes such as "ال" and "و" to words.
func containsKeyword(text, kw string) bool {
	if kw == "" {
		return false
	}
	if !isASCIILetter(rune(kw[0])) {
		return strings.Contains(text, kw)
	}

	offset := 0
	for {
		idx := strings.Index(text[offset:], kw)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 || !isWordByte(text[pos-1]) {
			return true
		}
		offset = pos + 1
	}
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}
