package homograph

import "strings"

// confusables maps a single code point to the ASCII letter it is commonly
// mistaken for. Every value is a lowercase ASCII letter and no value is itself
// a key, which keeps Normalize idempotent.
var confusables = map[rune]rune{
	// Cyrillic lowercase
	'а': 'a', 'в': 'b', 'е': 'e', 'к': 'k', 'м': 'm', 'н': 'h', 'о': 'o',
	'р': 'p', 'с': 'c', 'т': 't', 'у': 'y', 'х': 'x', 'ѕ': 's', 'і': 'i',
	'ј': 'j', 'һ': 'h', 'ԁ': 'd', 'ԛ': 'q', 'ԝ': 'w', 'ӏ': 'l', 'ѡ': 'w',
	'ь': 'b', 'ү': 'y',
	// Cyrillic uppercase
	'А': 'a', 'В': 'b', 'Е': 'e', 'К': 'k', 'М': 'm', 'Н': 'h', 'О': 'o',
	'Р': 'p', 'С': 'c', 'Т': 't', 'Х': 'x', 'Ѕ': 's', 'І': 'i', 'Ј': 'j',
	// Greek
	'α': 'a', 'β': 'b', 'ε': 'e', 'ι': 'i', 'κ': 'k', 'ν': 'v', 'ο': 'o',
	'ρ': 'p', 'τ': 't', 'υ': 'u', 'χ': 'x', 'ϲ': 'c', 'Ο': 'o', 'Α': 'a',
	// digit-for-letter
	'0': 'o', '1': 'l',
	// Latin with diacritics and other look-alikes
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ı': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y', 'ÿ': 'y', 'ł': 'l', 'ś': 's', 'ź': 'z', 'ż': 'z',
	'ɡ': 'g', 'ɑ': 'a', 'ℓ': 'l',
}

func init() {
	// Mathematical bold, italic and double-struck letters plus fullwidth forms.
	blocks := []rune{
		0x1D400, 0x1D41A, // bold upper, lower
		0x1D434, 0x1D44E, // italic upper, lower
		0x1D538, 0x1D552, // double-struck upper, lower
		0xFF21, 0xFF41, // fullwidth upper, lower
	}
	for _, start := range blocks {
		for i := rune(0); i < 26; i++ {
			if _, taken := confusables[start+i]; !taken {
				confusables[start+i] = 'a' + i
			}
		}
	}
}

// Normalize replaces every confusable code point in s with its ASCII
// look-alike. Unmapped characters pass through unchanged.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := confusables[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsConfusable reports whether s has at least one mapped code point.
func ContainsConfusable(s string) bool {
	for _, r := range s {
		if _, ok := confusables[r]; ok {
			return true
		}
	}
	return false
}
