// Package normalize classifies and folds Japanese script for matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// kanjiTable covers the CJK Unified Ideographs block and its extensions A through G.
var kanjiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4DBF, Stride: 1}, // Extension A
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1}, // Extension B
		{Lo: 0x2A700, Hi: 0x2B73F, Stride: 1}, // Extension C
		{Lo: 0x2B740, Hi: 0x2B81F, Stride: 1}, // Extension D
		{Lo: 0x2B820, Hi: 0x2CEAF, Stride: 1}, // Extension E
		{Lo: 0x2CEB0, Hi: 0x2EBEF, Stride: 1}, // Extension F
		{Lo: 0x30000, Hi: 0x3134F, Stride: 1}, // Extension G
	},
}

// IsKanji reports whether r is a CJK unified ideograph.
func IsKanji(r rune) bool {
	return unicode.Is(kanjiTable, r)
}

// KanjiIn returns the kanji of s in order of appearance, duplicates included.
func KanjiIn(s string) []string {
	var out []string
	for _, r := range s {
		if IsKanji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

const (
	hiraganaLo = 0x3041 // ぁ
	hiraganaHi = 0x3096 // ゖ
	katakanaLo = 0x30A1 // ァ
	katakanaHi = 0x30F6 // ヶ
	kanaShift  = katakanaLo - hiraganaLo
)

func isHalfwidthKatakana(r rune) bool {
	return r >= 0xFF66 && r <= 0xFF9F
}

// ToKatakana folds hiragana and half-width katakana to full-width katakana.
// Everything else is returned unchanged.
func ToKatakana(s string) string {
	s = widenKatakana(s)
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r >= hiraganaLo && r <= hiraganaHi:
			runes[i] = r + kanaShift
		case r == 'ゝ', r == 'ゞ':
			runes[i] = r + kanaShift
		}
	}
	return string(runes)
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(widenKatakana(s))
	for i, r := range runes {
		switch {
		case r >= katakanaLo && r <= katakanaHi:
			runes[i] = r - kanaShift
		case r == 'ヽ', r == 'ヾ':
			runes[i] = r - kanaShift
		}
	}
	return string(runes)
}

// widenKatakana rewrites each run of half-width katakana in NFKC so voicing marks compose.
func widenKatakana(s string) string {
	if !strings.ContainsFunc(s, isHalfwidthKatakana) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i, r := range s {
		if isHalfwidthKatakana(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(norm.NFKC.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(norm.NFKC.String(s[start:]))
	}
	return b.String()
}
