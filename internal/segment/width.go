package segment

import "unicode"

// CharWidth estimates a character's display width in character-width
// units. East-Asian wide characters count as a full unit, whitespace
// as a quarter, everything else as a half. This is a deterministic
// heuristic, not a font measurement.
func CharWidth(r rune) float64 {
	switch {
	case isFullWidth(r):
		return 1.0
	case unicode.IsSpace(r):
		return 0.25
	default:
		return 0.5
	}
}

// CJK ideographs, CJK symbols/punctuation and the fullwidth forms
func isFullWidth(r rune) bool {
	return (r >= 0x3000 && r <= 0x303F) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0xFF00 && r <= 0xFF60) ||
		(r >= 0xFFE0 && r <= 0xFFE6)
}

// TextWidth estimates a string's display width as the sum of its
// characters' widths.
func TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		w += CharWidth(r)
	}
	return w
}
