package receipt

import "strings"

// Display width accounting for mixed single/double-width glyphs: code points
// in the CJK unified ideograph ranges occupy two columns on the printer,
// everything else occupies one.

const ellipsis = "..."

func wide(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // Extension A
		return true
	case r >= 0x20000 && r <= 0x2A6DF: // Extension B
		return true
	case r >= 0xF900 && r <= 0xFAFF: // Compatibility Ideographs
		return true
	}
	return false
}

// Width returns the display width of s in column units.
func Width(s string) int {
	w := 0
	for _, r := range s {
		if wide(r) {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// hasCJK reports whether s contains any double-width glyph; such lines must
// be tagged with the traditional-Chinese-compatible encoding.
func hasCJK(s string) bool {
	for _, r := range s {
		if wide(r) {
			return true
		}
	}
	return false
}

// PadRight left-aligns s within width units.
func PadRight(s string, width int) string {
	gap := width - Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// PadLeft right-aligns s within width units.
func PadLeft(s string, width int) string {
	gap := width - Width(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}

// Truncate shortens s to at most width units, appending a trailing ellipsis
// when anything was removed.
func Truncate(s string, width int) string {
	if Width(s) <= width {
		return s
	}
	budget := width - len(ellipsis)
	if budget < 0 {
		budget = 0
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := 1
		if wide(r) {
			rw = 2
		}
		if used+rw > budget {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + ellipsis
}
