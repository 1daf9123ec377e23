package helpers

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Round2 rounds a monetary amount to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrice renders an amount the way the public site shows it:
// "Sur devis" for zero, otherwise thousands grouped with a space and " FCFA".
func FormatPrice(amount float64) string {
	if amount == 0 {
		return "Sur devis"
	}
	whole := int64(math.Round(amount))
	neg := whole < 0
	if neg {
		whole = -whole
	}
	digits := strconv.FormatInt(whole, 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + " FCFA"
	if neg {
		out = "-" + out
	}
	return out
}

// Truncate shortens s to at most n runes followed by "..." when it is longer.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n])) + "..."
}

// CountLabel renders "Aucune <noun>", "1 <noun>" or "N <noun>s".
func CountLabel(n int64, noun string) string {
	switch n {
	case 0:
		return "Aucune " + noun
	case 1:
		return "1 " + noun
	default:
		return strconv.FormatInt(n, 10) + " " + noun + "s"
	}
}
