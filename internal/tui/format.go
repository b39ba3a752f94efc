package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatNumber formats v with a fixed number of decimals.
func FormatNumber(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatCalories rounds to whole kilocalories, e.g. "123 kcal".
func FormatCalories(kcal float64) string {
	return fmt.Sprintf("%d kcal", int64(math.Round(kcal)))
}

// FormatWeight formats grams as "12.5g", or "1.25kg" from a kilogram up.
func FormatWeight(grams float64) string {
	if grams < 1000 {
		return FormatNumber(grams, 1) + "g"
	}
	return FormatNumber(grams/1000, 2) + "kg"
}

// FormatPercentage formats value as a whole percentage of total. A zero total
// is "0%".
func FormatPercentage(value, total float64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(math.Round(value/total*100)))
}

// Truncate shortens s to at most width terminal cells, ending in an
// ellipsis when cut. Grapheme clusters are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// Label turns a snake_case or lower-case key into a title-cased label,
// e.g. "vitamin_c" becomes "Vitamin C".
func Label(key string) string {
	key = strings.Join(strings.Fields(strings.ReplaceAll(key, "_", " ")), " ")
	return cases.Title(language.English).String(key)
}
