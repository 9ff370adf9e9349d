package compatibility

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// formatDollars renders cents as a dollar amount with thousands separators,
// e.g. 250000 -> "2,500" and 12350 -> "123.5". Cents stay integral so large
// amounts keep every digit.
func formatDollars(cents int64) string {
	sign := ""
	abs := uint64(cents)
	if cents < 0 {
		sign = "-"
		abs = uint64(-(cents + 1)) + 1
	}

	dollars := printer.Sprintf("%d", abs/100)
	rem := abs % 100
	switch {
	case rem == 0:
		return sign + dollars
	case rem%10 == 0:
		return sign + dollars + "." + strconv.FormatUint(rem/10, 10)
	default:
		return fmt.Sprintf("%s%s.%02d", sign, dollars, rem)
	}
}

// formatFeet renders a dimension without a trailing ".0"; zero renders as "?".
func formatFeet(v float64) string {
	if v == 0 {
		return "?"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDollars renders cents with a leading dollar sign, e.g. "$2,500".
func FormatDollars(cents int64) string {
	return "$" + formatDollars(cents)
}
