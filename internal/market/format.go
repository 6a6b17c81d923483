package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder renders in place of any value that cannot be shown as a
// number.
const Placeholder = "—"

var pricePrinter = message.NewPrinter(language.English)

// FormatCompact renders large monetary values in compact notation
// ("1.2M", "998.5K"). Non-finite input renders as the placeholder.
func FormatCompact(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Placeholder
	}

	abs := math.Abs(n)
	switch {
	case abs >= 1e12:
		return trimZeros(n/1e12) + "T"
	case abs >= 1e9:
		return trimZeros(n/1e9) + "B"
	case abs >= 1e6:
		return trimZeros(n/1e6) + "M"
	case abs >= 1e3:
		return trimZeros(n/1e3) + "K"
	default:
		return trimZeros(n)
	}
}

// FormatPrice renders a price with grouping and up to 8 fraction digits.
// Zero and non-finite values render as the placeholder, matching the
// original table's treatment of missing prices.
func FormatPrice(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return Placeholder
	}
	return pricePrinter.Sprint(number.Decimal(n, number.MaxFractionDigits(8)))
}

// FormatPercent renders a ratio as a percentage with two decimals.
func FormatPercent(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", n*100)
}

// maxBarRatio caps the activity input at 200% before scaling.
const maxBarRatio = 2.0

// minBarWidth keeps zero-activity rows visually legible.
const minBarWidth = 6

// BarWidth converts a volume/market-cap ratio to an activity bar width in
// percent. NaN reads as zero activity.
func BarWidth(ratio float64) int {
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	r := math.Min(ratio, maxBarRatio)
	width := int(math.Round(r / maxBarRatio * 100))
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

// trimZeros formats with two fraction digits, then drops trailing zeros and
// a dangling decimal point.
func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
