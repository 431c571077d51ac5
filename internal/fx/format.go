package fx

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPrice renders a price to 4 decimals, e.g. 1.08503 -> "1.0850".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 4, 64)
}

// FormatPips renders a price delta in pips, e.g. 0.0008 -> "0.8".
func FormatPips(priceDelta float64) string {
	return strconv.FormatFloat(Pips(priceDelta), 'f', 1, 64)
}

// FormatMillions renders a size in millions, e.g. 15 -> "15M".
func FormatMillions(size float64) string {
	return strconv.FormatFloat(size, 'f', 0, 64) + "M"
}

// FormatUSD renders a dollar amount with a thousands separator and
// leading sign, e.g. -3200.5 -> "-$3,201".
func FormatUSD(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	n := int64(math.Round(math.Abs(amount)))
	s := strconv.FormatInt(n, 10)
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return fmt.Sprintf("%s$%s", sign, out)
}
