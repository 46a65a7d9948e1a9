package assistant

import "strconv"

// FormatPrice renders a forint amount the way the storefront does:
// thousands separated by spaces, "Ft" suffix. 89990 -> "89 990 Ft".
func FormatPrice(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, d)
	}

	result := string(out) + " Ft"
	if negative {
		result = "-" + result
	}
	return result
}
