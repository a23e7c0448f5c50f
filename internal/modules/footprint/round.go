package footprint

import (
	"math"
	"strconv"
)

// Round4 rounds v to 4 decimal places using the exact binary value of v
// rather than its shortest decimal form. A literal that looks like a tie goes
// whichever way its stored value lies: 0.00005 is stored just above the tie
// and rounds up, the same rule that takes 2.675 to 2.67 at 2 places.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		return 0
	}
	return r
}

func factor(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
