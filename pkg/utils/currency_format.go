// Package utils provides formatting helpers for currency amounts and
// percentages shown on the thermometer.
package utils

import (
	"math"
	"strconv"
)

// FormatUSD formats a whole currency amount with thousands grouping and no
// decimals, e.g. 1500000 → "$1,500,000", -1234 → "-$1,234".
func FormatUSD(amount int64) string {
	if amount < 0 {
		// Negating MinInt64 overflows; format its digits directly.
		return "-$" + groupThousands(strconv.FormatUint(uint64(-(amount+1))+1, 10))
	}
	return "$" + groupThousands(strconv.FormatInt(amount, 10))
}

// FormatTickLabel formats a scale value for the right-side tick labels.
// e.g. 0 → "$0", 300000 → "$300k", 1000000 → "$1M"
func FormatTickLabel(v int64) string {
	switch {
	case v >= 1_000_000:
		return "$1M"
	case v == 0:
		return "$0"
	default:
		return "$" + strconv.FormatInt(v/1000, 10) + "k"
	}
}

// FormatMillionMark formats the ordinal million mark above gauge i (0-based).
// e.g. 0 → "$1M", 9 → "$10M"
func FormatMillionMark(i int) string {
	return "$" + strconv.Itoa(i+1) + "M"
}

// PercentOf returns total/goal as a whole percentage clamped to [0, 100],
// rounded half up. Integer arithmetic keeps .5 boundaries exact.
// A non-positive goal counts as met once anything is committed.
func PercentOf(total, goal int64) int {
	if total <= 0 {
		return 0
	}
	if goal <= 0 || total >= goal {
		return 100
	}
	if total > math.MaxInt64/100 {
		return int(math.Floor(float64(total)*100/float64(goal) + 0.5))
	}
	num := 100 * total
	q, rem := num/goal, num%goal
	if rem >= goal-rem {
		q++
	}
	return int(q)
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	first := len(s) % 3
	if first == 0 {
		first = 3
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	out = append(out, s[:first]...)
	for i := first; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
