package crawler

import (
	"regexp"
	"strconv"
	"strings"

	"usdscan/depositworker/helpers"
)

// MaxUSDRate caps acceptable annual USD rates; anything above is treated as a
// mis-parse (fees, sums, phone numbers), not a deposit rate.
const MaxUSDRate = 0.35

var (
	pctRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)
	numRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ParsePercent converts raw rate text into a fraction. "7.5%" and "7,5%"
// yield 0.075; a bare value above 1.0 is read as a percent, at or below 1.0
// as an already-converted fraction. Unparsable input yields 0.
func ParsePercent(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if m := pctRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return 0
		}
		return v / 100.0
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	if v > 1.0 {
		return v / 100.0
	}
	return v
}

// ExtractRate finds an acceptable annual rate inside free text. A percent
// pattern wins; otherwise the first of up to four bare numbers that converts
// into the (0, MaxUSDRate] range is taken.
func ExtractRate(text string) (float64, bool) {
	t := helpers.NormalizeSpace(text)
	if t == "" {
		return 0, false
	}

	if m := pctRe.FindString(t); m != "" {
		rate := ParsePercent(m)
		if rate > 0 && rate <= MaxUSDRate {
			return rate, true
		}
	}

	nums := numRe.FindAllString(t, 4)
	for _, raw := range nums {
		rate := ParsePercent(raw)
		if rate > 0 && rate <= MaxUSDRate {
			return rate, true
		}
	}

	return 0, false
}
