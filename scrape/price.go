package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var priceRun = regexp.MustCompile(`[\d.,]+`)

// ParsePrice extracts a numeric price from scraped text like
// "1.200,50 Kz" or "AOA 950". The first digit run wins. When both '.'
// and ',' appear, dots are thousands separators; a lone comma is the
// decimal separator. Returns false for text with no parseable positive
// number.
func ParsePrice(text string) (float64, bool) {
	raw := priceRun.FindString(text)
	if raw == "" {
		return 0, false
	}
	raw = strings.Trim(raw, ".,")

	switch {
	case strings.Contains(raw, ".") && strings.Contains(raw, ","):
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	case strings.Contains(raw, ","):
		if strings.Count(raw, ",") > 1 {
			// Multiple commas can only be thousands separators.
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	case strings.Count(raw, ".") > 1:
		raw = strings.ReplaceAll(raw, ".", "")
	case strings.Contains(raw, "."):
		// A single dot followed by exactly three digits is the local
		// thousands format ("1.200" = 1200 Kz), not a decimal.
		if i := strings.IndexByte(raw, '.'); len(raw)-i-1 == 3 {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
