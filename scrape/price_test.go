package scrape

import "testing"

func TestParsePrice(t *testing.T) {
	// WHAT: Price text in the local formats parses to the right value.
	// WHY: Every listing's price flows through this one function; a format
	// misread silently corrupts the catalog.
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.200,50 Kz", 1200.50, true},
		{"1.200 Kz", 1200, true},
		{"AOA 950", 950, true},
		{"950,75", 950.75, true},
		{"12.345.678", 12345678, true},
		{"1,234,567", 1234567, true},
		{"2.5", 2.5, true},
		{"Preço: 300", 300, true},
		{"300,00 AOA", 300, true},
		{"grátis", 0, false},
		{"", 0, false},
		{"0 Kz", 0, false},
		{"...", 0, false},
	}
	for _, c := range cases {
		got, ok := ParsePrice(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParsePrice(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParsePrice_FirstRunWins(t *testing.T) {
	// WHAT: When the text contains several numbers, the first digit run is the price.
	// WHY: Price elements often carry struck-through old prices after the current one.
	got, ok := ParsePrice("1.500 Kz 2.000 Kz")
	if !ok || got != 1500 {
		t.Errorf("got (%v, %v), want (1500, true)", got, ok)
	}
}
