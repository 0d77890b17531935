package money

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100.00", 10000},
		{"100", 10000},
		{"0.01", 1},
		{"0.1", 10},
		{"7.5", 750},
		{"0", 0},
		{".50", 50},
		{"1.005", 101},  // half-up on the third decimal
		{"1.004", 100},  // below the half rounds down
		{"1.0049", 100}, // deeper digits never carry upward
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) err=%v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAmount(%q)=%d want=%d", c.in, got, c.want)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	rejects := []string{
		"", "-1.00", "+1.00", "abc", "1.2.3", "1,50", ".",
		// Amounts whose minor-unit value exceeds int64 must fail, never
		// wrap around into a small accepted value.
		"184467440737095517",
		"92233720368547758.08",
		"99999999999999999999999999",
	}
	for _, in := range rejects {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{750, "7.50"},
		{0, "0.00"},
		{-12345, "-123.45"},
	}
	for _, c := range cases {
		if got := FormatMinor(c.in); got != c.want {
			t.Errorf("FormatMinor(%d)=%q want=%q", c.in, got, c.want)
		}
	}
}
