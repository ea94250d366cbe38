package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"0.5", 50, true},
		{" 7.00 ", 700, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"0", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || m.Cents != tc.cents) {
			t.Fatalf("ParseAmount(%q) = %d, %v; want %d cents", tc.in, m.Cents, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseAmount(%q) expected error", tc.in)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "₹0.00"},
		{50, "₹0.50"},
		{123456, "₹1,234.56"},
		{1234567, "₹12,345.67"},
		{123456789, "₹12,34,567.89"},
		{-123456, "₹-1,234.56"},
	}
	for _, tc := range cases {
		if got := FormatINR(Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("FormatINR(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
	if got := FormatINRPlain(Money{Cents: 30000}); got != "Rs. 300.00" {
		t.Fatalf("FormatINRPlain = %q", got)
	}
}

func TestRupeesRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, 99999999} {
		if got := FromRupees(Money{Cents: cents}.Rupees()); got.Cents != cents {
			t.Fatalf("round trip %d -> %d", cents, got.Cents)
		}
	}
}
