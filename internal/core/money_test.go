package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{"12.346", 1235, true},
		{"0.01", 1, true},
		{"200", 20000, true},
		{"", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseBudgetToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1000", 100000, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"", 0, true},
		{"-1", 0, false},
		{"nope", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseBudgetToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "₹0.00"},
		{1234, "₹12.34"},
		{20000, "₹200.00"},
		{-5000, "-₹50.00"},
		{5, "₹0.05"},
	}
	for _, tc := range cases {
		if got := FormatRupees(tc.cents); got != tc.want {
			t.Fatalf("%d: got %q, want %q", tc.cents, got, tc.want)
		}
	}
}
