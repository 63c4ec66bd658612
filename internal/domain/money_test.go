package domain_test

import (
	"testing"

	"github.com/dkomarov/crm/internal/domain"
)

func TestParseAmount_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"9.99", 999},
		{"20.00", 2000},
		{"20", 2000},
		{"0.01", 1},
		{"0.5", 50},
		{".5", 50},
		{"1234.56", 123456},
		{" 10.00 ", 1000},
		{"-0.50", -50},
		{"+3.15", 315},
	}

	for _, tc := range cases {
		got, err := domain.ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		".",
		"10.",
		"9.999",
		"abc",
		"1e5",
		"10,50",
		"--5",
	}

	for _, in := range cases {
		if _, err := domain.ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) expected error, got nil", in)
		}
	}
}

// Sum of 9.99 and 20.00 must be exactly 29.99 with no rounding error.
func TestParseAmount_ExactSum(t *testing.T) {
	a, err := domain.ParseAmount("9.99")
	if err != nil {
		t.Fatal(err)
	}
	b, err := domain.ParseAmount("20.00")
	if err != nil {
		t.Fatal(err)
	}

	if got := domain.FormatAmount(a + b); got != "29.99" {
		t.Fatalf("expected 29.99, got %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{2999, "29.99"},
		{2000, "20.00"},
		{1, "0.01"},
		{0, "0.00"},
		{-50, "-0.50"},
		{100500, "1005.00"},
	}

	for _, tc := range cases {
		if got := domain.FormatAmount(tc.in); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
