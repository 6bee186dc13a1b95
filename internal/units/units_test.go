package units

import (
	"errors"
	"math/big"
	"testing"
)

func TestParseEther(t *testing.T) {
	cases := map[string]string{
		"100":   "100000000000000000000",
		"1":     "1000000000000000000",
		"0.5":   "500000000000000000",
		" 1000": "1000000000000000000000",
		"0":     "0",
		"1e-18": "1",
	}
	for in, want := range cases {
		got, err := ParseEther(in)
		if err != nil {
			t.Fatalf("ParseEther(%q) returned error: %v", in, err)
		}
		if got.String() != want {
			t.Fatalf("ParseEther(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseUnitsRejects(t *testing.T) {
	if _, err := ParseUnits("-1", 18); !errors.Is(err, ErrNegative) {
		t.Fatalf("expected ErrNegative, got %v", err)
	}
	if _, err := ParseUnits("0.0000001", 6); !errors.Is(err, ErrPrecision) {
		t.Fatalf("expected ErrPrecision, got %v", err)
	}
	if _, err := ParseUnits("ten", 18); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestFormatUnits(t *testing.T) {
	v, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got := FormatEther(v); got != "1.5" {
		t.Fatalf("expected 1.5, got %s", got)
	}
	if got := FormatUnits(big.NewInt(1234), 2); got != "12.34" {
		t.Fatalf("expected 12.34, got %s", got)
	}
	if got := FormatEther(nil); got != "0" {
		t.Fatalf("expected 0 for nil, got %s", got)
	}
}

func TestMustParseEtherPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustParseEther("nope")
}
