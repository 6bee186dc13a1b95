// Package units converts human-readable token amounts to and from the
// fixed-point integers contracts work with.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the precision of ETH and of most ERC-20 tokens.
const EtherDecimals = 18

var (
	ErrNegative  = errors.New("amount must not be negative")
	ErrPrecision = errors.New("amount has more decimals than supported")
)

// ParseUnits turns "1.5" into 1.5 * 10^decimals.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("parse amount %q: %w", s, ErrNegative)
	}
	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("parse amount %q: %w (%d)", s, ErrPrecision, decimals)
	}
	return shifted.BigInt(), nil
}

// ParseEther is ParseUnits with 18 decimals.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// MustParseEther panics on malformed input; meant for literals.
func MustParseEther(s string) *big.Int {
	v, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatUnits renders v as a decimal string without trailing zeros.
func FormatUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

func FormatEther(v *big.Int) string {
	return FormatUnits(v, EtherDecimals)
}
