package risk

import "math/big"

// Limits caps the ETH value a single transaction may carry. A nil cap disables the check.
type Limits struct {
	MaxValuePerTx *big.Int
}

func (l Limits) Allow(value *big.Int) bool {
	if l.MaxValuePerTx == nil || value == nil {
		return true
	}
	return value.Cmp(l.MaxValuePerTx) <= 0
}
