package library

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount held in the smallest currency unit as whole units with two decimals,
// the way the lock and pot balances are shown to people.
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).StringFixed(2)
}

// ParseAmount converts a human amount such as "12.5" into the smallest currency unit.
func ParseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %s is negative", s)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimals", s, decimals)
	}
	i := shifted.BigInt()
	if !i.IsUint64() {
		return 0, fmt.Errorf("amount %s does not fit in 64 bits", s)
	}
	return i.Uint64(), nil
}
