package ledger

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Tax is floor(amount * rate), computed without any intermediate rounding.
func Tax(amount uint64, rate decimal.Decimal) uint64 {
	t := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).Mul(rate).Floor().BigInt()
	if t.Sign() <= 0 {
		return 0
	}
	if !t.IsUint64() {
		return math.MaxUint64
	}
	return t.Uint64()
}

// addUint64 returns a+b and whether the sum fit.
func addUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return math.MaxUint64, false
	}
	return a + b, true
}
