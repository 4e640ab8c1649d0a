package settlement

import (
	"fmt"
	"math/big"
)

// MaxAmount bounds every placement amount and the prize pool. Settlement math stays
// exact below it; larger inputs are rejected before any prize is computed.
const MaxAmount int64 = 1_000_000_000_000

// mulFloorDiv returns floor(product of factors / d) without intermediate overflow.
// d must be positive and the quotient must fit in an int64.
func mulFloorDiv(d int64, factors ...int64) int64 {
	num := big.NewInt(1)
	for _, f := range factors {
		num.Mul(num, big.NewInt(f))
	}
	q, m := new(big.Int), new(big.Int)
	// Euclidean division with a positive divisor is floor division.
	q.DivMod(num, big.NewInt(d), m)
	return q.Int64()
}

func applyBps(amount, bps int64) int64 {
	return mulFloorDiv(BasisPoints, amount, bps)
}

// CheckAmount rejects an amount outside 0..MaxAmount.
func CheckAmount(name string, amount int64) error {
	if amount < 0 || amount > MaxAmount {
		return fmt.Errorf("%w: %s %d outside 0..%d", ErrAmountOutOfRange, name, amount, MaxAmount)
	}
	return nil
}

// CheckPoolInput rejects an entry fee or prize pool above MaxAmount.
func CheckPoolInput(in PoolInput) error {
	if err := CheckAmount("entry fee", in.EntryFee); err != nil {
		return err
	}
	if in.TotalPlayers > 0 && in.EntryFee > MaxAmount/int64(in.TotalPlayers) {
		return fmt.Errorf("%w: prize pool %d x %d exceeds %d", ErrAmountOutOfRange, in.EntryFee, in.TotalPlayers, MaxAmount)
	}
	return nil
}
