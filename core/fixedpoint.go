package core

import "math/big"

// Scale is the fixed-point domain used for exponential decay of the base
// fee. Values below Scale represent fractions in [0,1); fixed_pow is only
// ever invoked with such a base, which guarantees monotone decay.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// fixedMul computes (a*b)/Scale, the multiplicative step of the fixed-point
// domain. Both operands are expected to already be expressed in Scale
// units. Overflow cannot occur since big.Int has no fixed width, but the
// analogous checked-u128 semantics from the reference design are preserved
// by returning an error if either operand is negative, which can never
// happen for well-formed callers.
func fixedMul(a, b *big.Int) (*big.Int, error) {
	if a.Sign() < 0 || b.Sign() < 0 {
		return nil, ErrGasOverflow
	}
	r := new(big.Int).Mul(a, b)
	r.Quo(r, Scale)
	return r, nil
}

// FixedPow raises base (expressed in Scale units, base < Scale) to the
// integer power exp via exponentiation-by-squaring, with every
// multiplicative step routed through fixedMul.
func FixedPow(base *big.Int, exp uint64) (*big.Int, error) {
	if base.Sign() < 0 || base.Cmp(Scale) > 0 {
		return nil, ErrGasOverflow
	}
	result := new(big.Int).Set(Scale) // 1.0 in Scale units
	b := new(big.Int).Set(base)
	e := exp
	for e > 0 {
		if e&1 == 1 {
			r, err := fixedMul(result, b)
			if err != nil {
				return nil, err
			}
			result = r
		}
		sq, err := fixedMul(b, b)
		if err != nil {
			return nil, err
		}
		b = sq
		e >>= 1
	}
	return result, nil
}

// checkedAddU64 adds two uint64 values, returning ErrGasOverflow on
// overflow.
func checkedAddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrGasOverflow
	}
	return sum, nil
}

// checkedSubU64 subtracts b from a, returning ErrGasOverflow if the result
// would underflow.
func checkedSubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrGasOverflow
	}
	return a - b, nil
}

// checkedMulU64 multiplies two uint64 values, returning ErrGasOverflow on
// overflow.
func checkedMulU64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, ErrGasOverflow
	}
	return r, nil
}
