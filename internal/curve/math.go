package curve

import "math/big"

// QuoteOut computes the constant-product exchange output for amountIn of the
// input asset against the virtual reserves:
//
//	out = floor(virtualOut * amountIn / (virtualIn + amountIn))
//
// The intermediate product is computed on big.Int so it can never wrap; the
// result is checked to fit uint64 before narrowing. A zero input quotes zero.
// Buy direction passes (virtualSol, virtualToken), sell passes the reverse.
func QuoteOut(virtualIn, virtualOut, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, nil
	}

	num := new(big.Int).Mul(
		new(big.Int).SetUint64(virtualOut),
		new(big.Int).SetUint64(amountIn),
	)
	den := new(big.Int).Add(
		new(big.Int).SetUint64(virtualIn),
		new(big.Int).SetUint64(amountIn),
	)

	if den.Sign() == 0 {
		return 0, ErrDivisionByZero
	}
	// The sum virtualIn+amountIn must stay in the uint64 domain: reserves
	// after the trade are stored as uint64, so a wider denominator means the
	// trade could never settle anyway.
	if !den.IsUint64() {
		return 0, ErrArithmeticOverflow
	}

	out := num.Div(num, den)
	if !out.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return out.Uint64(), nil
}

// MulDivFloor computes floor(a * b / den) with a wide intermediate. Used for
// fee splits (bps of a gross amount) and price derivation.
func MulDivFloor(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrDivisionByZero
	}
	out := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	out.Div(out, new(big.Int).SetUint64(den))
	if !out.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return out.Uint64(), nil
}

// CheckedAdd returns a+b or ErrArithmeticOverflow if the sum wraps.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrArithmeticUnderflow if b exceeds a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrArithmeticUnderflow
	}
	return a - b, nil
}

// Pow10 returns 10^exp for exp <= 19 (beyond that the value leaves the
// uint64 domain). Token decimals are capped at 9 so callers stay well inside.
func Pow10(exp uint8) (uint64, error) {
	if exp > 19 {
		return 0, ErrArithmeticOverflow
	}
	out := uint64(1)
	for i := uint8(0); i < exp; i++ {
		out *= 10
	}
	return out, nil
}
