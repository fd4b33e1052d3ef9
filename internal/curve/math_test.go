package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	virtualSolSeed   = uint64(30_000_000_000)
	virtualTokenSeed = uint64(1_073_000_000_000_000)
)

func TestQuoteOut_ZeroInput(t *testing.T) {
	out, err := QuoteOut(virtualSolSeed, virtualTokenSeed, 0)
	require.NoError(t, err)
	assert.Zero(t, out)
}

func TestQuoteOut_ReferenceValue(t *testing.T) {
	// 0.1 SOL against the seed reserves:
	// floor(1_073_000_000_000_000 * 100_000_000 / 30_100_000_000)
	out, err := QuoteOut(virtualSolSeed, virtualTokenSeed, 100_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(3_564_784_053_156), out)
}

func TestQuoteOut_OutputBelowReserves(t *testing.T) {
	// Output can never reach the full virtual output reserve.
	out, err := QuoteOut(1, math.MaxUint64, math.MaxUint64-1)
	require.NoError(t, err)
	assert.Less(t, out, uint64(math.MaxUint64))
}

func TestQuoteOut_MonotonicAndConcave(t *testing.T) {
	var prevOut, prevDelta uint64
	prevDelta = math.MaxUint64

	for _, in := range []uint64{
		100_000_000, 200_000_000, 300_000_000, 400_000_000, 500_000_000,
	} {
		out, err := QuoteOut(virtualSolSeed, virtualTokenSeed, in)
		require.NoError(t, err)

		// Strictly increasing in amountIn.
		assert.Greater(t, out, prevOut, "output must grow with input")

		// Diminishing marginal output.
		delta := out - prevOut
		assert.LessOrEqual(t, delta, prevDelta, "marginal output must not grow")

		prevOut, prevDelta = out, delta
	}
}

func TestQuoteOut_OverflowBoundary(t *testing.T) {
	_, err := QuoteOut(math.MaxUint64, math.MaxUint64, math.MaxUint64)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	_, err = QuoteOut(math.MaxUint64, 1, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestMulDivFloor(t *testing.T) {
	tests := []struct {
		name    string
		a, b, d uint64
		want    uint64
		wantErr error
	}{
		{name: "platform fee 250bps", a: 1_000_000_000, b: 250, d: 10_000, want: 25_000_000},
		{name: "creator fee 100bps", a: 1_000_000_000, b: 100, d: 10_000, want: 10_000_000},
		{name: "floors remainder", a: 101, b: 1, d: 2, want: 50},
		{name: "zero denominator", a: 1, b: 1, d: 0, wantErr: ErrDivisionByZero},
		{name: "wide intermediate survives", a: math.MaxUint64, b: 10_000, d: 10_000, want: math.MaxUint64},
		{name: "narrowing overflow", a: math.MaxUint64, b: 2, d: 1, wantErr: ErrArithmeticOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDivFloor(tt.a, tt.b, tt.d)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	sum, err := CheckedAdd(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	diff, err := CheckedSub(5, 5)
	require.NoError(t, err)
	assert.Zero(t, diff)

	_, err = CheckedSub(4, 5)
	assert.ErrorIs(t, err, ErrArithmeticUnderflow)
}

func TestPow10(t *testing.T) {
	for exp, want := range map[uint8]uint64{0: 1, 1: 10, 6: 1_000_000, 9: 1_000_000_000} {
		got, err := Pow10(exp)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Pow10(20)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}
