package curve

import (
	"math"
	"testing"
	"time"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededCurve() *models.BondingCurve {
	return &models.BondingCurve{
		TokenID:      1,
		VirtualSol:   virtualSolSeed,
		VirtualToken: virtualTokenSeed,
		RealSol:      0,
		RealToken:    1_000_000_000_000_000,
		Active:       true,
	}
}

func TestApplyBuy(t *testing.T) {
	bc := seededCurve()
	now := time.Now()

	tokenOut, err := QuoteOut(bc.VirtualSol, bc.VirtualToken, 100_000_000)
	require.NoError(t, err)

	netIn := uint64(96_500_000) // gross minus 2.5% platform and 1% creator fee
	require.NoError(t, ApplyBuy(bc, netIn, tokenOut, now))

	// Virtual reserves absorb net-of-fee sol, not the gross amount.
	assert.Equal(t, virtualSolSeed+netIn, bc.VirtualSol)
	assert.Equal(t, virtualTokenSeed-tokenOut, bc.VirtualToken)
	assert.Equal(t, netIn, bc.RealSol)
	assert.Equal(t, uint64(1_000_000_000_000_000)-tokenOut, bc.RealToken)
	assert.Equal(t, now, bc.LastUpdated)
}

func TestApplyBuy_UnderflowLeavesStateUntouched(t *testing.T) {
	bc := seededCurve()
	before := *bc

	err := ApplyBuy(bc, 1, bc.VirtualToken+1, time.Now())
	assert.ErrorIs(t, err, ErrArithmeticUnderflow)
	assert.Equal(t, before, *bc)
}

func TestApplySell_MirrorsBuy(t *testing.T) {
	bc := seededCurve()
	now := time.Now()

	buyOut, err := QuoteOut(bc.VirtualSol, bc.VirtualToken, 100_000_000)
	require.NoError(t, err)
	require.NoError(t, ApplyBuy(bc, 100_000_000, buyOut, now))

	solOut, err := QuoteOut(bc.VirtualToken, bc.VirtualSol, buyOut)
	require.NoError(t, err)
	require.NoError(t, ApplySell(bc, buyOut, solOut, now))

	// Selling everything bought restores the token side exactly; the sol
	// side keeps the curve slippage remainder.
	assert.Equal(t, virtualTokenSeed, bc.VirtualToken)
	assert.LessOrEqual(t, bc.VirtualSol, virtualSolSeed+100_000_000)
	assert.GreaterOrEqual(t, bc.VirtualSol, virtualSolSeed)
}

func TestApplySell_CannotDrainMoreThanVirtualSol(t *testing.T) {
	bc := seededCurve()
	err := ApplySell(bc, 1, bc.VirtualSol+1, time.Now())
	assert.ErrorIs(t, err, ErrArithmeticUnderflow)
}

func TestBumpVolumes(t *testing.T) {
	bc := seededCurve()
	require.NoError(t, BumpVolumes(bc, 100, 200))
	require.NoError(t, BumpVolumes(bc, 1, 2))
	assert.Equal(t, uint64(101), bc.TotalSolVolume)
	assert.Equal(t, uint64(202), bc.TotalTokenVolume)

	bc.TotalSolVolume = math.MaxUint64
	assert.ErrorIs(t, BumpVolumes(bc, 1, 0), ErrArithmeticOverflow)
}

func TestSpotPriceAndMarketCap(t *testing.T) {
	bc := seededCurve()

	// price = floor(virtualSol * 10^6 / virtualToken) for a 6-decimals token
	price := SpotPrice(bc, 6)
	assert.Equal(t, uint64(27), price) // 30e9 * 1e6 / 1.073e15

	RefreshDerived(bc, 6, 1_000_000_000_000_000)
	assert.Equal(t, price, bc.CurrentPrice)
	assert.Equal(t, uint64(27_000_000_000), bc.MarketCap)
}

func TestSpotPrice_ZeroReserves(t *testing.T) {
	bc := &models.BondingCurve{}
	assert.Zero(t, SpotPrice(bc, 6))
}
