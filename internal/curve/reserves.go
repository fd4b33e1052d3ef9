package curve

import (
	"time"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
)

// ApplyBuy commits a buy to the reserve state: the net-of-fees sol amount
// moves into the curve, the quoted token amount moves out. Virtual and real
// reserves move in lock-step so the pricing invariant follows the real flow.
// Volumes are bumped with the gross traded amounts by the caller, not here.
func ApplyBuy(bc *models.BondingCurve, netSolIn, tokenOut uint64, now time.Time) error {
	vSol, err := CheckedAdd(bc.VirtualSol, netSolIn)
	if err != nil {
		return err
	}
	vToken, err := CheckedSub(bc.VirtualToken, tokenOut)
	if err != nil {
		return err
	}
	rSol, err := CheckedAdd(bc.RealSol, netSolIn)
	if err != nil {
		return err
	}
	rToken, err := CheckedSub(bc.RealToken, tokenOut)
	if err != nil {
		return err
	}

	bc.VirtualSol = vSol
	bc.VirtualToken = vToken
	bc.RealSol = rSol
	bc.RealToken = rToken
	bc.LastUpdated = now
	return nil
}

// ApplySell is the mirror of ApplyBuy: tokens return to the curve, the
// quoted sol amount (gross, before fee deduction) leaves it.
func ApplySell(bc *models.BondingCurve, tokenIn, solOut uint64, now time.Time) error {
	vToken, err := CheckedAdd(bc.VirtualToken, tokenIn)
	if err != nil {
		return err
	}
	vSol, err := CheckedSub(bc.VirtualSol, solOut)
	if err != nil {
		return err
	}
	rToken, err := CheckedAdd(bc.RealToken, tokenIn)
	if err != nil {
		return err
	}
	rSol, err := CheckedSub(bc.RealSol, solOut)
	if err != nil {
		return err
	}

	bc.VirtualToken = vToken
	bc.VirtualSol = vSol
	bc.RealToken = rToken
	bc.RealSol = rSol
	bc.LastUpdated = now
	return nil
}

// BumpVolumes adds the gross traded amounts to the running volume counters.
func BumpVolumes(bc *models.BondingCurve, solAmount, tokenAmount uint64) error {
	sol, err := CheckedAdd(bc.TotalSolVolume, solAmount)
	if err != nil {
		return err
	}
	token, err := CheckedAdd(bc.TotalTokenVolume, tokenAmount)
	if err != nil {
		return err
	}
	bc.TotalSolVolume = sol
	bc.TotalTokenVolume = token
	return nil
}

// SpotPrice derives the marginal price in lamports per whole token from the
// virtual reserve ratio, scaled by the token's decimals. Returns 0 when the
// ratio cannot be derived; price derivation never fails a trade.
func SpotPrice(bc *models.BondingCurve, decimals uint8) uint64 {
	scale, err := Pow10(decimals)
	if err != nil {
		return 0
	}
	price, err := MulDivFloor(bc.VirtualSol, scale, bc.VirtualToken)
	if err != nil {
		return 0
	}
	return price
}

// RefreshDerived recomputes CurrentPrice and MarketCap from the current
// reserves. MarketCap prices the full supply at spot.
func RefreshDerived(bc *models.BondingCurve, decimals uint8, totalSupply uint64) {
	bc.CurrentPrice = SpotPrice(bc, decimals)

	scale, err := Pow10(decimals)
	if err != nil || scale == 0 {
		bc.MarketCap = 0
		return
	}
	cap, err := MulDivFloor(bc.CurrentPrice, totalSupply, scale)
	if err != nil {
		bc.MarketCap = 0
		return
	}
	bc.MarketCap = cap
}
