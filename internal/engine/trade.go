package engine

import (
	"context"
	"errors"

	"github.com/datmedevil17/memeLaunchpad-22/internal/bank"
	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// splitFees computes the platform and creator cuts from a gross lamport
// amount. Both are floored independently from the same gross figure; the
// remainder is the net amount that actually moves through the curve. If the
// combined fees ever exceed gross, the checked subtraction fails the trade
// instead of clamping net to zero.
func splitFees(gross, feeRateBps uint64) (platformFee, creatorFee, net uint64, err error) {
	platformFee, err = curve.MulDivFloor(gross, feeRateBps, FeeDenominator)
	if err != nil {
		return 0, 0, 0, err
	}
	creatorFee, err = curve.MulDivFloor(gross, CreatorFeeBps, FeeDenominator)
	if err != nil {
		return 0, 0, 0, err
	}
	net, err = curve.CheckedSub(gross, platformFee)
	if err != nil {
		return 0, 0, 0, err
	}
	net, err = curve.CheckedSub(net, creatorFee)
	if err != nil {
		return 0, 0, 0, err
	}
	return platformFee, creatorFee, net, nil
}

// tradePrice derives the execution price (lamports per whole token) recorded
// on a ledger entry. Price derivation never fails a trade: 0 on any error.
func tradePrice(solAmount, tokenAmount uint64, decimals uint8) uint64 {
	scale, err := curve.Pow10(decimals)
	if err != nil {
		return 0
	}
	price, err := curve.MulDivFloor(solAmount, scale, tokenAmount)
	if err != nil {
		return 0
	}
	return price
}

// BuyToken swaps solAmount lamports for tokens priced by the curve. The
// buyer pays gross; the curve receives gross minus the two fee cuts; minted
// tokens equal the quote against the pre-trade virtual reserves.
func (e *Engine) BuyToken(ctx context.Context, buyer solana.PublicKey, tokenID, solAmount uint64) (*models.Transaction, error) {
	ps, err := e.store.Platform()
	if err != nil {
		return nil, err
	}
	if ps.Paused {
		return nil, ErrTradingNotActive
	}

	tx, price, err := e.settleBuy(buyer, tokenID, solAmount, ps)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, tx, price)
	return tx, nil
}

func (e *Engine) settleBuy(buyer solana.PublicKey, tokenID, solAmount uint64, ps models.PlatformState) (*models.Transaction, uint64, error) {
	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return nil, 0, ErrTokenNotFound
	}
	defer tok.Unlock()

	if tok.Info.ID != tokenID {
		return nil, 0, ErrTokenNotFound
	}
	if tok.Info.Launched {
		return nil, 0, ErrTokenAlreadyLaunched
	}
	if !tok.Info.TradingActive {
		return nil, 0, ErrTradingNotActive
	}
	if solAmount < MinPurchase {
		return nil, 0, ErrPurchaseTooSmall
	}
	if solAmount > MaxPurchase {
		return nil, 0, ErrPurchaseTooLarge
	}

	tokenOut, err := curve.QuoteOut(tok.Curve.VirtualSol, tok.Curve.VirtualToken, solAmount)
	if err != nil {
		return nil, 0, err
	}
	if tokenOut == 0 {
		return nil, 0, ErrInvalidPurchaseAmount
	}
	if tokenOut > tok.Curve.RealToken {
		return nil, 0, ErrInsufficientReserves
	}

	platformFee, creatorFee, net, err := splitFees(solAmount, ps.FeeRateBps)
	if err != nil {
		return nil, 0, err
	}

	// Stage the full arithmetic outcome on copies before any asset moves, so
	// a checked-arithmetic failure aborts with nothing transferred.
	now := e.now()
	bc := *tok.Curve
	if err := curve.ApplyBuy(&bc, net, tokenOut, now); err != nil {
		return nil, 0, err
	}
	if err := curve.BumpVolumes(&bc, solAmount, tokenOut); err != nil {
		return nil, 0, err
	}
	curve.RefreshDerived(&bc, tok.Info.Decimals, tok.Info.TotalSupply)

	info := *tok.Info
	if info.CirculatingSupply, err = curve.CheckedAdd(info.CirculatingSupply, tokenOut); err != nil {
		return nil, 0, err
	}
	if info.SolRaised, err = curve.CheckedAdd(info.SolRaised, solAmount); err != nil {
		return nil, 0, err
	}
	if info.CreatorFees, err = curve.CheckedAdd(info.CreatorFees, creatorFee); err != nil {
		return nil, 0, err
	}
	info.TxCount++

	curveAddr, err := store.CurveAddress(tokenID)
	if err != nil {
		return nil, 0, err
	}

	// Mint first: while the token lock is held nothing else can touch this
	// holding, so the burn below reverses it exactly if settlement fails.
	if err := e.mints.MintTo(info.Mint, curveAddr, buyer, tokenOut); err != nil {
		return nil, 0, err
	}

	// All three legs settle under one treasury lock: either the buyer covers
	// the full gross amount and every leg lands, or nothing moves. A partial
	// settlement is not possible even against a concurrent buy draining the
	// same buyer on another token.
	err = e.treasury.Settle(buyer,
		bank.Leg{To: curveAddr, Amount: net},
		bank.Leg{To: e.platformAddr, Amount: platformFee},
		bank.Leg{To: info.Creator, Amount: creatorFee},
	)
	if err != nil {
		if burnErr := e.mints.Burn(info.Mint, buyer, tokenOut); burnErr != nil {
			e.logger.WithError(burnErr).WithField("token_id", tokenID).Error("failed to reverse mint after aborted settlement")
		}
		if errors.Is(err, bank.ErrInsufficientFunds) {
			return nil, 0, ErrInsufficientSolBalance
		}
		return nil, 0, err
	}

	// Commit.
	*tok.Curve = bc
	*tok.Info = info

	tx := &models.Transaction{
		ID:          info.TxCount,
		TokenID:     tokenID,
		User:        buyer,
		Type:        models.TxBuy,
		SolAmount:   solAmount,
		TokenAmount: tokenOut,
		Price:       tradePrice(solAmount, tokenOut, info.Decimals),
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
		Timestamp:   now,
	}
	tok.AppendTx(tx)

	e.logger.WithFields(logrus.Fields{
		"token_id":     tokenID,
		"buyer":        buyer.String(),
		"sol_amount":   solAmount,
		"token_out":    tokenOut,
		"platform_fee": platformFee,
		"creator_fee":  creatorFee,
	}).Info("buy settled")

	return tx, bc.CurrentPrice, nil
}

// SellToken burns tokenAmount from the seller and pays out the curve quote
// minus fees. Fees come out of the gross sol quote, so the curve's reserves
// drop by the full quote while the seller receives the net.
func (e *Engine) SellToken(ctx context.Context, seller solana.PublicKey, tokenID, tokenAmount uint64) (*models.Transaction, error) {
	ps, err := e.store.Platform()
	if err != nil {
		return nil, err
	}
	if ps.Paused {
		return nil, ErrTradingNotActive
	}

	tx, price, err := e.settleSell(seller, tokenID, tokenAmount, ps)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, tx, price)
	return tx, nil
}

func (e *Engine) settleSell(seller solana.PublicKey, tokenID, tokenAmount uint64, ps models.PlatformState) (*models.Transaction, uint64, error) {
	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return nil, 0, ErrTokenNotFound
	}
	defer tok.Unlock()

	if tok.Info.ID != tokenID {
		return nil, 0, ErrTokenNotFound
	}
	if tok.Info.Launched {
		return nil, 0, ErrTokenAlreadyLaunched
	}
	if !tok.Info.TradingActive {
		return nil, 0, ErrTradingNotActive
	}
	if tokenAmount == 0 {
		return nil, 0, ErrInvalidPurchaseAmount
	}

	solOut, err := curve.QuoteOut(tok.Curve.VirtualToken, tok.Curve.VirtualSol, tokenAmount)
	if err != nil {
		return nil, 0, err
	}
	if solOut == 0 {
		return nil, 0, ErrInvalidPurchaseAmount
	}
	if solOut > tok.Curve.RealSol {
		return nil, 0, ErrInsufficientReserves
	}

	platformFee, creatorFee, net, err := splitFees(solOut, ps.FeeRateBps)
	if err != nil {
		return nil, 0, err
	}

	now := e.now()
	bc := *tok.Curve
	if err := curve.ApplySell(&bc, tokenAmount, solOut, now); err != nil {
		return nil, 0, err
	}
	if err := curve.BumpVolumes(&bc, solOut, tokenAmount); err != nil {
		return nil, 0, err
	}
	curve.RefreshDerived(&bc, tok.Info.Decimals, tok.Info.TotalSupply)

	info := *tok.Info
	if info.CirculatingSupply, err = curve.CheckedSub(info.CirculatingSupply, tokenAmount); err != nil {
		return nil, 0, err
	}
	if info.CreatorFees, err = curve.CheckedAdd(info.CreatorFees, creatorFee); err != nil {
		return nil, 0, err
	}
	info.TxCount++

	curveAddr, err := store.CurveAddress(tokenID)
	if err != nil {
		return nil, 0, err
	}

	// Burn before paying out: the seller must actually hold the tokens.
	if e.mints.BalanceOf(info.Mint, seller) < tokenAmount {
		return nil, 0, ErrInsufficientTokens
	}
	if err := e.mints.Burn(info.Mint, seller, tokenAmount); err != nil {
		return nil, 0, err
	}

	// The payout legs settle atomically; a failure re-mints the burned
	// tokens so the seller is made whole.
	err = e.treasury.Settle(curveAddr,
		bank.Leg{To: seller, Amount: net},
		bank.Leg{To: e.platformAddr, Amount: platformFee},
		bank.Leg{To: info.Creator, Amount: creatorFee},
	)
	if err != nil {
		if mintErr := e.mints.MintTo(info.Mint, curveAddr, seller, tokenAmount); mintErr != nil {
			e.logger.WithError(mintErr).WithField("token_id", tokenID).Error("failed to reverse burn after aborted settlement")
		}
		return nil, 0, err
	}

	*tok.Curve = bc
	*tok.Info = info

	tx := &models.Transaction{
		ID:          info.TxCount,
		TokenID:     tokenID,
		User:        seller,
		Type:        models.TxSell,
		SolAmount:   solOut,
		TokenAmount: tokenAmount,
		Price:       tradePrice(solOut, tokenAmount, info.Decimals),
		PlatformFee: platformFee,
		CreatorFee:  creatorFee,
		Timestamp:   now,
	}
	tok.AppendTx(tx)

	e.logger.WithFields(logrus.Fields{
		"token_id":     tokenID,
		"seller":       seller.String(),
		"token_amount": tokenAmount,
		"sol_out":      solOut,
		"platform_fee": platformFee,
		"creator_fee":  creatorFee,
	}).Info("sell settled")

	return tx, bc.CurrentPrice, nil
}
