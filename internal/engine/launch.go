package engine

import (
	"context"

	"github.com/datmedevil17/memeLaunchpad-22/internal/bank"
	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// LaunchToDEX performs the one-shot, irreversible migration of a token off
// the curve. The curve's mint authority moves to the creator, the real sol
// reserves split 80/20 between creator liquidity and platform fees, and
// trading on the curve shuts down permanently. nextTxID must equal the
// token's current tx_count + 1; a stale id aborts before anything moves.
func (e *Engine) LaunchToDEX(ctx context.Context, launcher solana.PublicKey, tokenID, nextTxID uint64) (*models.Transaction, error) {
	ps, err := e.store.Platform()
	if err != nil {
		return nil, err
	}
	if ps.Paused {
		return nil, ErrTradingNotActive
	}

	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return nil, ErrTokenNotFound
	}

	tx, err := e.settleLaunch(tok, launcher, tokenID, nextTxID, ps)
	tok.Unlock()
	if err != nil {
		return nil, err
	}

	// The launch cut is the only trade-path mutation of the platform
	// aggregate; trades accrue fees as held balance only.
	if err := e.store.UpdatePlatform(func(live *models.PlatformState) error {
		total, err := curve.CheckedAdd(live.FeesCollected, tx.PlatformFee)
		if err != nil {
			return err
		}
		live.FeesCollected = total
		return nil
	}); err != nil {
		e.logger.WithError(err).Warn("platform fee aggregate update failed")
	}

	e.emit(ctx, tx, 0)
	return tx, nil
}

func (e *Engine) settleLaunch(tok *store.Token, launcher solana.PublicKey, tokenID, nextTxID uint64, ps models.PlatformState) (*models.Transaction, error) {
	if tok.Info.ID != tokenID {
		return nil, ErrTokenNotFound
	}
	if tok.Info.Launched {
		return nil, ErrTokenAlreadyLaunched
	}
	if tok.Curve.RealSol < ps.LaunchThreshold {
		return nil, ErrThresholdNotMet
	}

	now := e.now()
	if now.Sub(tok.Info.CreatedAt) < MinTradingTime {
		return nil, ErrLaunchCooldownActive
	}

	wantTxID, err := curve.CheckedAdd(tok.Info.TxCount, 1)
	if err != nil {
		return nil, err
	}
	if nextTxID != wantTxID {
		return nil, curve.ErrArithmeticOverflow
	}

	totalReserves := tok.Curve.RealSol
	liquidity, err := curve.MulDivFloor(totalReserves, LiquidityShareBps, FeeDenominator)
	if err != nil {
		return nil, err
	}
	// The platform cut is the exact remainder, so the split always sums back
	// to the pre-split total.
	launchFee, err := curve.CheckedSub(totalReserves, liquidity)
	if err != nil {
		return nil, err
	}

	curveAddr, err := store.CurveAddress(tokenID)
	if err != nil {
		return nil, err
	}

	// Both legs of the split settle atomically. The authority handover comes
	// after the funds move: while the token lock is held the curve still
	// holds the authority, so the handover cannot fail post-settlement.
	if err := e.treasury.Settle(curveAddr,
		bank.Leg{To: tok.Info.Creator, Amount: liquidity},
		bank.Leg{To: e.platformAddr, Amount: launchFee},
	); err != nil {
		return nil, err
	}
	if err := e.mints.SetAuthority(tok.Info.Mint, curveAddr, tok.Info.Creator); err != nil {
		return nil, err
	}

	tok.Info.Launched = true
	tok.Info.LaunchedAt = &now
	tok.Info.TradingActive = false
	tok.Info.TxCount = nextTxID

	tok.Curve.RealSol = 0
	tok.Curve.Active = false
	tok.Curve.LastUpdated = now

	tx := &models.Transaction{
		ID:          nextTxID,
		TokenID:     tokenID,
		User:        launcher,
		Type:        models.TxLaunch,
		SolAmount:   totalReserves,
		PlatformFee: launchFee,
		Timestamp:   now,
	}
	tok.AppendTx(tx)

	e.logger.WithFields(logrus.Fields{
		"token_id":   tokenID,
		"liquidity":  liquidity,
		"launch_fee": launchFee,
		"creator":    tok.Info.Creator.String(),
	}).Info("token launched to dex")

	return tx, nil
}

// DeleteToken releases an untraded token: only the creator may delete, only
// before launch, and only while nothing circulates. Any sol the curve holds
// is refunded to the creator and both records are removed.
func (e *Engine) DeleteToken(caller solana.PublicKey, tokenID uint64) error {
	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return ErrTokenNotFound
	}
	defer tok.Unlock()

	if !tok.Info.Creator.Equals(caller) {
		return ErrUnauthorized
	}
	if tok.Info.Launched {
		return ErrTokenAlreadyLaunched
	}
	if tok.Info.CirculatingSupply > 0 {
		return ErrTradingNotActive
	}

	if tok.Curve.RealSol > 0 {
		curveAddr, err := store.CurveAddress(tokenID)
		if err != nil {
			return err
		}
		if err := e.treasury.Transfer(curveAddr, tok.Info.Creator, tok.Curve.RealSol); err != nil {
			return err
		}
	}

	e.store.Delete(tokenID)

	e.logger.WithFields(logrus.Fields{
		"token_id": tokenID,
		"creator":  caller.String(),
	}).Info("token deleted")

	return nil
}
