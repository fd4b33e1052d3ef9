package engine

import (
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Administrative operations. Every one of them re-checks the caller against
// the live authority under the platform write lock, so an authority handover
// racing an admin call cannot slip through on a stale snapshot.

// UpdatePlatformSettings changes the fee rate and launch threshold.
func (e *Engine) UpdatePlatformSettings(authority solana.PublicKey, feeRateBps, launchThreshold uint64) error {
	if feeRateBps > MaxFeeRateBps {
		return ErrInvalidFeeRate
	}
	if launchThreshold < MinLaunchThreshold {
		return ErrInvalidThreshold
	}

	err := e.store.UpdatePlatform(func(ps *models.PlatformState) error {
		if !ps.Authority.Equals(authority) {
			return ErrUnauthorized
		}
		ps.FeeRateBps = feeRateBps
		ps.LaunchThreshold = launchThreshold
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"fee_rate_bps":     feeRateBps,
		"launch_threshold": launchThreshold,
	}).Info("platform settings updated")
	return nil
}

// UpdateAuthority hands platform control to a new identity.
func (e *Engine) UpdateAuthority(current, next solana.PublicKey) error {
	err := e.store.UpdatePlatform(func(ps *models.PlatformState) error {
		if !ps.Authority.Equals(current) {
			return ErrUnauthorized
		}
		ps.Authority = next
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"old_authority": current.String(),
		"new_authority": next.String(),
	}).Info("platform authority updated")
	return nil
}

// UpdateTreasury changes the fee-withdrawal destination.
func (e *Engine) UpdateTreasury(authority, treasury solana.PublicKey) error {
	err := e.store.UpdatePlatform(func(ps *models.PlatformState) error {
		if !ps.Authority.Equals(authority) {
			return ErrUnauthorized
		}
		ps.Treasury = treasury
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.WithField("treasury", treasury.String()).Info("platform treasury updated")
	return nil
}

// ToggleEmergencyPause flips the platform pause flag and returns the new
// state. While paused, create/buy/sell/launch all fail ErrTradingNotActive.
func (e *Engine) ToggleEmergencyPause(authority solana.PublicKey) (bool, error) {
	var paused bool
	err := e.store.UpdatePlatform(func(ps *models.PlatformState) error {
		if !ps.Authority.Equals(authority) {
			return ErrUnauthorized
		}
		ps.Paused = !ps.Paused
		paused = ps.Paused
		return nil
	})
	if err != nil {
		return false, err
	}

	e.logger.WithField("paused", paused).Warn("emergency pause toggled")
	return paused, nil
}

// WithdrawPlatformFees moves accrued fees from the platform's fee address to
// the configured treasury, bounded by the held balance.
func (e *Engine) WithdrawPlatformFees(authority solana.PublicKey, amount uint64) error {
	ps, err := e.store.Platform()
	if err != nil {
		return err
	}
	if !ps.Authority.Equals(authority) {
		return ErrUnauthorized
	}
	if amount > e.treasury.Balance(e.platformAddr) {
		return ErrInsufficientSolBalance
	}

	if err := e.treasury.Transfer(e.platformAddr, ps.Treasury, amount); err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"amount":   amount,
		"treasury": ps.Treasury.String(),
	}).Info("platform fees withdrawn")
	return nil
}
