// Package engine orchestrates the four state-changing launchpad operations
// (create, buy, sell, launch) plus deletion and the authority-gated admin
// surface. It composes the pricing math, the record store and the settlement
// collaborators; every operation is synchronous and commits all-or-nothing.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/datmedevil17/memeLaunchpad-22/internal/bank"
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/datmedevil17/memeLaunchpad-22/internal/storage"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Signer stamps committed transactions with a settlement signature.
type Signer interface {
	SignTransaction(tx *models.Transaction) error
}

// Deps carries everything an Engine needs. Sink, Cache and Signer are
// optional attachments: trades commit to the in-process store first, the
// external sinks are best-effort audit/broadcast.
type Deps struct {
	Store    *store.Store
	Treasury *bank.Treasury
	Mints    *bank.MintRegistry
	Sink     storage.TradeSink
	Cache    storage.TradeCache
	Signer   Signer
	Logger   *logrus.Logger
	Now      func() time.Time
}

type Engine struct {
	store    *store.Store
	treasury *bank.Treasury
	mints    *bank.MintRegistry
	sink     storage.TradeSink
	cache    storage.TradeCache
	signer   Signer
	logger   *logrus.Logger
	now      func() time.Time

	platformAddr solana.PublicKey
}

func New(deps Deps) (*Engine, error) {
	if deps.Store == nil || deps.Treasury == nil || deps.Mints == nil {
		return nil, fmt.Errorf("engine: store, treasury and mints are required")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	platformAddr, err := store.PlatformAddress()
	if err != nil {
		return nil, fmt.Errorf("engine: derive platform address: %w", err)
	}

	return &Engine{
		store:        deps.Store,
		treasury:     deps.Treasury,
		mints:        deps.Mints,
		sink:         deps.Sink,
		cache:        deps.Cache,
		signer:       deps.Signer,
		logger:       deps.Logger,
		now:          deps.Now,
		platformAddr: platformAddr,
	}, nil
}

// Initialize bootstraps the platform singleton. The deployer becomes both
// authority and treasury until the admin surface reassigns them. Calling it
// twice fails with store.ErrAlreadyInitialized.
func (e *Engine) Initialize(deployer solana.PublicKey) (models.PlatformState, error) {
	ps := &models.PlatformState{
		Initialized:     true,
		FeeRateBps:      DefaultFeeRateBps,
		LaunchThreshold: DefaultLaunchThreshold,
		Authority:       deployer,
		Treasury:        deployer,
		CreatedAt:       e.now(),
	}

	if err := e.store.InitPlatform(ps); err != nil {
		return models.PlatformState{}, err
	}

	e.logger.WithFields(logrus.Fields{
		"authority":        deployer.String(),
		"fee_rate_bps":     ps.FeeRateBps,
		"launch_threshold": ps.LaunchThreshold,
	}).Info("launchpad initialized")

	return *ps, nil
}

// Platform returns a snapshot of the platform state.
func (e *Engine) Platform() (models.PlatformState, error) {
	return e.store.Platform()
}

// PlatformFeeBalance is the lamport balance currently held against the
// platform's fee address (accrued trade fees plus launch cuts, minus
// withdrawals).
func (e *Engine) PlatformFeeBalance() uint64 {
	return e.treasury.Balance(e.platformAddr)
}

// TokenDetail is the read view of one token: lifecycle plus curve snapshot.
type TokenDetail struct {
	Info  models.TokenInfo   `json:"info"`
	Curve models.BondingCurve `json:"curve"`
}

// Token returns a snapshot of one token's records.
func (e *Engine) Token(tokenID uint64) (TokenDetail, error) {
	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return TokenDetail{}, ErrTokenNotFound
	}
	defer tok.Unlock()
	return TokenDetail{Info: *tok.Info, Curve: *tok.Curve}, nil
}

// ListTokens returns lifecycle snapshots for every token.
func (e *Engine) ListTokens() []models.TokenInfo {
	return e.store.ListTokens()
}

// Transactions returns up to limit most-recent ledger entries for a token,
// newest first.
func (e *Engine) Transactions(tokenID uint64, limit int) ([]*models.Transaction, error) {
	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	defer tok.Unlock()
	return tok.Transactions(limit), nil
}

// Progress reports a token's spot price and how far its real reserves are
// toward the launch threshold, in basis points capped at 10000.
type Progress struct {
	TokenID     uint64 `json:"token_id"`
	Price       uint64 `json:"price"`
	RealSol     uint64 `json:"real_sol_reserves"`
	Threshold   uint64 `json:"launch_threshold"`
	ProgressBps uint64 `json:"progress_bps"`
	Launched    bool   `json:"launched"`
}

// TokenProgress returns launch progress for one token.
func (e *Engine) TokenProgress(tokenID uint64) (Progress, error) {
	ps, err := e.store.Platform()
	if err != nil {
		return Progress{}, err
	}

	tok, err := e.store.Acquire(tokenID)
	if err != nil {
		return Progress{}, ErrTokenNotFound
	}
	defer tok.Unlock()

	p := Progress{
		TokenID:   tokenID,
		Price:     tok.Curve.CurrentPrice,
		RealSol:   tok.Curve.RealSol,
		Threshold: ps.LaunchThreshold,
		Launched:  tok.Info.Launched,
	}
	if ps.LaunchThreshold > 0 {
		bps := tok.Curve.RealSol * FeeDenominator / ps.LaunchThreshold
		if bps > FeeDenominator {
			bps = FeeDenominator
		}
		p.ProgressBps = bps
	}
	return p, nil
}

// emit forwards a committed transaction to the optional sink and cache.
// Called after the token lock is released; failures are logged, never
// propagated, because the authoritative record is already committed.
func (e *Engine) emit(ctx context.Context, tx *models.Transaction, price uint64) {
	if e.signer != nil {
		if err := e.signer.SignTransaction(tx); err != nil {
			e.logger.WithError(err).WithField("tx_id", tx.ID).Warn("transaction signing failed")
		}
	}
	if e.sink != nil {
		if err := e.sink.InsertTransaction(ctx, tx); err != nil {
			e.logger.WithError(err).WithField("tx_id", tx.ID).Warn("ledger sink insert failed")
		}
	}
	if e.cache == nil {
		return
	}
	if err := e.cache.AddRecentTrade(ctx, tx); err != nil {
		e.logger.WithError(err).Warn("recent-trades cache update failed")
	}
	if err := e.cache.SetPrice(ctx, tx.TokenID, price); err != nil {
		e.logger.WithError(err).Warn("price cache update failed")
	}
	if err := e.cache.PublishTrade(ctx, tx); err != nil {
		e.logger.WithError(err).Warn("trade publish failed")
	}
}
