package engine

import (
	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// CreateTokenParams is the caller-supplied token metadata.
type CreateTokenParams struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	URI           string `json:"uri"`
	Decimals      uint8  `json:"decimals"`
	InitialSupply uint64 `json:"initial_supply"`
}

func (p CreateTokenParams) validate() error {
	switch {
	case len(p.Name) > MaxNameLen:
		return ErrTokenNameTooLong
	case len(p.Symbol) > MaxSymbolLen:
		return ErrTokenSymbolTooLong
	case len(p.URI) > MaxURILen:
		return ErrTokenURITooLong
	case p.Decimals > MaxDecimals:
		return ErrInvalidDecimals
	case p.InitialSupply == 0 || p.InitialSupply > MaxTokenSupply:
		return ErrInvalidInitialSupply
	}
	return nil
}

// CreateToken allocates the next token id, registers the mint with the curve
// record as its authority, and seeds the lifecycle and reserve records. The
// full initial supply sits in the curve's real token reserves; nothing
// circulates until the first buy.
func (e *Engine) CreateToken(creator solana.PublicKey, params CreateTokenParams) (*models.TokenInfo, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	ps, err := e.store.Platform()
	if err != nil {
		return nil, err
	}
	if ps.Paused {
		return nil, ErrTradingNotActive
	}

	var tokenID uint64
	if err := e.store.UpdatePlatform(func(live *models.PlatformState) error {
		if live.Paused {
			return ErrTradingNotActive
		}
		live.TokenCount++
		tokenID = live.TokenCount
		return nil
	}); err != nil {
		return nil, err
	}

	curveAddr, err := store.CurveAddress(tokenID)
	if err != nil {
		return nil, err
	}
	mintAddr, err := store.MintAddress(curveAddr)
	if err != nil {
		return nil, err
	}

	// The curve record itself is the mint authority: supply can only move
	// through engine operations until launch hands the authority over.
	if err := e.mints.CreateMint(mintAddr, params.Decimals, curveAddr); err != nil {
		return nil, err
	}

	now := e.now()
	info := &models.TokenInfo{
		ID:            tokenID,
		Mint:          mintAddr,
		Creator:       creator,
		Name:          params.Name,
		Symbol:        params.Symbol,
		URI:           params.URI,
		Decimals:      params.Decimals,
		TotalSupply:   params.InitialSupply,
		TradingActive: true,
		CreatedAt:     now,
	}
	bc := &models.BondingCurve{
		TokenID:      tokenID,
		VirtualSol:   InitialVirtualSol,
		VirtualToken: InitialVirtualToken,
		RealToken:    params.InitialSupply,
		Active:       true,
		LastUpdated:  now,
	}
	curve.RefreshDerived(bc, params.Decimals, params.InitialSupply)
	e.store.PutToken(info, bc)

	e.logger.WithFields(logrus.Fields{
		"token_id": tokenID,
		"symbol":   params.Symbol,
		"mint":     mintAddr.String(),
		"creator":  creator.String(),
		"supply":   params.InitialSupply,
	}).Info("token created")

	out := *info
	return &out, nil
}
