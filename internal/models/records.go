// ============================================================================
// models/records.go - launchpad account records
// ============================================================================
package models

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// PlatformState is the process-wide singleton holding platform configuration
// and aggregate counters. It is created once by Initialize and mutated only
// through authority-gated operations.
type PlatformState struct {
	Initialized     bool             `json:"initialized"`
	TokenCount      uint64           `json:"token_count"`
	FeeRateBps      uint64           `json:"fee_rate_bps"` // platform fee in basis points (250 = 2.5%)
	LaunchThreshold uint64           `json:"launch_threshold"` // lamports of real reserves required to launch
	Authority       solana.PublicKey `json:"authority"`
	Treasury        solana.PublicKey `json:"treasury"`
	FeesCollected   uint64           `json:"fees_collected"`
	Paused          bool             `json:"paused"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TokenInfo is the per-token lifecycle record. Trading is legal only while
// TradingActive is true and Launched is false; once Launched flips, both are
// terminal.
type TokenInfo struct {
	ID                uint64           `json:"id"`
	Mint              solana.PublicKey `json:"mint"`
	Creator           solana.PublicKey `json:"creator"`
	Name              string           `json:"name"`
	Symbol            string           `json:"symbol"`
	URI               string           `json:"uri"`
	Decimals          uint8            `json:"decimals"`
	TotalSupply       uint64           `json:"total_supply"`
	CirculatingSupply uint64           `json:"circulating_supply"`
	Launched          bool             `json:"launched"`
	LaunchedAt        *time.Time       `json:"launched_at,omitempty"`
	SolRaised         uint64           `json:"sol_raised"`
	HolderCount       uint64           `json:"holder_count"`
	TxCount           uint64           `json:"tx_count"`
	CreatedAt         time.Time        `json:"created_at"`
	TradingActive     bool             `json:"trading_active"`
	CreatorFees       uint64           `json:"creator_fees_collected"`
}

// BondingCurve is the per-token reserve state. Virtual reserves drive
// pricing; real reserves are what the curve actually holds and can pay out.
type BondingCurve struct {
	TokenID          uint64    `json:"token_id"`
	VirtualSol       uint64    `json:"virtual_sol_reserves"`
	VirtualToken     uint64    `json:"virtual_token_reserves"`
	RealSol          uint64    `json:"real_sol_reserves"`
	RealToken        uint64    `json:"real_token_reserves"`
	TotalSolVolume   uint64    `json:"total_sol_volume"`
	TotalTokenVolume uint64    `json:"total_token_volume"`
	CurrentPrice     uint64    `json:"current_price"` // lamports per whole token
	MarketCap        uint64    `json:"market_cap"`
	Active           bool      `json:"active"`
	LastUpdated      time.Time `json:"last_updated"`
}

// TxType is the kind of a ledger entry.
type TxType string

const (
	TxBuy    TxType = "buy"
	TxSell   TxType = "sell"
	TxLaunch TxType = "launch"
)

// Transaction is one immutable audit-trail entry, appended by the engine
// after a trade or launch commits. IDs are monotonic per token.
type Transaction struct {
	ID          uint64           `json:"id"`
	TokenID     uint64           `json:"token_id"`
	User        solana.PublicKey `json:"user"`
	Type        TxType           `json:"type"`
	SolAmount   uint64           `json:"sol_amount"`
	TokenAmount uint64           `json:"token_amount"`
	Price       uint64           `json:"price"` // lamports per whole token at execution, 0 if underivable
	PlatformFee uint64           `json:"platform_fee"`
	CreatorFee  uint64           `json:"creator_fee"`
	Timestamp   time.Time        `json:"timestamp"`
	Signature   solana.Signature `json:"-"`
}
