package engine

import "time"

// Platform defaults and hard limits, all amounts in lamports.
const (
	DefaultFeeRateBps      = 250   // 2.5%
	MaxFeeRateBps          = 1000  // 10% cap on the platform rate
	CreatorFeeBps          = 100   // fixed 1% creator cut on every trade
	FeeDenominator         = 10000 // basis points
	LiquidityShareBps      = 8000  // creator's share of reserves at launch

	DefaultLaunchThreshold = 1_000_000_000_000 // 1000 SOL
	MinLaunchThreshold     = 100_000_000_000   // 100 SOL floor for admin updates

	MinPurchase = 100_000_000    // 0.1 SOL
	MaxPurchase = 10_000_000_000 // 10 SOL per transaction
)

// Token metadata and supply bounds.
const (
	MaxNameLen     = 32
	MaxSymbolLen   = 8
	MaxURILen      = 256
	MaxDecimals    = 9
	MaxTokenSupply = 1_000_000_000_000_000 // 1 billion whole tokens at 6 decimals
)

// Bonding curve seed reserves. Virtual reserves start well above the real
// ones to dampen early-trade price impact and set a believable opening price.
const (
	InitialVirtualSol   = 30_000_000_000
	InitialVirtualToken = 1_073_000_000_000_000
)

// Launch timing.
const (
	MinTradingTime = time.Hour      // earliest launch after creation
	LaunchCooldown = 24 * time.Hour // re-listing cooldown on external venues
)
