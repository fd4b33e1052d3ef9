package engine

import "errors"

// Error kinds surfaced by engine operations. Every failure aborts the whole
// operation with no partial mutation; callers are expected to pass the kind
// through verbatim.
var (
	// validation
	ErrTokenNameTooLong     = errors.New("token name too long")
	ErrTokenSymbolTooLong   = errors.New("token symbol too long")
	ErrTokenURITooLong      = errors.New("token uri too long")
	ErrInvalidDecimals      = errors.New("invalid decimals value")
	ErrInvalidInitialSupply = errors.New("invalid initial supply")
	ErrInvalidFeeRate       = errors.New("invalid fee rate")
	ErrInvalidThreshold     = errors.New("invalid launch threshold")

	// state gates
	ErrTradingNotActive     = errors.New("trading not active")
	ErrTokenNotFound        = errors.New("token not found")
	ErrTokenAlreadyLaunched = errors.New("token already launched to dex")
	ErrThresholdNotMet      = errors.New("launch threshold not met")
	ErrLaunchCooldownActive = errors.New("launch cooldown period not elapsed")

	// purchase bounds
	ErrPurchaseTooSmall       = errors.New("purchase amount too small")
	ErrPurchaseTooLarge       = errors.New("purchase amount too large")
	ErrInvalidPurchaseAmount  = errors.New("invalid purchase amount")
	ErrInsufficientReserves   = errors.New("insufficient reserves")
	ErrInsufficientSolBalance = errors.New("insufficient sol balance")
	ErrInsufficientTokens     = errors.New("insufficient token balance")

	// authorization
	ErrUnauthorized = errors.New("unauthorized operation")
)
