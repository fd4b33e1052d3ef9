package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// CreateTokenRequest creates a new token on its own bonding curve
type CreateTokenRequest struct {
	Creator       string `json:"creator"` // Base58 public key of the creator
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	URI           string `json:"uri"`
	Decimals      uint8  `json:"decimals"`
	InitialSupply uint64 `json:"initial_supply"`
}

// BuyRequest swaps lamports for tokens on the curve
type BuyRequest struct {
	Buyer     string `json:"buyer"` // Base58 public key of the buyer
	SolAmount uint64 `json:"sol_amount"`
}

// SellRequest swaps tokens back to lamports on the curve
type SellRequest struct {
	Seller      string `json:"seller"` // Base58 public key of the seller
	TokenAmount uint64 `json:"token_amount"`
}

// LaunchRequest migrates a token off the curve to a DEX
type LaunchRequest struct {
	Launcher string `json:"launcher"` // Base58 public key of the caller
	NextTxID uint64 `json:"next_tx_id"`
}

// PriceResponse represents a token's current spot price
type PriceResponse struct {
	TokenID uint64 `json:"token_id"`
	Price   uint64 `json:"price"` // Lamports per whole token
}

// UpdateSettingsRequest changes the platform fee rate and launch threshold
type UpdateSettingsRequest struct {
	Authority       string `json:"authority"`
	FeeRateBps      uint64 `json:"fee_rate_bps"`
	LaunchThreshold uint64 `json:"launch_threshold"`
}

// UpdateAuthorityRequest hands platform control to a new identity
type UpdateAuthorityRequest struct {
	Authority    string `json:"authority"`
	NewAuthority string `json:"new_authority"`
}

// UpdateTreasuryRequest changes the fee-withdrawal destination
type UpdateTreasuryRequest struct {
	Authority string `json:"authority"`
	Treasury  string `json:"treasury"`
}

// PauseRequest toggles the platform-wide emergency pause
type PauseRequest struct {
	Authority string `json:"authority"`
}

// WithdrawRequest moves accrued platform fees to the treasury
type WithdrawRequest struct {
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

// FlagUpsertRequest represents a request to create or update a feature flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`   // Flag key (must match regex pattern)
	Value bool   `json:"value"` // Flag value (true/false)
}

// FlagUpdateRequest represents a request to update an existing feature flag
type FlagUpdateRequest struct {
	Value bool `json:"value"` // New flag value
}

// AIAskRequest represents a natural language query request
type AIAskRequest struct {
	Question string `json:"question"` // Natural language question about trade data
	Model    string `json:"model"`    // Optional AI model override
}

// AIAskResponse represents the response from an AI query
type AIAskResponse struct {
	SQL    string `json:"sql"`     // Generated SQL query
	Answer string `json:"answer"`  // Natural language answer
	TookMs int64  `json:"took_ms"` // Execution time in milliseconds
}
