package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/datmedevil17/memeLaunchpad-22/internal/ai"
	"github.com/datmedevil17/memeLaunchpad-22/internal/engine"
	"github.com/datmedevil17/memeLaunchpad-22/internal/flags"
	"github.com/datmedevil17/memeLaunchpad-22/internal/jupiter"
	"github.com/datmedevil17/memeLaunchpad-22/internal/storage"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Engine       *engine.Engine     // Trading engine (authoritative state)
	Cache        storage.TradeCache // Redis-backed trade cache (optional)
	Flags        *flags.Store       // Redis-backed kill switches (optional)
	AI           *ai.Agent          // AI agent for natural language queries
	AIBaseConfig ai.AgentConfig     // Base configuration for AI agents
	DevMode      bool               // Enable detailed error responses in development
	Logger       *logrus.Logger     // Structured logger
	Jupiter      *jupiter.Client    // Jupiter Quote API client (optional)
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// enabled checks a kill switch; absent flags or an absent store read as on.
func (h *Handlers) enabled(ctx context.Context, key string) bool {
	if h.Flags == nil {
		return true
	}
	return h.Flags.Enabled(ctx, key)
}

// tokenIDParam parses the :id path parameter.
func tokenIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
}

// pubkeyField parses a base58 public key from a request field.
func pubkeyField(s string) (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(strings.TrimSpace(s))
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// PlatformStatus returns the platform singleton and the held fee balance
func (h *Handlers) PlatformStatus(c echo.Context) error {
	ps, err := h.Engine.Platform()
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"platform":    ps,
		"fee_balance": h.Engine.PlatformFeeBalance(),
	})
}

// CreateToken creates a new token on a fresh bonding curve
func (h *Handlers) CreateToken(c echo.Context) error {
	if !h.enabled(c.Request().Context(), flags.KeyCreateEnabled) {
		return h.err(c, http.StatusServiceUnavailable, "token creation is disabled", nil)
	}

	var req CreateTokenRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	creator, err := pubkeyField(req.Creator)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid creator", map[string]any{"creator": "must be a base58 public key"})
	}

	info, err := h.Engine.CreateToken(creator, engine.CreateTokenParams{
		Name:          req.Name,
		Symbol:        req.Symbol,
		URI:           req.URI,
		Decimals:      req.Decimals,
		InitialSupply: req.InitialSupply,
	})
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusCreated, info)
}

// ListTokens returns lifecycle records for every token
func (h *Handlers) ListTokens(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"items": h.Engine.ListTokens()})
}

// GetToken returns one token's lifecycle record and curve snapshot
func (h *Handlers) GetToken(c echo.Context) error {
	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	detail, err := h.Engine.Token(id)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// TokenProgress returns how far a token is toward its launch threshold
func (h *Handlers) TokenProgress(c echo.Context) error {
	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	p, err := h.Engine.TokenProgress(id)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Price returns the current spot price for a token
// Reads the cache when available and falls back to the engine
func (h *Handlers) Price(c echo.Context) error {
	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}

	if h.Cache != nil {
		ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
		price, err := h.Cache.GetPrice(ctx, id)
		cancel()
		if err == nil && price > 0 {
			return c.JSON(http.StatusOK, PriceResponse{TokenID: id, Price: price})
		}
	}

	p, err := h.Engine.TokenProgress(id)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, PriceResponse{TokenID: id, Price: p.Price})
}

// Transactions returns a token's most recent ledger entries, newest first
// Accepts limit query parameter (default: 100, range: 1-200)
func (h *Handlers) Transactions(c echo.Context) error {
	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 200 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	items, err := h.Engine.Transactions(id, limit)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// RecentTrades returns the cached rolling window of trades for a token
func (h *Handlers) RecentTrades(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "cache is not configured", nil)
	}

	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := int64(100)
	if limitStr != "" {
		n, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 200 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentTrades(ctx, id, limit)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get trades", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Buy swaps lamports for tokens on the curve
func (h *Handlers) Buy(c echo.Context) error {
	if !h.enabled(c.Request().Context(), flags.KeyBuyEnabled) {
		return h.err(c, http.StatusServiceUnavailable, "buying is disabled", nil)
	}

	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	var req BuyRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	buyer, err := pubkeyField(req.Buyer)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid buyer", map[string]any{"buyer": "must be a base58 public key"})
	}

	tx, err := h.Engine.BuyToken(c.Request().Context(), buyer, id, req.SolAmount)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// Sell swaps tokens back to lamports on the curve
func (h *Handlers) Sell(c echo.Context) error {
	if !h.enabled(c.Request().Context(), flags.KeySellEnabled) {
		return h.err(c, http.StatusServiceUnavailable, "selling is disabled", nil)
	}

	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	var req SellRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	seller, err := pubkeyField(req.Seller)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid seller", map[string]any{"seller": "must be a base58 public key"})
	}

	tx, err := h.Engine.SellToken(c.Request().Context(), seller, id, req.TokenAmount)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// Launch migrates a token off the curve to a DEX
func (h *Handlers) Launch(c echo.Context) error {
	if !h.enabled(c.Request().Context(), flags.KeyLaunchEnabled) {
		return h.err(c, http.StatusServiceUnavailable, "launching is disabled", nil)
	}

	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	var req LaunchRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	launcher, err := pubkeyField(req.Launcher)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid launcher", map[string]any{"launcher": "must be a base58 public key"})
	}

	tx, err := h.Engine.LaunchToDEX(c.Request().Context(), launcher, id, req.NextTxID)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// Delete removes an untraded token and refunds its reserves to the creator
// The caller query parameter must be the token's creator
func (h *Handlers) Delete(c echo.Context) error {
	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	caller, err := pubkeyField(c.QueryParam("caller"))
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid caller", map[string]any{"caller": "must be a base58 public key"})
	}

	if err := h.Engine.DeleteToken(caller, id); err != nil {
		return h.engineErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
