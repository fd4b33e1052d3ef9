package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/datmedevil17/memeLaunchpad-22/internal/jupiter"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
)

// Quote proxies a Jupiter quote for a launched token against wrapped SOL.
// Tokens still on their curve price through the curve, not the DEX, so the
// endpoint rejects them.
func (h *Handlers) Quote(c echo.Context) error {
	if h.Jupiter == nil {
		return h.err(c, http.StatusBadRequest, "jupiter is not configured", nil)
	}

	id, err := tokenIDParam(c)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid token id", nil)
	}
	detail, err := h.Engine.Token(id)
	if err != nil {
		return h.engineErr(c, err)
	}
	if !detail.Info.Launched {
		return h.err(c, http.StatusConflict, "token has not launched; price it through the curve", nil)
	}

	amountStr := strings.TrimSpace(c.QueryParam("amount"))
	if amountStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "required"})
	}
	if _, err := strconv.ParseUint(amountStr, 10, 64); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
	}

	// side=buy quotes SOL -> token, side=sell quotes token -> SOL.
	side := strings.TrimSpace(c.QueryParam("side"))
	if side == "" {
		side = "buy"
	}
	inputMint := solana.SolMint.String()
	outputMint := detail.Info.Mint.String()
	switch side {
	case "buy":
	case "sell":
		inputMint, outputMint = outputMint, inputMint
	default:
		return h.err(c, http.StatusBadRequest, "invalid side", map[string]any{"side": "must be buy or sell"})
	}

	var slippageBps *uint16
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid slippageBps", map[string]any{"slippageBps": "must be uint16"})
		}
		tmp := uint16(n)
		slippageBps = &tmp
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	out, err := h.Jupiter.Quote(ctx, jupiter.QuoteRequest{
		InputMint:   inputMint,
		OutputMint:  outputMint,
		Amount:      amountStr,
		SlippageBps: slippageBps,
	})
	if err != nil {
		return h.err(c, http.StatusBadGateway, "jupiter quote failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, out)
}
