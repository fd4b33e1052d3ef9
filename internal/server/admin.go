package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Admin handlers. The whole group sits behind key auth; the engine still
// re-checks the signing authority on every call, so the API key alone is not
// enough to administer the platform.

// AdminUpdateSettings changes the platform fee rate and launch threshold
func (h *Handlers) AdminUpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	authority, err := pubkeyField(req.Authority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid authority", nil)
	}

	if err := h.Engine.UpdatePlatformSettings(authority, req.FeeRateBps, req.LaunchThreshold); err != nil {
		return h.engineErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminUpdateAuthority hands platform control to a new identity
func (h *Handlers) AdminUpdateAuthority(c echo.Context) error {
	var req UpdateAuthorityRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	current, err := pubkeyField(req.Authority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid authority", nil)
	}
	next, err := pubkeyField(req.NewAuthority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid new_authority", nil)
	}

	if err := h.Engine.UpdateAuthority(current, next); err != nil {
		return h.engineErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminUpdateTreasury changes the fee-withdrawal destination
func (h *Handlers) AdminUpdateTreasury(c echo.Context) error {
	var req UpdateTreasuryRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	authority, err := pubkeyField(req.Authority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid authority", nil)
	}
	treasury, err := pubkeyField(req.Treasury)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid treasury", nil)
	}

	if err := h.Engine.UpdateTreasury(authority, treasury); err != nil {
		return h.engineErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminTogglePause flips the platform-wide emergency pause
func (h *Handlers) AdminTogglePause(c echo.Context) error {
	var req PauseRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	authority, err := pubkeyField(req.Authority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid authority", nil)
	}

	paused, err := h.Engine.ToggleEmergencyPause(authority)
	if err != nil {
		return h.engineErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"paused": paused})
}

// AdminWithdrawFees moves accrued platform fees to the treasury
func (h *Handlers) AdminWithdrawFees(c echo.Context) error {
	var req WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	authority, err := pubkeyField(req.Authority)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid authority", nil)
	}

	if err := h.Engine.WithdrawPlatformFees(authority, req.Amount); err != nil {
		return h.engineErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
