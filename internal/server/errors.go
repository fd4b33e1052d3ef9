package server

import (
	"errors"
	"net/http"

	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/datmedevil17/memeLaunchpad-22/internal/engine"
	"github.com/datmedevil17/memeLaunchpad-22/internal/store"
	"github.com/labstack/echo/v4"
)

// NotFoundJSON returns a custom HTTP error handler that returns JSON responses
// This ensures all errors (including 404s) have consistent JSON format
func NotFoundJSON() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// Don't send response if already committed
		if c.Response().Committed {
			return
		}

		// Handle Echo HTTP errors (like 404, 400, etc.)
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, ErrorResponse{
				Error: http.StatusText(he.Code),
				Code:  he.Code,
			})
			return
		}

		// Handle all other errors as internal server error
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		})
	}
}

// statusFor maps engine errors to HTTP status codes. The error text itself is
// surfaced to the client so callers can tell gates apart.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrTokenNameTooLong),
		errors.Is(err, engine.ErrTokenSymbolTooLong),
		errors.Is(err, engine.ErrTokenURITooLong),
		errors.Is(err, engine.ErrInvalidDecimals),
		errors.Is(err, engine.ErrInvalidInitialSupply),
		errors.Is(err, engine.ErrInvalidFeeRate),
		errors.Is(err, engine.ErrInvalidThreshold),
		errors.Is(err, engine.ErrPurchaseTooSmall),
		errors.Is(err, engine.ErrPurchaseTooLarge),
		errors.Is(err, engine.ErrInvalidPurchaseAmount):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTokenAlreadyLaunched),
		errors.Is(err, engine.ErrTradingNotActive),
		errors.Is(err, engine.ErrThresholdNotMet),
		errors.Is(err, engine.ErrLaunchCooldownActive),
		errors.Is(err, store.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInsufficientSolBalance),
		errors.Is(err, engine.ErrInsufficientTokens),
		errors.Is(err, engine.ErrInsufficientReserves),
		errors.Is(err, curve.ErrArithmeticOverflow),
		errors.Is(err, curve.ErrArithmeticUnderflow),
		errors.Is(err, curve.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// engineErr renders an engine error with its mapped status and original text.
func (h *Handlers) engineErr(c echo.Context, err error) error {
	return h.err(c, statusFor(err), err.Error(), nil)
}
