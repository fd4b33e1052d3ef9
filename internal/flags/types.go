package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("flag not found")

// Well-known kill switches checked by the trade endpoints. Absent flags read
// as enabled.
const (
	KeyCreateEnabled = "token.create.enabled"
	KeyBuyEnabled    = "trading.buy.enabled"
	KeySellEnabled   = "trading.sell.enabled"
	KeyLaunchEnabled = "token.launch.enabled"
)

type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
