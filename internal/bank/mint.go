package bank

import (
	"errors"
	"sync"

	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrMintNotFound       = errors.New("mint not found")
	ErrMintAuthority      = errors.New("mint authority mismatch")
	ErrInsufficientTokens = errors.New("insufficient token balance")
)

type mintState struct {
	decimals  uint8
	supply    uint64
	authority solana.PublicKey
}

type holderKey struct {
	mint   solana.PublicKey
	holder solana.PublicKey
}

// MintRegistry models the token mint/transfer service: it creates mints,
// mints to and burns from holder balances, and reassigns mint authority.
// Holder balance records are created on first mint (create-if-absent) and
// keyed by (mint, holder) so owner/mint checks hold by construction.
type MintRegistry struct {
	mu       sync.Mutex
	mints    map[solana.PublicKey]*mintState
	balances map[holderKey]uint64
}

func NewMintRegistry() *MintRegistry {
	return &MintRegistry{
		mints:    make(map[solana.PublicKey]*mintState),
		balances: make(map[holderKey]uint64),
	}
}

// CreateMint registers a new mint with its controlling authority. The engine
// binds the authority to the curve record's address so only engine operations
// can move supply until launch hands the authority to the creator.
func (m *MintRegistry) CreateMint(mint solana.PublicKey, decimals uint8, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.mints[mint]; ok {
		return errors.New("mint already exists")
	}
	m.mints[mint] = &mintState{decimals: decimals, authority: authority}
	return nil
}

// MintTo mints amount units to holder. Fails unless authority matches the
// mint's current authority.
func (m *MintRegistry) MintTo(mint, authority, holder solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.mints[mint]
	if !ok {
		return ErrMintNotFound
	}
	if !ms.authority.Equals(authority) {
		return ErrMintAuthority
	}

	supply, err := curve.CheckedAdd(ms.supply, amount)
	if err != nil {
		return err
	}
	key := holderKey{mint: mint, holder: holder}
	bal, err := curve.CheckedAdd(m.balances[key], amount)
	if err != nil {
		return err
	}

	ms.supply = supply
	m.balances[key] = bal
	return nil
}

// Burn destroys amount units held by holder.
func (m *MintRegistry) Burn(mint, holder solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.mints[mint]
	if !ok {
		return ErrMintNotFound
	}

	key := holderKey{mint: mint, holder: holder}
	if m.balances[key] < amount {
		return ErrInsufficientTokens
	}
	supply, err := curve.CheckedSub(ms.supply, amount)
	if err != nil {
		return err
	}

	ms.supply = supply
	m.balances[key] -= amount
	return nil
}

// SetAuthority reassigns the mint authority. Only the current authority may
// hand it over.
func (m *MintRegistry) SetAuthority(mint, current, next solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.mints[mint]
	if !ok {
		return ErrMintNotFound
	}
	if !ms.authority.Equals(current) {
		return ErrMintAuthority
	}
	ms.authority = next
	return nil
}

// BalanceOf returns holder's balance for a mint.
func (m *MintRegistry) BalanceOf(mint, holder solana.PublicKey) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[holderKey{mint: mint, holder: holder}]
}

// Supply returns the minted supply of a mint.
func (m *MintRegistry) Supply(mint solana.PublicKey) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms, ok := m.mints[mint]; ok {
		return ms.supply
	}
	return 0
}
