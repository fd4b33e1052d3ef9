// Package bank holds the settlement collaborators the trade engine delegates
// asset movement to: a lamport treasury and a token mint registry. Both are
// in-memory, guarded by their own locks, and use checked arithmetic so a
// transfer can never mint or destroy value.
package bank

import (
	"errors"
	"sync"

	"github.com/datmedevil17/memeLaunchpad-22/internal/curve"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrInsufficientFunds = errors.New("insufficient sol balance")
)

// Treasury tracks lamport balances per identity.
type Treasury struct {
	mu       sync.Mutex
	balances map[solana.PublicKey]uint64
}

func NewTreasury() *Treasury {
	return &Treasury{balances: make(map[solana.PublicKey]uint64)}
}

// Credit adds lamports to an identity's balance. Used to fund accounts.
func (t *Treasury) Credit(to solana.PublicKey, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := curve.CheckedAdd(t.balances[to], amount)
	if err != nil {
		return err
	}
	t.balances[to] = next
	return nil
}

// Transfer moves lamports between identities. A zero amount is a no-op so
// callers can pass fee amounts unconditionally.
func (t *Treasury) Transfer(from, to solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[from] < amount {
		return ErrInsufficientFunds
	}
	credited, err := curve.CheckedAdd(t.balances[to], amount)
	if err != nil {
		return err
	}
	t.balances[from] -= amount
	t.balances[to] = credited
	return nil
}

// Leg is one credit applied as part of an atomic settlement.
type Leg struct {
	To     solana.PublicKey
	Amount uint64
}

// Settle debits from once for the sum of all legs and applies every credit
// under a single lock: either the source covers the total and every leg
// lands, or no balance changes at all. Zero-amount legs are skipped so
// callers can pass fee cuts unconditionally.
func (t *Treasury) Settle(from solana.PublicKey, legs ...Leg) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total uint64
	for _, leg := range legs {
		next, err := curve.CheckedAdd(total, leg.Amount)
		if err != nil {
			return err
		}
		total = next
	}
	if total == 0 {
		return nil
	}
	if t.balances[from] < total {
		return ErrInsufficientFunds
	}

	// Stage every resulting balance before the first write, so a credit
	// overflow aborts with no balance touched. A leg crediting the source
	// itself lands on the already-debited staged value.
	staged := map[solana.PublicKey]uint64{from: t.balances[from] - total}
	for _, leg := range legs {
		if leg.Amount == 0 {
			continue
		}
		cur, ok := staged[leg.To]
		if !ok {
			cur = t.balances[leg.To]
		}
		next, err := curve.CheckedAdd(cur, leg.Amount)
		if err != nil {
			return err
		}
		staged[leg.To] = next
	}
	for id, bal := range staged {
		t.balances[id] = bal
	}
	return nil
}

// Balance returns the lamports held by an identity.
func (t *Treasury) Balance(id solana.PublicKey) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[id]
}
