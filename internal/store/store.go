// Package store is the addressing and record-storage layer for the platform
// singleton and the per-token lifecycle/curve/transaction records. Each token
// record carries its own exclusive lock: one trade at a time per token, trades
// on different tokens proceed in parallel.
package store

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrNotFound           = errors.New("token not found")
	ErrAlreadyInitialized = errors.New("platform already initialized")
	ErrNotInitialized     = errors.New("platform not initialized")
)

// ProgramID anchors the deterministic record addressing. Curve and platform
// addresses are derived from it the same way for every process, so the
// capability identities are stable across restarts.
var ProgramID = solana.MustPublicKeyFromBase58("5kFcUdsEqDFEnSoLK9JxLhdEuGfNmyu517FkrpBwDMen")

const (
	platformSeed = "program_state"
	curveSeed    = "bonding_curve"
	mintSeed     = "mint"
)

// Token bundles the two mutable records owned by one token id plus its
// append-only transaction log. The embedded mutex serializes settlement.
type Token struct {
	mu sync.Mutex

	Info  *models.TokenInfo
	Curve *models.BondingCurve

	txs []*models.Transaction
}

// Unlock releases the exclusive settlement lock taken by Store.Acquire.
func (t *Token) Unlock() { t.mu.Unlock() }

// AppendTx appends an entry to the token's immutable transaction log.
// Caller must hold the token lock.
func (t *Token) AppendTx(tx *models.Transaction) {
	t.txs = append(t.txs, tx)
}

// Transactions returns up to limit most-recent entries, newest first.
// Caller must hold the token lock.
func (t *Token) Transactions(limit int) []*models.Transaction {
	n := len(t.txs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*models.Transaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, t.txs[i])
	}
	return out
}

// Store holds the platform singleton and all token records.
type Store struct {
	mu       sync.RWMutex
	platform *models.PlatformState
	tokens   map[uint64]*Token
}

func New() *Store {
	return &Store{tokens: make(map[uint64]*Token)}
}

// InitPlatform installs the singleton. Exactly one instance may ever exist.
func (s *Store) InitPlatform(ps *models.PlatformState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.platform != nil {
		return ErrAlreadyInitialized
	}
	s.platform = ps
	return nil
}

// Platform returns a consistent snapshot of the platform state. Trades gate
// on a snapshot taken at their start; they do not hold the platform lock for
// the duration of settlement.
func (s *Store) Platform() (models.PlatformState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.platform == nil {
		return models.PlatformState{}, ErrNotInitialized
	}
	return *s.platform, nil
}

// UpdatePlatform runs fn against the live singleton under the write lock.
// If fn errors the mutation is discarded by fn's own contract: fn must not
// touch the record before its last fallible step.
func (s *Store) UpdatePlatform(fn func(*models.PlatformState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.platform == nil {
		return ErrNotInitialized
	}
	return fn(s.platform)
}

// PutToken registers a freshly created token record pair.
func (s *Store) PutToken(info *models.TokenInfo, bc *models.BondingCurve) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[info.ID] = &Token{Info: info, Curve: bc}
}

// Acquire locks and returns the token record for exclusive settlement.
// The caller must Unlock it when the operation commits or aborts.
func (s *Store) Acquire(id uint64) (*Token, error) {
	s.mu.RLock()
	tok, ok := s.tokens[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	tok.mu.Lock()
	return tok, nil
}

// Delete removes a token's records. The caller must hold the token lock;
// Delete releases nothing.
func (s *Store) Delete(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, id)
}

// ListTokens returns snapshots of every token's lifecycle record.
func (s *Store) ListTokens() []models.TokenInfo {
	s.mu.RLock()
	tokens := make([]*Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		tokens = append(tokens, t)
	}
	s.mu.RUnlock()

	out := make([]models.TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		t.mu.Lock()
		out = append(out, *t.Info)
		t.mu.Unlock()
	}
	return out
}

// PlatformAddress is the identity that holds accrued platform fees.
func PlatformAddress() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(platformSeed)}, ProgramID)
	return addr, err
}

// CurveAddress is the capability identity of a token's bonding curve: the
// holder of its real sol reserves and, until launch, its mint authority.
func CurveAddress(tokenID uint64) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(curveSeed), tokenIDSeed(tokenID)}, ProgramID)
	return addr, err
}

// MintAddress derives a token's mint identity from its curve address.
func MintAddress(curveAddr solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(mintSeed), curveAddr.Bytes()}, ProgramID)
	return addr, err
}

func tokenIDSeed(id uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, id)
	return b
}
