// Package wallet holds the platform's settlement keypair and signs committed
// transactions before they leave the process.
package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wallet wraps an ed25519 keypair.
type Wallet struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

// NewRandom generates an ephemeral wallet. Useful for development runs where
// signatures only need to be internally consistent.
func NewRandom() (*Wallet, error) {
	w := solana.NewWallet()
	return &Wallet{priv: w.PrivateKey, pub: w.PublicKey()}, nil
}

// FromBase58 loads a wallet from a base58-encoded private key.
func FromBase58(key string) (*Wallet, error) {
	priv, err := solana.PrivateKeyFromBase58(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &Wallet{priv: priv, pub: priv.PublicKey()}, nil
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.pub
}

// Sign signs an arbitrary payload and returns the 64-byte signature.
func (w *Wallet) Sign(payload []byte) (solana.Signature, error) {
	sig, err := w.priv.Sign(payload)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign payload: %w", err)
	}
	return sig, nil
}
