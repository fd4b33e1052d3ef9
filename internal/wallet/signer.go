package wallet

import (
	"encoding/binary"

	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
)

// SignTransaction signs a committed transaction's canonical payload and
// stamps the signature onto the record. The payload is the fixed-width
// little-endian encoding of the fields that make the entry unique, so
// re-signing the same entry always yields the same signature.
func (w *Wallet) SignTransaction(tx *models.Transaction) error {
	payload := canonicalPayload(tx)
	sig, err := w.Sign(payload)
	if err != nil {
		return err
	}
	tx.Signature = sig
	return nil
}

func canonicalPayload(tx *models.Transaction) []byte {
	buf := make([]byte, 0, 32+8*6+len(tx.Type))
	buf = append(buf, tx.User[:]...)
	for _, v := range []uint64{
		tx.ID,
		tx.TokenID,
		tx.SolAmount,
		tx.TokenAmount,
		tx.PlatformFee,
		uint64(tx.Timestamp.Unix()),
	} {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return append(buf, tx.Type...)
}
