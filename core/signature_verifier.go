package core

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature65 is a 65-byte (r,s,v) recoverable ECDSA signature, with
// v in {27,28,29,30}.
type Signature65 [65]byte

// RecoverAddress decodes sig as (r||s||v), derives the recovery id from v,
// recovers the uncompressed secp256k1 public key over messageHash, and
// returns the Ethereum address (last 20 bytes of keccak256 of the
// uncompressed pubkey sans its 0x04 prefix).
func RecoverAddress(messageHash Hash, sig Signature65) (EvmAddress, error) {
	var out EvmAddress
	v := sig[64]
	if v < 27 || v > 30 {
		return out, ErrInvalidSignature
	}
	recoveryID := v - 27
	if recoveryID >= 4 {
		return out, ErrInvalidSignature
	}

	normalized := make([]byte, 65)
	copy(normalized, sig[:64])
	normalized[64] = recoveryID

	pub, err := crypto.SigToPub(messageHash[:], normalized)
	if err != nil {
		return out, ErrInvalidSignature
	}
	addr := crypto.PubkeyToAddress(*pub)
	copy(out[:], addr[:])
	return out, nil
}

// VerifyThreshold recovers an address from each signature over
// messageHash, counts the distinct addresses present in signers (duplicate
// addresses count once), and reports whether the count meets the signer
// set's configured threshold. A signature that fails to recover, or that
// recovers to an address outside the signer set, is simply not counted —
// it does not abort the batch.
func VerifyThreshold(signers *OracleSigners, messageHash Hash, sigs []Signature65) (validCount int, ok bool) {
	addrs := make([]EvmAddress, 0, len(sigs))
	for _, sig := range sigs {
		addr, err := RecoverAddress(messageHash, sig)
		if err != nil {
			continue
		}
		addrs = append(addrs, addr)
	}
	return signers.CountValid(addrs)
}
