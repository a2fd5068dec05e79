package core

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// IncomingMessageHash computes keccak256(nonce_be_u64 || sender_20 ||
// msg_type || data), the deterministic key for an inbound IncomingMessage
// record. msg_type is folded into the preimage so that a message's
// Call/Transfer/TransferAndCall discrimination is itself covered by the
// MMR inclusion proof, rather than being a value a relayer could assert
// independently of what was actually proven.
func IncomingMessageHash(nonce uint64, sender EvmAddress, msgType MessageType, data []byte) Hash {
	var nonceBE [8]byte
	binary.BigEndian.PutUint64(nonceBE[:], nonce)
	sum := crypto.Keccak256(nonceBE[:], sender[:], []byte{uint8(msgType)}, data)
	var out Hash
	copy(out[:], sum)
	return out
}

// AttestationHash computes keccak256(output_root_32 || block_number_be_u64),
// the digest oracle signers attest over for register_output_root.
func AttestationHash(outputRoot Hash, blockNumber uint64) Hash {
	var blockBE [8]byte
	binary.BigEndian.PutUint64(blockBE[:], blockNumber)
	sum := crypto.Keccak256(outputRoot[:], blockBE[:])
	var out Hash
	copy(out[:], sum)
	return out
}

// MetadataHash computes keccak256(name || symbol || remote_token ||
// scaler_exponent_le_u8), the stable digest embedded in a wrapped mint's
// metadata.
func MetadataHash(name, symbol string, remoteToken EvmAddress, scalerExponent uint8) Hash {
	sum := crypto.Keccak256([]byte(name), []byte(symbol), remoteToken[:], []byte{scalerExponent})
	var out Hash
	copy(out[:], sum)
	return out
}
