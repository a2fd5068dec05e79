package core

import (
	"encoding/binary"
	"encoding/json"

	"go.uber.org/zap"
)

// OutputRoot is a write-once record keyed by remote block_number, committing
// to the set of messages emitted on the remote chain up to that block.
type OutputRoot struct {
	BlockNumber uint64
	Root        Hash
}

func outputRootKey(blockNumber uint64) []byte {
	key := make([]byte, len("output_root/")+8)
	copy(key, "output_root/")
	binary.BigEndian.PutUint64(key[len("output_root/"):], blockNumber)
	return key
}

// RegisterOutputRoot validates and persists a new output root, per
// spec.md §4.13. Enforces BOTH that caller is the configured trusted
// oracle AND that the signature threshold over
// keccak(output_root || block_number_be) is met — spec.md §9 resolves the
// two variants in the source material by requiring both checks.
func RegisterOutputRoot(store KVStore, b *Bridge, signers *OracleSigners, caller Address, trustedOracle Address, outputRoot Hash, blockNumber uint64, sigs []Signature65) error {
	if caller != trustedOracle {
		return ErrUnauthorized
	}
	if blockNumber <= b.BaseBlockNumber {
		return ErrOutputRootNotFound
	}
	if b.ProtocolConfig.BlockIntervalRequirement == 0 || blockNumber%b.ProtocolConfig.BlockIntervalRequirement != 0 {
		return ErrOutputRootNotFound
	}
	if _, err := loadOutputRoot(store, blockNumber); err == nil {
		return ErrAlreadyExists
	}

	attestHash := AttestationHash(outputRoot, blockNumber)
	if _, ok := VerifyThreshold(signers, attestHash, sigs); !ok {
		return ErrThresholdNotMet
	}

	rec := OutputRoot{BlockNumber: blockNumber, Root: outputRoot}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := store.Set(outputRootKey(blockNumber), raw); err != nil {
		return err
	}
	b.BaseBlockNumber = blockNumber

	loggerRef().Info("output root registered",
		zap.Uint64("block_number", blockNumber),
		zap.String("root", outputRoot.Hex()),
	)
	return nil
}

func loadOutputRoot(store KVStore, blockNumber uint64) (*OutputRoot, error) {
	raw, err := store.Get(outputRootKey(blockNumber))
	if err != nil {
		return nil, err
	}
	var rec OutputRoot
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadOutputRoot fetches a previously registered output root.
func LoadOutputRoot(store KVStore, blockNumber uint64) (*OutputRoot, error) {
	return loadOutputRoot(store, blockNumber)
}
