package core

// MaxSignerCount bounds the oracle signer set, per spec.md §3.
const MaxSignerCount = 16

// OracleSigners is the authorized EVM-signer set backing
// register_output_root attestations.
type OracleSigners struct {
	Threshold   uint8
	SignerCount uint8
	Signers     [MaxSignerCount]EvmAddress
}

// SetOracleSigners validates and installs a new signer set: threshold and
// signer_count bounds, and uniqueness of the active prefix. A rotation that
// would introduce a duplicate within the new active prefix is rejected
// rather than silently deduplicated.
func SetOracleSigners(threshold uint8, signers []EvmAddress) (*OracleSigners, error) {
	if len(signers) > MaxSignerCount {
		return nil, ErrSignerSetTooLarge
	}
	if threshold < 1 || int(threshold) > len(signers) {
		return nil, ErrThresholdOutOfRange
	}
	seen := make(map[EvmAddress]struct{}, len(signers))
	for _, s := range signers {
		if _, dup := seen[s]; dup {
			return nil, ErrDuplicateSigner
		}
		seen[s] = struct{}{}
	}
	os := &OracleSigners{Threshold: threshold, SignerCount: uint8(len(signers))}
	copy(os.Signers[:], signers)
	return os, nil
}

// IsSigner reports whether addr is in the active signer prefix.
func (o *OracleSigners) IsSigner(addr EvmAddress) bool {
	for i := 0; i < int(o.SignerCount); i++ {
		if o.Signers[i] == addr {
			return true
		}
	}
	return false
}

// CountValid counts the distinct signer-set members present in addrs,
// counting duplicate addresses once, and reports whether the count meets
// the configured threshold.
func (o *OracleSigners) CountValid(addrs []EvmAddress) (count int, ok bool) {
	seen := make(map[EvmAddress]struct{}, len(addrs))
	for _, a := range addrs {
		if !o.IsSigner(a) {
			continue
		}
		seen[a] = struct{}{}
	}
	count = len(seen)
	return count, count >= int(o.Threshold)
}
