package core

import (
	"encoding/json"
	"math/big"

	"go.uber.org/zap"
)

// TokenLedger abstracts SPL/wrapped-token balance operations the custody
// layer needs: transfer-into-vault, mint, and burn. Fee-on-transfer tokens
// are modeled by Transfer crediting the vault with less than amount; the
// custody layer re-reads the vault balance afterwards rather than trusting
// the requested amount.
type TokenLedger interface {
	Balance(mint, account Address) uint64
	Transfer(mint, from, to Address, amount uint64) error
	Burn(mint, from Address, amount uint64) error
	Mint(mint, to Address, amount uint64) error
}

// SolVaultAddress derives the SOL vault PDA for a remote token identity.
func SolVaultAddress(remoteToken EvmAddress) Address {
	return DerivePDA([]byte(SolVaultSeed), remoteToken[:])
}

// TokenVaultAddress derives the SPL vault PDA for a (mint, remote_token)
// pair.
func TokenVaultAddress(mint Address, remoteToken EvmAddress) Address {
	return DerivePDA([]byte(TokenVaultSeed), mint[:], remoteToken[:])
}

// WrappedMintAddress derives a wrapped mint's PDA from its decimals and
// metadata hash.
func WrappedMintAddress(decimals uint8, metadataHash Hash) Address {
	return DerivePDA([]byte(WrappedTokenSeed), []byte{decimals}, metadataHash[:])
}

// LockSol transfers amount lamports from `from` into the SOL vault for
// remoteToken.
func LockSol(ledger LamportLedger, from Address, remoteToken EvmAddress, amount uint64) error {
	vault := SolVaultAddress(remoteToken)
	return ledger.Transfer(from, vault, amount)
}

// LockSpl checked-transfers amount of mint from `from` into the token vault
// for (mint, remoteToken), then re-reads the vault balance delta to report
// the amount actually received — safe for fee-on-transfer mints.
func LockSpl(ledger TokenLedger, mint, from Address, remoteToken EvmAddress, amount uint64) (uint64, error) {
	vault := TokenVaultAddress(mint, remoteToken)
	before := ledger.Balance(mint, vault)
	if err := ledger.Transfer(mint, from, vault, amount); err != nil {
		return 0, err
	}
	after := ledger.Balance(mint, vault)
	if after < before {
		return 0, ErrInsufficientVaultBalance
	}
	return after - before, nil
}

// BurnWrapped checked-burns amount of a wrapped mint from `from`.
func BurnWrapped(ledger TokenLedger, mint, from Address, amount uint64) error {
	return ledger.Burn(mint, from, amount)
}

// FinalizeSol releases amount lamports from the SOL vault for remoteToken
// to the recipient, authority recomputed from the vault's own seeds.
func FinalizeSol(ledger LamportLedger, remoteToken EvmAddress, to Address, amount uint64) error {
	vault := SolVaultAddress(remoteToken)
	return ledger.Transfer(vault, to, amount)
}

// FinalizeSpl releases amount of mint from the token vault for
// (mint, remoteToken) to the recipient.
func FinalizeSpl(ledger TokenLedger, mint Address, remoteToken EvmAddress, to Address, amount uint64) error {
	vault := TokenVaultAddress(mint, remoteToken)
	return ledger.Transfer(mint, vault, to, amount)
}

// FinalizeWrapped mints amount of the wrapped mint to the recipient.
func FinalizeWrapped(ledger TokenLedger, mint Address, to Address, amount uint64) error {
	return ledger.Mint(mint, to, amount)
}

// WrappedTokenMetadata is the embedded metadata of a wrapped mint.
type WrappedTokenMetadata struct {
	Name           string
	Symbol         string
	RemoteToken    EvmAddress
	ScalerExponent uint8
	Decimals       uint8
}

func (m WrappedTokenMetadata) hash() Hash {
	return MetadataHash(m.Name, m.Symbol, m.RemoteToken, m.ScalerExponent)
}

func wrappedMintKey(addr Address) []byte {
	key := make([]byte, len("wrapped_mint/")+32)
	copy(key, "wrapped_mint/")
	copy(key[len("wrapped_mint/"):], addr[:])
	return key
}

// WrapToken derives the deterministic wrapped-mint PDA from
// (decimals, hash(metadata)), persists its embedded metadata, and returns
// both the mint address and the register_remote_token payload to post as
// an outbound call: abi.encode(remote_token, local_token_bytes32,
// scaler_exponent_u256).
func WrapToken(store KVStore, meta WrappedTokenMetadata) (Address, []byte, error) {
	mint := WrappedMintAddress(meta.Decimals, meta.hash())

	if _, err := loadWrappedMint(store, mint); err == nil {
		return Address{}, nil, ErrAlreadyExists
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return Address{}, nil, err
	}
	if err := store.Set(wrappedMintKey(mint), raw); err != nil {
		return Address{}, nil, err
	}

	var localTokenBytes32 [32]byte
	copy(localTokenBytes32[:], mint[:])
	payload := encodeRegisterRemoteToken(meta.RemoteToken, localTokenBytes32, meta.ScalerExponent)

	loggerRef().Info("wrapped token created",
		zap.String("mint", mint.Hex()),
		zap.String("remote_token", meta.RemoteToken.Hex()),
	)
	return mint, payload, nil
}

func loadWrappedMint(store KVStore, mint Address) (*WrappedTokenMetadata, error) {
	raw, err := store.Get(wrappedMintKey(mint))
	if err != nil {
		return nil, err
	}
	var meta WrappedTokenMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadWrappedMint fetches the embedded metadata for a wrapped mint.
func LoadWrappedMint(store KVStore, mint Address) (*WrappedTokenMetadata, error) {
	return loadWrappedMint(store, mint)
}

// encodeRegisterRemoteToken produces
// abi.encode(address remote_token, bytes32 local_token, uint256 scaler_exponent).
// All three fields are static, so this is a flat concatenation of three
// 32-byte words with no offset table.
func encodeRegisterRemoteToken(remoteToken EvmAddress, localToken [32]byte, scalerExponent uint8) []byte {
	out := make([]byte, 0, 3*word)
	out = append(out, encodeAddressWord(remoteToken)...)
	out = append(out, encodeBytes32Word(localToken)...)
	out = append(out, encodeUint256Word(new(big.Int).SetUint64(uint64(scalerExponent)))...)
	return out
}
