package core

import (
	"encoding/json"

	"go.uber.org/zap"
)

// GasConfig bounds the gas a single outbound message may request.
type GasConfig struct {
	MaxGasLimitPerMessage uint64
}

// GasCostConfig converts gas into a lamport cost and names the fee sink.
type GasCostConfig struct {
	GasCostScaler   uint64
	GasCostScalerDp uint64
	GasFeeReceiver  Address
}

// ProtocolConfig carries MMR/output-root lattice parameters.
type ProtocolConfig struct {
	BlockIntervalRequirement uint64
}

// LimitsConfig bounds payload and buffer sizes.
type LimitsConfig struct {
	MaxCallBufferSize uint64
}

// AbiConfig is reserved for future ABI-shape toggles; currently empty, kept
// as a named type so Bridge's field list matches spec.md's data model
// one-for-one.
type AbiConfig struct{}

// NonceAckPolicy decides whether an outgoing message's nonce has been
// acknowledged by the remote chain, gating close_outgoing_message. The
// default policy compares against Bridge.BaseLastRelayedNonce; callers may
// substitute a different predicate, per the open policy hook in
// spec.md §9.
type NonceAckPolicy interface {
	Acknowledged(b *Bridge, nonce uint64) bool
}

// DefaultNonceAckPolicy implements the straightforward
// base_last_relayed_nonce >= nonce predicate.
type DefaultNonceAckPolicy struct{}

func (DefaultNonceAckPolicy) Acknowledged(b *Bridge, nonce uint64) bool {
	return b.BaseLastRelayedNonce != nil && *b.BaseLastRelayedNonce >= nonce
}

// Bridge is the singleton configuration and lifecycle state of the bridge
// program.
type Bridge struct {
	BaseBlockNumber      uint64
	BaseLastRelayedNonce *uint64
	Nonce                uint64
	Eip1559Config        Eip1559Config
	Eip1559State         Eip1559State
	GasCostConfig        GasCostConfig
	GasConfig            GasConfig
	ProtocolConfig       ProtocolConfig
	LimitsConfig         LimitsConfig
	AbiConfig            AbiConfig
	Guardian             Address
	Paused               bool

	AckPolicy NonceAckPolicy `json:"-"`
}

const bridgeRecordKey = "bridge/singleton"

// InitializeBridge creates the singleton Bridge record. It is a one-shot
// operation: calling it when a Bridge already exists returns
// ErrAlreadyExists.
func InitializeBridge(store KVStore, guardian Address, eip1559 Eip1559Config, gasCost GasCostConfig, gas GasConfig, protocol ProtocolConfig, limits LimitsConfig, now uint64) (*Bridge, error) {
	if _, err := loadBridge(store); err == nil {
		return nil, ErrAlreadyExists
	}
	if err := eip1559.Validate(); err != nil {
		return nil, err
	}
	b := &Bridge{
		Guardian:       guardian,
		Eip1559Config:  eip1559,
		Eip1559State:   Eip1559State{CurrentBaseFee: eip1559.MinimumBaseFee, WindowStartTime: now},
		GasCostConfig:  gasCost,
		GasConfig:      gas,
		ProtocolConfig: protocol,
		LimitsConfig:   limits,
		AckPolicy:      DefaultNonceAckPolicy{},
	}
	if err := saveBridge(store, b); err != nil {
		return nil, err
	}
	loggerRef().Info("bridge initialized", zap.String("guardian", guardian.Hex()))
	return b, nil
}

func loadBridge(store KVStore) (*Bridge, error) {
	raw, err := store.Get([]byte(bridgeRecordKey))
	if err != nil {
		return nil, err
	}
	var rec bridgeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	b := rec.toBridge()
	b.AckPolicy = DefaultNonceAckPolicy{}
	return b, nil
}

func saveBridge(store KVStore, b *Bridge) error {
	rec := newBridgeRecord(b)
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return store.Set([]byte(bridgeRecordKey), raw)
}

// LoadBridge fetches the singleton Bridge from store, wiring in the default
// nonce-acknowledgement policy.
func LoadBridge(store KVStore) (*Bridge, error) {
	return loadBridge(store)
}

// bridgeRecord is the JSON-serializable mirror of Bridge (pointer fields
// need explicit zero-value handling across the json boundary).
type bridgeRecord struct {
	BaseBlockNumber      uint64
	BaseLastRelayedNonce *uint64
	Nonce                uint64
	Eip1559Config        Eip1559Config
	Eip1559State         Eip1559State
	GasCostConfig        GasCostConfig
	GasConfig            GasConfig
	ProtocolConfig       ProtocolConfig
	LimitsConfig         LimitsConfig
	AbiConfig            AbiConfig
	Guardian             Address
	Paused               bool
}

func newBridgeRecord(b *Bridge) bridgeRecord {
	return bridgeRecord{
		BaseBlockNumber:      b.BaseBlockNumber,
		BaseLastRelayedNonce: b.BaseLastRelayedNonce,
		Nonce:                b.Nonce,
		Eip1559Config:        b.Eip1559Config,
		Eip1559State:         b.Eip1559State,
		GasCostConfig:        b.GasCostConfig,
		GasConfig:            b.GasConfig,
		ProtocolConfig:       b.ProtocolConfig,
		LimitsConfig:         b.LimitsConfig,
		AbiConfig:            b.AbiConfig,
		Guardian:             b.Guardian,
		Paused:               b.Paused,
	}
}

func (r bridgeRecord) toBridge() *Bridge {
	return &Bridge{
		BaseBlockNumber:      r.BaseBlockNumber,
		BaseLastRelayedNonce: r.BaseLastRelayedNonce,
		Nonce:                r.Nonce,
		Eip1559Config:        r.Eip1559Config,
		Eip1559State:         r.Eip1559State,
		GasCostConfig:        r.GasCostConfig,
		GasConfig:            r.GasConfig,
		ProtocolConfig:       r.ProtocolConfig,
		LimitsConfig:         r.LimitsConfig,
		AbiConfig:            r.AbiConfig,
		Guardian:             r.Guardian,
		Paused:               r.Paused,
	}
}

// RequireGuardian returns ErrUnauthorized unless caller == b.Guardian.
func (b *Bridge) RequireGuardian(caller Address) error {
	if caller != b.Guardian {
		return ErrUnauthorized
	}
	return nil
}

// SetPauseStatus is a guardian-only mutation of the outbound pause switch.
func (b *Bridge) SetPauseStatus(caller Address, paused bool) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	b.Paused = paused
	return nil
}

// TransferGuardian reassigns the guardian authority.
func (b *Bridge) TransferGuardian(caller, newGuardian Address) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	b.Guardian = newGuardian
	return nil
}

// RequireNotPaused returns ErrBridgePaused if the outbound surface is
// currently paused. Only the outbound instruction surface calls this;
// inbound (prove/relay) is never pause-gated.
func (b *Bridge) RequireNotPaused() error {
	if b.Paused {
		return ErrBridgePaused
	}
	return nil
}

// SetEip1559Config validates and installs a new fee-engine configuration.
func (b *Bridge) SetEip1559Config(caller Address, cfg Eip1559Config) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.Eip1559Config = cfg
	return nil
}

// SetGasConfig validates and installs gas limit bounds.
func (b *Bridge) SetGasConfig(caller Address, cfg GasConfig) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	if cfg.MaxGasLimitPerMessage < 1 || cfg.MaxGasLimitPerMessage > 1_000_000_000 {
		return ErrInvalidFeeConfig
	}
	b.GasConfig = cfg
	return nil
}

// SetGasCostConfig validates and installs the lamport-per-gas scaler and
// fee receiver.
func (b *Bridge) SetGasCostConfig(caller Address, cfg GasCostConfig) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	if cfg.GasCostScaler < 1 || cfg.GasCostScaler > 1_000_000_000 {
		return ErrInvalidFeeConfig
	}
	if cfg.GasCostScalerDp < 1 || cfg.GasCostScalerDp > 1_000_000_000 {
		return ErrInvalidFeeConfig
	}
	b.GasCostConfig = cfg
	return nil
}

// SetProtocolConfig validates and installs the output-root block-interval
// requirement.
func (b *Bridge) SetProtocolConfig(caller Address, cfg ProtocolConfig) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	if cfg.BlockIntervalRequirement < 1 || cfg.BlockIntervalRequirement > 10_000 {
		return ErrInvalidFeeConfig
	}
	b.ProtocolConfig = cfg
	return nil
}

// SetLimitsConfig validates and installs the call-buffer size cap.
func (b *Bridge) SetLimitsConfig(caller Address, cfg LimitsConfig) error {
	if err := b.RequireGuardian(caller); err != nil {
		return err
	}
	if cfg.MaxCallBufferSize < 1 || cfg.MaxCallBufferSize > 1<<20 {
		return ErrInvalidFeeConfig
	}
	b.LimitsConfig = cfg
	return nil
}

// AcknowledgeNonce records the latest nonce the remote chain has relayed,
// advancing monotonically.
func (b *Bridge) AcknowledgeNonce(n uint64) {
	if b.BaseLastRelayedNonce == nil || *b.BaseLastRelayedNonce < n {
		v := n
		b.BaseLastRelayedNonce = &v
	}
}

// AcknowledgeBaseNonceChecked is the validating entry point the
// acknowledge_base_nonce instruction uses: Base's relayed-nonce counter
// cannot move backward, so an attestation at or below the current
// watermark is rejected rather than silently ignored.
func (b *Bridge) AcknowledgeBaseNonceChecked(n uint64) error {
	if b.BaseLastRelayedNonce != nil && n <= *b.BaseLastRelayedNonce {
		return ErrNonceOutOfOrder
	}
	b.AcknowledgeNonce(n)
	return nil
}

// NonceAcknowledged reports whether the given outgoing-message nonce has
// been acknowledged by the remote chain under the bridge's active policy.
func (b *Bridge) NonceAcknowledged(nonce uint64) bool {
	policy := b.AckPolicy
	if policy == nil {
		policy = DefaultNonceAckPolicy{}
	}
	return policy.Acknowledged(b, nonce)
}
