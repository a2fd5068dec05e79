package core

import (
	"encoding/json"

	"go.uber.org/zap"
)

// IncomingMessage tracks the at-most-once execution lattice for a message
// proven against a registered output root: Absent -> Proven(executed=false)
// -> Proven(executed=true).
type IncomingMessage struct {
	MessageHash Hash
	Sender      EvmAddress
	Executed    bool
	// Type is the message's Call/Transfer/TransferAndCall discrimination,
	// proven alongside Message as part of the MMR leaf (see
	// IncomingMessageHash): it is fixed at ProveMessage time and cannot be
	// overridden by whoever later calls RelayMessage.
	Type MessageType
	// Message holds the proven data bytes. For Transfer and
	// TransferAndCall messages these are the ABI encoding produced by
	// EncodeTransfer / EncodeTransferAndCall, which Deps.BuildFinalizer
	// decodes; for Call messages they are stored as given.
	Message []byte
}

func incomingMessageKey(h Hash) []byte {
	key := make([]byte, len("incoming_message/")+32)
	copy(key, "incoming_message/")
	copy(key[len("incoming_message/"):], h[:])
	return key
}

// ProveMessage verifies an MMR inclusion proof of leaf = IncomingMessageHash
// against the output root registered for blockNumber, then creates the
// IncomingMessage record with executed=false. Re-proving an already-proven
// message is a no-op success (idempotent), matching the write-once nature
// of the underlying account.
func ProveMessage(store KVStore, nonce uint64, sender EvmAddress, msgType MessageType, data []byte, blockNumber uint64, proof []ProofStep, totalLeafCount uint64) (Hash, error) {
	leaf := IncomingMessageHash(nonce, sender, msgType, data)

	root, err := loadOutputRoot(store, blockNumber)
	if err != nil {
		return leaf, ErrOutputRootNotFound
	}

	if err := VerifyInclusion(root.Root, leaf, proof, totalLeafCount); err != nil {
		return leaf, err
	}

	if existing, err := loadIncomingMessage(store, leaf); err == nil {
		_ = existing
		return leaf, nil
	}

	rec := IncomingMessage{MessageHash: leaf, Sender: sender, Executed: false, Type: msgType, Message: data}
	if err := saveIncomingMessage(store, &rec); err != nil {
		return leaf, err
	}

	loggerRef().Info("message proven", zap.String("message_hash", leaf.Hex()))
	return leaf, nil
}

func loadIncomingMessage(store KVStore, h Hash) (*IncomingMessage, error) {
	raw, err := store.Get(incomingMessageKey(h))
	if err != nil {
		return nil, err
	}
	var rec IncomingMessage
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func saveIncomingMessage(store KVStore, rec *IncomingMessage) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return store.Set(incomingMessageKey(rec.MessageHash), raw)
}

// LoadIncomingMessage fetches a previously proven message record.
func LoadIncomingMessage(store KVStore, h Hash) (*IncomingMessage, error) {
	return loadIncomingMessage(store, h)
}

// DownstreamInvoker executes one downstream instruction under the
// sender-scoped signing authority derived from
// (BRIDGE_CPI_AUTHORITY_SEED, sender). A real deployment invokes the host
// chain's cross-program-invocation mechanism; tests supply a fake.
type DownstreamInvoker interface {
	Invoke(authority Address, instruction []byte) error
}

// RelayMessage executes a proven IncomingMessage at most once, per
// spec.md §4.9. Invokes each caller-supplied instruction in order under the
// sender-scoped CPI authority; the stored message payload is not decoded
// into instructions here. Any failure aborts the whole relay and leaves
// executed=false for retry.
// Whether finalize must run is decided from rec.Type — proven alongside
// the message and immutable since ProveMessage — not from whether the
// caller happened to pass one: a Transfer/TransferAndCall message without
// a finalize is rejected rather than silently skipping custody release,
// and a Call-only message is rejected if a finalize is supplied, since
// nothing in it would need one.
func RelayMessage(store KVStore, h Hash, invoker DownstreamInvoker, instructions [][]byte, finalize func() error) error {
	rec, err := loadIncomingMessage(store, h)
	if err != nil {
		return ErrMessageNotProven
	}
	if rec.Executed {
		return ErrMessageAlreadyExecuted
	}

	requiresFinalize := rec.Type == MessageTypeTransfer || rec.Type == MessageTypeTransferAndCall
	if requiresFinalize && finalize == nil {
		return ErrFinalizeRequired
	}
	if !requiresFinalize && finalize != nil {
		return ErrFinalizeNotExpected
	}

	authority := DerivePDA([]byte(BridgeCPIAuthoritySeed), rec.Sender[:])

	if finalize != nil {
		if err := finalize(); err != nil {
			return err
		}
	}

	for _, instr := range instructions {
		if err := invoker.Invoke(authority, instr); err != nil {
			return err
		}
	}

	rec.Executed = true
	if err := saveIncomingMessage(store, rec); err != nil {
		return err
	}

	loggerRef().Info("message relayed", zap.String("message_hash", h.Hex()))
	return nil
}

// LoggingInvoker is a DownstreamInvoker that only logs each invocation,
// for development and standalone relayer-API deployments with no real
// host chain to dispatch into.
type LoggingInvoker struct{}

func (LoggingInvoker) Invoke(authority Address, instruction []byte) error {
	loggerRef().Info("downstream invoke",
		zap.String("authority", authority.Hex()),
		zap.Int("instruction_len", len(instruction)),
	)
	return nil
}
