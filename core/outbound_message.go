package core

import (
	"encoding/binary"
	"encoding/json"

	"go.uber.org/zap"
)

// OutboundPayload is the tagged union of what an OutgoingMessage carries:
// a Call alone, a Transfer alone, or a Transfer with an attached Call
// (encoded as MessageTypeTransferAndCall).
type OutboundPayload struct {
	Call     *Call
	Transfer *Transfer
}

// OutgoingMessage is a nonce-keyed record of a message queued for relay to
// Base.
type OutgoingMessage struct {
	Nonce         uint64
	OriginalPayer Address
	Sender        Address
	GasLimit      uint64
	Payload       OutboundPayload
}

func outgoingMessageKey(nonce uint64) []byte {
	key := make([]byte, len("outgoing_message/")+8)
	copy(key, "outgoing_message/")
	binary.BigEndian.PutUint64(key[len("outgoing_message/"):], nonce)
	return key
}

// validatePayload enforces the Call creation-type guard and max-data-size
// invariant from spec.md §3: for ty in {Create, Create2} the `to` field
// must be the zero address, and call data must not exceed
// limits_config.max_call_buffer_size.
func validatePayload(p OutboundPayload, maxCallDataLen uint64) error {
	if p.Call != nil {
		if (p.Call.Type == CallTypeCreate || p.Call.Type == CallTypeCreate2) && !p.Call.To.IsZero() {
			return ErrCreationWithNonZeroTarget
		}
		if uint64(len(p.Call.Data)) > maxCallDataLen {
			return ErrPayloadTooLong
		}
	}
	return nil
}

// wireMessageFor builds the WireMessage wrapper around a payload, encoding
// the inner data per MessageType.
func wireMessageFor(nonce uint64, sender Address, gasLimit uint64, p OutboundPayload) WireMessage {
	switch {
	case p.Transfer != nil && p.Call != nil:
		return WireMessage{Nonce: nonce, Sender: sender, GasLimit: gasLimit, Type: MessageTypeTransferAndCall, Data: EncodeTransferAndCall(*p.Transfer, *p.Call)}
	case p.Transfer != nil:
		return WireMessage{Nonce: nonce, Sender: sender, GasLimit: gasLimit, Type: MessageTypeTransfer, Data: EncodeTransfer(*p.Transfer)}
	default:
		c := Call{}
		if p.Call != nil {
			c = *p.Call
		}
		return WireMessage{Nonce: nonce, Sender: sender, GasLimit: gasLimit, Type: MessageTypeCall, Data: EncodeCall(c)}
	}
}

// CustodyEffect performs the C8 side-effect matching an outbound payload
// (SOL lock, SPL lock, wrapped burn), returning the amount actually
// recorded (which may differ from the requested amount for fee-on-transfer
// SPL mints).
type CustodyEffect func() (recordedAmount uint64, err error)

// Send implements C7's send(kind, sender, payer, gas_limit, payload):
// validates the payload, prices and charges gas, runs the custody
// side-effect, and persists the OutgoingMessage — all atomically; any
// failure leaves bridge.Nonce untouched.
func Send(store KVStore, ledger LamportLedger, b *Bridge, sender, payer Address, gasLimit uint64, payload OutboundPayload, custody CustodyEffect, now uint64) (*OutgoingMessage, error) {
	if err := b.RequireNotPaused(); err != nil {
		return nil, err
	}
	if err := validatePayload(payload, b.LimitsConfig.MaxCallBufferSize); err != nil {
		return nil, err
	}

	nonce := b.Nonce
	wire := wireMessageFor(nonce, sender, gasLimit, payload)
	txSize := uint64(EncodedSize(wire))

	feeState := b.Eip1559State
	cost, err := Charge(b, ledger, payer, b.GasCostConfig.GasFeeReceiver, gasLimit, txSize, now)
	if err != nil {
		b.Eip1559State = feeState
		return nil, err
	}

	if custody != nil {
		if _, err := custody(); err != nil {
			b.Eip1559State = feeState
			_ = ledger.Transfer(b.GasCostConfig.GasFeeReceiver, payer, cost)
			return nil, err
		}
	}

	msg := &OutgoingMessage{
		Nonce:         nonce,
		OriginalPayer: payer,
		Sender:        sender,
		GasLimit:      gasLimit,
		Payload:       payload,
	}
	if err := saveOutgoingMessage(store, msg); err != nil {
		return nil, err
	}

	b.Nonce = nonce + 1

	loggerRef().Info("outgoing message queued", zap.Uint64("nonce", nonce))
	return msg, nil
}

func saveOutgoingMessage(store KVStore, msg *OutgoingMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return store.Set(outgoingMessageKey(msg.Nonce), raw)
}

// LoadOutgoingMessage fetches a previously queued outgoing message.
func LoadOutgoingMessage(store KVStore, nonce uint64) (*OutgoingMessage, error) {
	raw, err := store.Get(outgoingMessageKey(nonce))
	if err != nil {
		return nil, err
	}
	var msg OutgoingMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CloseOutgoingMessage reclaims an OutgoingMessage's storage once the
// remote chain has acknowledged its nonce, refunding to original_payer.
// The refund mechanics themselves are the host runtime's responsibility;
// this validates the gating condition and deletes the record.
func CloseOutgoingMessage(store KVStore, b *Bridge, nonce uint64) (originalPayer Address, err error) {
	msg, err := LoadOutgoingMessage(store, nonce)
	if err != nil {
		return Address{}, ErrNotFound
	}
	if !b.NonceAcknowledged(nonce) {
		return Address{}, ErrUnauthorized
	}
	if err := store.Delete(outgoingMessageKey(nonce)); err != nil {
		return Address{}, err
	}
	return msg.OriginalPayer, nil
}
