package core

import (
	"encoding/json"
)

// CallBuffer is append-only staging storage for call payloads too large to
// submit in a single instruction. It backs the outbound call-data use only
// (bridge_call_buffered and the *_with_buffered_call variants); there are no
// proof-buffer instructions, and prove_message takes its data and proof
// inline.
type CallBuffer struct {
	ID      Hash
	Owner   Address
	Type    CallType
	To      EvmAddress
	Value   []byte // big-endian u128, kept as bytes to avoid a fixed width
	Data    []byte
	MaxLen  uint64
	Closed  bool
	Claimed bool
}

func callBufferKey(id Hash) []byte {
	key := make([]byte, len("call_buffer/")+32)
	copy(key, "call_buffer/")
	copy(key[len("call_buffer/"):], id[:])
	return key
}

// CreateCallBuffer allocates an empty, owner-scoped buffer bounded by
// maxLen (itself bounded by limits_config.max_call_buffer_size at the
// instruction layer).
func CreateCallBuffer(store KVStore, id Hash, owner Address, ty CallType, to EvmAddress, value []byte, initialData []byte, maxLen uint64) (*CallBuffer, error) {
	if _, err := loadCallBuffer(store, id); err == nil {
		return nil, ErrAlreadyExists
	}
	if uint64(len(initialData)) > maxLen {
		return nil, ErrCallBufferOverflow
	}
	buf := &CallBuffer{
		ID:     id,
		Owner:  owner,
		Type:   ty,
		To:     to,
		Value:  value,
		Data:   append([]byte(nil), initialData...),
		MaxLen: maxLen,
	}
	if err := saveCallBuffer(store, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Append adds chunk to the buffer. Only the recorded owner may append, and
// only before the buffer is closed.
func (b *CallBuffer) Append(store KVStore, caller Address, chunk []byte) error {
	if caller != b.Owner {
		return ErrUnauthorized
	}
	if b.Closed {
		return ErrCallBufferClosed
	}
	if uint64(len(b.Data)+len(chunk)) > b.MaxLen {
		return ErrCallBufferOverflow
	}
	b.Data = append(b.Data, chunk...)
	return saveCallBuffer(store, b)
}

// Close marks the buffer closed without consuming it; only the owner may
// close, and doing so reclaims its storage independent of any bridge call.
func (b *CallBuffer) Close(store KVStore, caller Address) error {
	if caller != b.Owner {
		return ErrUnauthorized
	}
	if b.Closed {
		return ErrCallBufferClosed
	}
	b.Closed = true
	return store.Delete(callBufferKey(b.ID))
}

// Consume atomically reads the buffer's assembled payload and releases its
// storage to the owner; it may only be invoked once, as part of a
// buffered-bridge operation.
func (b *CallBuffer) Consume(store KVStore, caller Address) ([]byte, error) {
	if caller != b.Owner {
		return nil, ErrUnauthorized
	}
	if b.Claimed || b.Closed {
		return nil, ErrCallBufferClosed
	}
	data := b.Data
	b.Claimed = true
	if err := store.Delete(callBufferKey(b.ID)); err != nil {
		return nil, err
	}
	return data, nil
}

func loadCallBuffer(store KVStore, id Hash) (*CallBuffer, error) {
	raw, err := store.Get(callBufferKey(id))
	if err != nil {
		return nil, err
	}
	var buf CallBuffer
	if err := json.Unmarshal(raw, &buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func saveCallBuffer(store KVStore, buf *CallBuffer) error {
	raw, err := json.Marshal(buf)
	if err != nil {
		return err
	}
	return store.Set(callBufferKey(buf.ID), raw)
}

// LoadCallBuffer fetches a call buffer by id.
func LoadCallBuffer(store KVStore, id Hash) (*CallBuffer, error) {
	return loadCallBuffer(store, id)
}
