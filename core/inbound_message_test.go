package core

import (
	"math/big"
	"testing"
)

func TestProveThenRelayAtMostOnce(t *testing.T) {
	store := NewInMemoryStore()

	sender := EvmAddress{0x11}
	data := []byte("payload")
	leaf := IncomingMessageHash(7, sender, MessageTypeCall, data)

	n1 := Hash{0x01}
	n2 := Hash{0x02}
	root := nodeHash(nodeHash(leaf, n1), n2)
	proof := []ProofStep{{Hash: n1, Side: true}, {Hash: n2, Side: true}}

	b := Bridge{ProtocolConfig: ProtocolConfig{BlockIntervalRequirement: 1}}
	oracle := Address{0x01}
	addr, sig := signFixture(t, AttestationHash(root, 1))
	signers, _ := SetOracleSigners(1, []EvmAddress{addr})
	if err := RegisterOutputRoot(store, &b, signers, oracle, oracle, root, 1, []Signature65{sig}); err != nil {
		t.Fatalf("register output root: %v", err)
	}

	h, err := ProveMessage(store, 7, sender, MessageTypeCall, data, 1, proof, 0)
	if err != nil {
		t.Fatalf("ProveMessage: %v", err)
	}
	if h != leaf {
		t.Fatalf("message hash mismatch")
	}

	rec, err := LoadIncomingMessage(store, h)
	if err != nil {
		t.Fatalf("LoadIncomingMessage: %v", err)
	}
	if rec.Executed {
		t.Fatal("message should not be executed yet")
	}

	invoker := &fakeInvoker{}
	if err := RelayMessage(store, h, invoker, [][]byte{[]byte("instr1")}, nil); err != nil {
		t.Fatalf("first relay: %v", err)
	}
	if len(invoker.calls) != 1 {
		t.Fatalf("expected 1 downstream invocation, got %d", len(invoker.calls))
	}

	if err := RelayMessage(store, h, invoker, [][]byte{[]byte("instr1")}, nil); err != ErrMessageAlreadyExecuted {
		t.Fatalf("second relay: got %v, want ErrMessageAlreadyExecuted", err)
	}
}

func TestRelayAbortsLeaveExecutedFalse(t *testing.T) {
	store := NewInMemoryStore()
	sender := EvmAddress{0x22}
	data := []byte("x")
	leaf := IncomingMessageHash(1, sender, MessageTypeCall, data)

	b := Bridge{ProtocolConfig: ProtocolConfig{BlockIntervalRequirement: 1}}
	oracle := Address{0x01}
	addr, sig := signFixture(t, AttestationHash(leaf, 1))
	signers, _ := SetOracleSigners(1, []EvmAddress{addr})
	if err := RegisterOutputRoot(store, &b, signers, oracle, oracle, leaf, 1, []Signature65{sig}); err != nil {
		t.Fatalf("register output root: %v", err)
	}

	h, err := ProveMessage(store, 1, sender, MessageTypeCall, data, 1, nil, 0)
	if err != nil {
		t.Fatalf("ProveMessage: %v", err)
	}

	invoker := &fakeInvoker{failOn: 0}
	if err := RelayMessage(store, h, invoker, [][]byte{[]byte("boom")}, nil); err == nil {
		t.Fatal("expected relay to abort")
	}

	rec, err := LoadIncomingMessage(store, h)
	if err != nil {
		t.Fatalf("LoadIncomingMessage: %v", err)
	}
	if rec.Executed {
		t.Fatal("executed flag must stay false after abort, to allow retry")
	}
}

func TestRelayMessageRequiresFinalizeForTransfer(t *testing.T) {
	store := NewInMemoryStore()
	sender := EvmAddress{0x33}
	transfer := Transfer{RemoteToken: [32]byte{0xAA}, To: [32]byte{0xBB}, RemoteAmount: big.NewInt(5)}
	data := EncodeTransfer(transfer)
	leaf := IncomingMessageHash(1, sender, MessageTypeTransfer, data)

	b := Bridge{ProtocolConfig: ProtocolConfig{BlockIntervalRequirement: 1}}
	oracle := Address{0x01}
	addr, sig := signFixture(t, AttestationHash(leaf, 1))
	signers, _ := SetOracleSigners(1, []EvmAddress{addr})
	if err := RegisterOutputRoot(store, &b, signers, oracle, oracle, leaf, 1, []Signature65{sig}); err != nil {
		t.Fatalf("register output root: %v", err)
	}

	h, err := ProveMessage(store, 1, sender, MessageTypeTransfer, data, 1, nil, 0)
	if err != nil {
		t.Fatalf("ProveMessage: %v", err)
	}

	invoker := &fakeInvoker{}
	if err := RelayMessage(store, h, invoker, nil, nil); err != ErrFinalizeRequired {
		t.Fatalf("got %v, want ErrFinalizeRequired", err)
	}

	ran := false
	finalize := func() error { ran = true; return nil }
	if err := RelayMessage(store, h, invoker, nil, finalize); err != nil {
		t.Fatalf("relay with finalize: %v", err)
	}
	if !ran {
		t.Fatal("finalize was not invoked")
	}
}

func TestRelayMessageRejectsFinalizeForCall(t *testing.T) {
	store := NewInMemoryStore()
	sender := EvmAddress{0x44}
	data := []byte("call-only")
	leaf := IncomingMessageHash(2, sender, MessageTypeCall, data)

	b := Bridge{ProtocolConfig: ProtocolConfig{BlockIntervalRequirement: 1}}
	oracle := Address{0x01}
	addr, sig := signFixture(t, AttestationHash(leaf, 1))
	signers, _ := SetOracleSigners(1, []EvmAddress{addr})
	if err := RegisterOutputRoot(store, &b, signers, oracle, oracle, leaf, 1, []Signature65{sig}); err != nil {
		t.Fatalf("register output root: %v", err)
	}

	h, err := ProveMessage(store, 2, sender, MessageTypeCall, data, 1, nil, 0)
	if err != nil {
		t.Fatalf("ProveMessage: %v", err)
	}

	invoker := &fakeInvoker{}
	finalize := func() error { return nil }
	if err := RelayMessage(store, h, invoker, nil, finalize); err != ErrFinalizeNotExpected {
		t.Fatalf("got %v, want ErrFinalizeNotExpected", err)
	}
}

type fakeInvoker struct {
	calls  [][]byte
	failOn int
}

func (f *fakeInvoker) Invoke(authority Address, instruction []byte) error {
	if len(f.calls) == f.failOn && string(instruction) == "boom" {
		return ErrUnauthorized
	}
	f.calls = append(f.calls, instruction)
	return nil
}
