package core

import "testing"

func newTestBridgeForRoots(t *testing.T) (*Bridge, Address) {
	t.Helper()
	oracle := Address{0x01}
	b := &Bridge{
		Guardian:       Address{0x02},
		ProtocolConfig: ProtocolConfig{BlockIntervalRequirement: 300},
		Eip1559Config:  Eip1559Config{Target: 1, Denominator: 2, WindowDurationSeconds: 1, MinimumBaseFee: 1},
		AckPolicy:      DefaultNonceAckPolicy{},
	}
	return b, oracle
}

func TestBlockLattice(t *testing.T) {
	store := NewInMemoryStore()
	b, oracle := newTestBridgeForRoots(t)

	addr, sig := signFixture(t, AttestationHash(Hash{0x01}, 300))
	signers, err := SetOracleSigners(1, []EvmAddress{addr})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}

	if err := RegisterOutputRoot(store, b, signers, oracle, oracle, Hash{0x01}, 300, []Signature65{sig}); err != nil {
		t.Fatalf("register block 300: %v", err)
	}

	addr2, sig2 := signFixture(t, AttestationHash(Hash{0x02}, 600))
	signers2, err := SetOracleSigners(1, []EvmAddress{addr2})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}
	if err := RegisterOutputRoot(store, b, signers2, oracle, oracle, Hash{0x02}, 600, []Signature65{sig2}); err != nil {
		t.Fatalf("register block 600: %v", err)
	}

	addrBad, sigBad := signFixture(t, AttestationHash(Hash{0x03}, 450))
	signersBad, _ := SetOracleSigners(1, []EvmAddress{addrBad})
	if err := RegisterOutputRoot(store, b, signersBad, oracle, oracle, Hash{0x03}, 450, []Signature65{sigBad}); err == nil {
		t.Fatal("expected rejection for block not on interval lattice")
	}

	addrReplay, sigReplay := signFixture(t, AttestationHash(Hash{0x04}, 300))
	signersReplay, _ := SetOracleSigners(1, []EvmAddress{addrReplay})
	if err := RegisterOutputRoot(store, b, signersReplay, oracle, oracle, Hash{0x04}, 300, []Signature65{sigReplay}); err == nil {
		t.Fatal("expected rejection for replayed (non-increasing) block number")
	}

	addrLow, sigLow := signFixture(t, AttestationHash(Hash{0x05}, 150))
	signersLow, _ := SetOracleSigners(1, []EvmAddress{addrLow})
	if err := RegisterOutputRoot(store, b, signersLow, oracle, oracle, Hash{0x05}, 150, []Signature65{sigLow}); err == nil {
		t.Fatal("expected rejection for block below current base_block_number")
	}
}

func TestRegisterOutputRootRequiresOracleCaller(t *testing.T) {
	store := NewInMemoryStore()
	b, oracle := newTestBridgeForRoots(t)
	addr, sig := signFixture(t, AttestationHash(Hash{0x01}, 300))
	signers, _ := SetOracleSigners(1, []EvmAddress{addr})

	notOracle := Address{0xFF}
	if err := RegisterOutputRoot(store, b, signers, notOracle, oracle, Hash{0x01}, 300, []Signature65{sig}); err == nil {
		t.Fatal("expected ErrUnauthorized for non-oracle caller")
	}
}
