package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func signFixture(t *testing.T, msgHash Hash) (EvmAddress, Signature65) {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	sig, err := crypto.Sign(msgHash[:], priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var out Signature65
	copy(out[:64], sig[:64])
	out[64] = sig[64] + 27 // go-ethereum recovery id -> v in {27,28}
	return crypto.PubkeyToAddress(priv.PublicKey), out
}

func TestRecoverAddressRoundTrip(t *testing.T) {
	h := Hash{0x01, 0x02, 0x03}
	addr, sig := signFixture(t, h)

	got, err := RecoverAddress(h, sig)
	if err != nil {
		t.Fatalf("RecoverAddress: %v", err)
	}
	if got != addr {
		t.Fatalf("recovered address = %x, want %x", got, addr)
	}
}

func TestVerifyThresholdTwoDistinctSignatures(t *testing.T) {
	h := AttestationHash(Hash{0xAB}, 600)
	addr1, sig1 := signFixture(t, h)
	addr2, sig2 := signFixture(t, h)

	signers, err := SetOracleSigners(2, []EvmAddress{addr1, addr2, {0x99}})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}

	count, ok := VerifyThreshold(signers, h, []Signature65{sig1, sig2})
	if !ok || count != 2 {
		t.Fatalf("count=%d ok=%v, want count=2 ok=true", count, ok)
	}
}

func TestVerifyThresholdRejectsDuplicateSigner(t *testing.T) {
	h := AttestationHash(Hash{0xAB}, 600)
	addr1, sig1 := signFixture(t, h)

	signers, err := SetOracleSigners(2, []EvmAddress{addr1, {0x99}})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}

	count, ok := VerifyThreshold(signers, h, []Signature65{sig1, sig1})
	if ok || count != 1 {
		t.Fatalf("count=%d ok=%v, want count=1 ok=false (duplicate signer counted once)", count, ok)
	}
}

func TestVerifyThresholdRejectsOneValidOneInvalid(t *testing.T) {
	h := AttestationHash(Hash{0xAB}, 600)
	addr1, sig1 := signFixture(t, h)

	var garbled Signature65
	garbled[64] = 27

	signers, err := SetOracleSigners(2, []EvmAddress{addr1, {0x99}})
	if err != nil {
		t.Fatalf("SetOracleSigners: %v", err)
	}

	count, ok := VerifyThreshold(signers, h, []Signature65{sig1, garbled})
	if ok || count != 1 {
		t.Fatalf("count=%d ok=%v, want count=1 ok=false", count, ok)
	}
}
