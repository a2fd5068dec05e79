package core

import "testing"

func TestSetOracleSignersValidatesThreshold(t *testing.T) {
	signers := make([]EvmAddress, 3)
	for i := range signers {
		signers[i][0] = byte(i + 1)
	}

	if _, err := SetOracleSigners(0, signers); err != ErrThresholdOutOfRange {
		t.Fatalf("threshold=0: got %v, want ErrThresholdOutOfRange", err)
	}
	if _, err := SetOracleSigners(4, signers); err != ErrThresholdOutOfRange {
		t.Fatalf("threshold > len(signers): got %v, want ErrThresholdOutOfRange", err)
	}
	if _, err := SetOracleSigners(2, signers); err != nil {
		t.Fatalf("valid threshold: %v", err)
	}
}

func TestSetOracleSignersRejectsDuplicates(t *testing.T) {
	dup := EvmAddress{0x01}
	if _, err := SetOracleSigners(1, []EvmAddress{dup, dup}); err != ErrDuplicateSigner {
		t.Fatalf("got %v, want ErrDuplicateSigner", err)
	}
}

func TestSetOracleSignersRejectsTooManySigners(t *testing.T) {
	signers := make([]EvmAddress, MaxSignerCount+1)
	if _, err := SetOracleSigners(1, signers); err != ErrSignerSetTooLarge {
		t.Fatalf("got %v, want ErrSignerSetTooLarge", err)
	}
}
