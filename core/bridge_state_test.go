package core

import "testing"

func TestInitializeBridgeOneShot(t *testing.T) {
	store := NewInMemoryStore()
	guardian := Address{0x01}
	eip1559 := Eip1559Config{Target: 1, Denominator: 2, WindowDurationSeconds: 1, MinimumBaseFee: 1}

	if _, err := InitializeBridge(store, guardian, eip1559, GasCostConfig{GasCostScaler: 1, GasCostScalerDp: 1}, GasConfig{MaxGasLimitPerMessage: 1}, ProtocolConfig{BlockIntervalRequirement: 1}, LimitsConfig{MaxCallBufferSize: 1}, 0); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	if _, err := InitializeBridge(store, guardian, eip1559, GasCostConfig{GasCostScaler: 1, GasCostScalerDp: 1}, GasConfig{MaxGasLimitPerMessage: 1}, ProtocolConfig{BlockIntervalRequirement: 1}, LimitsConfig{MaxCallBufferSize: 1}, 0); err != ErrAlreadyExists {
		t.Fatalf("second initialize: got %v, want ErrAlreadyExists", err)
	}
}

func TestGuardianOnlyMutations(t *testing.T) {
	b := newTestBridge()
	notGuardian := Address{0xFF}

	if err := b.SetPauseStatus(notGuardian, true); err != ErrUnauthorized {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if err := b.SetPauseStatus(b.Guardian, true); err != nil {
		t.Fatalf("guardian pause: %v", err)
	}
	if !b.Paused {
		t.Fatal("bridge should be paused")
	}
}

func TestSetEip1559ConfigValidatesBounds(t *testing.T) {
	b := newTestBridge()
	bad := Eip1559Config{Target: 0, Denominator: 2, WindowDurationSeconds: 1, MinimumBaseFee: 1}
	if err := b.SetEip1559Config(b.Guardian, bad); err != ErrInvalidFeeConfig {
		t.Fatalf("got %v, want ErrInvalidFeeConfig", err)
	}
}

func TestSetLimitsConfigValidatesUpperBound(t *testing.T) {
	b := newTestBridge()
	bad := LimitsConfig{MaxCallBufferSize: 1 << 21}
	if err := b.SetLimitsConfig(b.Guardian, bad); err != ErrInvalidFeeConfig {
		t.Fatalf("got %v, want ErrInvalidFeeConfig", err)
	}
}

func TestDefaultNonceAckPolicy(t *testing.T) {
	b := newTestBridge()
	if b.NonceAcknowledged(0) {
		t.Fatal("nonce 0 should not be acknowledged before any ack")
	}
	b.AcknowledgeNonce(5)
	if !b.NonceAcknowledged(3) {
		t.Fatal("nonce 3 should be acknowledged once 5 is acknowledged")
	}
	if b.NonceAcknowledged(6) {
		t.Fatal("nonce 6 should not be acknowledged yet")
	}
}
