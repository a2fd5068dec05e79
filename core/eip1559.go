package core

import (
	"math/big"

	"go.uber.org/zap"
)

// Eip1559Config holds the guardian-tunable parameters of the dynamic fee
// engine. Bounds are enforced by the setters in bridge_state.go, per the
// inclusive ranges in the instruction surface.
type Eip1559Config struct {
	Target                uint64
	Denominator           uint64
	WindowDurationSeconds uint64
	MinimumBaseFee        uint64
}

// Eip1559State is the mutable, per-bridge fee-engine state.
type Eip1559State struct {
	CurrentBaseFee       uint64
	CurrentWindowGasUsed uint64
	WindowStartTime      uint64
}

// Validate enforces the configuration bounds from the instruction surface's
// parameter setters.
func (c Eip1559Config) Validate() error {
	if c.MinimumBaseFee < 1 || c.MinimumBaseFee > 1_000_000_000 {
		return ErrInvalidFeeConfig
	}
	if c.WindowDurationSeconds < 1 || c.WindowDurationSeconds > 3600 {
		return ErrInvalidFeeConfig
	}
	if c.Target < 1 || c.Target > 1_000_000_000 {
		return ErrInvalidFeeConfig
	}
	if c.Denominator < 1 || c.Denominator > 100 {
		return ErrInvalidFeeConfig
	}
	return nil
}

// Refresh advances the fee engine state to `now` (unix seconds),
// applying one used-window step followed by N-1 empty-window decay steps,
// per the windowed EIP-1559-style update. It returns the resulting base
// fee. Refresh is idempotent within the same window: calling it twice with
// the same `now` performs no further update the second time.
func (s *Eip1559State) Refresh(cfg Eip1559Config, now uint64) (uint64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if now < s.WindowStartTime {
		return s.CurrentBaseFee, nil
	}
	n := (now - s.WindowStartTime) / cfg.WindowDurationSeconds
	if n == 0 {
		return s.CurrentBaseFee, nil
	}

	base, err := usedWindowStep(cfg, s.CurrentBaseFee, s.CurrentWindowGasUsed)
	if err != nil {
		return 0, err
	}

	if n >= 2 {
		base, err = emptyWindowDecay(cfg, base, n-1)
		if err != nil {
			return 0, err
		}
	}

	if base < cfg.MinimumBaseFee {
		base = cfg.MinimumBaseFee
	}

	s.CurrentBaseFee = base
	s.CurrentWindowGasUsed = 0
	s.WindowStartTime = now

	loggerRef().Debug("eip1559 refresh",
		zap.Uint64("windows_elapsed", n),
		zap.Uint64("new_base_fee", base),
	)
	return base, nil
}

// usedWindowStep applies the single used-window base-fee update from the
// gas consumed in the window that just closed.
func usedWindowStep(cfg Eip1559Config, base, gasUsed uint64) (uint64, error) {
	switch {
	case gasUsed == cfg.Target:
		return base, nil
	case gasUsed > cfg.Target:
		delta, err := windowDelta(base, gasUsed-cfg.Target, cfg.Target, cfg.Denominator)
		if err != nil {
			return 0, err
		}
		if delta < 1 {
			delta = 1
		}
		return checkedAddU64(base, delta)
	default:
		delta, err := windowDelta(base, cfg.Target-gasUsed, cfg.Target, cfg.Denominator)
		if err != nil {
			return 0, err
		}
		if delta >= base {
			return cfg.MinimumBaseFee, nil
		}
		out := base - delta
		if out < cfg.MinimumBaseFee {
			out = cfg.MinimumBaseFee
		}
		return out, nil
	}
}

// windowDelta computes gasUsedDelta*base/target/denominator with truncating
// integer division applied left to right, matching the reference formula
// exactly (the order of division matters for the literal scenarios).
func windowDelta(base, gasUsedDelta, target, denominator uint64) (uint64, error) {
	if target == 0 || denominator == 0 {
		return 0, ErrInvalidFeeConfig
	}
	num := new(big.Int).Mul(big.NewInt(0).SetUint64(gasUsedDelta), big.NewInt(0).SetUint64(base))
	num.Quo(num, big.NewInt(0).SetUint64(target))
	num.Quo(num, big.NewInt(0).SetUint64(denominator))
	if !num.IsUint64() {
		return 0, ErrGasOverflow
	}
	return num.Uint64(), nil
}

// emptyWindowDecay computes base * ((denominator-1)/denominator)^steps in
// closed form via FixedPow in the Scale domain.
func emptyWindowDecay(cfg Eip1559Config, base, steps uint64) (uint64, error) {
	if steps == 0 {
		return base, nil
	}
	ratio := new(big.Int).Mul(big.NewInt(int64(cfg.Denominator-1)), Scale)
	ratio.Quo(ratio, big.NewInt(int64(cfg.Denominator)))

	decayed, err := FixedPow(ratio, steps)
	if err != nil {
		return 0, err
	}
	out := new(big.Int).Mul(big.NewInt(0).SetUint64(base), decayed)
	out.Quo(out, Scale)
	if !out.IsUint64() {
		return 0, ErrGasOverflow
	}
	return out.Uint64(), nil
}

// AddGasUsage records gas usage against the current window. Per the
// reference design this must only be called immediately after Refresh
// within the same operation.
func (s *Eip1559State) AddGasUsage(gas uint64) error {
	sum, err := checkedAddU64(s.CurrentWindowGasUsed, gas)
	if err != nil {
		return err
	}
	s.CurrentWindowGasUsed = sum
	return nil
}
