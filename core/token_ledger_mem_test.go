package core

import "testing"

func TestInMemoryTokenLedgerTransferBurnMint(t *testing.T) {
	l := NewInMemoryTokenLedger()
	mint := Address{0x01}
	alice := Address{0x02}
	bob := Address{0x03}

	l.Credit(mint, alice, 100)
	if err := l.Transfer(mint, alice, bob, 40); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if l.Balance(mint, alice) != 60 || l.Balance(mint, bob) != 40 {
		t.Fatalf("unexpected balances after transfer: alice=%d bob=%d", l.Balance(mint, alice), l.Balance(mint, bob))
	}

	if err := l.Transfer(mint, alice, bob, 1000); err != ErrInsufficientVaultBalance {
		t.Fatalf("overdraft transfer: got %v, want ErrInsufficientVaultBalance", err)
	}

	if err := l.Burn(mint, bob, 10); err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if l.Balance(mint, bob) != 30 {
		t.Fatalf("balance after burn = %d, want 30", l.Balance(mint, bob))
	}

	if err := l.Mint(mint, bob, 5); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if l.Balance(mint, bob) != 35 {
		t.Fatalf("balance after mint = %d, want 35", l.Balance(mint, bob))
	}
}
