package core

// InMemoryTokenLedger is a process-local TokenLedger backing for
// development and the relayer API's standalone mode, mirroring
// InMemoryLedger's role for lamport balances.
type InMemoryTokenLedger struct {
	balances map[Address]map[Address]uint64
}

// NewInMemoryTokenLedger returns an empty ledger.
func NewInMemoryTokenLedger() *InMemoryTokenLedger {
	return &InMemoryTokenLedger{balances: make(map[Address]map[Address]uint64)}
}

func (l *InMemoryTokenLedger) accounts(mint Address) map[Address]uint64 {
	m, ok := l.balances[mint]
	if !ok {
		m = make(map[Address]uint64)
		l.balances[mint] = m
	}
	return m
}

func (l *InMemoryTokenLedger) Balance(mint, account Address) uint64 {
	return l.accounts(mint)[account]
}

// Credit mints amount into account without going through the custody
// layer, for seeding test and development balances.
func (l *InMemoryTokenLedger) Credit(mint, account Address, amount uint64) {
	l.accounts(mint)[account] += amount
}

func (l *InMemoryTokenLedger) Transfer(mint, from, to Address, amount uint64) error {
	accts := l.accounts(mint)
	if accts[from] < amount {
		return ErrInsufficientVaultBalance
	}
	accts[from] -= amount
	accts[to] += amount
	return nil
}

func (l *InMemoryTokenLedger) Burn(mint, from Address, amount uint64) error {
	accts := l.accounts(mint)
	if accts[from] < amount {
		return ErrInsufficientVaultBalance
	}
	accts[from] -= amount
	return nil
}

func (l *InMemoryTokenLedger) Mint(mint, to Address, amount uint64) error {
	l.accounts(mint)[to] += amount
	return nil
}
