// Package ledger holds per-address balances and moves value between them.
// Amounts are arbitrary-precision and never negative. The ledger knows
// nothing about libraries or licenses; the registry composes its purchase
// flow out of these primitives.
package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/libvault/registry/pkg/errors"
)

// Ledger is an in-memory balance book. Safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	balances map[common.Address]*big.Int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[common.Address]*big.Int)}
}

// BalanceOf returns the balance of addr. Unknown accounts hold zero.
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Deposit credits addr with amount. A nil or zero amount is a no-op;
// negative amounts are rejected.
func (l *Ledger) Deposit(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return errors.New(errors.CodeInvalidArgument, "deposit amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(addr, amount)
	return nil
}

// Withdraw debits addr by amount. Fails with INSUFFICIENT_FUNDS when the
// balance cannot cover it; the balance is untouched on failure.
func (l *Ledger) Withdraw(addr common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return errors.New(errors.CodeInvalidArgument, "withdrawal amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debit(addr, amount)
}

// Transfer moves amount from one account to another atomically.
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return errors.New(errors.CodeInvalidArgument, "transfer amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	return nil
}

// SetBalance overwrites the balance of addr. Used when loading persisted
// state at startup.
func (l *Ledger) SetBalance(addr common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] = new(big.Int).Set(amount)
}

// Accounts returns a snapshot of every account with a non-zero balance.
func (l *Ledger) Accounts() map[common.Address]*big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[common.Address]*big.Int, len(l.balances))
	for addr, b := range l.balances {
		if b.Sign() != 0 {
			out[addr] = new(big.Int).Set(b)
		}
	}
	return out
}

// credit and debit assume the lock is held.
func (l *Ledger) credit(addr common.Address, amount *big.Int) {
	if b, ok := l.balances[addr]; ok {
		b.Add(b, amount)
		return
	}
	l.balances[addr] = new(big.Int).Set(amount)
}

func (l *Ledger) debit(addr common.Address, amount *big.Int) error {
	b, ok := l.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return errors.InsufficientFunds(addr.Hex())
	}
	b.Sub(b, amount)
	return nil
}
