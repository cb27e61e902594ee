package ledger

import (
	"fmt"
	"math"

	"coinpot/engine/library"
	"coinpot/state/locks"
)

// Withdrawal is the outcome of WithdrawFromLock. Amount has been paid out to the owner and Tax
// has been moved into the pot.
type Withdrawal struct {
	Lock    locks.Lock `json:"lock"`
	Amount  uint64     `json:"amount"`
	Tax     uint64     `json:"tax"`
	Cleared bool       `json:"cleared"`
}

// NewLock locks amount for days, starting at now. The account must not hold an active lock.
func (e *Engine) NewLock(account library.Account, amount uint64, days int64, now int64) (locks.Lock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount == 0 {
		return locks.Lock{}, reject(&Error{Kind: InvalidAmount, Account: account})
	}
	if days < 0 || (days == 0 && !e.config.AllowZeroDurationLocks) {
		return locks.Lock{}, reject(&Error{Kind: InvalidDuration, Account: account, Days: days})
	}
	if existing, ok := e.locks.Get(account); ok && existing.Active() {
		return locks.Lock{}, reject(&Error{Kind: LockNotCleared, Account: account, Balance: existing.Balance})
	}
	if days > math.MaxInt64/library.SecondsPerDay || now > math.MaxInt64-days*library.SecondsPerDay {
		return locks.Lock{}, reject(&Error{Kind: Overflow, Account: account, Days: days})
	}
	if err := e.custody.TransferIn(account, amount); err != nil {
		return locks.Lock{}, reject(&Error{Kind: TransferFailed, Account: account, Amount: amount, Err: err})
	}
	lock := locks.Lock{
		Owner:     account,
		Balance:   amount,
		CreatedAt: now,
		UnlockAt:  now + days*library.SecondsPerDay,
		Days:      days,
	}
	e.locks.Put(account, lock)
	library.LogCLI(fmt.Sprintf("account %s locked %d for %d days", account, amount, days), 4)
	return lock, nil
}

// DepositInLock adds amount to an active lock. The unlock date does not move.
func (e *Engine) DepositInLock(account library.Account, amount uint64, now int64) (locks.Lock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks.Get(account)
	if !ok || !lock.Active() {
		return locks.Lock{}, reject(&Error{Kind: LockNotFound, Account: account})
	}
	if amount == 0 {
		return locks.Lock{}, reject(&Error{Kind: InvalidAmount, Account: account})
	}
	balance, fits := addUint64(lock.Balance, amount)
	if !fits {
		return locks.Lock{}, reject(&Error{Kind: Overflow, Account: account, Amount: amount, Balance: lock.Balance, Required: amount})
	}
	if err := e.custody.TransferIn(account, amount); err != nil {
		return locks.Lock{}, reject(&Error{Kind: TransferFailed, Account: account, Amount: amount, Err: err})
	}
	lock.Balance = balance
	e.locks.Put(account, lock)
	library.LogCLI(fmt.Sprintf("account %s deposited %d, lock balance is now %d", account, amount, balance), 4)
	return lock, nil
}

// WithdrawFromLock pays amount out of the lock. Before the unlock date the lock is additionally
// charged floor(amount * TaxRate), which goes to the pot. A lock drained to zero is cleared.
func (e *Engine) WithdrawFromLock(account library.Account, amount uint64, now int64) (Withdrawal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks.Get(account)
	if !ok || !lock.Active() {
		return Withdrawal{}, reject(&Error{Kind: EmptyLock, Account: account})
	}
	if amount == 0 {
		return Withdrawal{}, reject(&Error{Kind: InvalidAmount, Account: account})
	}
	var tax uint64
	if lock.Matured(now) {
		if lock.Balance < amount {
			return Withdrawal{}, reject(&Error{Kind: InsufficientBalance, Account: account, Amount: amount, Balance: lock.Balance, Required: amount})
		}
	} else {
		tax = Tax(amount, e.config.TaxRate)
		required, fits := addUint64(amount, tax)
		if !fits || lock.Balance < required {
			return Withdrawal{}, reject(&Error{Kind: InsufficientBalanceWithTax, Account: account, Amount: amount, Balance: lock.Balance, Required: required})
		}
		potBalance := e.pot.Pot().Balance
		if _, fits := addUint64(potBalance, tax); !fits {
			return Withdrawal{}, reject(&Error{Kind: Overflow, Account: account, Amount: tax, Balance: potBalance, Required: tax})
		}
	}
	if err := e.custody.TransferOut(account, amount); err != nil {
		return Withdrawal{}, reject(&Error{Kind: TransferFailed, Account: account, Amount: amount, Err: err})
	}
	if tax > 0 {
		if err := e.pot.AddToPot(tax); err != nil {
			// unreachable, checked above
			library.LogCLI(err, 1)
		}
	}
	lock.Balance -= amount + tax
	w := Withdrawal{Lock: lock, Amount: amount, Tax: tax}
	if lock.Balance == 0 {
		e.locks.Clear(account)
		w.Cleared = true
	} else {
		e.locks.Put(account, lock)
	}
	library.LogCLI(fmt.Sprintf("account %s withdrew %d paying %d tax, lock balance is now %d", account, amount, tax, lock.Balance), 4)
	return w, nil
}
