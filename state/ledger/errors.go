package ledger

import (
	"errors"
	"fmt"
	"strings"

	"coinpot/engine/library"
)

// Kind tags every way an engine operation can be refused.
type Kind int

const (
	InvalidAmount Kind = iota + 1
	InvalidDuration
	LockNotCleared
	LockNotFound
	EmptyLock
	InsufficientBalance
	InsufficientBalanceWithTax
	NoCandidates
	TransferFailed
	Overflow
	NotDue
	RandomnessFailed
)

var kindNames = map[Kind]string{
	InvalidAmount:              "InvalidAmount",
	InvalidDuration:            "InvalidDuration",
	LockNotCleared:             "LockNotCleared",
	LockNotFound:               "LockNotFound",
	EmptyLock:                  "EmptyLock",
	InsufficientBalance:        "InsufficientBalance",
	InsufficientBalanceWithTax: "InsufficientBalanceWithTax",
	NoCandidates:               "NoCandidates",
	TransferFailed:             "TransferFailed",
	Overflow:                   "Overflow",
	NotDue:                     "NotDue",
	RandomnessFailed:           "RandomnessFailed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is returned by every failed engine operation. Only the fields that matter for the kind are set.
type Error struct {
	Kind     Kind
	Account  library.Account
	Amount   uint64
	Balance  uint64
	Required uint64
	Days     int64
	Err      error
}

var (
	ErrInvalidAmount              = &Error{Kind: InvalidAmount}
	ErrInvalidDuration            = &Error{Kind: InvalidDuration}
	ErrLockNotCleared             = &Error{Kind: LockNotCleared}
	ErrLockNotFound               = &Error{Kind: LockNotFound}
	ErrEmptyLock                  = &Error{Kind: EmptyLock}
	ErrInsufficientBalance        = &Error{Kind: InsufficientBalance}
	ErrInsufficientBalanceWithTax = &Error{Kind: InsufficientBalanceWithTax}
	ErrNoCandidates               = &Error{Kind: NoCandidates}
	ErrTransferFailed             = &Error{Kind: TransferFailed}
	ErrOverflow                   = &Error{Kind: Overflow}
	ErrNotDue                     = &Error{Kind: NotDue}
	ErrRandomnessFailed           = &Error{Kind: RandomnessFailed}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Account != "" {
		fmt.Fprintf(&b, " account=%s", e.Account)
	}
	if e.Amount != 0 {
		fmt.Fprintf(&b, " amount=%d", e.Amount)
	}
	switch e.Kind {
	case InsufficientBalance, InsufficientBalanceWithTax, Overflow:
		fmt.Fprintf(&b, " balance=%d required=%d", e.Balance, e.Required)
	case InvalidDuration:
		fmt.Fprintf(&b, " days=%d", e.Days)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrEmptyLock) works on errors
// that carry numeric context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or 0 when err did not come from the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
