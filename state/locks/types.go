package locks

import (
	"coinpot/engine/library"
)

// Lock is the single time-locked balance an account may hold.
type Lock struct {
	Owner     library.Account `json:"owner"`
	Balance   uint64          `json:"balance"`
	CreatedAt int64           `json:"created_at"`
	UnlockAt  int64           `json:"unlock_at"`
	Days      int64           `json:"days"`
}

type Status int

const (
	Empty Status = iota
	Locked
	Matured
)

func (s Status) String() string {
	switch s {
	case Locked:
		return "locked"
	case Matured:
		return "matured"
	default:
		return "empty"
	}
}

// Active reports whether the lock still holds funds. A lock at zero is cleared.
func (l Lock) Active() bool {
	return l.Balance > 0
}

// Matured reports whether withdrawals at now are free of tax.
func (l Lock) Matured(now int64) bool {
	return now >= l.UnlockAt
}

func (l Lock) Status(now int64) Status {
	if !l.Active() {
		return Empty
	}
	if l.Matured(now) {
		return Matured
	}
	return Locked
}

type Mapped map[library.Account]Lock
