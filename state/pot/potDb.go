package pot

import (
	"errors"
	"math"
)

var ErrOverflow = errors.New("pot balance would overflow")

// Accumulator owns the pot balance, the lottery schedule and the winners history.
// Like the lock store it relies on its owner for serialization.
type Accumulator struct {
	pot     Pot
	history *History
}

// NewAccumulator starts an empty pot whose schedule counts from createdAt.
func NewAccumulator(createdAt, intervalDays int64, capacity int) *Accumulator {
	return &Accumulator{
		pot:     Pot{LastLotteryAt: createdAt, IntervalDays: intervalDays},
		history: NewHistory(capacity),
	}
}

// AddToPot fails only when the balance would overflow, in which case nothing changes.
func (a *Accumulator) AddToPot(amount uint64) error {
	if a.pot.Balance > math.MaxUint64-amount {
		return ErrOverflow
	}
	a.pot.Balance += amount
	return nil
}

// Drain returns the whole balance and resets it to zero.
func (a *Accumulator) Drain() uint64 {
	amount := a.pot.Balance
	a.pot.Balance = 0
	return amount
}

func (a *Accumulator) IsDue(now int64) bool {
	return a.pot.IsDue(now)
}

func (a *Accumulator) MarkRun(now int64) {
	a.pot.LastLotteryAt = now
}

func (a *Accumulator) Record(r LotteryRecord) {
	a.history.Push(r)
}

func (a *Accumulator) Pot() Pot {
	return a.pot
}

func (a *Accumulator) Winners() []LotteryRecord {
	return a.history.Records()
}

func (a *Accumulator) Snapshot() Snapshot {
	h := a.history.clone()
	return Snapshot{Pot: a.pot, Capacity: len(h.slots), History: h.slots, Next: h.next}
}

// Restore loads s under the given interval. A snapshot taken with a different capacity is replayed
// record by record into a ring of the requested capacity, keeping the newest records.
func (a *Accumulator) Restore(s Snapshot, intervalDays int64, capacity int) {
	a.pot = s.Pot
	a.pot.IntervalDays = intervalDays
	a.history = NewHistory(capacity)
	if len(s.History) == 0 {
		return
	}
	next := s.Next
	if next < 0 || next >= len(s.History) {
		next = 0
	}
	old := &History{slots: s.History, next: next}
	for _, r := range old.Records() {
		a.history.Push(r)
	}
}
