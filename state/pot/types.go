package pot

import (
	"math"

	"coinpot/engine/library"
)

// Pot is the shared balance fed by early withdrawal tax and paid out whole on every lottery run.
type Pot struct {
	Balance       uint64 `json:"balance"`
	LastLotteryAt int64  `json:"last_lottery_at"`
	IntervalDays  int64  `json:"interval_days"`
}

// NextRunAt is the first timestamp at which the lottery is due again.
func (p Pot) NextRunAt() int64 {
	interval := p.IntervalDays * library.SecondsPerDay
	if p.IntervalDays > math.MaxInt64/library.SecondsPerDay || p.LastLotteryAt > math.MaxInt64-interval {
		return math.MaxInt64
	}
	return p.LastLotteryAt + interval
}

func (p Pot) IsDue(now int64) bool {
	return now >= p.NextRunAt()
}

type LotteryRecord struct {
	Winner    library.Account `json:"winner"`
	Amount    uint64          `json:"amount"`
	Timestamp int64           `json:"timestamp"`
	// Proof is the hex signature the draw was derived from, when the random source provides one.
	Proof string `json:"proof,omitempty"`
}

// Snapshot is the persisted form of an Accumulator.
type Snapshot struct {
	Pot      Pot              `json:"pot"`
	Capacity int              `json:"capacity"`
	History  []*LotteryRecord `json:"history"`
	Next     int              `json:"next"`
}
