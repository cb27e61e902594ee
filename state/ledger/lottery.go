package ledger

import (
	"fmt"

	"coinpot/engine/library"
	"coinpot/state/pot"
)

// RunLottery pays the whole pot into the lock of one account drawn by rng from every account
// holding an active lock.
func (e *Engine) RunLottery(now int64, rng RandomSource) (pot.LotteryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.pot.Pot()
	if e.config.EnforceScheduleOnRun && !current.IsDue(now) {
		return pot.LotteryRecord{}, reject(&Error{Kind: NotDue})
	}
	candidates := e.locks.Active()
	if len(candidates) == 0 {
		return pot.LotteryRecord{}, reject(&Error{Kind: NoCandidates})
	}
	if rng == nil {
		return pot.LotteryRecord{}, reject(&Error{Kind: RandomnessFailed, Err: fmt.Errorf("no random source")})
	}
	draw := Draw{
		Now:           now,
		LastLotteryAt: current.LastLotteryAt,
		Pot:           current.Balance,
		Candidates:    append([]library.Account(nil), candidates...),
	}
	index, err := rng.Index(draw)
	if err != nil {
		return pot.LotteryRecord{}, reject(&Error{Kind: RandomnessFailed, Err: err})
	}
	if index < 0 || index >= len(candidates) {
		return pot.LotteryRecord{}, reject(&Error{Kind: RandomnessFailed, Err: fmt.Errorf("index %d outside [0, %d)", index, len(candidates))})
	}
	var proof string
	if p, ok := rng.(Prover); ok {
		if proof, err = p.Proof(draw); err != nil {
			return pot.LotteryRecord{}, reject(&Error{Kind: RandomnessFailed, Err: err})
		}
	}
	winner := candidates[index]
	lock, _ := e.locks.Get(winner)
	balance, fits := addUint64(lock.Balance, current.Balance)
	if !fits {
		return pot.LotteryRecord{}, reject(&Error{Kind: Overflow, Account: winner, Balance: lock.Balance, Required: current.Balance})
	}

	reward := e.pot.Drain()
	lock.Balance = balance
	e.locks.Put(winner, lock)
	record := pot.LotteryRecord{
		Winner:    winner,
		Amount:    reward,
		Timestamp: now,
		Proof:     proof,
	}
	e.pot.Record(record)
	e.pot.MarkRun(now)
	library.LogCLI(fmt.Sprintf("lottery paid %d to %s out of %d candidates", reward, winner, len(candidates)), 4)
	return record, nil
}
