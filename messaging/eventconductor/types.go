package eventconductor

import (
	"coinpot/state/ledger"
	"coinpot/state/locks"
	"coinpot/state/pot"
)

// Request event kinds. The event pubkey is the account, created_at is the time of the operation.
const (
	KindNewLock    = 640500
	KindDeposit    = 640501
	KindWithdraw   = 640502
	KindRunLottery = 640503
)

// RequestKinds is every kind HandleEvent accepts.
var RequestKinds = []int{KindNewLock, KindDeposit, KindWithdraw, KindRunLottery}

// KindLotteryResult is published by the engine after each paid lottery, signed by the operator.
// The content is the LotteryRecord and the winner is tagged with "p".
const KindLotteryResult = 640504

//Kind640500 locks Amount for Days
type Kind640500 struct {
	Amount uint64 `json:"amount"`
	Days   int64  `json:"days"`
}

//Kind640501 deposits into the active lock
type Kind640501 struct {
	Amount uint64 `json:"amount"`
}

//Kind640502 withdraws from the active lock, paying tax if it has not matured
type Kind640502 struct {
	Amount uint64 `json:"amount"`
}

// Result is what a handled request changed.
type Result struct {
	EventID    string             `json:"event_id"`
	Kind       int                `json:"kind"`
	Lock       *locks.Lock        `json:"lock,omitempty"`
	Withdrawal *ledger.Withdrawal `json:"withdrawal,omitempty"`
	Record     *pot.LotteryRecord `json:"record,omitempty"`
}
