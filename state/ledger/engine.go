package ledger

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"github.com/shopspring/decimal"

	"coinpot/engine/library"
	"coinpot/state/locks"
	"coinpot/state/pot"
)

// Custody moves the underlying asset. The engine calls it inside an operation and commits nothing
// when it fails.
type Custody interface {
	TransferIn(from library.Account, amount uint64) error
	TransferOut(to library.Account, amount uint64) error
}

// Draw is everything a RandomSource may base its choice on.
type Draw struct {
	Now           int64
	LastLotteryAt int64
	Pot           uint64
	Candidates    []library.Account
}

// RandomSource picks the winning index, which must be in [0, len(draw.Candidates)).
type RandomSource interface {
	Index(draw Draw) (int, error)
}

// Prover is implemented by random sources that can publish evidence for their choice.
// The evidence is stored on the lottery record.
type Prover interface {
	Proof(draw Draw) (string, error)
}

type Config struct {
	// TaxRate is the share of an early withdrawal added on top of it and paid into the pot.
	TaxRate                decimal.Decimal
	IntervalDays           int64
	HistoryCapacity        int
	AllowZeroDurationLocks bool
	EnforceScheduleOnRun   bool
}

func DefaultConfig() Config {
	return Config{
		TaxRate:                decimal.RequireFromString("0.05"),
		IntervalDays:           7,
		HistoryCapacity:        10,
		AllowZeroDurationLocks: false,
		EnforceScheduleOnRun:   true,
	}
}

func (c Config) validate() error {
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s must be in [0, 1)", c.TaxRate)
	}
	if c.IntervalDays < 0 {
		return fmt.Errorf("lottery interval of %d days is negative", c.IntervalDays)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history capacity %d must be at least 1", c.HistoryCapacity)
	}
	return nil
}

// Engine is the lock-and-lottery ledger. Every exported method runs under one mutex, so operations
// never interleave and a failed operation leaves no trace.
type Engine struct {
	mu      *deadlock.Mutex
	config  Config
	custody Custody
	locks   *locks.Store
	pot     *pot.Accumulator
}

// New creates an empty ledger. createdAt seeds the lottery schedule.
func New(config Config, custody Custody, createdAt int64) (*Engine, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if custody == nil {
		return nil, fmt.Errorf("a custody collaborator is required")
	}
	return &Engine{
		mu:      &deadlock.Mutex{},
		config:  config,
		custody: custody,
		locks:   locks.NewStore(),
		pot:     pot.NewAccumulator(createdAt, config.IntervalDays, config.HistoryCapacity),
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// GetActiveLock returns the lock held by account, if it holds a non-zero balance.
func (e *Engine) GetActiveLock(account library.Account) (locks.Lock, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks.Get(account)
	if !ok || !l.Active() {
		return locks.Lock{}, false
	}
	return l, true
}

func (e *Engine) Status(account library.Account, now int64) locks.Status {
	l, _ := e.GetActiveLock(account)
	return l.Status(now)
}

func (e *Engine) GetPot() pot.Pot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pot.Pot()
}

// GetLotteryWinners returns past payouts, oldest first.
func (e *Engine) GetLotteryWinners() []pot.LotteryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pot.Winners()
}

// Candidates returns the accounts a lottery run at this moment would draw from.
func (e *Engine) Candidates() []library.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locks.Active()
}

func (e *Engine) GetMapped() locks.Mapped {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locks.Mapped()
}

// State is a detached copy of everything the engine owns.
type State struct {
	Locks locks.Mapped `json:"locks"`
	Pot   pot.Snapshot `json:"pot"`
}

func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Locks: e.locks.Mapped(), Pot: e.pot.Snapshot()}
}

// Restore replaces the engine state with s. The configured lottery interval and history capacity
// win over the ones recorded in s.
func (e *Engine) Restore(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locks.Restore(s.Locks)
	e.pot.Restore(s.Pot, e.config.IntervalDays, e.config.HistoryCapacity)
}

func reject(err *Error) error {
	library.LogCLI(err, 3)
	return err
}
