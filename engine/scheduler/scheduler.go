package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"coinpot/engine/library"
	"coinpot/state/ledger"
	"coinpot/state/pot"
)

// cronLogger routes cron's own messages into LogCLI.
type cronLogger struct{}

func (cronLogger) Printf(format string, v ...interface{}) {
	library.LogCLI(fmt.Sprintf(format, v...), 3)
}

// Scheduler runs the lottery on a cron schedule whenever the pot is due.
type Scheduler struct {
	cron   *cron.Cron
	engine *ledger.Engine
	source ledger.RandomSource
	clock  library.Clock
	spec   string

	// OnPaid is called with every record the scheduler pays.
	OnPaid func(pot.LotteryRecord)
}

func New(engine *ledger.Engine, source ledger.RandomSource, clock library.Clock, spec string) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(cronLogger{}))))
	return &Scheduler{
		cron:   c,
		engine: engine,
		source: source,
		clock:  clock,
		spec:   spec,
	}
}

// Start registers the lottery job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunIfDue); err != nil {
		return fmt.Errorf("failed to schedule lottery job %q: %w", s.spec, err)
	}
	library.LogCLI(fmt.Sprintf("scheduled lottery job %q", s.spec), 4)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once a running job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunIfDue runs the lottery if the pot is due at the current time.
func (s *Scheduler) RunIfDue() {
	s.runIfDue()
}

// runIfDue reports whether a winner was paid.
func (s *Scheduler) runIfDue() bool {
	now := s.clock()
	if !s.engine.GetPot().IsDue(now) {
		return false
	}
	record, err := s.engine.RunLottery(now, s.source)
	if err != nil {
		if errors.Is(err, ledger.ErrNoCandidates) {
			library.LogCLI("lottery is due but nobody holds a lock, the pot rolls over", 3)
			return false
		}
		library.LogCLI(err, 1)
		return false
	}
	library.LogCLI(fmt.Sprintf("lottery paid %d to %s", record.Amount, record.Winner), 4)
	if s.OnPaid != nil {
		s.OnPaid(record)
	}
	return true
}
