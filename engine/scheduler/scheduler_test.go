package scheduler

import (
	"testing"

	"coinpot/engine/library"
	"coinpot/state/ledger"
	"coinpot/state/pot"
	"coinpot/state/vault"
)

const (
	start = int64(1_700_000_000)
	day   = library.SecondsPerDay
)

type firstCandidate struct{}

func (firstCandidate) Index(ledger.Draw) (int, error) { return 0, nil }

func TestRunIfDue(t *testing.T) {
	v := vault.New()
	engine, err := ledger.New(ledger.DefaultConfig(), v, start)
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	now := start
	s := New(engine, firstCandidate{}, func() int64 { return now }, "@hourly")
	var paid []pot.LotteryRecord
	s.OnPaid = func(r pot.LotteryRecord) { paid = append(paid, r) }

	if s.runIfDue() {
		t.Fatal("Expected nothing to run before the pot is due")
	}

	now = start + 7*day
	if s.runIfDue() {
		t.Fatal("Expected nothing to be paid without candidates")
	}
	if engine.GetPot().LastLotteryAt != start {
		t.Fatal("Expected the schedule to stay put when nobody holds a lock")
	}

	for _, account := range []library.Account{"alice", "bob"} {
		if err := v.Fund(account, 100); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
	}
	if _, err := engine.NewLock("alice", 100, 30, now); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := engine.NewLock("bob", 100, 30, now); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := engine.WithdrawFromLock("bob", 40, now); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	if !s.runIfDue() {
		t.Fatal("Expected the lottery to run")
	}
	winners := engine.GetLotteryWinners()
	if len(winners) != 1 || winners[0].Winner != "alice" || winners[0].Amount != 2 {
		t.Fatalf("Unexpected winners %+v", winners)
	}
	if len(paid) != 1 || paid[0] != winners[0] {
		t.Fatalf("Expected OnPaid to see the record once, got %+v", paid)
	}
	if engine.GetPot().Balance != 0 || engine.GetPot().LastLotteryAt != now {
		t.Fatalf("Unexpected pot %+v", engine.GetPot())
	}
	if s.runIfDue() {
		t.Fatal("Expected the lottery not to run twice in one interval")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(nil, firstCandidate{}, func() int64 { return start }, "not a cron spec")
	if err := s.Start(); err == nil {
		t.Fatal("Expected an error for an invalid cron spec")
	}
}

func TestStartStop(t *testing.T) {
	s := New(nil, firstCandidate{}, func() int64 { return start }, "@hourly")
	if err := s.Start(); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	<-s.Stop().Done()
}
