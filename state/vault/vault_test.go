package vault

import (
	"errors"
	"math"
	"testing"

	"github.com/spf13/viper"

	"coinpot/engine/actors"
	"coinpot/engine/library"
	"coinpot/state/ledger"
)

var _ ledger.Custody = (*Vault)(nil)

type firstCandidate struct{}

func (firstCandidate) Index(ledger.Draw) (int, error) { return 0, nil }

func TestTransfers(t *testing.T) {
	v := New()
	if err := v.Fund("alice", 100); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	if err := v.TransferIn("alice", 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if err := v.TransferIn("alice", 60); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if v.Balance("alice") != 40 || v.Custody() != 60 {
		t.Fatalf("Expected wallet 40 and custody 60, got %d and %d", v.Balance("alice"), v.Custody())
	}
	if err := v.TransferOut("bob", 61); !errors.Is(err, ErrCustodyShortfall) {
		t.Fatalf("Expected ErrCustodyShortfall, got %v", err)
	}
	if err := v.TransferOut("bob", 25); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if v.Balance("bob") != 25 || v.Custody() != 35 {
		t.Errorf("Expected bob 25 and custody 35, got %d and %d", v.Balance("bob"), v.Custody())
	}
	if err := v.Fund("bob", math.MaxUint64); !errors.Is(err, ErrOverflow) {
		t.Errorf("Expected ErrOverflow, got %v", err)
	}
}

func TestPersist(t *testing.T) {
	conf := viper.New()
	actors.SetDefaults(conf)
	conf.Set("rootDir", t.TempDir())
	actors.SetConfig(conf)

	v := New()
	_ = v.Fund("alice", 100)
	_ = v.TransferIn("alice", 30)
	if err := v.PersistToDisk(); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	w := New()
	ok, err := w.RestoreFromDisk()
	if err != nil || !ok {
		t.Fatalf("Expected a restore, got ok=%v err=%v", ok, err)
	}
	if w.Balance("alice") != 70 || w.Custody() != 30 {
		t.Errorf("Expected wallet 70 and custody 30, got %d and %d", w.Balance("alice"), w.Custody())
	}
}

// Funds are never created or destroyed: wallets plus custody stay constant and custody always
// covers every lock plus the pot.
func TestVaultBacksLedger(t *testing.T) {
	v := New()
	_ = v.Fund("alice", 1000)
	_ = v.Fund("bob", 1000)
	e, err := ledger.New(ledger.DefaultConfig(), v, 0)
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	day := library.SecondsPerDay
	if _, err := e.NewLock("alice", 500, 30, 0); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := e.NewLock("bob", 2000, 30, 0); !errors.Is(err, ledger.ErrTransferFailed) {
		t.Fatalf("Expected ErrTransferFailed, got %v", err)
	}
	if _, err := e.NewLock("bob", 400, 30, 0); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := e.WithdrawFromLock("alice", 200, day); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := e.RunLottery(7*day, firstCandidate{}); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if _, err := e.WithdrawFromLock("bob", 400, 30*day); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	if total := v.Balance("alice") + v.Balance("bob") + v.Custody(); total != 2000 {
		t.Errorf("Expected 2000 in total, got %d", total)
	}
	var held uint64
	for _, l := range e.GetMapped() {
		held += l.Balance
	}
	held += e.GetPot().Balance
	if held != v.Custody() {
		t.Errorf("Expected custody %d to equal ledger holdings %d", v.Custody(), held)
	}
	if v.Balance("alice") != 700 || v.Balance("bob") != 1000 {
		t.Errorf("Expected alice 700 and bob 1000, got %d and %d", v.Balance("alice"), v.Balance("bob"))
	}
}
