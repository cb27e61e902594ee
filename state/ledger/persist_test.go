package ledger

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"coinpot/engine/actors"
)

func TestPersistRoundTrip(t *testing.T) {
	conf := viper.New()
	actors.SetDefaults(conf)
	conf.Set("rootDir", t.TempDir())
	actors.SetConfig(conf)

	e, _ := newTestEngine(t)
	if ok, err := e.RestoreFromDisk(); err != nil || ok {
		t.Fatalf("Expected nothing to restore, got ok=%v err=%v", ok, err)
	}
	_, _ = e.NewLock("alice", 100, 10, 0)
	_, _ = e.NewLock("bob", 300, 10, 0)
	_, _ = e.WithdrawFromLock("bob", 100, 0)
	if _, err := e.RunLottery(7*day, &fixedSource{index: 1}); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	_, _ = e.WithdrawFromLock("alice", 40, 8*day)
	if err := e.PersistToDisk(); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	restored, _ := newTestEngine(t)
	ok, err := restored.RestoreFromDisk()
	if err != nil || !ok {
		t.Fatalf("Expected a restore, got ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(e.GetMapped(), restored.GetMapped()) {
		t.Errorf("Expected locks %+v, got %+v", e.GetMapped(), restored.GetMapped())
	}
	if e.GetPot() != restored.GetPot() {
		t.Errorf("Expected pot %+v, got %+v", e.GetPot(), restored.GetPot())
	}
	if !reflect.DeepEqual(e.GetLotteryWinners(), restored.GetLotteryWinners()) {
		t.Errorf("Expected winners %+v, got %+v", e.GetLotteryWinners(), restored.GetLotteryWinners())
	}
}

func TestRestoreUsesConfiguredInterval(t *testing.T) {
	conf := viper.New()
	actors.SetDefaults(conf)
	conf.Set("rootDir", t.TempDir())
	actors.SetConfig(conf)

	e, _ := newTestEngine(t)
	_, _ = e.NewLock("alice", 100, 10, 0)
	_, _ = e.WithdrawFromLock("alice", 20, 0)
	if err := e.PersistToDisk(); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	restored, _ := newTestEngine(t, func(c *Config) { c.IntervalDays = 3 })
	if ok, err := restored.RestoreFromDisk(); err != nil || !ok {
		t.Fatalf("Expected a restore, got ok=%v err=%v", ok, err)
	}
	p := restored.GetPot()
	if p.IntervalDays != 3 || p.Balance != 1 || p.NextRunAt() != 3*day {
		t.Fatalf("Expected the configured 3 day interval to apply, got %+v", p)
	}
	if _, err := restored.RunLottery(3*day, &fixedSource{}); err != nil {
		t.Fatalf("Expected the lottery to be due after 3 days, got %v", err)
	}
}

func TestConfigFromViper(t *testing.T) {
	conf := viper.New()
	actors.SetDefaults(conf)
	c, err := ConfigFromViper(conf)
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if !c.TaxRate.Equal(DefaultConfig().TaxRate) || c.IntervalDays != 7 || c.HistoryCapacity != 10 {
		t.Errorf("Expected defaults, got %+v", c)
	}
	conf.Set("taxRate", "1.5")
	if _, err := ConfigFromViper(conf); err == nil {
		t.Error("Expected an error for a tax rate above 1")
	}
	conf.Set("taxRate", "five percent")
	if _, err := ConfigFromViper(conf); err == nil {
		t.Error("Expected an error for an unparsable tax rate")
	}
}
