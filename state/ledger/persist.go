package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"coinpot/engine/actors"
	"coinpot/engine/library"
)

const mind = "ledger"

// ConfigFromViper reads the ledger rules registered by actors.SetDefaults.
func ConfigFromViper(conf *viper.Viper) (Config, error) {
	rate, err := decimal.NewFromString(conf.GetString("taxRate"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing taxRate: %w", err)
	}
	c := Config{
		TaxRate:                rate,
		IntervalDays:           conf.GetInt64("lotteryIntervalDays"),
		HistoryCapacity:        conf.GetInt("historyCapacity"),
		AllowZeroDurationLocks: conf.GetBool("allowZeroDurationLocks"),
		EnforceScheduleOnRun:   conf.GetBool("enforceScheduleOnRun"),
	}
	return c, c.validate()
}

// PersistToDisk writes the current state to the ledger flat file.
func (e *Engine) PersistToDisk() error {
	b, err := json.MarshalIndent(e.Snapshot(), "", " ")
	if err != nil {
		return err
	}
	return actors.Write(mind, "current", b)
}

// RestoreFromDisk loads the ledger flat file if there is one. It reports whether anything was loaded.
func (e *Engine) RestoreFromDisk() (bool, error) {
	f, ok, err := actors.Open(mind, "current")
	if err != nil || !ok {
		return false, err
	}
	defer f.Close()
	var s State
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return false, fmt.Errorf("decoding ledger state: %w", err)
	}
	e.Restore(s)
	library.LogCLI(fmt.Sprintf("restored %d locks from disk", len(s.Locks)), 4)
	return true, nil
}
