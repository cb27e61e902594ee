package actors

import (
	"os"

	"github.com/spf13/viper"

	"coinpot/engine/library"
)

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/coinpot/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	SetDefaults(config)
	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
}

// SetDefaults registers every key the engine reads. It is separate from InitConfig so tests
// can build a config without touching the disk.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("firstRun", true)
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("logLevel", 4)
	config.SetDefault("httpAddr", "0.0.0.0:1031")
	config.SetDefault("keyboard", true)
	//nostr relays to catch request events from and announce lottery results to, none by default
	config.SetDefault("relays", []string{})

	//ledger rules
	config.SetDefault("taxRate", "0.05")
	config.SetDefault("lotteryIntervalDays", 7)
	config.SetDefault("historyCapacity", 10)
	config.SetDefault("allowZeroDurationLocks", false)
	config.SetDefault("enforceScheduleOnRun", true)

	//how often the scheduler checks whether the lottery is due
	config.SetDefault("lotterySchedule", "@hourly")
	//beacon: draws signed by the operator key, crypto: the OS random source
	config.SetDefault("randomSource", "beacon")
	//amounts are stored in the smallest unit, this is only used for display
	config.SetDefault("decimals", 18)
	//account -> amount credited to the in-memory vault on first run
	config.SetDefault("vaultFunding", map[string]interface{}{})
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(name string) {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 0)
		return
	}
	f.Close()
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
