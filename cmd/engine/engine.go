package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/viper"

	"coinpot/engine/actors"
	"coinpot/engine/library"
	"coinpot/engine/randomness"
	"coinpot/engine/scheduler"
	"coinpot/messaging/eventconductor"
	"coinpot/messaging/httpapi"
	"coinpot/messaging/relays"
	"coinpot/state/ledger"
	"coinpot/state/pot"
	"coinpot/state/replay"
	"coinpot/state/vault"
)

func main() {
	// Various aspect of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()

	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)

	clock := func() int64 { return time.Now().Unix() }

	v := vault.New()
	if _, err := v.RestoreFromDisk(); err != nil {
		library.LogCLI(err, 0)
	}
	if conf.GetBool("firstRun") {
		fundVault(conf, v)
		conf.Set("firstRun", false)
		if err := conf.WriteConfig(); err != nil {
			library.LogCLI(err, 1)
		}
	}

	cfg, err := ledger.ConfigFromViper(conf)
	if err != nil {
		library.LogCLI(err, 0)
	}
	engine, err := ledger.New(cfg, v, clock())
	if err != nil {
		library.LogCLI(err, 0)
	}
	if _, err := engine.RestoreFromDisk(); err != nil {
		library.LogCLI(err, 0)
	}
	replayDb := replay.New()
	if _, err := replayDb.RestoreFromDisk(); err != nil {
		library.LogCLI(err, 0)
	}

	source := randomSource(conf)
	conductor := eventconductor.New(engine, replayDb, source, clock)
	server := httpapi.Start(conf.GetString("httpAddr"),
		httpapi.NewHandler(engine, replayDb, conductor, clock, int32(conf.GetInt("decimals"))))
	lottery := scheduler.New(engine, source, clock, conf.GetString("lotterySchedule"))
	urls := conf.GetStringSlice("relays")
	conductor.OnLottery = announcer(urls)
	lottery.OnPaid = announcer(urls)
	if err := lottery.Start(); err != nil {
		library.LogCLI(err, 0)
	}
	catcher := relays.NewCatcher(urls, eventconductor.RequestKinds, func(e nostr.Event) {
		if _, err := conductor.HandleEvent(e); err != nil {
			library.LogCLI(err, 3)
		}
	})
	catcher.Start(actors.GetTerminateChan())

	actors.GetWaitGroup().Add(1)
	go func() {
		<-actors.GetTerminateChan()
		<-lottery.Stop().Done()
		catcher.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			library.LogCLI(err, 1)
		}
		persist(engine, v, replayDb)
		actors.GetWaitGroup().Done()
	}()

	if conf.GetBool("keyboard") {
		go cliListener(engine, v, replayDb, conductor, clock)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
	case <-actors.GetTerminateChan():
	}
	actors.Shutdown()
	fmt.Println("bye")
}

func randomSource(conf *viper.Viper) ledger.RandomSource {
	switch conf.GetString("randomSource") {
	case "crypto":
		return randomness.Crypto{}
	default:
		sk, err := actors.SigningKey(actors.MyWallet())
		if err != nil {
			library.LogCLI(err, 0)
		}
		b := randomness.NewBeacon(sk)
		library.LogCLI(fmt.Sprintf("lottery draws are signed by %s", b.Account()), 4)
		return b
	}
}

// announcer publishes every paid lottery to urls, signed by the operator wallet.
func announcer(urls []string) func(pot.LotteryRecord) {
	return func(record pot.LotteryRecord) {
		if len(urls) == 0 {
			return
		}
		e, err := eventconductor.NewLotteryResult(actors.MyWallet().PrivateKey, record)
		if err != nil {
			library.LogCLI(err, 1)
			return
		}
		go relays.PublishToRelays([]nostr.Event{e}, urls)
	}
}

func fundVault(conf *viper.Viper, v *vault.Vault) {
	for account, amount := range conf.GetStringMapString("vaultFunding") {
		n, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			library.LogCLI(fmt.Errorf("vaultFunding for %s: %w", account, err), 1)
			continue
		}
		if err := v.Fund(account, n); err != nil {
			library.LogCLI(err, 1)
			continue
		}
		library.LogCLI(fmt.Sprintf("funded %s with %d", account, n), 4)
	}
}

func persist(engine *ledger.Engine, v *vault.Vault, replayDb *replay.Db) {
	for name, fn := range map[string]func() error{
		"ledger": engine.PersistToDisk,
		"vault":  v.PersistToDisk,
		"replay": replayDb.PersistToDisk,
	} {
		if err := fn(); err != nil {
			library.LogCLI(fmt.Errorf("persisting %s: %w", name, err), 1)
		}
	}
}
