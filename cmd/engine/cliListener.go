package main

import (
	"fmt"
	"time"

	"github.com/eiannone/keyboard"

	"coinpot/engine/actors"
	"coinpot/engine/library"
	"coinpot/messaging/eventconductor"
	"coinpot/state/ledger"
	"coinpot/state/replay"
	"coinpot/state/vault"
)

// cliListener is a cheap and nasty way to look at the state while the engine runs. It listens for keypresses and prints things.
func cliListener(engine *ledger.Engine, v *vault.Vault, replayDb *replay.Db, conductor *eventconductor.Conductor, clock library.Clock) {
	decimals := int32(actors.MakeOrGetConfig().GetInt("decimals"))
	fmt.Println("VIEW CURRENT STATE:\nl: locks\np: pot\nW: lottery winners\nv: vault\nw: current wallet\nr: replay hashes\nc: engine config\nC: handled request events\nq: to quit\nSee cliListener.go for more")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			library.LogCLI(err, 1)
			return
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything. See main.cliListener for more details.")
		case "l":
			now := clock()
			for _, account := range engine.Candidates() {
				lock, _ := engine.GetActiveLock(account)
				fmt.Printf("\nAccount: %s\nBalance: %s\nStatus: %s\nCreated: %s\nUnlocks: %s\n",
					account, library.FormatAmount(lock.Balance, decimals), lock.Status(now),
					time.Unix(lock.CreatedAt, 0).String(), time.Unix(lock.UnlockAt, 0).String())
			}
		case "p":
			p := engine.GetPot()
			fmt.Printf("\nPot: %s\nLast Lottery: %s\nNext Lottery: %s\nDue: %t\n",
				library.FormatAmount(p.Balance, decimals), time.Unix(p.LastLotteryAt, 0).String(),
				time.Unix(p.NextRunAt(), 0).String(), p.IsDue(clock()))
		case "W":
			for _, record := range engine.GetLotteryWinners() {
				fmt.Printf("\nWinner: %s Amount: %s At: %s\nProof: %s\n", record.Winner,
					library.FormatAmount(record.Amount, decimals), time.Unix(record.Timestamp, 0).String(), record.Proof)
			}
		case "v":
			fmt.Printf("\nIn custody: %s\n", library.FormatAmount(v.Custody(), decimals))
		case "q":
			actors.Shutdown()
			return
		case "w":
			fmt.Printf("Current Wallet: \n%s\n", actors.MyWallet().Account)
		case "r":
			for account, hash := range replayDb.GetMap() {
				fmt.Printf("%s: %s\n", account, hash)
			}
			fmt.Printf("State hash: %s\n", replayDb.GetStateHash())
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		case "C":
			fmt.Println("ALL REQUEST EVENTS IN THE ORDER THEY WERE HANDLED BY THIS ENGINE:")
			for _, id := range conductor.GetAllHandledEventsInOrder() {
				e, _ := conductor.GetEventFromCache(id)
				fmt.Printf("\nID: %s Kind: %d Signed By: %s\nTags: %#v\nContent: %s\n", e.ID, e.Kind, e.PubKey, e.Tags, e.Content)
			}
		}
	}
}
