package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coinpot/engine/actors"
	"coinpot/engine/library"
	"coinpot/messaging/eventconductor"
	"coinpot/state/replay"
)

func main() {
	conf := viper.New()
	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	replay string
	post   string
	days   int64
}

func rootCommand() *cobra.Command {
	var o options
	rootCmd := &cobra.Command{
		Use:   "event-tool",
		Short: "build and sign coinpot request events with the operator wallet",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&o.replay, "replay", "r", "", "replay hash to put in the r tag, defaults to the genesis hash or the one served by --post")
	rootCmd.PersistentFlags().StringVarP(&o.post, "post", "p", "", "base URL of a running engine, e.g. http://127.0.0.1:1031, to submit the event to")

	lock := &cobra.Command{
		Use:   "lock <amount>",
		Short: "lock an amount for --days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return o.run(eventconductor.KindNewLock, eventconductor.Kind640500{Amount: amount, Days: o.days})
		},
	}
	lock.Flags().Int64VarP(&o.days, "days", "d", 30, "number of days to lock for")
	rootCmd.AddCommand(lock)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "deposit <amount>",
		Short: "add an amount to the active lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return o.run(eventconductor.KindDeposit, eventconductor.Kind640501{Amount: amount})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "withdraw <amount>",
		Short: "withdraw an amount from the active lock, paying tax if it has not matured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return o.run(eventconductor.KindWithdraw, eventconductor.Kind640502{Amount: amount})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "lottery",
		Short: "ask the engine to run the lottery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(eventconductor.KindRunLottery, struct{}{})
		},
	})
	return rootCmd
}

func parseAmount(s string) (uint64, error) {
	return library.ParseAmount(s, int32(actors.MakeOrGetConfig().GetInt("decimals")))
}

func (o options) run(kind int, content any) error {
	wallet := actors.MyWallet()
	replayHash := o.replay
	if replayHash == "" && o.post != "" {
		h, err := fetchReplay(o.post, wallet.Account)
		if err != nil {
			return err
		}
		replayHash = h
	}
	if replayHash == "" {
		replayHash = replay.Genesis
	}
	e, err := eventconductor.NewRequest(wallet.PrivateKey, kind, content, replayHash, time.Now().Unix())
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(e, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	if o.post == "" {
		return nil
	}
	return submit(o.post, e)
}

func fetchReplay(base string, account library.Account) (library.Sha256, error) {
	resp, err := http.Get(strings.TrimSuffix(base, "/") + "/replay/" + account)
	if err != nil {
		return "", fmt.Errorf("fetching replay hash: %w", err)
	}
	defer resp.Body.Close()
	var body struct {
		Replay library.Sha256 `json:"replay"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding replay hash: %w", err)
	}
	return body.Replay, nil
}

func submit(base string, e nostr.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	resp, err := http.Post(strings.TrimSuffix(base, "/")+"/events", "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("submitting event: %w", err)
	}
	defer resp.Body.Close()
	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", resp.Status, reply)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine refused event %s", e.ID)
	}
	return nil
}
