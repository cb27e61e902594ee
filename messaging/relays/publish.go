package relays

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"coinpot/engine/library"
)

func PublishToRelays(events []nostr.Event, relays []string) {
	var wg = &deadlock.WaitGroup{}
	for _, relay := range relays {
		wg.Add(1)
		go func(relay string, events []nostr.Event) {
			defer wg.Done()
			mainRelay, err := nostr.RelayConnect(context.Background(), relay)
			if err != nil {
				library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", relay, err), 2)
				return
			}
			defer mainRelay.Close()
			for _, event := range events {
				if _, err := mainRelay.Publish(context.Background(), event); err != nil {
					library.LogCLI(fmt.Sprintf("could not publish %s to relay %s: %s", event.ID, relay, err), 2)
				}
			}
		}(relay, events)
	}
	wg.Wait()
}
