package relays

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"coinpot/engine/library"
)

// Handler receives every request event seen on a relay, once per event ID.
type Handler func(nostr.Event)

// Catcher subscribes to request events on a set of relays and hands each one to a Handler.
type Catcher struct {
	urls   []string
	kinds  []int
	handle Handler
	idle   time.Duration

	seen   map[string]struct{}
	seenMu *deadlock.Mutex
	wait   *deadlock.WaitGroup
}

func NewCatcher(urls []string, kinds []int, handle Handler) *Catcher {
	return &Catcher{
		urls:   urls,
		kinds:  kinds,
		handle: handle,
		idle:   2 * time.Minute,
		seen:   make(map[string]struct{}),
		seenMu: &deadlock.Mutex{},
		wait:   &deadlock.WaitGroup{},
	}
}

// Start subscribes to every relay until terminate is closed. Wait blocks until all subscriptions are gone.
func (c *Catcher) Start(terminate <-chan struct{}) {
	var sleepChans []chan bool
	for _, url := range c.urls {
		sleepChan := make(chan bool, 1)
		sleepChans = append(sleepChans, sleepChan)
		c.wait.Add(1)
		go func(url string) {
			defer c.wait.Done()
			c.subscribe(url, sleepChan, terminate)
		}(url)
	}
	slept := make(chan bool)
	sleeper(slept)
	go func() {
		for {
			select {
			case <-slept:
				for _, ch := range sleepChans {
					select {
					case ch <- true:
					default:
					}
				}
			case <-terminate:
				return
			}
		}
	}()
}

func (c *Catcher) Wait() {
	c.wait.Wait()
}

// deliver reports whether the event was new.
func (c *Catcher) deliver(e nostr.Event) bool {
	c.seenMu.Lock()
	if _, ok := c.seen[e.ID]; ok {
		c.seenMu.Unlock()
		return false
	}
	c.seen[e.ID] = struct{}{}
	c.seenMu.Unlock()
	c.handle(e)
	return true
}

// subscribe keeps a subscription to url open, reconnecting when the relay goes quiet, drops us,
// or the machine wakes from sleep.
func (c *Catcher) subscribe(url string, sleepChan <-chan bool, terminate <-chan struct{}) {
	filters := nostr.Filters{nostr.Filter{Kinds: c.kinds}}
	for {
		ctx, cancel := context.WithCancel(context.Background())
		relay, err := nostr.RelayConnect(ctx, url)
		if err != nil {
			cancel()
			library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", url, err), 2)
			select {
			case <-time.After(30 * time.Second):
				continue
			case <-terminate:
				return
			}
		}
		library.LogCLI("Connecting to "+url, 4)
		sub, err := relay.Subscribe(ctx, filters)
		if err != nil {
			library.LogCLI(err.Error(), 1)
			cancel()
			relay.Close()
			return
		}
		lastEventTime := time.Now()
	L:
		for {
			select {
			case ev := <-sub.Events:
				if ev == nil {
					library.LogCLI("Terminating connection to relay "+url, 3)
					break L
				}
				lastEventTime = time.Now()
				c.deliver(*ev)
			case <-sleepChan:
				library.LogCLI("system sleep detected, reconnecting to "+url, 2)
				break L
			case <-time.After(time.Minute):
				if time.Since(lastEventTime) > c.idle {
					library.LogCLI("relay "+url+" has gone quiet, reconnecting", 3)
					break L
				}
			case <-terminate:
				cancel()
				relay.Close()
				return
			}
		}
		cancel()
		relay.Close()
	}
}
