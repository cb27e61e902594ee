package relays

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
)

func TestDeliverOncePerEvent(t *testing.T) {
	var got []string
	c := NewCatcher(nil, []int{640500}, func(e nostr.Event) { got = append(got, e.ID) })

	for _, id := range []string{"a", "b", "a", "c", "b"} {
		c.deliver(nostr.Event{ID: id})
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("Expected a, b, c once each, got %v", got)
	}
}

func TestStartWithoutRelays(t *testing.T) {
	c := NewCatcher(nil, []int{640500}, func(nostr.Event) {})
	terminate := make(chan struct{})
	c.Start(terminate)
	close(terminate)
	c.Wait()
}
