package library

import (
	"github.com/nbd-wtf/go-nostr"
)

// GetFirstTag returns the value of the first tag whose key is startsWith.
func GetFirstTag(e nostr.Event, startsWith string) (string, bool) {
	for _, tag := range e.Tags {
		if tag.StartsWith([]string{startsWith}) {
			return tag.Value(), true
		}
	}
	return "", false
}
