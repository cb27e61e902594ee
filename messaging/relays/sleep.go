//go:build !darwin

package relays

// sleeper never fires outside macOS.
func sleeper(chan bool) {}
