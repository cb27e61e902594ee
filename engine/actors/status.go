package actors

import (
	"sync"

	"coinpot/engine/library"
)

var terminateChan = make(chan struct{})
var waitGroup = &sync.WaitGroup{}
var shutdownOnce sync.Once

func GetTerminateChan() chan struct{} {
	return terminateChan
}

// GetWaitGroup is incremented by everything that has state to flush before the process exits.
func GetWaitGroup() *sync.WaitGroup {
	return waitGroup
}

// Shutdown closes the terminate channel once and waits for everything registered on the wait group.
func Shutdown() {
	shutdownOnce.Do(func() {
		library.LogCLI("shutting down", 4)
		close(terminateChan)
	})
	waitGroup.Wait()
}
