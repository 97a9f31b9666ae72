package timekeeper

import (
	"sync"
	"time"
)

// Clock delivers repeating ticks until the returned cancel func is called.
type Clock interface {
	Every(interval time.Duration, tick func()) (cancel func())
}

// TickerClock is the wall-clock implementation backed by time.Ticker.
type TickerClock struct{}

// Every starts a ticker goroutine that calls tick once per interval.
func (TickerClock) Every(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
