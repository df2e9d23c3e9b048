package utils

import (
	"context"
	"time"

	"go.viam.com/legacyimage/logging"
)

// SlowLogInterval is how long an operation runs before SlowLogger first warns about it.
// Later warnings back off.
var SlowLogInterval = 2 * time.Second

// SlowLogger starts a goroutine that warns about a slow operation until ctx is done or the
// returned func is called.
func SlowLogger(ctx context.Context, msg, fieldName, fieldVal string, logger logging.Logger) func() {
	interval := SlowLogInterval
	slowTicker := time.NewTicker(interval)

	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-slowTicker.C:
				elapsed := time.Since(startTime).Round(time.Millisecond).String()
				logger.Warnw(msg, fieldName, fieldVal, "time_elapsed", elapsed)
				interval *= 2
				slowTicker.Reset(interval)
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return func() {
		slowTicker.Stop()
		cancel()
		<-done
	}
}
