package dupedirs

import (
	"context"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 200 * time.Millisecond

// startProgressReporter invokes hook(read()) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, read func() int64, hook func(int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(read())
			case <-ctx.Done():
				return
			}
		}
	}()
}
