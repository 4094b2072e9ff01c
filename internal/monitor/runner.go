// internal/monitor/runner.go
package monitor

import (
	"context"
	"time"
)

// Run starts the periodic evaluation loop.
// One goroutine per channel. No overlap. Exits on ctx cancel with no
// lock held.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(intervalFor(m.runFreq()))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvaluateOnce()
		}
	}
}
