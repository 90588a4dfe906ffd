package bot

import "time"

// StartMaintenance runs the background maintenance loops: tracker
// eviction, cooldown cleanup, session expiry.
func (b *Bot) StartMaintenance() {
	b.trackerPruneTicker = time.NewTicker(5 * time.Minute)
	b.cooldownTicker = time.NewTicker(time.Hour)
	b.sessionSweepTicker = time.NewTicker(time.Minute)

	go func() {
		for {
			select {
			case <-b.trackerPruneTicker.C:
				b.Engine.PruneTracker()
			case <-b.cooldownTicker.C:
				b.Engine.CleanupCooldowns()
			case <-b.sessionSweepTicker.C:
				b.Sessions.Sweep()
			case <-b.done:
				return
			}
		}
	}()
}
