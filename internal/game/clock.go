package game

import (
	"fmt"
	"time"
)

// gameClock maps wall time onto the accelerated trading day: each
// MinuteInterval of real time advances the game by one minute.
type gameClock struct {
	start       time.Time
	startMinute int
	interval    time.Duration
}

func (c gameClock) minute(now time.Time) int {
	if c.interval <= 0 {
		return c.startMinute
	}
	return c.startMinute + int(now.Sub(c.start)/c.interval)
}

// formatMinute renders a game minute of day as HH:MM.
func formatMinute(minute int) string {
	m := minute % (24 * 60)
	if m < 0 {
		m += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func hourOfMinute(minute int) int {
	return (minute / 60) % 24
}
