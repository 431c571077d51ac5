package news

// Config holds configuration for the news engine.
type Config struct {
	// NewsEnabled turns random headlines on or off.
	NewsEnabled bool
	// ReleasesEnabled turns scheduled data releases on or off.
	ReleasesEnabled bool
	// NewsChancePerMinute is the per-game-minute headline probability.
	NewsChancePerMinute float64
	// MinNewsSpacingMinutes is the minimum game minutes between events.
	MinNewsSpacingMinutes int
	// ReleaseDelayMinMinutes bounds the gap to the next release.
	ReleaseDelayMinMinutes int
	// ReleaseDelayMaxMinutes bounds the gap to the next release.
	ReleaseDelayMaxMinutes int
	// HistorySize caps the retained fired-item history.
	HistorySize int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		NewsEnabled:            true,
		ReleasesEnabled:        true,
		NewsChancePerMinute:    0.03,
		MinNewsSpacingMinutes:  60,
		ReleaseDelayMinMinutes: 60,
		ReleaseDelayMaxMinutes: 120,
		HistorySize:            50,
	}
}
