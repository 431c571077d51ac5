package spread

// SessionCode identifies a trading-hours window.
type SessionCode string

const (
	SessionTokyo   SessionCode = "TK"
	SessionLondon  SessionCode = "LDN"
	SessionOverlap SessionCode = "LDN/NY"
	SessionNewYork SessionCode = "NY"
)

// Session describes a trading session's liquidity profile.
type Session struct {
	Code       SessionCode
	Label      string
	Multiplier float64
}

var sessions = map[SessionCode]Session{
	SessionTokyo:   {Code: SessionTokyo, Label: "Tokyo", Multiplier: 1.8},
	SessionLondon:  {Code: SessionLondon, Label: "London", Multiplier: 1.2},
	SessionOverlap: {Code: SessionOverlap, Label: "London/NY", Multiplier: 1.0},
	SessionNewYork: {Code: SessionNewYork, Label: "New York", Multiplier: 1.4},
}

// SessionForHour maps an hour of day (0-23) to its trading session.
// The London/NY overlap quotes tightest; overnight Tokyo widest.
func SessionForHour(hour int) Session {
	switch {
	case hour >= 8 && hour < 13:
		return sessions[SessionLondon]
	case hour >= 13 && hour < 17:
		return sessions[SessionOverlap]
	case hour >= 17 && hour < 22:
		return sessions[SessionNewYork]
	default:
		return sessions[SessionTokyo]
	}
}
