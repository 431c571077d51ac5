package spread

import (
	"math/rand"
	"testing"

	"github.com/voxline/dealerdesk/internal/fx"
)

func TestTierSpreadsMonotone(t *testing.T) {
	e := NewEngine(DefaultConfig(), rand.New(rand.NewSource(1)))
	for i := 0; i < 500; i++ {
		spreads := e.Tick()
		for j := 1; j < len(fx.Tiers); j++ {
			small, large := fx.Tiers[j-1], fx.Tiers[j]
			if spreads[large] < spreads[small] {
				t.Fatalf("tick %d: %v spread %v < %v spread %v",
					i, large, spreads[large], small, spreads[small])
			}
		}
	}
}

func TestBaseSpreadClamped(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg, rand.New(rand.NewSource(2)))
	for i := 0; i < 1000; i++ {
		e.Tick()
		if e.BaseSpread() < cfg.BaseSpreadMin {
			t.Fatalf("base spread %v below min %v", e.BaseSpread(), cfg.BaseSpreadMin)
		}
		if max := cfg.BaseSpreadMax * (1 + e.VolatilityFactor()); e.BaseSpread() > max {
			t.Fatalf("base spread %v above max %v", e.BaseSpread(), max)
		}
	}
}

func TestVolatilityWidensSpreads(t *testing.T) {
	calm := NewEngine(DefaultConfig(), rand.New(rand.NewSource(3)))
	vol := NewEngine(DefaultConfig(), rand.New(rand.NewSource(3)))
	vol.SetVolatilityFactor(1.0)

	calmSpreads := calm.Tick()
	volSpreads := vol.Tick()
	for _, tier := range fx.Tiers {
		if volSpreads[tier] <= calmSpreads[tier] {
			t.Errorf("tier %v: volatile spread %v not wider than calm %v",
				tier, volSpreads[tier], calmSpreads[tier])
		}
	}
}

func TestSetterClamps(t *testing.T) {
	e := NewEngine(DefaultConfig(), rand.New(rand.NewSource(4)))

	e.SetVolatilityFactor(-2)
	if e.VolatilityFactor() != 0 {
		t.Errorf("volatility factor not floored at 0: %v", e.VolatilityFactor())
	}
	e.SetSessionMultiplier(0.1)
	if e.SessionMultiplier() != 0.5 {
		t.Errorf("session multiplier not floored at 0.5: %v", e.SessionMultiplier())
	}
}

func TestSessionForHour(t *testing.T) {
	cases := []struct {
		hour int
		code SessionCode
		mult float64
	}{
		{2, SessionTokyo, 1.8},
		{10, SessionLondon, 1.2},
		{15, SessionOverlap, 1.0},
		{20, SessionNewYork, 1.4},
		{22, SessionTokyo, 1.8},
		{7, SessionTokyo, 1.8},
		{8, SessionLondon, 1.2},
		{13, SessionOverlap, 1.0},
		{17, SessionNewYork, 1.4},
	}
	for _, c := range cases {
		s := SessionForHour(c.hour)
		if s.Code != c.code || s.Multiplier != c.mult {
			t.Errorf("SessionForHour(%d) = %v (%vx), want %v (%vx)",
				c.hour, s.Code, s.Multiplier, c.code, c.mult)
		}
	}
}
