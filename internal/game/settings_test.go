package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := writeSettings(t, `
game:
  seed: 7
  start_hour: 9
market:
  initial_mid: 1.1000
  drift: -0.00001
  base_spread: 0.0002
impact:
  enabled: false
  half_life_ms: 2000
  max_impact_pips: 5
news:
  headlines: false
  chance_per_minute: 0.1
  min_spacing_minutes: 30
  release_delay_min_minutes: 10
  release_delay_max_minutes: 20
rfq:
  max_spread_from_market_pips: 20
  max_electronic_rfqs: 3
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	cfg := s.ToConfig()
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}
	if cfg.StartMinute != 9*60 {
		t.Errorf("start minute = %d, want 540", cfg.StartMinute)
	}
	if cfg.Market.InitialMid != 1.1000 {
		t.Errorf("initial mid = %v, want 1.1", cfg.Market.InitialMid)
	}
	if cfg.Market.Drift != -0.00001 {
		t.Errorf("drift = %v, want -0.00001", cfg.Market.Drift)
	}
	if cfg.Market.BaseSpread != 0.0002 {
		t.Errorf("base spread = %v, want 0.0002", cfg.Market.BaseSpread)
	}
	if cfg.Market.Impact.Enabled {
		t.Error("impact still enabled")
	}
	if cfg.Market.Impact.HalfLife != 2*time.Second {
		t.Errorf("impact half-life = %v, want 2s", cfg.Market.Impact.HalfLife)
	}
	if cfg.Market.Impact.MaxImpactPips != 5 {
		t.Errorf("max impact = %v, want 5", cfg.Market.Impact.MaxImpactPips)
	}
	if cfg.News.NewsEnabled {
		t.Error("headlines still enabled")
	}
	if !cfg.News.ReleasesEnabled {
		t.Error("releases disabled without being set")
	}
	if cfg.News.NewsChancePerMinute != 0.1 {
		t.Errorf("news chance = %v, want 0.1", cfg.News.NewsChancePerMinute)
	}
	if cfg.News.MinNewsSpacingMinutes != 30 {
		t.Errorf("news spacing = %d, want 30", cfg.News.MinNewsSpacingMinutes)
	}
	if cfg.News.ReleaseDelayMinMinutes != 10 || cfg.News.ReleaseDelayMaxMinutes != 20 {
		t.Errorf("release delay = %d-%d, want 10-20",
			cfg.News.ReleaseDelayMinMinutes, cfg.News.ReleaseDelayMaxMinutes)
	}
	if cfg.Voice.MaxSpreadFromMarketPips != 20 {
		t.Errorf("max spread = %v, want 20", cfg.Voice.MaxSpreadFromMarketPips)
	}
	if cfg.Electronic.MaxActiveRfqs != 3 {
		t.Errorf("max electronic rfqs = %d, want 3", cfg.Electronic.MaxActiveRfqs)
	}
}

func TestLoadSettingsDefaultsUntouched(t *testing.T) {
	path := writeSettings(t, "game:\n  seed: 1\n")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	cfg := s.ToConfig()
	def := DefaultConfig()
	if cfg.Market.InitialMid != def.Market.InitialMid {
		t.Errorf("initial mid = %v, want default %v", cfg.Market.InitialMid, def.Market.InitialMid)
	}
	if cfg.StartMinute != def.StartMinute {
		t.Errorf("start minute = %d, want default %d", cfg.StartMinute, def.StartMinute)
	}
	if !cfg.Market.Impact.Enabled {
		t.Error("impact disabled without being set")
	}
	if cfg.Market.Impact.HalfLife != def.Market.Impact.HalfLife {
		t.Errorf("impact half-life = %v, want default %v", cfg.Market.Impact.HalfLife, def.Market.Impact.HalfLife)
	}
	if cfg.News.NewsChancePerMinute != def.News.NewsChancePerMinute {
		t.Errorf("news chance = %v, want default %v", cfg.News.NewsChancePerMinute, def.News.NewsChancePerMinute)
	}
}

func TestLoadSettingsValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad start hour", "game:\n  start_hour: 24\n"},
		{"negative mid", "market:\n  initial_mid: -1\n"},
		{"negative base spread", "market:\n  base_spread: -0.0001\n"},
		{"negative half life", "impact:\n  half_life_ms: -100\n"},
		{"chance over one", "news:\n  chance_per_minute: 2\n"},
		{"inverted release delay", "news:\n  release_delay_min_minutes: 30\n  release_delay_max_minutes: 10\n"},
		{"negative max spread", "rfq:\n  max_spread_from_market_pips: -5\n"},
		{"not yaml", "[unclosed\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadSettings(writeSettings(t, c.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
