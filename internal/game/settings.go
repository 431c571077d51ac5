package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the player-facing YAML configuration file. Zero values
// mean "keep the default"; ToConfig only applies fields that were set.
type Settings struct {
	Game struct {
		Seed      int64 `yaml:"seed"`
		StartHour int   `yaml:"start_hour"`
	} `yaml:"game"`

	Market struct {
		InitialMid float64 `yaml:"initial_mid"`
		Volatility float64 `yaml:"volatility"`
		Drift      float64 `yaml:"drift"`
		BaseSpread float64 `yaml:"base_spread"`
	} `yaml:"market"`

	Impact struct {
		Enabled            *bool   `yaml:"enabled"`
		HalfLifeMs         int     `yaml:"half_life_ms"`
		MaxImpactPips      float64 `yaml:"max_impact_pips"`
		SizeScaleFactor    float64 `yaml:"size_scale_factor"`
		BurstWindowMs      int     `yaml:"burst_window_ms"`
		BurstMultiplierMax float64 `yaml:"burst_multiplier_max"`
		MaxBanks           int     `yaml:"max_banks"`
	} `yaml:"impact"`

	News struct {
		Releases               *bool   `yaml:"releases"`
		Headlines              *bool   `yaml:"headlines"`
		ChancePerMinute        float64 `yaml:"chance_per_minute"`
		MinSpacingMinutes      int     `yaml:"min_spacing_minutes"`
		ReleaseDelayMinMinutes int     `yaml:"release_delay_min_minutes"`
		ReleaseDelayMaxMinutes int     `yaml:"release_delay_max_minutes"`
	} `yaml:"news"`

	Rfq struct {
		MaxSpreadFromMarketPips float64 `yaml:"max_spread_from_market_pips"`
		MaxElectronicRfqs       int     `yaml:"max_electronic_rfqs"`
	} `yaml:"rfq"`

	EPricing struct {
		SkewPips      float64 `yaml:"skew_pips"`
		MinSpreadPips float64 `yaml:"min_spread_pips"`
	} `yaml:"e_pricing"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadSettings reads and parses the settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// Validate checks settings validity. Drift may be negative; everything
// else set must be non-negative, and bounded pairs must be ordered.
func (s *Settings) Validate() error {
	if s.Game.StartHour < 0 || s.Game.StartHour > 23 {
		return fmt.Errorf("start_hour must be 0-23, got %d", s.Game.StartHour)
	}
	if s.Market.InitialMid < 0 {
		return fmt.Errorf("initial_mid must be positive, got %v", s.Market.InitialMid)
	}
	if s.Market.Volatility < 0 {
		return fmt.Errorf("volatility must not be negative, got %v", s.Market.Volatility)
	}
	if s.Market.BaseSpread < 0 {
		return fmt.Errorf("base_spread must not be negative, got %v", s.Market.BaseSpread)
	}
	if s.Impact.HalfLifeMs < 0 {
		return fmt.Errorf("half_life_ms must not be negative, got %d", s.Impact.HalfLifeMs)
	}
	if s.Impact.MaxImpactPips < 0 {
		return fmt.Errorf("max_impact_pips must not be negative, got %v", s.Impact.MaxImpactPips)
	}
	if s.Impact.SizeScaleFactor < 0 {
		return fmt.Errorf("size_scale_factor must not be negative, got %v", s.Impact.SizeScaleFactor)
	}
	if s.Impact.BurstWindowMs < 0 {
		return fmt.Errorf("burst_window_ms must not be negative, got %d", s.Impact.BurstWindowMs)
	}
	if s.Impact.BurstMultiplierMax < 0 {
		return fmt.Errorf("burst_multiplier_max must not be negative, got %v", s.Impact.BurstMultiplierMax)
	}
	if s.Impact.MaxBanks < 0 {
		return fmt.Errorf("max_banks must not be negative, got %d", s.Impact.MaxBanks)
	}
	if s.News.ChancePerMinute < 0 || s.News.ChancePerMinute > 1 {
		return fmt.Errorf("chance_per_minute must be 0-1, got %v", s.News.ChancePerMinute)
	}
	if s.News.MinSpacingMinutes < 0 {
		return fmt.Errorf("min_spacing_minutes must not be negative, got %d", s.News.MinSpacingMinutes)
	}
	if s.News.ReleaseDelayMinMinutes < 0 || s.News.ReleaseDelayMaxMinutes < 0 {
		return fmt.Errorf("release delay minutes must not be negative")
	}
	if s.News.ReleaseDelayMinMinutes > 0 && s.News.ReleaseDelayMaxMinutes > 0 &&
		s.News.ReleaseDelayMinMinutes > s.News.ReleaseDelayMaxMinutes {
		return fmt.Errorf("release_delay_min_minutes %d exceeds release_delay_max_minutes %d",
			s.News.ReleaseDelayMinMinutes, s.News.ReleaseDelayMaxMinutes)
	}
	if s.Rfq.MaxSpreadFromMarketPips < 0 {
		return fmt.Errorf("max_spread_from_market_pips must not be negative, got %v", s.Rfq.MaxSpreadFromMarketPips)
	}
	if s.Rfq.MaxElectronicRfqs < 0 {
		return fmt.Errorf("max_electronic_rfqs must not be negative, got %d", s.Rfq.MaxElectronicRfqs)
	}
	if s.EPricing.MinSpreadPips < 0 {
		return fmt.Errorf("min_spread_pips must not be negative, got %v", s.EPricing.MinSpreadPips)
	}
	return nil
}

// ToConfig applies the settings on top of the default configuration.
func (s *Settings) ToConfig() Config {
	cfg := DefaultConfig()

	if s.Game.Seed != 0 {
		cfg.Seed = s.Game.Seed
	}
	if s.Game.StartHour != 0 {
		cfg.StartMinute = s.Game.StartHour * 60
	}

	if s.Market.InitialMid > 0 {
		cfg.Market.InitialMid = s.Market.InitialMid
	}
	if s.Market.Volatility > 0 {
		cfg.Market.Volatility = s.Market.Volatility
	}
	if s.Market.Drift != 0 {
		cfg.Market.Drift = s.Market.Drift
	}
	if s.Market.BaseSpread > 0 {
		cfg.Market.BaseSpread = s.Market.BaseSpread
	}

	if s.Impact.Enabled != nil {
		cfg.Market.Impact.Enabled = *s.Impact.Enabled
	}
	if s.Impact.HalfLifeMs > 0 {
		cfg.Market.Impact.HalfLife = time.Duration(s.Impact.HalfLifeMs) * time.Millisecond
	}
	if s.Impact.MaxImpactPips > 0 {
		cfg.Market.Impact.MaxImpactPips = s.Impact.MaxImpactPips
	}
	if s.Impact.SizeScaleFactor > 0 {
		cfg.Market.Impact.SizeScaleFactor = s.Impact.SizeScaleFactor
	}
	if s.Impact.BurstWindowMs > 0 {
		cfg.Market.Impact.BurstWindow = time.Duration(s.Impact.BurstWindowMs) * time.Millisecond
	}
	if s.Impact.BurstMultiplierMax > 0 {
		cfg.Market.Impact.BurstMultiplierMax = s.Impact.BurstMultiplierMax
	}
	if s.Impact.MaxBanks > 0 {
		cfg.Market.Impact.MaxBanks = s.Impact.MaxBanks
	}

	if s.News.Releases != nil {
		cfg.News.ReleasesEnabled = *s.News.Releases
	}
	if s.News.Headlines != nil {
		cfg.News.NewsEnabled = *s.News.Headlines
	}
	if s.News.ChancePerMinute > 0 {
		cfg.News.NewsChancePerMinute = s.News.ChancePerMinute
	}
	if s.News.MinSpacingMinutes > 0 {
		cfg.News.MinNewsSpacingMinutes = s.News.MinSpacingMinutes
	}
	if s.News.ReleaseDelayMinMinutes > 0 {
		cfg.News.ReleaseDelayMinMinutes = s.News.ReleaseDelayMinMinutes
	}
	if s.News.ReleaseDelayMaxMinutes > 0 {
		cfg.News.ReleaseDelayMaxMinutes = s.News.ReleaseDelayMaxMinutes
	}

	if s.Rfq.MaxSpreadFromMarketPips > 0 {
		cfg.Voice.MaxSpreadFromMarketPips = s.Rfq.MaxSpreadFromMarketPips
	}
	if s.Rfq.MaxElectronicRfqs > 0 {
		cfg.Electronic.MaxActiveRfqs = s.Rfq.MaxElectronicRfqs
	}
	return cfg
}
