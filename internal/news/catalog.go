package news

// ReleaseType describes one economic data series. BaseImpactPips is
// signed per series: positive surprises on US data strengthen the
// dollar (EUR/USD down) while EU-side series and jobless claims carry
// the inverse sign. The sign conventions are part of the catalog, not
// a derivable rule.
type ReleaseType struct {
	ID              string
	Name            string
	ShortName       string
	Country         string // "US" or "EU"
	ExpectedMin     float64
	ExpectedMax     float64
	SurpriseMin     float64
	SurpriseMax     float64
	Unit            string
	BaseImpactPips  float64 // impact per unit of surprise, signed
	DriftPips       float64
	DriftMinutes    int
	VolatilityBoost float64
}

// ReleaseCatalog is the fixed roster of schedulable releases.
var ReleaseCatalog = []ReleaseType{
	{
		ID: "NFP", Name: "US Non-Farm Payrolls", ShortName: "NFP", Country: "US",
		ExpectedMin: 150, ExpectedMax: 250, SurpriseMin: -50, SurpriseMax: 50,
		Unit: "k", BaseImpactPips: 0.3, DriftPips: 10, DriftMinutes: 30, VolatilityBoost: 0.8,
	},
	{
		ID: "CPI", Name: "US Consumer Price Index", ShortName: "CPI", Country: "US",
		ExpectedMin: 2.5, ExpectedMax: 4.0, SurpriseMin: -0.3, SurpriseMax: 0.3,
		Unit: "%", BaseImpactPips: 30, DriftPips: 15, DriftMinutes: 20, VolatilityBoost: 0.7,
	},
	{
		ID: "PMI", Name: "US ISM Manufacturing PMI", ShortName: "PMI", Country: "US",
		ExpectedMin: 48, ExpectedMax: 55, SurpriseMin: -3, SurpriseMax: 3,
		Unit: "", BaseImpactPips: 3, DriftPips: 5, DriftMinutes: 15, VolatilityBoost: 0.4,
	},
	{
		ID: "RETAIL", Name: "US Retail Sales", ShortName: "Retail", Country: "US",
		ExpectedMin: -0.5, ExpectedMax: 1.0, SurpriseMin: -0.5, SurpriseMax: 0.5,
		Unit: "%", BaseImpactPips: 15, DriftPips: 8, DriftMinutes: 15, VolatilityBoost: 0.5,
	},
	{
		// Higher claims mean a weaker dollar, hence the negative sign.
		ID: "CLAIMS", Name: "US Initial Jobless Claims", ShortName: "Claims", Country: "US",
		ExpectedMin: 200, ExpectedMax: 280, SurpriseMin: -20, SurpriseMax: 20,
		Unit: "k", BaseImpactPips: -0.2, DriftPips: 3, DriftMinutes: 10, VolatilityBoost: 0.3,
	},
	{
		ID: "GDP", Name: "US GDP Growth", ShortName: "GDP", Country: "US",
		ExpectedMin: 1.5, ExpectedMax: 3.5, SurpriseMin: -0.5, SurpriseMax: 0.5,
		Unit: "%", BaseImpactPips: 20, DriftPips: 12, DriftMinutes: 25, VolatilityBoost: 0.6,
	},
	{
		ID: "FOMC", Name: "FOMC Interest Rate Decision", ShortName: "FOMC", Country: "US",
		ExpectedMin: 4.5, ExpectedMax: 5.5, SurpriseMin: -0.25, SurpriseMax: 0.25,
		Unit: "%", BaseImpactPips: 80, DriftPips: 20, DriftMinutes: 60, VolatilityBoost: 1.0,
	},
	{
		ID: "EU_CPI", Name: "Eurozone CPI", ShortName: "EU CPI", Country: "EU",
		ExpectedMin: 2.0, ExpectedMax: 3.5, SurpriseMin: -0.2, SurpriseMax: 0.2,
		Unit: "%", BaseImpactPips: -25, DriftPips: 10, DriftMinutes: 20, VolatilityBoost: 0.5,
	},
	{
		ID: "EU_PMI", Name: "Eurozone Manufacturing PMI", ShortName: "EU PMI", Country: "EU",
		ExpectedMin: 45, ExpectedMax: 52, SurpriseMin: -2, SurpriseMax: 2,
		Unit: "", BaseImpactPips: -2, DriftPips: 4, DriftMinutes: 15, VolatilityBoost: 0.3,
	},
	{
		ID: "ECB", Name: "ECB Interest Rate Decision", ShortName: "ECB", Country: "EU",
		ExpectedMin: 3.5, ExpectedMax: 4.5, SurpriseMin: -0.25, SurpriseMax: 0.25,
		Unit: "%", BaseImpactPips: -70, DriftPips: 18, DriftMinutes: 45, VolatilityBoost: 0.9,
	},
}

// HeadlineTemplate is a random news story. MinHour/MaxHour bound the
// game hours in which the story is plausible; zero values mean no
// bound.
type HeadlineTemplate struct {
	Headline        string
	Direction       Direction
	ImmediatePips   float64
	DriftPips       float64
	DriftMinutes    int
	VolatilityBoost float64
	MinHour         int
	MaxHour         int
}

// HeadlineCatalog is the fixed pool of random headlines.
var HeadlineCatalog = []HeadlineTemplate{
	{Headline: "Fed Chair signals hawkish stance on inflation", Direction: Bearish,
		ImmediatePips: 12, DriftPips: 8, DriftMinutes: 15, VolatilityBoost: 0.4, MinHour: 9, MaxHour: 17},
	{Headline: "US Treasury yields surge on strong economic data", Direction: Bearish,
		ImmediatePips: 8, DriftPips: 5, DriftMinutes: 10, VolatilityBoost: 0.3},
	{Headline: "Risk-off sentiment drives safe-haven flows to USD", Direction: Bearish,
		ImmediatePips: 10, DriftPips: 6, DriftMinutes: 12, VolatilityBoost: 0.5},
	{Headline: "US fiscal outlook improves, dollar rallies", Direction: Bearish,
		ImmediatePips: 6, DriftPips: 4, DriftMinutes: 10, VolatilityBoost: 0.2},
	{Headline: "Fed officials hint at prolonged higher rates", Direction: Bearish,
		ImmediatePips: 9, DriftPips: 6, DriftMinutes: 15, VolatilityBoost: 0.4, MinHour: 10, MaxHour: 16},
	{Headline: "ECB signals further rate hikes ahead", Direction: Bullish,
		ImmediatePips: 11, DriftPips: 7, DriftMinutes: 15, VolatilityBoost: 0.4, MinHour: 4, MaxHour: 12},
	{Headline: "Eurozone economic outlook improves", Direction: Bullish,
		ImmediatePips: 7, DriftPips: 5, DriftMinutes: 12, VolatilityBoost: 0.3},
	{Headline: "Fed dovish pivot speculation grows", Direction: Bullish,
		ImmediatePips: 10, DriftPips: 7, DriftMinutes: 15, VolatilityBoost: 0.5},
	{Headline: "US debt ceiling concerns weigh on dollar", Direction: Bullish,
		ImmediatePips: 8, DriftPips: 5, DriftMinutes: 12, VolatilityBoost: 0.4},
	{Headline: "European energy crisis fears ease", Direction: Bullish,
		ImmediatePips: 6, DriftPips: 4, DriftMinutes: 10, VolatilityBoost: 0.2},
	{Headline: "Risk appetite returns, USD safe-haven bid fades", Direction: Bullish,
		ImmediatePips: 7, DriftPips: 4, DriftMinutes: 10, VolatilityBoost: 0.3},
	{Headline: "ECB Lagarde strikes hawkish tone", Direction: Bullish,
		ImmediatePips: 9, DriftPips: 6, DriftMinutes: 12, VolatilityBoost: 0.4, MinHour: 5, MaxHour: 14},
}
