package pipeline

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Defaults for Config.
const (
	// DeviationRatio is the wage ratio above which a claim is flagged as a high wage deviation.
	DeviationRatio = 1.5
	// WinsorQuantile is the quantile at which the delay column is capped.
	WinsorQuantile = 0.99
	// WageEpsilon is added to the benchmark before dividing.
	WageEpsilon = 1e-5
	// TenureDaysPerYear converts a day count to years.
	TenureDaysPerYear = 365.25
	// TenureUnknown marks a tenure whose dates did not parse.
	TenureUnknown = -1.0
	// UnreliableThreshold is the reliability below which a claim is labeled unreliable.
	UnreliableThreshold = 0.95
	// TrimLower and TrimUpper are the target quantiles outside of which rows are trimmed before labeling.
	TrimLower       = 0.025
	TrimUpper       = 0.975
	MissingSuffix   = "_missing"
	UnknownCategory = "Unknown"
)

// Column names in the claims and reference tables.
const (
	ColAnnualLeave     = "Annual Leave Reliability"
	ColLongService     = "Long Service Leave Reliability"
	ColWages           = "Wages Reliability"
	ColCommencement    = "IP Commencement Date"
	ColTermination     = "IP Termination Date"
	ColWeeklyWage      = "IP Weekly Wage"
	ColIndustry        = "Industry"
	ColBenchmark       = "ABS_Average_Weekly_Wage"
	ColTenure          = "IP_Tenure_Years"
	ColWageRatio       = "IP_Wage_to_ABS_Ratio"
	ColHighDeviation   = "Flag_High_Wage_Deviation"
	ColDelay           = "Days Between IP Verified Data Request and Received Date"
	ColUnreliable      = "Unreliable"
	defaultConfigLabel = "default"
)

// Config holds the column names and thresholds used by the stages.
type Config struct {
	Targets []string `toml:"targets"`

	Commencement      string  `toml:"commencement"`
	Termination       string  `toml:"termination"`
	Tenure            string  `toml:"tenure"`
	TenureDaysPerYear float64 `toml:"tenure_days_per_year"`
	TenureUnknown     float64 `toml:"tenure_unknown"`

	Industry       string  `toml:"industry"`
	WeeklyWage     string  `toml:"weekly_wage"`
	Benchmark      string  `toml:"benchmark"`
	WageRatio      string  `toml:"wage_ratio"`
	HighDeviation  string  `toml:"high_deviation"`
	WageEpsilon    float64 `toml:"wage_epsilon"`
	DeviationRatio float64 `toml:"deviation_ratio"`

	Leakage []string `toml:"leakage"`

	Delay          string  `toml:"delay"`
	WinsorQuantile float64 `toml:"winsor_quantile"`

	MissingSuffix   string `toml:"missing_suffix"`
	UnknownCategory string `toml:"unknown_category"`

	Unreliable          string  `toml:"unreliable"`
	UnreliableThreshold float64 `toml:"unreliable_threshold"`
	TrimLower           float64 `toml:"trim_lower"`
	TrimUpper           float64 `toml:"trim_upper"`

	// source is the file the config was read from
	source string
}

// Leakage is the list of columns that carry outcome information unavailable at prediction time.
func Leakage() []string {
	return []string{
		"Claim ID", "Claim Type", "Claim Form Received Date", "Claimant Age", "Service Years At Appointment",
		"Job Title", "Job Duty Description", "Claimant Confident of Amounts Owed",
		"Information Held About Owed Entitlements", "Claimant Commencement Date", "Claimant Termination Date",
		"Claimant Weekly Wage", "Claimant Annual Leave", "Claimant Wages",
		"CM Recommended Employment Type", "CM Recommended Weekly Wage", "CM Recommended Commencement Date",
		"CM Recommended Termination Date", "CM Recommended Annual Leave", "CM Recommended Long Service Leave",
		"CM Recommended Wages",
		ColCommencement, ColTermination,
	}
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		Targets:             []string{ColAnnualLeave, ColLongService, ColWages},
		Commencement:        ColCommencement,
		Termination:         ColTermination,
		Tenure:              ColTenure,
		TenureDaysPerYear:   TenureDaysPerYear,
		TenureUnknown:       TenureUnknown,
		Industry:            ColIndustry,
		WeeklyWage:          ColWeeklyWage,
		Benchmark:           ColBenchmark,
		WageRatio:           ColWageRatio,
		HighDeviation:       ColHighDeviation,
		WageEpsilon:         WageEpsilon,
		DeviationRatio:      DeviationRatio,
		Leakage:             Leakage(),
		Delay:               ColDelay,
		WinsorQuantile:      WinsorQuantile,
		MissingSuffix:       MissingSuffix,
		UnknownCategory:     UnknownCategory,
		Unreliable:          ColUnreliable,
		UnreliableThreshold: UnreliableThreshold,
		TrimLower:           TrimLower,
		TrimUpper:           TrimUpper,
		source:              defaultConfigLabel,
	}
}

// LoadConfig reads a TOML file over the defaults. Keys the file sets replace the default; unknown keys
// are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	var (
		md toml.MetaData
		e  error
	)
	if md, e = toml.DecodeFile(path, cfg); e != nil {
		return nil, fmt.Errorf("config %s: %w", path, e)
	}

	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, und)
	}

	cfg.source = path

	if e = cfg.Validate(); e != nil {
		return nil, fmt.Errorf("config %s: %w", path, e)
	}

	return cfg, nil
}

// Validate checks that names are set and thresholds are in range.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("no targets")
	}

	names := map[string]string{
		"commencement":     c.Commencement,
		"termination":      c.Termination,
		"tenure":           c.Tenure,
		"industry":         c.Industry,
		"weekly_wage":      c.WeeklyWage,
		"benchmark":        c.Benchmark,
		"wage_ratio":       c.WageRatio,
		"high_deviation":   c.HighDeviation,
		"delay":            c.Delay,
		"missing_suffix":   c.MissingSuffix,
		"unknown_category": c.UnknownCategory,
		"unreliable":       c.Unreliable,
	}
	for k, v := range names {
		if v == "" {
			return fmt.Errorf("%s is empty", k)
		}
	}

	switch {
	case c.WinsorQuantile <= 0 || c.WinsorQuantile > 1:
		return fmt.Errorf("winsor_quantile %v not in (0,1]", c.WinsorQuantile)
	case c.UnreliableThreshold < 0 || c.UnreliableThreshold > 1:
		return fmt.Errorf("unreliable_threshold %v not in [0,1]", c.UnreliableThreshold)
	case c.TrimLower < 0 || c.TrimUpper > 1 || c.TrimLower >= c.TrimUpper:
		return fmt.Errorf("trim quantiles [%v, %v] must satisfy 0 <= trim_lower < trim_upper <= 1", c.TrimLower, c.TrimUpper)
	case c.TenureDaysPerYear <= 0:
		return fmt.Errorf("tenure_days_per_year must be positive")
	case c.DeviationRatio <= 0:
		return fmt.Errorf("deviation_ratio must be positive")
	case c.WageEpsilon < 0:
		return fmt.Errorf("wage_epsilon must be non-negative")
	}

	return nil
}

// Source is the file the config was read from, "default" if none.
func (c *Config) Source() string {
	return c.source
}
