// Package config loads the settings of a reconciliation run.
//
// Load(path) reads an optional YAML file, fills unset fields with the
// defaults of the Swedish 2015-2021 analysis, then applies MORTALITY_*
// environment overrides. Validate checks the result; the population baseline
// is handed to the reconciler as an immutable stats.PopulationSeries.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/anrid/mortality-stats/pkg/stats"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "MORTALITY"

// Default values applied when fields are absent from the config file.
const (
	DefaultWorkbook = "CovidDeathsSweden.xlsx"
	DefaultCountry  = "SWE"
	DefaultOutput   = "text"
	DefaultYMin     = 85000
	DefaultYMax     = 115000
	DefaultWidth    = 40
)

// Config is the full configuration of a run.
type Config struct {
	// Workbook is the path of the .xlsx or .xls file with the mortality sheets.
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK" validate:"required"`

	// Country prefixes chart titles.
	Country string `yaml:"country" envconfig:"COUNTRY" validate:"required"`

	// Output is one of: text | json | dump.
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=text json dump"`

	// Population maps a year to its population; null marks the single
	// trailing year that is estimated by linear extrapolation.
	Population map[int]*int64 `yaml:"population" ignored:"true" validate:"min=2"`

	// Annual is the sheet of deaths per day (or any period) and year.
	Annual SheetConfig `yaml:"annual" ignored:"true"`

	// Weekly is the optional sheet of deaths per week and year.
	Weekly *SheetConfig `yaml:"weekly" ignored:"true" validate:"omitempty"`

	Chart   ChartConfig   `yaml:"chart" ignored:"true"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// SheetConfig describes one mortality sheet.
type SheetConfig struct {
	Sheet    string `yaml:"sheet" validate:"required"`
	SkipRows int    `yaml:"skip_rows" validate:"gte=0"`
	Label    string `yaml:"label" validate:"required"`
	Years    []int  `yaml:"years" validate:"min=1,dive,gte=1800,lte=2200"`

	// CurrentYear is the incomplete year column. Zero means the last column.
	CurrentYear int `yaml:"current_year"`

	// Cutoff is the first row of the current year that is not observed yet.
	// Unset means right after the last non-blank row.
	Cutoff *int `yaml:"cutoff" validate:"omitempty,gte=0"`

	// Impute fills the current year from Cutoff with the previous year's mean.
	// When false the rows are only blanked. Defaults to true for the annual
	// sheet and false for the weekly one.
	Impute *bool `yaml:"impute"`

	// BlankAsZero reads empty cells of every year but the current one as 0.
	BlankAsZero bool `yaml:"blank_as_zero"`

	MissingMarkers []string `yaml:"missing_markers"`
	ExcludePeriods []string `yaml:"exclude_periods"`
}

type ChartConfig struct {
	YMin  float64 `yaml:"y_min"`
	YMax  float64 `yaml:"y_max"`
	Width int     `yaml:"width" validate:"gte=0,lte=200"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

var validate = validator.New()

// Load reads the YAML file at path, when path is not empty, then applies
// defaults and environment overrides. Call Validate before using the result.
func Load(path string) (*Config, error) {
	var cfg *Config

	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}

		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
		applyDefaults(cfg)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration of the Swedish 2015-2021 analysis, with
// population figures from Statistics Sweden and 2021 left to be estimated.
func Default() *Config {
	cfg := &Config{Weekly: &SheetConfig{}}
	applyDefaults(cfg)
	return cfg
}

// sheetDefaults are the values of an omitted sheet field. SkipRows and
// Cutoff describe the layout of one particular sheet, so they only apply
// when the sheet name is defaulted too.
type sheetDefaults struct {
	sheet    string
	skipRows int
	label    string
	cutoff   int
	impute   bool
}

var (
	annualDefaults = sheetDefaults{sheet: "Tabell 1", skipRows: 7, label: "Date", cutoff: 30, impute: true}
	weeklyDefaults = sheetDefaults{sheet: "Tabell 5", skipRows: 11, label: "Week", cutoff: 4}
)

func applyDefaults(cfg *Config) {
	if cfg.Workbook == "" {
		cfg.Workbook = DefaultWorkbook
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Population == nil {
		cfg.Population = map[int]*int64{
			2015: int64Ptr(9851017),
			2016: int64Ptr(9995153),
			2017: int64Ptr(10120242),
			2018: int64Ptr(10230185),
			2019: int64Ptr(10327589),
			2020: int64Ptr(10379295),
			2021: nil,
		}
	}
	cfg.Annual.applyDefaults(annualDefaults)
	if cfg.Weekly != nil {
		cfg.Weekly.applyDefaults(weeklyDefaults)
	}
	if cfg.Chart.YMin == 0 && cfg.Chart.YMax == 0 {
		cfg.Chart.YMin = DefaultYMin
		cfg.Chart.YMax = DefaultYMax
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = DefaultWidth
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// applyDefaults fills the fields the file left out. An explicitly empty
// list (e.g. missing_markers: []) is kept.
func (s *SheetConfig) applyDefaults(d sheetDefaults) {
	if s.Sheet == "" {
		s.Sheet = d.sheet
		if s.SkipRows == 0 {
			s.SkipRows = d.skipRows
		}
		if s.Cutoff == nil {
			s.Cutoff = intPtr(d.cutoff)
		}
	}
	if s.Label == "" {
		s.Label = d.label
	}
	if s.Years == nil {
		s.Years = defaultYears()
	}
	if s.Impute == nil {
		s.Impute = boolPtr(d.impute)
	}
	if s.MissingMarkers == nil {
		s.MissingMarkers = []string{".."}
	}
}

// Validate checks required fields, enums and the layout of the sheets.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Annual.check("annual"); err != nil {
		return err
	}
	if c.Weekly != nil {
		if err := c.Weekly.check("weekly"); err != nil {
			return err
		}
	}
	if c.Chart.YMax < c.Chart.YMin {
		return fmt.Errorf("config: chart.y_max %.f is below chart.y_min %.f", c.Chart.YMax, c.Chart.YMin)
	}
	return nil
}

func (s *SheetConfig) check(name string) error {
	for i := 1; i < len(s.Years); i++ {
		if s.Years[i] <= s.Years[i-1] {
			return fmt.Errorf("config: %s.years must be ascending and unique, got %v", name, s.Years)
		}
	}
	if s.CurrentYear != 0 {
		found := false
		for _, y := range s.Years {
			found = found || y == s.CurrentYear
		}
		if !found {
			return fmt.Errorf("config: %s.current_year %d is not one of %v", name, s.CurrentYear, s.Years)
		}
	}
	if s.Imputes() && s.currentYear() == s.Years[0] {
		return fmt.Errorf("config: %s.current_year %d has no previous year to impute from", name, s.currentYear())
	}
	return nil
}

// PopulationSeries returns the population baseline ordered by year.
func (c *Config) PopulationSeries() stats.PopulationSeries {
	years := make([]int, 0, len(c.Population))
	for y := range c.Population {
		years = append(years, y)
	}
	sort.Ints(years)

	series := make(stats.PopulationSeries, 0, len(years))
	for _, y := range years {
		if count := c.Population[y]; count != nil {
			series = append(series, stats.Known(y, *count))
		} else {
			series = append(series, stats.Unknown(y))
		}
	}
	return series
}

// Spec returns where and how to read the sheet.
func (s *SheetConfig) Spec() stats.SheetSpec {
	return stats.SheetSpec{
		Sheet:          s.Sheet,
		SkipRows:       s.SkipRows,
		Label:          s.Label,
		Years:          append([]int(nil), s.Years...),
		MissingMarkers: append([]string(nil), s.MissingMarkers...),
		ExcludePeriods: append([]string(nil), s.ExcludePeriods...),
		BlankAsZero:    s.BlankAsZero,
		CurrentYear:    s.currentYear(),
	}
}

// Imputes reports whether the current year is imputed rather than only
// blanked from Cutoff.
func (s *SheetConfig) Imputes() bool {
	return s.Impute != nil && *s.Impute
}

// Policy returns the imputation rule for the current year column.
func (s *SheetConfig) Policy() stats.ImputationPolicy {
	p := stats.ImputationPolicy{CurrentYear: s.currentYear(), Cutoff: stats.AutoCutoff}
	if s.Cutoff != nil {
		p.Cutoff = *s.Cutoff
	}
	return p
}

func (s *SheetConfig) currentYear() int {
	if s.CurrentYear != 0 || len(s.Years) == 0 {
		return s.CurrentYear
	}
	return s.Years[len(s.Years)-1]
}

func defaultYears() []int {
	return []int{2015, 2016, 2017, 2018, 2019, 2020, 2021}
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
