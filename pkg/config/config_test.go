package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anrid/mortality-stats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Default(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultWorkbook, cfg.Workbook)
	assert.Equal(t, "SWE", cfg.Country)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "Tabell 1", cfg.Annual.Sheet)
	assert.Equal(t, 7, cfg.Annual.SkipRows)
	assert.Equal(t, stats.ImputationPolicy{CurrentYear: 2021, Cutoff: 30}, cfg.Annual.Policy())

	require.NotNil(t, cfg.Weekly)
	assert.Equal(t, "Tabell 5", cfg.Weekly.Sheet)
	assert.Equal(t, 11, cfg.Weekly.SkipRows)
	assert.Equal(t, 4, *cfg.Weekly.Cutoff)

	pop := cfg.PopulationSeries()
	require.Len(t, pop, 7)
	assert.Equal(t, stats.Known(2015, 9851017), pop[0])
	assert.Equal(t, stats.Unknown(2021), pop[6])

	assert.Equal(t, 85000.0, cfg.Chart.YMin)
	assert.Equal(t, 115000.0, cfg.Chart.YMax)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
workbook: /data/deaths.xlsx
country: NOR
output: json
population:
  2019: 5328212
  2020: 5367580
  2021: null
annual:
  sheet: Deaths
  skip_rows: 2
  label: Day
  years: [2019, 2020, 2021]
  impute: true
  exclude_periods: ["Unknown"]
chart:
  width: 20
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/deaths.xlsx", cfg.Workbook)
	assert.Equal(t, "NOR", cfg.Country)
	assert.Equal(t, "json", cfg.Output)
	assert.Nil(t, cfg.Weekly, "weekly sheet only when configured")

	assert.Equal(t, stats.PopulationSeries{
		stats.Known(2019, 5328212),
		stats.Known(2020, 5367580),
		stats.Unknown(2021),
	}, cfg.PopulationSeries())

	assert.Equal(t, stats.SheetSpec{
		Sheet:          "Deaths",
		SkipRows:       2,
		Label:          "Day",
		Years:          []int{2019, 2020, 2021},
		MissingMarkers: []string{".."},
		ExcludePeriods: []string{"Unknown"},
		CurrentYear:    2021,
	}, cfg.Annual.Spec())
	assert.Equal(t, stats.ImputationPolicy{CurrentYear: 2021, Cutoff: stats.AutoCutoff}, cfg.Annual.Policy())

	// Defaults fill what the file leaves out.
	assert.Equal(t, 20, cfg.Chart.Width)
	assert.Equal(t, float64(DefaultYMin), cfg.Chart.YMin)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_PartialSheet(t *testing.T) {
	path := writeConfig(t, `
annual:
  cutoff: 10
  exclude_periods: ["Okänd dödsdag"]
  blank_as_zero: true
weekly:
  label: Vecka
  missing_markers: []
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, stats.SheetSpec{
		Sheet:          "Tabell 1",
		SkipRows:       7,
		Label:          "Date",
		Years:          []int{2015, 2016, 2017, 2018, 2019, 2020, 2021},
		MissingMarkers: []string{".."},
		ExcludePeriods: []string{"Okänd dödsdag"},
		BlankAsZero:    true,
		CurrentYear:    2021,
	}, cfg.Annual.Spec())
	assert.Equal(t, stats.ImputationPolicy{CurrentYear: 2021, Cutoff: 10}, cfg.Annual.Policy())
	assert.True(t, cfg.Annual.Imputes())

	require.NotNil(t, cfg.Weekly)
	assert.Equal(t, "Tabell 5", cfg.Weekly.Sheet)
	assert.Equal(t, 11, cfg.Weekly.SkipRows)
	assert.Equal(t, "Vecka", cfg.Weekly.Label)
	assert.Equal(t, 4, *cfg.Weekly.Cutoff)
	assert.Empty(t, cfg.Weekly.MissingMarkers)
	assert.False(t, cfg.Weekly.Imputes())
}

func TestLoad_OwnSheetKeepsLayout(t *testing.T) {
	path := writeConfig(t, `
annual:
  sheet: Deaths
  impute: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Layout defaults belong to Tabell 1 and are not applied to another sheet.
	assert.Equal(t, 0, cfg.Annual.SkipRows)
	assert.Nil(t, cfg.Annual.Cutoff)
	assert.False(t, cfg.Annual.Imputes())
	assert.Nil(t, cfg.Weekly)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MORTALITY_WORKBOOK", "/tmp/other.xls")
	t.Setenv("MORTALITY_OUTPUT", "dump")
	t.Setenv("MORTALITY_LOG_LEVEL", "warn")
	t.Setenv("MORTALITY_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/other.xls", cfg.Workbook)
	assert.Equal(t, "dump", cfg.Output)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read file")

	_, err = Load(writeConfig(t, "population: [oops"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown output", func(c *Config) { c.Output = "pdf" }, "Output"},
		{"no workbook", func(c *Config) { c.Workbook = "" }, "Workbook"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"one population year", func(c *Config) { c.Population = map[int]*int64{2021: nil} }, "Population"},
		{"no sheet name", func(c *Config) { c.Annual.Sheet = "" }, "Sheet"},
		{"negative skip", func(c *Config) { c.Annual.SkipRows = -1 }, "SkipRows"},
		{"years out of order", func(c *Config) { c.Annual.Years = []int{2020, 2019} }, "ascending"},
		{"current year not a column", func(c *Config) { c.Annual.CurrentYear = 2030 }, "current_year"},
		{"nothing to impute from", func(c *Config) { c.Annual.CurrentYear = 2015 }, "no previous year"},
		{"weekly checked too", func(c *Config) { c.Weekly.Years = nil }, "Years"},
		{"chart limits", func(c *Config) { c.Chart.YMin, c.Chart.YMax = 10, 5 }, "y_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ExampleMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	def := Default()
	assert.Equal(t, def.Workbook, cfg.Workbook)
	assert.Equal(t, def.PopulationSeries(), cfg.PopulationSeries())
	assert.Equal(t, def.Annual.Spec(), cfg.Annual.Spec())
	assert.Equal(t, def.Annual.Policy(), cfg.Annual.Policy())
	assert.Equal(t, def.Weekly.Spec(), cfg.Weekly.Spec())
	assert.Equal(t, *def.Weekly.Cutoff, *cfg.Weekly.Cutoff)
	assert.Equal(t, def.Chart, cfg.Chart)
	assert.Equal(t, def.Logging, cfg.Logging)
}
